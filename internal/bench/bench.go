// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package bench times and logs the construct/traverse/delete phases of a
// benchmark run, reporting both wall-clock duration and, where a store
// can report it, the bytes actually in use versus the bytes its backing
// arrays have reserved (Open Question (c): construction growth always
// overshoots by at least one growth step, and that headroom is itself
// something worth reporting, not hidden inside a single "bytes" figure).
package bench

import (
	"time"

	"github.com/rs/zerolog"
)

// PhaseResult records one phase's outcome.
type PhaseResult struct {
	Name            string
	Duration        time.Duration
	BytesUsed       uint64
	BytesAllocated  uint64
	HasMemoryReport bool
}

// Report is the full sequence of phases run by a Runner.
type Report struct {
	Phases []PhaseResult
}

// Runner times and logs phases in order, via a zerolog.Logger matching
// the rest of this module's ambient logging.
type Runner struct {
	logger zerolog.Logger
	phases []PhaseResult
}

// NewRunner creates a Runner that logs through logger.
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Time runs fn as a phase with no memory accounting — used for
// operations like traversal where "bytes used" isn't a meaningful
// per-phase figure.
func (r *Runner) Time(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	dur := time.Since(start)

	if err != nil {
		r.logger.Error().Str("phase", name).Err(err).Dur("elapsed", dur).Msg("phase failed")
		return err
	}

	r.phases = append(r.phases, PhaseResult{Name: name, Duration: dur})
	r.logger.Info().Str("phase", name).Dur("elapsed", dur).Msg("phase complete")
	return nil
}

// Memory runs fn as a phase that additionally reports its store's used
// and allocated byte counts.
func (r *Runner) Memory(name string, fn func() (usedBytes, allocatedBytes uint64, err error)) error {
	start := time.Now()
	used, allocated, err := fn()
	dur := time.Since(start)

	if err != nil {
		r.logger.Error().Str("phase", name).Err(err).Dur("elapsed", dur).Msg("phase failed")
		return err
	}

	r.phases = append(r.phases, PhaseResult{
		Name: name, Duration: dur,
		BytesUsed: used, BytesAllocated: allocated, HasMemoryReport: true,
	})
	r.logger.Info().Str("phase", name).Dur("elapsed", dur).
		Uint64("bytes_used", used).Uint64("bytes_allocated", allocated).
		Msg("phase complete")
	return nil
}

// Report snapshots every phase run so far.
func (r *Runner) Report() Report {
	return Report{Phases: append([]PhaseResult(nil), r.phases...)}
}
