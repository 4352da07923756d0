// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package buildfail implements the typed error taxonomy of the
// construction pipeline: configuration mistakes, I/O failures, allocation
// exhaustion, invariant violations caught mid-build, and the logic errors
// a correct builder should never trigger. Every error bubbles to the
// driver unchanged; construction never swallows a failure to keep going.
package buildfail

import "fmt"

// Kind classifies a build failure for callers that branch on exit code.
type Kind int

const (
	ConfigError Kind = iota
	IoError
	OutOfMemory
	BuildInvariantViolation
	BuildLogicError
)

func (k Kind) String() string {
	switch k {
	case ConfigError:
		return "ConfigError"
	case IoError:
		return "IoError"
	case OutOfMemory:
		return "OutOfMemory"
	case BuildInvariantViolation:
		return "BuildInvariantViolation"
	case BuildLogicError:
		return "BuildLogicError"
	default:
		return "UnknownError"
	}
}

// Error is a typed, phase-tagged build failure.
type Error struct {
	Kind  Kind
	Phase string // e.g. "mccreight.linked", "pwotd.partition"
	Msg   string
	Node  string // offending node id(s), rendered, when applicable
	Err   error  // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s[%s]: %s (node=%s)", e.Kind, e.Phase, e.Msg, e.Node)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Phase, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a bare Error.
func New(kind Kind, phase, msg string) *Error {
	return &Error{Kind: kind, Phase: phase, Msg: msg}
}

// Newf constructs an Error with a formatted message.
func Newf(kind Kind, phase, format string, args ...any) *Error {
	return &Error{Kind: kind, Phase: phase, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a typed error.
func Wrap(kind Kind, phase string, err error) *Error {
	return &Error{Kind: kind, Phase: phase, Msg: err.Error(), Err: err}
}

// Invariant reports a BuildInvariantViolation naming the offending node.
func Invariant(phase, node, msg string) *Error {
	return &Error{Kind: BuildInvariantViolation, Phase: phase, Msg: msg, Node: node}
}

// OOM reports an OutOfMemory failure for a store growth attempt.
func OOM(phase, msg string) *Error {
	return &Error{Kind: OutOfMemory, Phase: phase, Msg: msg}
}

// As reports whether err (or a wrapped cause) is a *Error of kind k.
func As(err error, k Kind) bool {
	var be *Error
	for err != nil {
		if e, ok := err.(*Error); ok {
			be = e
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return be != nil && be.Kind == k
}
