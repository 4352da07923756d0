// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package storepool adapts the teacher's sync.Pool-of-nodes idiom
// (pool.go, multipool.go: a typed wrapper around sync.Pool tracking
// total-allocated and currently-live counts) to a coarser grain: instead
// of pooling individual nodes, it pools whole LL/HT store arenas so a
// benchmark harness running many construct/traverse/delete iterations
// over the same text can reuse backing arrays instead of paying a fresh
// allocation every run.
package storepool

import (
	"sync"
	"sync/atomic"

	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/edgehash"
	"github.com/pbasista/stc-sub000/internal/htstore"
	"github.com/pbasista/stc-sub000/internal/llstore"
)

// LLPool pools *llstore.Store instances for a fixed backward-pointer
// setting.
type LLPool struct {
	sync.Pool
	backward       bool
	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

// NewLLPool creates a pool whose stores are all either LL (backward
// false) or LL-BP (backward true).
func NewLLPool(backward bool) *LLPool {
	return &LLPool{backward: backward}
}

// Get returns a store bound to text, reusing a pooled one (reset in
// place) when its backing arrays were already sized for this exact text,
// or allocating fresh otherwise.
func (p *LLPool) Get(text *charset.Text) *llstore.Store {
	if p == nil {
		return llstore.New(text, false)
	}
	p.currentLive.Add(1)

	if v := p.Pool.Get(); v != nil {
		s := v.(*llstore.Store)
		if s.Text() == text {
			s.Reset()
			return s
		}
	}
	p.totalAllocated.Add(1)
	return llstore.New(text, p.backward)
}

// Put returns s to the pool.
func (p *LLPool) Put(s *llstore.Store) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1)
	p.Pool.Put(s)
}

// Stats reports the currently checked-out and lifetime-allocated counts.
func (p *LLPool) Stats() (live, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}

// HTPool pools *htstore.Store instances for a fixed backward-pointer
// setting and edge-hash configuration.
type HTPool struct {
	sync.Pool
	backward       bool
	resolution     edgehash.Resolution
	cuckooFns      int
	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

// NewHTPool creates a pool whose stores are all either HT (backward
// false) or HT-BP (backward true), using the given edge-hash strategy.
func NewHTPool(backward bool, resolution edgehash.Resolution, cuckooFns int) *HTPool {
	return &HTPool{backward: backward, resolution: resolution, cuckooFns: cuckooFns}
}

// Get returns a store bound to text, reusing a pooled one when possible.
func (p *HTPool) Get(text *charset.Text) *htstore.Store {
	if p == nil {
		return htstore.New(text, false, edgehash.Cuckoo, 0)
	}
	p.currentLive.Add(1)

	if v := p.Pool.Get(); v != nil {
		s := v.(*htstore.Store)
		if s.Text() == text {
			s.Reset(p.resolution, p.cuckooFns)
			return s
		}
	}
	p.totalAllocated.Add(1)
	return htstore.New(text, p.backward, p.resolution, p.cuckooFns)
}

// Put returns s to the pool.
func (p *HTPool) Put(s *htstore.Store) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1)
	p.Pool.Put(s)
}

// Stats reports the currently checked-out and lifetime-allocated counts.
func (p *HTPool) Stats() (live, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}
