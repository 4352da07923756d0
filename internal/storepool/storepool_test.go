// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package storepool

import (
	"testing"

	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/edgehash"
)

func sampleText() *charset.Text {
	return charset.New([]uint32{'a', 'b', 'c'}, charset.ASCII)
}

func TestLLPoolReusesSameText(t *testing.T) {
	pool := NewLLPool(false)
	text := sampleText()

	s1 := pool.Get(text)
	pool.Put(s1)

	s2 := pool.Get(text)
	if s2 != s1 {
		t.Error("Get did not reuse the pooled store for the same text")
	}

	live, total := pool.Stats()
	if live != 1 {
		t.Errorf("live = %d, want 1", live)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1 (only the first Get should count as a fresh allocation)", total)
	}
}

func TestLLPoolAllocatesFreshForDifferentText(t *testing.T) {
	pool := NewLLPool(false)
	textA := sampleText()
	textB := sampleText()

	sA := pool.Get(textA)
	pool.Put(sA)

	sB := pool.Get(textB)
	if sB == sA {
		t.Error("Get reused a store bound to a different text")
	}

	_, total := pool.Stats()
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
}

func TestLLPoolNilIsHarmless(t *testing.T) {
	var pool *LLPool
	s := pool.Get(sampleText())
	if s == nil {
		t.Fatal("nil pool must still allocate a usable store")
	}
	pool.Put(s)

	live, total := pool.Stats()
	if live != 0 || total != 0 {
		t.Errorf("nil pool should report zero stats, got live=%d total=%d", live, total)
	}
}

func TestHTPoolReusesSameText(t *testing.T) {
	pool := NewHTPool(false, edgehash.Cuckoo, 8)
	text := sampleText()

	s1 := pool.Get(text)
	pool.Put(s1)

	s2 := pool.Get(text)
	if s2 != s1 {
		t.Error("Get did not reuse the pooled store for the same text")
	}

	live, total := pool.Stats()
	if live != 1 || total != 1 {
		t.Errorf("live=%d total=%d, want 1, 1", live, total)
	}
}

func TestHTPoolLiveCountTracksCheckouts(t *testing.T) {
	pool := NewHTPool(false, edgehash.Cuckoo, 8)
	text := sampleText()

	s1 := pool.Get(text)
	s2 := pool.Get(sampleText())

	if live, _ := pool.Stats(); live != 2 {
		t.Fatalf("live = %d, want 2 with two outstanding checkouts", live)
	}

	pool.Put(s1)
	pool.Put(s2)

	if live, _ := pool.Stats(); live != 0 {
		t.Fatalf("live = %d, want 0 after returning both", live)
	}
}

func TestHTPoolNilIsHarmless(t *testing.T) {
	var pool *HTPool
	s := pool.Get(sampleText())
	if s == nil {
		t.Fatal("nil pool must still allocate a usable store")
	}
	pool.Put(s)

	live, total := pool.Stats()
	if live != 0 || total != 0 {
		t.Errorf("nil pool should report zero stats, got live=%d total=%d", live, total)
	}
}
