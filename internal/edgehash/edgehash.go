// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package edgehash implements the open-address edge map (C3) backing the
// HT / HT-BP node stores: key (parent branching id, first char) -> child
// node id, with double hashing and cuckoo collision strategies and an
// explicit, size-adjusting, retry-bounded rehash. Occupancy is tracked
// with github.com/bits-and-blooms/bitset, the same library the teacher
// uses for its sparse child/prefix bitmaps (node.go's indexes/addrs
// fields), generalized here from "is this IP octet present" to "is this
// hash slot occupied".
package edgehash

import (
	"unsafe"

	"github.com/bits-and-blooms/bitset"

	"github.com/pbasista/stc-sub000/internal/buildfail"
	"github.com/pbasista/stc-sub000/internal/nodeid"
)

// Resolution selects the collision strategy.
type Resolution int

const (
	Cuckoo Resolution = iota
	DoubleHash
)

const (
	defaultCuckooFns = 8
	maxEvictDepth    = 1024
	maxRehashAttempt = 1024
	minCapacity      = 16
)

// Key identifies an edge: the parent branching node id and the first
// character of the edge label.
type Key struct {
	Parent uint32
	Char   uint32
}

type entry struct {
	key Key
	val nodeid.ID
}

// Table is the edge hash table.
type Table struct {
	resolution Resolution
	k          int // cuckoo hash function count

	entries  []entry
	occupied *bitset.BitSet
	capacity uint64
	count    int

	seeds      []uint64 // k seeds for cuckoo, or [h1, h2] for double hashing
	growthStep uint64   // recorded for parity with store growth; halved on rehash
	seedGen    uint64   // counter mixed into reseeding, advanced every rehash
}

// New creates an edge table with the given collision resolution. k is the
// number of cuckoo hash functions; k<=0 defaults to 8. For DoubleHash k
// is ignored and the table always uses 2 seeds.
func New(resolution Resolution, k int) *Table {
	if k <= 0 {
		k = defaultCuckooFns
	}
	if resolution == DoubleHash {
		k = 2
	}
	t := &Table{
		resolution: resolution,
		k:          k,
		capacity:   minCapacity,
		growthStep: minCapacity,
	}
	t.entries = make([]entry, t.capacity)
	t.occupied = bitset.New(uint(t.capacity))
	t.reseed()
	return t
}

// Len reports the live edge count.
func (t *Table) Len() int { return t.count }

// Cap reports the table's current slot capacity.
func (t *Table) Cap() uint64 { return t.capacity }

// EntrySize reports the byte size of one table slot (entry plus its
// occupancy bit, amortized from the bitset's own word size).
func EntrySize() uint64 { return uint64(unsafe.Sizeof(entry{})) + 1 }

func (t *Table) reseed() {
	t.seedGen++
	seeds := make([]uint64, t.k)
	x := t.seedGen*0x9E3779B97F4A7C15 + 1
	for i := range seeds {
		x = splitmix64(x)
		seeds[i] = x | 1 // keep odd: required for the double-hash step size
	}
	t.seeds = seeds
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return z
}

func hashKey(seed uint64, k Key) uint64 {
	x := uint64(k.Parent)*0x9E3779B97F4A7C15 ^ uint64(k.Char)*0xC2B2AE3D27D4EB4F ^ seed
	return splitmix64(x)
}

func (t *Table) slot(seed uint64, k Key) uint64 {
	return hashKey(seed, k) % t.capacity
}

// Get looks up the child for key.
func (t *Table) Get(key Key) (nodeid.ID, bool) {
	switch t.resolution {
	case Cuckoo:
		for i := 0; i < t.k; i++ {
			idx := t.slot(t.seeds[i], key)
			if t.occupied.Test(uint(idx)) && t.entries[idx].key == key {
				return t.entries[idx].val, true
			}
		}
		return nodeid.Null, false
	default: // DoubleHash
		h1 := t.slot(t.seeds[0], key)
		h2 := t.slot(t.seeds[1], key)
		if h2 == 0 {
			h2 = 1
		}
		idx := h1
		for i := uint64(0); i < t.capacity; i++ {
			if !t.occupied.Test(uint(idx)) {
				return nodeid.Null, false
			}
			if t.entries[idx].key == key {
				return t.entries[idx].val, true
			}
			idx = (idx + h2) % t.capacity
		}
		return nodeid.Null, false
	}
}

// errFull signals the insertion failed to find a free slot at the
// current capacity; the caller must Rehash and retry.
type errFull struct{}

func (errFull) Error() string { return "edgehash: table full" }

// Insert adds or updates the mapping key -> val, rehashing (growing) as
// needed. Bounded by maxRehashAttempt total rehash attempts.
func (t *Table) Insert(key Key, val nodeid.ID) error {
	for attempt := 0; ; attempt++ {
		if err := t.insertOnce(key, val); err == nil {
			return nil
		}
		if attempt >= maxRehashAttempt {
			return buildfail.Newf(buildfail.BuildInvariantViolation, "edgehash.Insert",
				"rehash attempt bound (%d) exceeded", maxRehashAttempt)
		}
		if err := t.rehash(); err != nil {
			return err
		}
	}
}

func (t *Table) insertOnce(key Key, val nodeid.ID) error {
	switch t.resolution {
	case Cuckoo:
		return t.insertCuckoo(key, val)
	default:
		return t.insertDouble(key, val)
	}
}

func (t *Table) insertDouble(key Key, val nodeid.ID) error {
	h1 := t.slot(t.seeds[0], key)
	h2 := t.slot(t.seeds[1], key)
	if h2 == 0 {
		h2 = 1
	}
	idx := h1
	for i := uint64(0); i < t.capacity; i++ {
		if !t.occupied.Test(uint(idx)) {
			t.place(idx, key, val)
			return nil
		}
		if t.entries[idx].key == key {
			t.entries[idx].val = val
			return nil
		}
		idx = (idx + h2) % t.capacity
	}
	return errFull{}
}

func (t *Table) insertCuckoo(key Key, val nodeid.ID) error {
	// direct placement: existing key among the k candidates first (an
	// eviction may have left it in a later candidate than an empty one),
	// then the first empty candidate.
	for i := 0; i < t.k; i++ {
		idx := t.slot(t.seeds[i], key)
		if t.occupied.Test(uint(idx)) && t.entries[idx].key == key {
			t.entries[idx].val = val
			return nil
		}
	}
	for i := 0; i < t.k; i++ {
		idx := t.slot(t.seeds[i], key)
		if !t.occupied.Test(uint(idx)) {
			t.place(idx, key, val)
			return nil
		}
	}

	// bounded iterative eviction chain. If it runs out, every overwrite
	// it made is undone, so a failed insertion loses no stored entry.
	type overwrite struct {
		slot uint64
		prev entry
	}
	var undo []overwrite
	cur := entry{key: key, val: val}
	for depth := 0; depth < maxEvictDepth; depth++ {
		victimSlot := t.slot(t.seeds[depth%t.k], cur.key)
		evicted := t.entries[victimSlot]
		wasOccupied := t.occupied.Test(uint(victimSlot))
		t.place(victimSlot, cur.key, cur.val)
		if !wasOccupied {
			return nil
		}
		undo = append(undo, overwrite{slot: victimSlot, prev: evicted})
		cur = evicted
	}
	for i := len(undo) - 1; i >= 0; i-- {
		t.entries[undo[i].slot] = undo[i].prev
	}
	return errFull{}
}

func (t *Table) place(idx uint64, key Key, val nodeid.ID) {
	if !t.occupied.Test(uint(idx)) {
		t.count++
	}
	t.occupied.Set(uint(idx))
	t.entries[idx] = entry{key: key, val: val}
}

// Delete removes key from the table. Only the cuckoo strategy supports
// delete (spec.md §3); double hashing does not, since clearing a slot
// without tombstones would break its probe chains.
func (t *Table) Delete(key Key) bool {
	if t.resolution != Cuckoo {
		return false
	}
	for i := 0; i < t.k; i++ {
		idx := t.slot(t.seeds[i], key)
		if t.occupied.Test(uint(idx)) && t.entries[idx].key == key {
			t.occupied.Clear(uint(idx))
			t.entries[idx] = entry{}
			t.count--
			return true
		}
	}
	return false
}

// rehash allocates a fresh table of double the current size, re-derives
// the hash family's seeds, and replays every live (parent, first_char,
// child) edge by re-inserting it.
func (t *Table) rehash() error {
	live := make([]entry, 0, t.count)
	idx, ok := t.occupied.NextSet(0)
	for ok {
		live = append(live, t.entries[idx])
		idx, ok = t.occupied.NextSet(idx + 1)
	}

	newCapacity := t.capacity * 2

	for attempt := 0; ; attempt++ {
		if attempt > 0 && attempt >= maxRehashAttempt {
			return buildfail.Newf(buildfail.BuildInvariantViolation, "edgehash.rehash",
				"rehash attempt bound (%d) exceeded", maxRehashAttempt)
		}

		candidate := &Table{
			resolution: t.resolution,
			k:          t.k,
			capacity:   newCapacity,
			growthStep: t.growthStep,
			seedGen:    t.seedGen,
		}
		candidate.entries = make([]entry, candidate.capacity)
		candidate.occupied = bitset.New(uint(candidate.capacity))
		candidate.reseed()

		ok := true
		for _, e := range live {
			if err := candidate.insertOnce(e.key, e.val); err != nil {
				ok = false
				break
			}
		}
		if ok {
			*t = *candidate
			t.growthStep /= 2
			if t.growthStep < minCapacity {
				t.growthStep = minCapacity
			}
			return nil
		}

		newCapacity *= 2
	}
}

// All iterates every live (key, value) pair, for traversal and rehash
// idempotence checks.
func (t *Table) All(yield func(Key, nodeid.ID) bool) {
	idx, ok := t.occupied.NextSet(0)
	for ok {
		if !yield(t.entries[idx].key, t.entries[idx].val) {
			return
		}
		idx, ok = t.occupied.NextSet(idx + 1)
	}
}
