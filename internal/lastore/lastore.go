// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package lastore implements the LA node representation (C2): a single
// flat array of cells, each a uint64 with two flag bits (LEAF,
// RIGHTMOST) in its top bits and a 62-bit payload — either a suffix
// start position (leaf cells) or the index of the node's first child
// (branch cells). Children of a branch occupy a contiguous run sorted
// ascending by first edge character, terminated by the child carrying
// RIGHTMOST. A node's depth is kept in a small parallel array rather
// than packed into the cell itself, trading a little memory for letting
// internal/pwotd and internal/visitor read it directly instead of
// rederiving it by rescanning — everything else about LA stays a single
// contiguous array, matching spec.md §4's "write-only, top-down" layout.
//
// LA does not implement internal/scan's NodeStore — construction is
// PWOTD-only, driven by internal/pwotd directly against this store.
package lastore

import (
	"unsafe"

	"github.com/pbasista/stc-sub000/internal/charset"
)

// Ref is an index into the flat node array. The zero value is Null;
// index 1 is always the root.
type Ref uint32

const Null Ref = 0

const (
	flagLeaf      uint64 = 1 << 63
	flagRightmost uint64 = 1 << 62
	payloadMask   uint64 = flagRightmost - 1
)

// Store is the LA node store backing a PWOTD-built tree.
type Store struct {
	text  *charset.Text
	cells []uint64
	depth []uint32
}

// New allocates a store with its root cell and reserves capacityHint
// cells up front (the PWOTD builder knows an upper bound in advance:
// at most 2n+1 nodes for a text of length n).
func New(text *charset.Text, capacityHint int) *Store {
	if capacityHint < 2 {
		capacityHint = 2
	}
	s := &Store{
		text:  text,
		cells: make([]uint64, 1, capacityHint),
		depth: make([]uint32, 1, capacityHint),
	}
	s.cells = append(s.cells, 0) // root, depth 0
	s.depth = append(s.depth, 0)
	return s
}

func (s *Store) Text() *charset.Text { return s.text }
func (s *Store) Root() Ref           { return 1 }
func (s *Store) Len() int            { return len(s.cells) - 1 }

// MemoryStats reports bytes currently in use versus bytes the flat array
// has reserved, generalizing the teacher's pool.go allocation counters
// from a node count to a byte count.
func (s *Store) MemoryStats() (used, allocated uint64) {
	cellSize := uint64(unsafe.Sizeof(uint64(0))) + uint64(unsafe.Sizeof(uint32(0)))
	used = uint64(len(s.cells)) * cellSize
	allocated = uint64(cap(s.cells))*uint64(unsafe.Sizeof(uint64(0))) + uint64(cap(s.depth))*uint64(unsafe.Sizeof(uint32(0)))
	return used, allocated
}

// AllocLeaf appends a leaf cell for suffix position pos at the given
// depth.
func (s *Store) AllocLeaf(pos uint32, depth uint32) Ref {
	s.cells = append(s.cells, flagLeaf|uint64(pos))
	s.depth = append(s.depth, depth)
	return Ref(len(s.cells) - 1)
}

// AllocBranch appends a branch cell at the given depth; its child-range
// start is recorded afterwards via SetChildStart, once the children
// themselves have been written (PWOTD always finishes writing a node's
// whole child run before moving on).
func (s *Store) AllocBranch(depth uint32) Ref {
	s.cells = append(s.cells, 0)
	s.depth = append(s.depth, depth)
	return Ref(len(s.cells) - 1)
}

// SetChildStart records where branch's contiguous child run begins.
func (s *Store) SetChildStart(branch, firstChild Ref) {
	flags := s.cells[branch] & (flagLeaf | flagRightmost)
	s.cells[branch] = flags | uint64(firstChild)
}

// MarkRightmost flags ref as the last child in its sibling run.
func (s *Store) MarkRightmost(ref Ref) {
	s.cells[ref] |= flagRightmost
}

func (s *Store) IsLeaf(ref Ref) bool      { return s.cells[ref]&flagLeaf != 0 }
func (s *Store) IsRightmost(ref Ref) bool { return s.cells[ref]&flagRightmost != 0 }

// LeafPos returns a leaf cell's suffix start position.
func (s *Store) LeafPos(ref Ref) uint32 {
	return uint32(s.cells[ref] & payloadMask)
}

// ChildStart returns a branch cell's first child.
func (s *Store) ChildStart(ref Ref) Ref {
	return Ref(s.cells[ref] & payloadMask)
}

func (s *Store) Depth(ref Ref) uint32 { return s.depth[ref] }

// HeadPosition returns a witness suffix position for ref: for a leaf,
// its own position; for a branch, the position of any descendant leaf —
// every suffix passing through a node shares its path label as a common
// prefix, so the leftmost descendant's start position works.
func (s *Store) HeadPosition(ref Ref) uint32 {
	if s.IsLeaf(ref) {
		return s.LeafPos(ref)
	}
	return s.LeafPos(s.leftmostLeaf(ref))
}

func (s *Store) leftmostLeaf(ref Ref) Ref {
	cur := ref
	for !s.IsLeaf(cur) {
		cur = s.ChildStart(cur)
	}
	return cur
}

// Children enumerates branch's contiguous child run, already in
// ascending first-char order.
func (s *Store) Children(branch Ref) []Ref {
	cur := s.ChildStart(branch)
	out := []Ref{cur}
	for !s.IsRightmost(cur) {
		cur++
		out = append(out, cur)
	}
	return out
}

func (s *Store) firstChar(parentDepth uint32, child Ref) uint32 {
	return s.text.At(int(s.HeadPosition(child)) + int(parentDepth))
}

// FindChild binary-searches branch's child run for the child whose first
// edge character is c — LA's distinguishing lookup strategy (spec.md
// §4.2), in contrast to LL's linear sibling scan and HT's hash probe.
func (s *Store) FindChild(branch Ref, c uint32) (Ref, bool) {
	children := s.Children(branch)
	depth := s.Depth(branch)

	lo, hi := 0, len(children)
	for lo < hi {
		mid := (lo + hi) / 2
		switch charset.Compare(s.firstChar(depth, children[mid]), c) {
		case charset.Equal:
			return children[mid], true
		case charset.Less:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return Null, false
}
