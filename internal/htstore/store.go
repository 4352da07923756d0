// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package htstore implements the HT / HT-BP node store (C2): branching
// and leaf records hold only depth/head_position/suffix_link (leaves
// hold nothing intrinsic — their depth and head position are pure
// functions of their suffix position), and every parent -> child edge
// lives in the internal/edgehash open-address map.
package htstore

import (
	"slices"
	"unsafe"

	"github.com/pbasista/stc-sub000/internal/buildfail"
	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/edgehash"
	"github.com/pbasista/stc-sub000/internal/nodeid"
)

const minGrowthStep = 128

type branchRecord struct {
	suffixLink nodeid.ID
	parent     nodeid.ID // valid only when Store.backward is set
	depth      uint32
	headPos    uint32
}

// Store is the HT (or, with backward pointers, HT-BP) node store.
type Store struct {
	text *charset.Text

	branches   []branchRecord // index 0 unused
	leafParent []nodeid.ID    // valid only when backward is set, index by suffix position
	branchLen  uint32
	growthStep uint32

	edges *edgehash.Table

	backward bool
	n        int
}

// New allocates a store for a text of length n, backed by an edge hash
// table with the given collision resolution and (for cuckoo) hash
// function count.
func New(text *charset.Text, backward bool, resolution edgehash.Resolution, cuckooFns int) *Store {
	s := &Store{text: text, backward: backward, n: text.N}
	s.allocate(resolution, cuckooFns)
	return s
}

func nextPow2LE(n int) uint32 {
	if n < 1 {
		return 1
	}
	p := uint32(1)
	for p*2 <= uint32(n) {
		p *= 2
	}
	return p
}

func (s *Store) allocate(resolution edgehash.Resolution, cuckooFns int) {
	cap0 := nextPow2LE(s.n)
	s.growthStep = cap0
	if s.growthStep < minGrowthStep {
		s.growthStep = minGrowthStep
	}
	s.branches = make([]branchRecord, cap0+1)
	s.branchLen = 1
	s.branches[1] = branchRecord{}

	if s.backward {
		s.leafParent = make([]nodeid.ID, s.n+2)
	}

	s.edges = edgehash.New(resolution, cuckooFns)
}

func (s *Store) reallocateBranching(desired uint32) error {
	capNow := uint32(len(s.branches) - 1)
	if desired <= capNow {
		return nil
	}

	nCap := uint32(s.n)
	newCap := capNow + s.growthStep
	if newCap < desired {
		newCap = desired
	}
	if newCap > nCap {
		newCap = nCap
	}
	if newCap < desired {
		return buildfail.OOM("htstore.reallocateBranching", "branching store exceeds n")
	}

	grown := make([]branchRecord, newCap+1)
	copy(grown, s.branches)
	s.branches = grown

	s.growthStep /= 2
	if s.growthStep < minGrowthStep {
		s.growthStep = minGrowthStep
	}
	return nil
}

// Delete releases backing storage.
func (s *Store) Delete() {
	s.branches = nil
	s.leafParent = nil
	s.edges = nil
}

// MemoryStats reports bytes currently in use versus bytes the branching
// array and edge table have reserved, generalizing the teacher's pool.go
// allocation counters from a node count to a byte count.
func (s *Store) MemoryStats() (used, allocated uint64) {
	branchSize := uint64(unsafe.Sizeof(branchRecord{}))
	leafParentSize := uint64(unsafe.Sizeof(nodeid.Null)) * uint64(len(s.leafParent))
	entrySize := edgehash.EntrySize()

	used = uint64(s.branchLen)*branchSize + leafParentSize + uint64(s.edges.Len())*entrySize
	allocated = uint64(len(s.branches))*branchSize + leafParentSize + s.edges.Cap()*entrySize
	return used, allocated
}

// Reset clears the store back to its just-allocated state, discarding
// the edge table (it has no in-place clear) but retaining the branching
// and backpointer array capacity so a benchmark loop can reuse them.
func (s *Store) Reset(resolution edgehash.Resolution, cuckooFns int) {
	for i := range s.branches {
		s.branches[i] = branchRecord{}
	}
	s.branchLen = 1
	for i := range s.leafParent {
		s.leafParent[i] = nodeid.Null
	}
	s.edges = edgehash.New(resolution, cuckooFns)
}

// ---- NodeStore contract (see internal/scan) ----

func (s *Store) Text() *charset.Text { return s.text }
func (s *Store) Root() nodeid.ID     { return nodeid.Branch(1) }

func (s *Store) LeafCount() int   { return s.n + 1 }
func (s *Store) BranchCount() int { return int(s.branchLen) }

func (s *Store) Depth(id nodeid.ID) uint32 {
	if id.IsLeaf() {
		return uint32(s.text.EffLen()+1) - id.LeafPos()
	}
	return s.branches[id.BranchIndex()].depth
}

func (s *Store) HeadPosition(id nodeid.ID) uint32 {
	if id.IsLeaf() {
		return id.LeafPos()
	}
	return s.branches[id.BranchIndex()].headPos
}

func (s *Store) SuffixLink(id nodeid.ID) nodeid.ID {
	if id.IsLeaf() {
		return nodeid.Null
	}
	return s.branches[id.BranchIndex()].suffixLink
}

func (s *Store) SetSuffixLink(id, target nodeid.ID) {
	s.branches[id.BranchIndex()].suffixLink = target
}

func (s *Store) Parent(id nodeid.ID) (nodeid.ID, bool) {
	if !s.backward {
		return nodeid.Null, false
	}
	if id.IsLeaf() {
		return s.leafParent[id.LeafPos()], true
	}
	return s.branches[id.BranchIndex()].parent, true
}

func (s *Store) setParent(id, parent nodeid.ID) {
	if !s.backward {
		return
	}
	if id.IsLeaf() {
		s.leafParent[id.LeafPos()] = parent
		return
	}
	s.branches[id.BranchIndex()].parent = parent
}

func (s *Store) firstChar(parentDepth uint32, child nodeid.ID) uint32 {
	return s.text.At(int(s.HeadPosition(child)) + int(parentDepth))
}

// BranchOnce is a single hash lookup, per spec.md §4.2.
func (s *Store) BranchOnce(parent nodeid.ID, firstChar uint32) (nodeid.ID, bool) {
	return s.edges.Get(edgehash.Key{Parent: parent.BranchIndex(), Char: firstChar})
}

func (s *Store) newBranch() (nodeid.ID, error) {
	want := s.branchLen + 1
	if want > uint32(len(s.branches)-1) {
		if err := s.reallocateBranching(want); err != nil {
			return nodeid.Null, err
		}
	}
	s.branchLen = want
	s.branches[want] = branchRecord{}
	return nodeid.Branch(want), nil
}

// CreateLeaf inserts a new leaf for suffix position pos as an edge from
// parent, keyed by its first character.
func (s *Store) CreateLeaf(parent nodeid.ID, pos uint32) (nodeid.ID, error) {
	leaf := nodeid.Leaf(pos)
	firstChar := s.text.At(int(pos) + int(s.Depth(parent)))
	if err := s.edges.Insert(edgehash.Key{Parent: parent.BranchIndex(), Char: firstChar}, leaf); err != nil {
		return nodeid.Null, err
	}
	s.setParent(leaf, parent)
	return leaf, nil
}

// SplitEdge creates B' at depth(parent)+matchLen with head_position(B') =
// newHead: rewrites the parent->child edge to parent->B', then adds the
// B'->child edge keyed by child's new (shorter) first character.
func (s *Store) SplitEdge(parent, child nodeid.ID, matchLen int, newHead uint32) (nodeid.ID, error) {
	if !parent.IsBranch() {
		return nodeid.Null, buildfail.Invariant("htstore.SplitEdge", parent.String(), "split parent must be a branching node")
	}

	parentDepth := s.Depth(parent)
	childFirstChar := s.firstChar(parentDepth, child)

	newBranch, err := s.newBranch()
	if err != nil {
		return nodeid.Null, err
	}
	s.branches[newBranch.BranchIndex()] = branchRecord{
		depth:   parentDepth + uint32(matchLen),
		headPos: newHead,
	}

	if err := s.edges.Insert(edgehash.Key{Parent: parent.BranchIndex(), Char: childFirstChar}, newBranch); err != nil {
		return nodeid.Null, err
	}

	childSecondChar := s.firstChar(s.Depth(newBranch), child)
	if err := s.edges.Insert(edgehash.Key{Parent: newBranch.BranchIndex(), Char: childSecondChar}, child); err != nil {
		return nodeid.Null, err
	}

	s.setParent(newBranch, parent)
	s.setParent(child, newBranch)

	return newBranch, nil
}

// ChildrenAscending enumerates parent's children in ascending first-char
// order (invariant 5 of spec.md §8: HT retrieves sibling order "by
// enumeration" rather than maintaining a sorted list).
func (s *Store) ChildrenAscending(parent nodeid.ID) []nodeid.ID {
	type pair struct {
		char  uint32
		child nodeid.ID
	}
	var found []pair
	s.edges.All(func(k edgehash.Key, v nodeid.ID) bool {
		if k.Parent == parent.BranchIndex() {
			found = append(found, pair{k.Char, v})
		}
		return true
	})
	slices.SortFunc(found, func(a, b pair) int {
		switch charset.Compare(a.char, b.char) {
		case charset.Less:
			return -1
		case charset.Greater:
			return 1
		default:
			return 0
		}
	})
	children := make([]nodeid.ID, len(found))
	for i, p := range found {
		children[i] = p.child
	}
	return children
}
