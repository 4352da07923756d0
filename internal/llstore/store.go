// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package llstore implements the LL / LL-BP node store (C2): two parallel
// arrays indexed by absolute node id, with children of a branching node
// held as a singly linked list sorted ascending by first edge character.
// Adapted from the teacher's arena-of-parallel-arrays discipline in
// node.go/pool.go: ids are offsets, nothing owns another node, growth is
// always append-or-realloc so ids stay stable across reallocation.
package llstore

import (
	"unsafe"

	"github.com/pbasista/stc-sub000/internal/buildfail"
	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/nodeid"
)

const minGrowthStep = 128

// branchRecord is the LL/LL-BP representation of a branching node B(k).
type branchRecord struct {
	firstChild  nodeid.ID
	nextSibling nodeid.ID
	suffixLink  nodeid.ID
	parent      nodeid.ID // valid only when Store.backward is set
	depth       uint32
	headPos     uint32
}

// leafRecord is the LL/LL-BP representation of a leaf L(i).
type leafRecord struct {
	nextSibling nodeid.ID
	parent      nodeid.ID // valid only when Store.backward is set
}

// Store is the LL (or, with backward pointers enabled, LL-BP) node store.
type Store struct {
	text     *charset.Text
	branches []branchRecord // index 0 unused
	leaves   []leafRecord   // index 0 unused, 1..n+1 valid
	branchLen uint32
	growthStep uint32
	backward bool
	n        int
}

// New allocates a store for a text of length n. backward enables the
// LL-BP variant (parent backpointers, required for bottom-up suffix-link
// simulation and edge_climb).
func New(text *charset.Text, backward bool) *Store {
	s := &Store{text: text, backward: backward, n: text.N}
	s.allocate()
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

// allocate reserves the leaf store (size n+2) and an initial branching
// store sized to the next power of two <= n, then installs the root.
func (s *Store) allocate() {
	s.leaves = make([]leafRecord, s.n+2)

	cap0 := nextPow2LE(s.n)
	if cap0 < 1 {
		cap0 = 1
	}
	s.growthStep = cap0
	if s.growthStep < minGrowthStep {
		s.growthStep = minGrowthStep
	}
	s.branches = make([]branchRecord, cap0+1)
	s.branchLen = 1

	// root: id 1, depth 0, no suffix link.
	s.branches[1] = branchRecord{
		firstChild:  nodeid.Null,
		nextSibling: nodeid.Null,
		suffixLink:  nodeid.Null,
		parent:      nodeid.Null,
		depth:       0,
		headPos:     0,
	}
}

// reallocateBranching grows the branching store to max(current+step,
// desired), capped at n, halving the growth step afterwards (floor 128).
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
		return buildfail.OOM("llstore.reallocateBranching", "branching store exceeds n")
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
	s.leaves = nil
}

// MemoryStats reports bytes currently in use (branchLen live branching
// records plus the fixed leaf array) versus bytes the backing arrays have
// reserved (full branching capacity plus the leaf array), generalizing the
// teacher's pool.go allocation counters from a node count to a byte count.
func (s *Store) MemoryStats() (used, allocated uint64) {
	var branchSize, leafSize uint64 = uint64(unsafe.Sizeof(branchRecord{})), uint64(unsafe.Sizeof(leafRecord{}))
	used = uint64(s.branchLen)*branchSize + uint64(len(s.leaves))*leafSize
	allocated = uint64(len(s.branches))*branchSize + uint64(len(s.leaves))*leafSize
	return used, allocated
}

// Reset clears the store back to the just-allocated state, retaining
// backing array capacity so a benchmark loop can reuse it across runs.
func (s *Store) Reset() {
	for i := range s.leaves {
		s.leaves[i] = leafRecord{}
	}
	for i := range s.branches {
		s.branches[i] = branchRecord{}
	}
	s.branchLen = 1
	s.branches[1] = branchRecord{depth: 0, headPos: 0}
}

// ---- NodeStore contract (see internal/scan) ----

func (s *Store) Text() *charset.Text { return s.text }

func (s *Store) Root() nodeid.ID { return nodeid.Branch(1) }

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
		return s.leaves[id.LeafPos()].parent, true
	}
	return s.branches[id.BranchIndex()].parent, true
}

// firstChar returns T[headPos(child)+parentDepth], the
// character that orders child among its siblings.
func (s *Store) firstChar(parentDepth uint32, child nodeid.ID) uint32 {
	return s.text.At(int(s.HeadPosition(child)) + int(parentDepth))
}

func (s *Store) firstChild(id nodeid.ID) nodeid.ID {
	return s.branches[id.BranchIndex()].firstChild
}

// FirstChild exposes the first child in sibling order, for the traversal
// visitor (C8) and tests.
func (s *Store) FirstChild(id nodeid.ID) nodeid.ID { return s.firstChild(id) }

// NextSibling exposes the next sibling, for the traversal visitor (C8)
// and tests.
func (s *Store) NextSibling(id nodeid.ID) nodeid.ID { return s.nextSibling(id) }

// ChildrenAscending enumerates parent's children in ascending first-char
// order — already the LL sibling list's native order, so this is a
// straight walk rather than the sort internal/htstore needs.
func (s *Store) ChildrenAscending(parent nodeid.ID) []nodeid.ID {
	var children []nodeid.ID
	for cur := s.firstChild(parent); !cur.IsNull(); cur = s.nextSibling(cur) {
		children = append(children, cur)
	}
	return children
}

func (s *Store) nextSibling(id nodeid.ID) nodeid.ID {
	if id.IsLeaf() {
		return s.leaves[id.LeafPos()].nextSibling
	}
	return s.branches[id.BranchIndex()].nextSibling
}

func (s *Store) setNextSibling(id, next nodeid.ID) {
	if id.IsLeaf() {
		s.leaves[id.LeafPos()].nextSibling = next
		return
	}
	s.branches[id.BranchIndex()].nextSibling = next
}

func (s *Store) setParent(id, parent nodeid.ID) {
	if !s.backward {
		return
	}
	if id.IsLeaf() {
		s.leaves[id.LeafPos()].parent = parent
		return
	}
	s.branches[id.BranchIndex()].parent = parent
}

// BranchOnce returns the unique child of parent whose first edge
// character equals firstChar, walking the sorted sibling list.
func (s *Store) BranchOnce(parent nodeid.ID, firstChar uint32) (nodeid.ID, bool) {
	parentDepth := s.Depth(parent)
	cur := s.firstChild(parent)
	for !cur.IsNull() {
		switch charset.Compare(s.firstChar(parentDepth, cur), firstChar) {
		case charset.Equal:
			return cur, true
		case charset.Greater:
			return nodeid.Null, false
		}
		cur = s.nextSibling(cur)
	}
	return nodeid.Null, false
}

// insertSibling inserts child into parent's sorted sibling list in
// ascending first-char order (as the new first child when no sibling
// sorts before it).
func (s *Store) insertSibling(parent, child nodeid.ID, childFirstChar uint32) {
	parentDepth := s.Depth(parent)

	var prev nodeid.ID
	cur := s.firstChild(parent)
	for !cur.IsNull() && charset.Compare(s.firstChar(parentDepth, cur), childFirstChar) == charset.Less {
		prev = cur
		cur = s.nextSibling(cur)
	}

	s.setNextSibling(child, cur)
	if prev.IsNull() {
		s.branches[parent.BranchIndex()].firstChild = child
	} else {
		s.setNextSibling(prev, child)
	}
	s.setParent(child, parent)
}

// CreateLeaf inserts a new leaf for suffix position pos under parent, in
// sibling order.
func (s *Store) CreateLeaf(parent nodeid.ID, pos uint32) (nodeid.ID, error) {
	leaf := nodeid.Leaf(pos)
	firstChar := s.text.At(int(pos) + int(s.Depth(parent)))
	s.insertSibling(parent, leaf, firstChar)
	return leaf, nil
}

// newBranch allocates a fresh branching record, growing the store if
// necessary.
func (s *Store) newBranch() (nodeid.ID, error) {
	want := s.branchLen + 1
	if want > uint32(len(s.branches)-1) {
		if err := s.reallocateBranching(want); err != nil {
			return nodeid.Null, err
		}
	}
	s.branchLen = want
	id := nodeid.Branch(want)
	s.branches[want] = branchRecord{}
	return id, nil
}

// SplitEdge inserts a new branching node B' on the edge (parent, child)
// at depth(parent)+matchLen, with head_position(B') = newHead, relinking
// parent -> B' -> child.
func (s *Store) SplitEdge(parent, child nodeid.ID, matchLen int, newHead uint32) (nodeid.ID, error) {
	if !parent.IsBranch() {
		return nodeid.Null, buildfail.Invariant("llstore.SplitEdge", parent.String(), "split parent must be a branching node")
	}

	parentDepth := s.Depth(parent)

	// locate child's slot (and its current successor) in parent's sibling list.
	var prev nodeid.ID
	cur := s.firstChild(parent)
	for !cur.IsNull() && cur != child {
		prev = cur
		cur = s.nextSibling(cur)
	}
	if cur.IsNull() {
		return nodeid.Null, buildfail.Invariant("llstore.SplitEdge", child.String(), "child not found among parent's siblings")
	}
	succ := s.nextSibling(child)

	newBranch, err := s.newBranch()
	if err != nil {
		return nodeid.Null, err
	}
	s.branches[newBranch.BranchIndex()] = branchRecord{
		depth:   parentDepth + uint32(matchLen),
		headPos: newHead,
	}

	// splice newBranch into parent's sibling list where child used to be.
	s.setNextSibling(newBranch, succ)
	if prev.IsNull() {
		s.branches[parent.BranchIndex()].firstChild = newBranch
	} else {
		s.setNextSibling(prev, newBranch)
	}
	s.setParent(newBranch, parent)

	// child becomes newBranch's sole child.
	s.branches[newBranch.BranchIndex()].firstChild = child
	s.setNextSibling(child, nodeid.Null)
	s.setParent(child, newBranch)

	return newBranch, nil
}
