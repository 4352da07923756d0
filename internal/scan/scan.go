// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package scan implements the edge-level primitives (C4) shared by the
// McCreight and Ukkonen builders over any node store that can answer the
// small NodeStore contract below: depthscan, fastscan, slowscan,
// branch_once, edge_descend, split_edge and create_leaf. LA/PWOTD does
// not implement NodeStore — it builds the tree directly (see
// internal/pwotd) per the compatibility matrix in spec.md §6.
package scan

import (
	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/nodeid"
)

// NodeStore is the contract both LL/LL-BP and HT/HT-BP stores satisfy.
type NodeStore interface {
	Text() *charset.Text
	Root() nodeid.ID
	Depth(id nodeid.ID) uint32
	HeadPosition(id nodeid.ID) uint32
	SuffixLink(id nodeid.ID) nodeid.ID
	SetSuffixLink(id, target nodeid.ID)
	// Parent reports the backward pointer and whether this store tracks
	// one at all (false for LL/HT without -BP).
	Parent(id nodeid.ID) (nodeid.ID, bool)
	BranchOnce(parent nodeid.ID, firstChar uint32) (child nodeid.ID, ok bool)
	CreateLeaf(parent nodeid.ID, pos uint32) (nodeid.ID, error)
	SplitEdge(parent, child nodeid.ID, matchLen int, newHead uint32) (nodeid.ID, error)
	LeafCount() int
	BranchCount() int
}

// DepthScan compares depth(child) to targetDepth, per spec.md §4.2.
func DepthScan(s NodeStore, child nodeid.ID, targetDepth uint32) charset.Ordering {
	d := s.Depth(child)
	switch {
	case d < targetDepth:
		return charset.Less
	case d > targetDepth:
		return charset.Greater
	default:
		return charset.Equal
	}
}

// FastScan compares T[headPos(child)+depth(parent)] to T[pos].
func FastScan(s NodeStore, parent, child nodeid.ID, pos int) charset.Ordering {
	text := s.Text()
	edgeChar := text.At(int(s.HeadPosition(child)) + int(s.Depth(parent)))
	return charset.Compare(edgeChar, text.At(pos))
}

// SlowScanOutcome classifies the result of walking an edge label against
// the text.
type SlowScanOutcome int

const (
	FullMatch SlowScanOutcome = iota
	BoundedMatch
	Mismatch
)

// SlowScanResult is the result of SlowScan: how far the edge label and
// T[pos..] agree, bounded by maxLen, and — on mismatch — which way the
// text diverges from the edge.
type SlowScanResult struct {
	Outcome SlowScanOutcome
	Matched int
	Order   charset.Ordering // meaningful only when Outcome == Mismatch
}

// SlowScan walks the entire edge label (parent, child) against T[pos..],
// bounded by maxLen characters.
func SlowScan(s NodeStore, parent, child nodeid.ID, pos int, maxLen int) SlowScanResult {
	text := s.Text()
	parentDepth := int(s.Depth(parent))
	childDepth := int(s.Depth(child))
	childHead := int(s.HeadPosition(child))
	edgeLen := childDepth - parentDepth

	matched := 0
	for matched < edgeLen && matched < maxLen {
		edgeChar := text.At(childHead + parentDepth + matched)
		textChar := text.At(pos + matched)
		ord := charset.Compare(edgeChar, textChar)
		if ord != charset.Equal {
			return SlowScanResult{Outcome: Mismatch, Matched: matched, Order: charset.Compare(textChar, edgeChar)}
		}
		matched++
	}

	if matched == edgeLen {
		return SlowScanResult{Outcome: FullMatch, Matched: matched}
	}
	return SlowScanResult{Outcome: BoundedMatch, Matched: matched}
}

// BranchOnce finds the unique child of parent whose first edge character
// is T[pos], or reports NoChild.
func BranchOnce(s NodeStore, parent nodeid.ID, pos int) (nodeid.ID, bool) {
	return s.BranchOnce(parent, s.Text().At(pos))
}

// EdgeDescend moves (parent, pos) one edge further to child, per
// pos += depth(child) - depth(parent).
func EdgeDescend(s NodeStore, parent, child nodeid.ID, pos int) int {
	return pos + int(s.Depth(child)) - int(s.Depth(parent))
}

// EdgeClimb moves one edge upward from child to its parent (BP stores
// only) and returns the new position pos -= depth(child) - depth(parent).
func EdgeClimb(s NodeStore, child nodeid.ID, pos int) (parent nodeid.ID, newPos int, ok bool) {
	p, tracked := s.Parent(child)
	if !tracked || p.IsNull() {
		return nodeid.Null, pos, false
	}
	return p, pos - (int(s.Depth(child)) - int(s.Depth(p))), true
}

// SplitEdge creates branching node B' at depth(parent)+lastMatch with
// head_position(B') = newHead, relinking parent -> B' -> child.
func SplitEdge(s NodeStore, parent, child nodeid.ID, lastMatch int, newHead uint32) (nodeid.ID, error) {
	return s.SplitEdge(parent, child, lastMatch, newHead)
}

// CreateLeaf inserts a leaf for suffix position pos under parent.
func CreateLeaf(s NodeStore, parent nodeid.ID, pos uint32) (nodeid.ID, error) {
	return s.CreateLeaf(parent, pos)
}
