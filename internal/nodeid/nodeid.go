// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package nodeid implements the signed-id polymorphism used throughout the
// suffix tree stores: a single compact integer disambiguates leaves from
// branching nodes by sign, while callers crossing a component boundary use
// the tagged accessors below instead of inspecting the sign themselves.
package nodeid

import "fmt"

// ID is a compact node identifier.
//
//	0      -> Null, no node
//	> 0    -> branching node, id is the index into the branching store
//	< 0    -> leaf, -id is the suffix start position in [1, n+1]
type ID int32

// Null is the identifier of "no node".
const Null ID = 0

// Branch returns the identifier of branching node idx. idx must be > 0.
func Branch(idx uint32) ID {
	if idx == 0 {
		panic("nodeid: branch index must be > 0")
	}
	return ID(idx)
}

// Leaf returns the identifier of the leaf for suffix position pos.
// pos must be > 0.
func Leaf(pos uint32) ID {
	if pos == 0 {
		panic("nodeid: leaf position must be > 0")
	}
	return ID(-int32(pos))
}

// IsNull reports whether id is the null identifier.
func (id ID) IsNull() bool { return id == Null }

// IsBranch reports whether id refers to a branching node.
func (id ID) IsBranch() bool { return id > 0 }

// IsLeaf reports whether id refers to a leaf.
func (id ID) IsLeaf() bool { return id < 0 }

// BranchIndex returns the branching-store index. Panics if id is not a branch.
func (id ID) BranchIndex() uint32 {
	if !id.IsBranch() {
		panic(fmt.Sprintf("nodeid: %d is not a branch id", id))
	}
	return uint32(id)
}

// LeafPos returns the suffix start position. Panics if id is not a leaf.
func (id ID) LeafPos() uint32 {
	if !id.IsLeaf() {
		panic(fmt.Sprintf("nodeid: %d is not a leaf id", id))
	}
	return uint32(-id)
}

// String renders id for diagnostics and error messages.
func (id ID) String() string {
	switch {
	case id.IsNull():
		return "null"
	case id.IsBranch():
		return fmt.Sprintf("B(%d)", id.BranchIndex())
	default:
		return fmt.Sprintf("L(%d)", id.LeafPos())
	}
}
