// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package golden mirrors the teacher's internal/tests/golden: fixed
// scenarios run against every construction combination, independent of
// any one store's internals, by reconstructing each leaf's full path
// label and comparing it against the expected suffix of T.
package golden

import (
	"testing"

	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/nodeid"
)

func asciiText(s string) *charset.Text {
	units := make([]uint32, len(s))
	for i := 0; i < len(s); i++ {
		units[i] = uint32(s[i])
	}
	return charset.New(units, charset.ASCII)
}

func renderUnit(u uint32) string {
	if u == charset.Sentinel {
		return "$"
	}
	return string(rune(u))
}

// expectedSuffixes returns, for every suffix start position i in
// [1, n+1], the label T[i..n+1]$ per spec.md invariant 3.
func expectedSuffixes(text *charset.Text) map[uint32]string {
	out := make(map[uint32]string, text.EffLen())
	for i := 1; i <= text.EffLen(); i++ {
		s := ""
		for j := i; j <= text.N; j++ {
			s += renderUnit(text.At(j))
		}
		s += "$"
		out[uint32(i)] = s
	}
	return out
}

// visitorStore is the children-enumeration contract both LL and HT
// satisfy, re-declared here so this package doesn't need to import
// internal/visitor just to name the interface.
type visitorStore interface {
	Text() *charset.Text
	Root() nodeid.ID
	Depth(id nodeid.ID) uint32
	HeadPosition(id nodeid.ID) uint32
	SuffixLink(id nodeid.ID) nodeid.ID
	LeafCount() int
	BranchCount() int
	ChildrenAscending(parent nodeid.ID) []nodeid.ID
}

// collectSuffixes walks store's tree and returns, per leaf, the full
// concatenated edge label from the root — independent of node ids, so
// it is directly comparable across LL, LL-BP, HT and HT-BP builds of
// the same text. It also checks invariants 4-6 (ascending sibling
// order by first char, and suffix-link target depth) along the way.
func collectSuffixes(t *testing.T, store visitorStore) map[uint32]string {
	t.Helper()
	text := store.Text()
	out := make(map[uint32]string)

	var rec func(parent nodeid.ID, prefix string)
	rec = func(parent nodeid.ID, prefix string) {
		pd := store.Depth(parent)
		children := store.ChildrenAscending(parent)

		var prevChar uint32
		havePrev := false
		for _, child := range children {
			cd := store.Depth(child)
			hp := store.HeadPosition(child)

			if cd <= pd {
				t.Fatalf("child depth %d not greater than parent depth %d", cd, pd)
			}

			label := ""
			firstChar := text.At(int(hp) + int(pd))
			for i := 0; i < int(cd-pd); i++ {
				label += renderUnit(text.At(int(hp) + int(pd) + i))
			}
			if havePrev && charset.Compare(firstChar, prevChar) != charset.Greater {
				t.Fatalf("children of %s are not strictly ascending by first char", parent)
			}
			prevChar, havePrev = firstChar, true

			full := prefix + label
			if child.IsLeaf() {
				out[child.LeafPos()] = full
				continue
			}

			checkSuffixLinkDepth(t, store, child)
			rec(child, full)
		}
	}
	rec(store.Root(), "")
	return out
}

// checkSuffixLinkDepth verifies invariant 6: a branching node's suffix
// link, if installed, targets a node exactly one shallower.
func checkSuffixLinkDepth(t *testing.T, store visitorStore, branch nodeid.ID) {
	t.Helper()
	link := store.SuffixLink(branch)
	if link.IsNull() {
		return
	}
	wantDepth := store.Depth(branch) - 1
	if got := store.Depth(link); got != wantDepth {
		t.Errorf("suffix link of %s has depth %d, want %d", branch, got, wantDepth)
	}
}
