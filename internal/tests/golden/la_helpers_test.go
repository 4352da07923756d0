// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package golden

import (
	"testing"

	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/lastore"
)

// collectSuffixesLA is collectSuffixes's LA counterpart: LA has its own
// flat-array encoding (invariant 9), so it gets its own independent
// reconstruction rather than sharing code with the NodeStore-backed walk.
func collectSuffixesLA(t *testing.T, store *lastore.Store) map[uint32]string {
	t.Helper()
	text := store.Text()
	out := make(map[uint32]string)

	var rec func(node lastore.Ref, depth uint32, prefix string)
	rec = func(node lastore.Ref, depth uint32, prefix string) {
		if store.IsLeaf(node) {
			out[store.LeafPos(node)] = prefix
			return
		}

		children := store.Children(node)
		var prevChar uint32
		havePrev := false
		for i, child := range children {
			cd := store.Depth(child)
			hp := store.HeadPosition(child)

			isLast := i == len(children)-1
			if store.IsRightmost(child) != isLast {
				t.Fatalf("RIGHTMOST flag mismatch on child %d of node %d", child, node)
			}

			label := ""
			firstChar := text.At(int(hp) + int(depth))
			for j := 0; j < int(cd-depth); j++ {
				label += renderUnit(text.At(int(hp) + int(depth) + j))
			}
			if havePrev && charset.Compare(firstChar, prevChar) != charset.Greater {
				t.Fatalf("children of node %d are not strictly ascending by first char", node)
			}
			prevChar, havePrev = firstChar, true

			rec(child, cd, prefix+label)
		}
	}
	rec(store.Root(), 0, "")
	return out
}
