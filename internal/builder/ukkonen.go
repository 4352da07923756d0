// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/nodeid"
	"github.com/pbasista/stc-sub000/internal/scan"
)

// UkkonenSimple extends the tree one suffix at a time by full descent,
// the same O(n^2)-worst-case baseline MCCreightSimple reduces to: both
// "simple" variants exist to give the benchmark harness an unoptimized
// reference point to measure the linked variants against.
func UkkonenSimple(s scan.NodeStore) error {
	return naiveBuildAll(s)
}

// UkkonenLinked runs Ukkonen's online construction: one phase per text
// position, extending every suffix currently "pending" (remainder) via
// the active point, with suffix links threading together internal nodes
// created within the same phase.
//
// Every store here already reports a leaf's final depth as a pure
// function of the whole text (internal/llstore, internal/htstore), so
// rule 1 (a suffix that already ends inside an existing leaf edge) needs
// no tree mutation at all — the leaf's depth is already correct. Only
// rule 2 (branch a new leaf off, splitting an edge if necessary) touches
// the store; rule 3 (the next character is already present) just stops
// the phase early, per Ukkonen's trick.
func UkkonenLinked(s scan.NodeStore) error {
	root := s.Root()
	s.SetSuffixLink(root, root)

	text := s.Text()
	lastLen := text.EffLen()

	activeNode := root
	activeEdge := 0
	activeLen := 0
	remainder := 0

	for i := 1; i <= lastLen; i++ {
		remainder++
		var lastNewBranch nodeid.ID

		for remainder > 0 {
			if activeLen == 0 {
				activeEdge = i
			}

			child, ok := scan.BranchOnce(s, activeNode, activeEdge)
			if !ok {
				leafStart := uint32(i - remainder + 1)
				if _, err := scan.CreateLeaf(s, activeNode, leafStart); err != nil {
					return err
				}
				if !lastNewBranch.IsNull() {
					s.SetSuffixLink(lastNewBranch, activeNode)
					lastNewBranch = nodeid.Null
				}
			} else {
				edgeLen := int(s.Depth(child)) - int(s.Depth(activeNode))
				if activeLen >= edgeLen {
					activeEdge += edgeLen
					activeLen -= edgeLen
					activeNode = child
					continue
				}

				nextPos := int(s.HeadPosition(child)) + int(s.Depth(activeNode)) + activeLen
				if charset.Compare(text.At(nextPos), text.At(i)) == charset.Equal {
					activeLen++
					break
				}

				matchLen := activeLen
				newHead := uint32(i - remainder + 1)
				newBranch, err := scan.SplitEdge(s, activeNode, child, matchLen, newHead)
				if err != nil {
					return err
				}
				if _, err := scan.CreateLeaf(s, newBranch, newHead); err != nil {
					return err
				}
				if !lastNewBranch.IsNull() {
					s.SetSuffixLink(lastNewBranch, newBranch)
				}
				lastNewBranch = newBranch
			}

			remainder--
			if activeNode == root && activeLen > 0 {
				activeLen--
				activeEdge = i - remainder + 1
			} else if activeNode != root {
				if sl := s.SuffixLink(activeNode); !sl.IsNull() {
					activeNode = sl
				} else {
					// no link to follow: rescan the next suffix from the root.
					activeNode = root
					activeEdge = i - remainder + 1
					activeLen = remainder - 1
				}
			}
		}
	}

	return nil
}
