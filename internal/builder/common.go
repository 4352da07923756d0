// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package builder implements the McCreight and Ukkonen construction
// algorithms (C6), each in a "simple" variant (full descent per suffix,
// no suffix links) and a "linked" variant (suffix-link driven, the
// asymptotically fast form). Both operate purely through the
// internal/scan primitives over a scan.NodeStore, so the same builder
// code runs unchanged over LL, LL-BP, HT and HT-BP.
package builder

import (
	"github.com/pbasista/stc-sub000/internal/buildfail"
	"github.com/pbasista/stc-sub000/internal/nodeid"
	"github.com/pbasista/stc-sub000/internal/scan"
	"github.com/pbasista/stc-sub000/internal/suffixlink"
)

// insertFrom walks from start (whose own parent is startParent, supplied
// by the caller since start was not necessarily discovered by this call)
// down to suffixStart's head, creating a leaf — splitting an edge first
// if the suffix diverges partway along one. It returns the node the leaf
// was attached under and that node's parent.
//
// pending, when non-nil, carries a suffix link whose target wasn't found
// by the caller's own rescan (McCreight's Case 2): the very next split
// this call performs installs pending.Source's suffix link onto the new
// branch the instant that branch's depth equals pending.TargetDepth, per
// spec.md §9, then clears pending so it is not reused.
func insertFrom(s scan.NodeStore, start, startParent nodeid.ID, suffixStart uint32, pending *suffixlink.PendingLink) (head, headParent nodeid.ID, err error) {
	cur, parentOfCur := start, startParent
	pos := int(suffixStart) + int(s.Depth(cur))

	for {
		child, ok := scan.BranchOnce(s, cur, pos)
		if !ok {
			if _, err := scan.CreateLeaf(s, cur, suffixStart); err != nil {
				return nodeid.Null, nodeid.Null, err
			}
			return cur, parentOfCur, nil
		}

		res := scan.SlowScan(s, cur, child, pos, 1<<30)
		if res.Outcome == scan.FullMatch {
			pos = scan.EdgeDescend(s, cur, child, pos)
			parentOfCur = cur
			cur = child
			continue
		}

		newBranch, err := scan.SplitEdge(s, cur, child, res.Matched, suffixStart)
		if err != nil {
			return nodeid.Null, nodeid.Null, err
		}
		if pending != nil && s.Depth(newBranch) == pending.TargetDepth {
			s.SetSuffixLink(pending.Source, newBranch)
			*pending = suffixlink.PendingLink{}
		}
		if _, err := scan.CreateLeaf(s, newBranch, suffixStart); err != nil {
			return nodeid.Null, nodeid.Null, err
		}
		return newBranch, cur, nil
	}
}

// naiveBuildAll inserts every suffix 1..LeafCount() by a full descent from
// the root, with no suffix-link bookkeeping: the O(n^2)-worst-case
// baseline both "simple" builder variants reduce to.
func naiveBuildAll(s scan.NodeStore) error {
	root := s.Root()
	for i := 1; i <= s.LeafCount(); i++ {
		if _, _, err := insertFrom(s, root, root, uint32(i), nil); err != nil {
			return err
		}
	}
	return nil
}

func invariantf(op string, node nodeid.ID, msg string) error {
	return buildfail.Invariant(op, node.String(), msg)
}
