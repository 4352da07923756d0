// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/pbasista/stc-sub000/internal/nodeid"
	"github.com/pbasista/stc-sub000/internal/scan"
	"github.com/pbasista/stc-sub000/internal/suffixlink"
)

// MCCreightSimple inserts every suffix by a full descent from the root,
// ignoring suffix links entirely.
func MCCreightSimple(s scan.NodeStore) error {
	return naiveBuildAll(s)
}

// MCCreightLinked builds the tree suffix by suffix, using McCreight's
// rescan technique to skip directly to (an ancestor of) head(i) instead
// of redescending from the root each time.
//
// Every branching node's parent is recorded here as it is discovered, so
// the suffix-link simulation always has a parentOf[v] to hand to
// suffixlink.TopDown even for LL/HT stores that don't track backward
// pointers at all. When the store does track them (LL-BP/HT-BP), the
// cheaper suffixlink.BottomUp climb is used instead, since it needs no
// auxiliary bookkeeping beyond what the store itself already tracks.
func MCCreightLinked(s scan.NodeStore) error {
	root := s.Root()
	s.SetSuffixLink(root, root)

	_, backward := s.Parent(root)

	parentOf := make(map[nodeid.ID]nodeid.ID, s.LeafCount())
	parentOf[root] = nodeid.Null

	head, headParent, err := insertFrom(s, root, root, 1, nil)
	if err != nil {
		return err
	}
	if head != root {
		parentOf[head] = headParent
	}

	for i := 2; i <= s.LeafCount(); i++ {
		v := headParent
		if head == root {
			v = root
		}

		var start nodeid.ID
		var pending suffixlink.PendingLink
		var havePending bool
		switch {
		case v == root:
			start = root
		default:
			if sl := s.SuffixLink(v); !sl.IsNull() {
				start = sl
			} else {
				var node nodeid.ID
				var outcome suffixlink.Outcome
				var pend suffixlink.PendingLink
				if backward {
					node, outcome, pend, err = suffixlink.BottomUp(s, v)
				} else {
					grandpa, known := parentOf[v]
					if !known {
						return invariantf("builder.MCCreightLinked", v, "parent of suffix-link source is unknown")
					}
					node, outcome, pend, err = suffixlink.TopDown(s, grandpa, v)
				}
				if err != nil {
					return err
				}
				switch outcome {
				case suffixlink.Found:
					start = node
				case suffixlink.NotYet:
					// the suffix link's target lies strictly inside an
					// edge below node (or doesn't branch yet): resume
					// the descent for suffix i from node, and let the
					// next split this iteration performs install v's
					// suffix link once it lands exactly at pend.TargetDepth.
					start = node
					pending = pend
					havePending = true
				default:
					return invariantf("builder.MCCreightLinked", v, "suffix link simulation failed")
				}
			}
		}

		sp, known := parentOf[start]
		if !known {
			return invariantf("builder.MCCreightLinked", start, "parent of rescan landing point is unknown")
		}

		var pendingArg *suffixlink.PendingLink
		if havePending {
			pendingArg = &pending
		}
		h, hp, err := insertFrom(s, start, sp, uint32(i), pendingArg)
		if err != nil {
			return err
		}
		if h != start {
			parentOf[h] = hp
		}
		head, headParent = h, hp
	}

	return nil
}
