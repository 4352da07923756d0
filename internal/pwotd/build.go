// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pwotd

import (
	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/lastore"
)

// correctnessSkipThreshold bounds the "very short text" case spec.md §9
// calls out: below it, partitioning buys nothing but complexity, so an
// auto-resolved prefixDepth skips straight to the single-partition path
// that Phase 3 alone can expand correctly.
const correctnessSkipThreshold = 1 << 20

// partitionRange is a partition-range stack entry (Phase 2): a
// contiguous run of parts[lo:hi], all distinguished so far only by the
// characters already consumed reaching parentDepth, whose parent cell is
// parentRef and whose first-child slot is still unset.
type partitionRange struct {
	lo, hi      int
	parentDepth uint32
	parentRef   lastore.Ref
}

// pendingPartition is a partition Phase 2 isolated (a sub-range reduced
// to exactly one multi-suffix partition) but could not expand itself,
// since doing so needs the partition's actual suffixes, not just its
// boundary — scheduled for Phase 3 instead.
type pendingPartition struct {
	part      partitionInfo
	branchRef lastore.Ref
	depth     uint32
}

// runPartitionRanges drives Phase 2's partition-range stack: it never
// touches an individual suffix, working entirely off partition
// boundaries, and returns every partition Phase 3 must still expand.
func runPartitionRanges(text *charset.Text, store *lastore.Store, suffixes []uint32, parts []partitionInfo, root lastore.Ref) []pendingPartition {
	if len(parts) == 1 {
		// no partition boundary to scan at all (prefixDepth == 0, or
		// every suffix happened to share the same p-prefix): the whole
		// tree is root's own output_nodes expansion, nothing for the
		// partition-range stack to do.
		return []pendingPartition{{part: parts[0], branchRef: root, depth: 0}}
	}

	var scheduled []pendingPartition
	stack := []partitionRange{{lo: 0, hi: len(parts), parentDepth: 0, parentRef: root}}

	for len(stack) > 0 {
		rng := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		subs := groupPartitionsByChar(text, suffixes, parts, rng.lo, rng.hi, int(rng.parentDepth))

		refs := make([]lastore.Ref, len(subs))
		for i, sub := range subs {
			switch {
			case sub.hi-sub.lo == 1 && parts[sub.lo].length == 1:
				pos := suffixes[parts[sub.lo].start]
				refs[i] = store.AllocLeaf(pos, uint32(remaining(text, pos)))
			case sub.hi-sub.lo == 1:
				// a lone multi-suffix partition: its branch sits at the
				// exact common-prefix length of its members, which can
				// exceed parentDepth+1.
				p := parts[sub.lo]
				lcp := remaining(text, suffixes[p.start])
				for k := p.start + 1; k < p.start+p.length; k++ {
					lcp = min(lcp, commonPrefixLen(text, suffixes[p.start], suffixes[k]))
				}
				refs[i] = store.AllocBranch(uint32(lcp))
			default:
				// several partitions: they are sorted by prefix, so their
				// branch sits at the common-prefix length of the first and
				// last of them.
				lcp := commonPrefixLen(text, suffixes[parts[sub.lo].start], suffixes[parts[sub.hi-1].start])
				refs[i] = store.AllocBranch(uint32(lcp))
			}
		}
		store.SetChildStart(rng.parentRef, refs[0])
		store.MarkRightmost(refs[len(refs)-1])

		for i, sub := range subs {
			switch {
			case sub.hi-sub.lo == 1 && parts[sub.lo].length == 1:
				// leaf cell already fully written above.
			case sub.hi-sub.lo == 1:
				scheduled = append(scheduled, pendingPartition{
					part:      parts[sub.lo],
					branchRef: refs[i],
					depth:     store.Depth(refs[i]),
				})
			default:
				stack = append(stack, partitionRange{lo: sub.lo, hi: sub.hi, parentDepth: store.Depth(refs[i]), parentRef: refs[i]})
			}
		}
	}

	return scheduled
}

// mainStackEntry is output_nodes' own worklist entry (Phase 3): a
// contiguous, already fully-sorted suffix range known to share at least
// `lcp` leading characters, whose parent cell is parentRef.
type mainStackEntry struct {
	lo, hi    int
	lcp       uint32
	parentRef lastore.Ref
}

// outputNodes expands sub[0:len(sub)) — one partition's suffixes, sorted
// into true lexicographic order by the caller — directly into store,
// driven by its own main stack. empty_stack is this same loop: each
// popped entry is refined to its exact LCP (pwotdDetermineLCP) before
// being partitioned further, repeating until the stack runs dry.
func outputNodes(text *charset.Text, store *lastore.Store, sub []uint32, rootLCP uint32, rootRef lastore.Ref) {
	stack := []mainStackEntry{{lo: 0, hi: len(sub), lcp: rootLCP, parentRef: rootRef}}

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		lcp := pwotdDetermineLCP(text, sub, e.lo, e.hi, e.lcp)
		groups := groupSuffixesByChar(text, sub, e.lo, e.hi, int(lcp))

		refs := make([]lastore.Ref, len(groups))
		for i, g := range groups {
			if g.hi-g.lo == 1 {
				pos := sub[g.lo]
				refs[i] = store.AllocLeaf(pos, uint32(remaining(text, pos)))
			} else {
				refs[i] = store.AllocBranch(pwotdDetermineLCP(text, sub, g.lo, g.hi, lcp+1))
			}
		}
		store.SetChildStart(e.parentRef, refs[0])
		store.MarkRightmost(refs[len(refs)-1])

		for i, g := range groups {
			if g.hi-g.lo > 1 {
				stack = append(stack, mainStackEntry{lo: g.lo, hi: g.hi, lcp: lcp + 1, parentRef: refs[i]})
			}
		}
	}
}

// evaluatePartition is Phase 3's per-partition step: radix-sort the
// partition's own suffixes on the characters past what its boundary
// already fixed, then call output_nodes over the whole range.
func evaluatePartition(text *charset.Text, store *lastore.Store, suffixes []uint32, pp pendingPartition) {
	sub := suffixes[pp.part.start : pp.part.start+pp.part.length]
	sortSuffixesFrom(text, sub, int(pp.depth))
	outputNodes(text, store, sub, pp.depth, pp.branchRef)
}

// Build partitions and constructs a full suffix tree for text, writing
// it into a freshly allocated LA store. Phase 1 radix-sorts suffixes by
// their first prefixDepth characters and derives partition boundaries;
// Phase 2's partition-range stack reconstructs the tree's shared top
// frame directly from those boundaries; Phase 3 expands, in LIFO order,
// every partition Phase 2 could not resolve on its own.
func Build(text *charset.Text, prefixDepth int) (*lastore.Store, error) {
	if prefixDepth < 1 {
		if text.EffLen()+1 <= correctnessSkipThreshold {
			prefixDepth = 0
		} else {
			prefixDepth = DefaultPrefixDepth(text.N)
		}
	}

	suffixes := make([]uint32, text.EffLen())
	for i := range suffixes {
		suffixes[i] = uint32(i + 1)
	}

	store := lastore.New(text, 2*len(suffixes)+1)
	root := store.Root()

	var parts []partitionInfo
	if prefixDepth == 0 {
		parts = []partitionInfo{{start: 0, length: len(suffixes), lcpSize: 0}}
	} else {
		radixSorted := radixPartition(text, suffixes, prefixDepth)
		suffixes = radixSorted
		parts = partitionByPrefix(text, suffixes, prefixDepth)
	}

	scheduled := runPartitionRanges(text, store, suffixes, parts, root)
	for i := len(scheduled) - 1; i >= 0; i-- {
		evaluatePartition(text, store, suffixes, scheduled[i])
	}

	return store, nil
}
