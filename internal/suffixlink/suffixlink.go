// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package suffixlink implements suffix-link simulation (C5): top-down
// rescanning for LL/HT without backward pointers, and a climb-then-rescan
// bottom-up variant for LL-BP/HT-BP. Both report one of Found, NotYet or
// Fail, and both funnel the "target doesn't exist yet" case through a
// single PendingLink value that the next matching edge split resolves —
// see DESIGN NOTES in spec.md §9.
package suffixlink

import (
	"github.com/pbasista/stc-sub000/internal/buildfail"
	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/nodeid"
	"github.com/pbasista/stc-sub000/internal/scan"
)

// Outcome classifies the result of a suffix-link simulation attempt.
type Outcome int

const (
	Found Outcome = iota
	NotYet
	Fail
)

// PendingLink remembers a suffix-link source and the depth its target
// must eventually appear at, so the next edge split landing exactly on
// that depth can install it.
type PendingLink struct {
	Source      nodeid.ID
	TargetDepth uint32
}

// rescan walks from start toward targetDepth along T[pos..], using
// branch_once + depthscan at each explicit node, exactly as McCreight's
// rescan operation does after following a suffix link.
func rescan(s scan.NodeStore, start nodeid.ID, pos int, targetDepth uint32) (nodeid.ID, Outcome, error) {
	cur := start
	for {
		curDepth := s.Depth(cur)
		switch {
		case curDepth == targetDepth:
			return cur, Found, nil
		case curDepth > targetDepth:
			return nodeid.Null, Fail, buildfail.Invariant("suffixlink.rescan", cur.String(),
				"rescan overshot target depth without landing on an explicit node")
		}

		child, ok := scan.BranchOnce(s, cur, pos)
		if !ok {
			// the branching node at targetDepth doesn't exist yet: cur is
			// the deepest explicit ancestor known so far, and is where the
			// caller's own descent for the current suffix must resume.
			return cur, NotYet, nil
		}

		switch scan.DepthScan(s, child, targetDepth) {
		case charset.Less:
			pos = scan.EdgeDescend(s, cur, child, pos)
			cur = child
		case charset.Equal:
			return child, Found, nil
		default: // Greater: target depth lies strictly inside this edge,
			// so the node doesn't exist yet either — the split that
			// eventually creates it is deferred to the pending link.
			return cur, NotYet, nil
		}
	}
}

// TopDown simulates the suffix link of parent (whose immediate parent is
// grandpa) by following suffix_link(grandpa) — or starting at the root if
// grandpa is the root — then rescanning down to depth(parent)-1.
func TopDown(s scan.NodeStore, grandpa, parent nodeid.ID) (nodeid.ID, Outcome, PendingLink, error) {
	targetDepth := s.Depth(parent) - 1
	pending := PendingLink{Source: parent, TargetDepth: targetDepth}

	var start nodeid.ID
	if grandpa == s.Root() {
		start = s.Root()
	} else {
		sl := s.SuffixLink(grandpa)
		if sl.IsNull() {
			return nodeid.Null, Fail, pending, buildfail.Invariant("suffixlink.TopDown", grandpa.String(),
				"grandparent has no suffix link yet")
		}
		start = sl
	}

	hp := int(s.HeadPosition(parent))
	pos := hp + 1 + int(s.Depth(start))

	node, outcome, err := rescan(s, start, pos, targetDepth)
	if err != nil {
		return nodeid.Null, Fail, pending, err
	}
	if outcome == Found {
		s.SetSuffixLink(parent, node)
	}
	return node, outcome, pending, nil
}

// BottomUp simulates the suffix link of node using backward pointers:
// climb toward the root collecting the climbed depth, stopping at the
// first ancestor whose suffix link (or the root itself) is known, then
// rescan down from that known target — the climb replaces top-down's
// "start at suffix_link(grandpa)" with "discover the equivalent start
// point by walking up from node itself."
func BottomUp(s scan.NodeStore, node nodeid.ID) (nodeid.ID, Outcome, PendingLink, error) {
	targetDepth := s.Depth(node) - 1
	pending := PendingLink{Source: node, TargetDepth: targetDepth}

	cur := node
	for {
		p, tracked := s.Parent(cur)
		if !tracked {
			return nodeid.Null, Fail, pending, buildfail.Invariant("suffixlink.BottomUp", node.String(),
				"store does not track backward pointers")
		}
		if p.IsNull() {
			return nodeid.Null, Fail, pending, buildfail.Invariant("suffixlink.BottomUp", node.String(),
				"climbed past the root without finding a known suffix link")
		}
		if p == s.Root() {
			hp := int(s.HeadPosition(node))
			rNode, outcome, err := rescan(s, s.Root(), hp+1, targetDepth)
			if err != nil {
				return nodeid.Null, Fail, pending, err
			}
			if outcome == Found {
				s.SetSuffixLink(node, rNode)
			}
			return rNode, outcome, pending, nil
		}
		if sl := s.SuffixLink(p); !sl.IsNull() {
			hp := int(s.HeadPosition(node))
			pos := hp + 1 + int(s.Depth(sl))
			rNode, outcome, err := rescan(s, sl, pos, targetDepth)
			if err != nil {
				return nodeid.Null, Fail, pending, err
			}
			if outcome == Found {
				s.SetSuffixLink(node, rNode)
			}
			return rNode, outcome, pending, nil
		}
		cur = p
	}
}
