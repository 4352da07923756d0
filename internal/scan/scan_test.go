// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package scan_test

import (
	"testing"

	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/llstore"
	"github.com/pbasista/stc-sub000/internal/nodeid"
	"github.com/pbasista/stc-sub000/internal/scan"
)

func textFor(s string) *charset.Text {
	units := make([]uint32, len(s))
	for i := 0; i < len(s); i++ {
		units[i] = uint32(s[i])
	}
	return charset.New(units, charset.ASCII)
}

// buildSample hand-assembles a small two-level tree over "ab" ($-terminated
// as "ab$"): root has a sentinel-led leaf for suffix 3 ("$") and an 'a'-led
// branch (depth 1, representing "a") with two leaves underneath: suffix 1
// (edge "b$") and suffix 2 (edge "$"). Not a full suffix tree of "ab" — just enough
// structure for scan's primitives to walk.
func buildSample(t *testing.T) (store *llstore.Store, root, branch nodeid.ID) {
	t.Helper()
	text := textFor("ab")
	s := llstore.New(text, false)
	root = s.Root()

	leaf1, err := s.CreateLeaf(root, 1) // firstChar T[1]='a'
	if err != nil {
		t.Fatal(err)
	}
	branch, err = s.SplitEdge(root, leaf1, 1, 1) // depth 1, headPos 1
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateLeaf(branch, 2); err != nil { // firstChar T[2+1]=sentinel
		t.Fatal(err)
	}
	if _, err := s.CreateLeaf(root, 3); err != nil { // firstChar T[3]=sentinel
		t.Fatal(err)
	}
	return s, root, branch
}

func TestDepthScan(t *testing.T) {
	s, _, branch := buildSample(t)

	if got := scan.DepthScan(s, branch, s.Depth(branch)); got != charset.Equal {
		t.Errorf("DepthScan at exact depth = %s, want Equal", got)
	}
	if got := scan.DepthScan(s, branch, s.Depth(branch)+1); got != charset.Less {
		t.Errorf("DepthScan below target = %s, want Less", got)
	}
	if got := scan.DepthScan(s, branch, s.Depth(branch)-1); got != charset.Greater {
		t.Errorf("DepthScan above target = %s, want Greater", got)
	}
}

func TestFastScan(t *testing.T) {
	s, root, branch := buildSample(t)

	if got := scan.FastScan(s, root, branch, 1); got != charset.Equal {
		t.Errorf("FastScan('a' edge against T[1]='a') = %s, want Equal", got)
	}
	if got := scan.FastScan(s, root, branch, 3); got != charset.Greater {
		t.Errorf("FastScan('a' edge against T[3]=sentinel) = %s, want Greater", got)
	}
}

func TestSlowScanFullAndBoundedMatch(t *testing.T) {
	s, _, branch := buildSample(t)

	leaf, ok := s.BranchOnce(branch, charset.Sentinel)
	if !ok {
		t.Fatal("expected a sentinel edge under the split node")
	}
	full := scan.SlowScan(s, branch, leaf, 3, 99) // edge label is a single sentinel char, T[3]
	if full.Outcome != scan.FullMatch {
		t.Errorf("Outcome = %v, want FullMatch", full.Outcome)
	}

	bounded := scan.SlowScan(s, branch, leaf, 3, 0)
	if bounded.Outcome != scan.BoundedMatch || bounded.Matched != 0 {
		t.Errorf("bounded scan = %+v, want BoundedMatch with 0 matched", bounded)
	}
}

func TestSlowScanMismatch(t *testing.T) {
	s, root, branch := buildSample(t)
	_ = branch

	child, ok := s.BranchOnce(root, 'a')
	if !ok {
		t.Fatal("expected an 'a' edge under the root")
	}
	// T[3] = sentinel, mismatching the 'a' edge (sentinel sorts smallest).
	result := scan.SlowScan(s, root, child, 3, 99)
	if result.Outcome != scan.Mismatch {
		t.Fatalf("Outcome = %v, want Mismatch", result.Outcome)
	}
	if result.Order != charset.Less {
		t.Errorf("Order = %s, want Less (sentinel < 'a')", result.Order)
	}
}

func TestBranchOnce(t *testing.T) {
	s, root, _ := buildSample(t)

	if _, ok := scan.BranchOnce(s, root, 1); !ok { // T[1] = 'a'
		t.Error("BranchOnce via text position failed for an existing edge")
	}
	if _, ok := s.BranchOnce(root, 'z'); ok {
		t.Error("BranchOnce succeeded for a character with no edge")
	}
}

func TestEdgeDescendAndClimb(t *testing.T) {
	s, root, branch := buildSample(t)

	pos := 1
	want := pos + int(s.Depth(branch)) - int(s.Depth(root))
	if got := scan.EdgeDescend(s, root, branch, pos); got != want {
		t.Errorf("EdgeDescend = %d, want %d", got, want)
	}

	// climb requires backward pointers, which this store does not track.
	if _, _, ok := scan.EdgeClimb(s, branch, pos); ok {
		t.Error("EdgeClimb succeeded on a store without backward pointers")
	}
}

func TestEdgeClimbWithBackwardPointers(t *testing.T) {
	text := textFor("ab")
	s := llstore.New(text, true)
	root := s.Root()

	leaf1, err := s.CreateLeaf(root, 1)
	if err != nil {
		t.Fatal(err)
	}
	branch, err := s.SplitEdge(root, leaf1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	pos := scan.EdgeDescend(s, root, branch, 1)
	parent, newPos, ok := scan.EdgeClimb(s, branch, pos)
	if !ok {
		t.Fatal("EdgeClimb failed on a backward-pointer-tracking store")
	}
	if parent != root {
		t.Errorf("EdgeClimb parent = %s, want root", parent)
	}
	if newPos != 1 {
		t.Errorf("EdgeClimb newPos = %d, want 1", newPos)
	}
}
