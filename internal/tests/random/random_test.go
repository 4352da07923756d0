// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package random mirrors the teacher's internal/tests/random:
// math/rand/v2-driven generation of small texts, checked against the
// same store-equivalence and reconstruction invariants as
// internal/tests/golden's fixed scenarios.
package random

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/pbasista/stc-sub000/internal/builder"
	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/edgehash"
	"github.com/pbasista/stc-sub000/internal/htstore"
	"github.com/pbasista/stc-sub000/internal/lastore"
	"github.com/pbasista/stc-sub000/internal/llstore"
	"github.com/pbasista/stc-sub000/internal/nodeid"
	"github.com/pbasista/stc-sub000/internal/pwotd"
	"github.com/pbasista/stc-sub000/internal/scan"
)

func randomText(prng *rand.Rand, alphabet string, n int) *charset.Text {
	units := make([]uint32, n)
	for i := range units {
		units[i] = uint32(alphabet[prng.IntN(len(alphabet))])
	}
	return charset.New(units, charset.ASCII)
}

func renderUnit(u uint32) string {
	if u == charset.Sentinel {
		return "$"
	}
	return string(rune(u))
}

type store interface {
	Text() *charset.Text
	Root() nodeid.ID
	Depth(id nodeid.ID) uint32
	HeadPosition(id nodeid.ID) uint32
	ChildrenAscending(parent nodeid.ID) []nodeid.ID
}

func suffixMap(s store) map[uint32]string {
	text := s.Text()
	out := make(map[uint32]string)
	var rec func(parent nodeid.ID, prefix string)
	rec = func(parent nodeid.ID, prefix string) {
		pd := s.Depth(parent)
		for _, child := range s.ChildrenAscending(parent) {
			cd := s.Depth(child)
			hp := s.HeadPosition(child)
			label := ""
			for i := 0; i < int(cd-pd); i++ {
				label += renderUnit(text.At(int(hp) + int(pd) + i))
			}
			full := prefix + label
			if child.IsLeaf() {
				out[child.LeafPos()] = full
				continue
			}
			rec(child, full)
		}
	}
	rec(s.Root(), "")
	return out
}

func suffixMapLA(la *lastore.Store) map[uint32]string {
	text := la.Text()
	out := make(map[uint32]string)
	var rec func(node lastore.Ref, depth uint32, prefix string)
	rec = func(node lastore.Ref, depth uint32, prefix string) {
		if la.IsLeaf(node) {
			out[la.LeafPos(node)] = prefix
			return
		}
		for _, child := range la.Children(node) {
			cd := la.Depth(child)
			hp := la.HeadPosition(child)
			label := ""
			for i := 0; i < int(cd-depth); i++ {
				label += renderUnit(text.At(int(hp) + int(depth) + i))
			}
			rec(child, cd, prefix+label)
		}
	}
	rec(la.Root(), 0, "")
	return out
}

// TestRandomStoreEquivalence checks invariant 7 (store equivalence) over
// many small randomly generated texts: every compatible (store,
// algorithm) combination must agree on the exact same suffix set.
func TestRandomStoreEquivalence(t *testing.T) {
	prng := rand.New(rand.NewPCG(1, 2))

	algos := []struct {
		name string
		run  func(scan.NodeStore) error
	}{
		{"mccreight-simple", builder.MCCreightSimple},
		{"mccreight-linked", builder.MCCreightLinked},
		{"ukkonen-simple", builder.UkkonenSimple},
		{"ukkonen-linked", builder.UkkonenLinked},
	}

	for trial := 0; trial < 40; trial++ {
		n := 1 + prng.IntN(12)
		text := randomText(prng, "ab", n)

		var reference map[uint32]string
		for _, a := range algos {
			s := llstore.New(text, false)
			if err := a.run(s); err != nil {
				t.Fatalf("trial %d LL/%s: %v", trial, a.name, err)
			}
			got := suffixMap(s)
			if reference == nil {
				reference = got
			} else if !reflect.DeepEqual(got, reference) {
				t.Errorf("trial %d LL/%s: suffix map disagrees with LL/%s\n got  %v\n want %v",
					trial, a.name, algos[0].name, got, reference)
			}
		}

		for _, a := range algos {
			s := htstore.New(text, false, edgehash.Cuckoo, 8)
			if err := a.run(s); err != nil {
				t.Fatalf("trial %d HT/%s: %v", trial, a.name, err)
			}
			got := suffixMap(s)
			if !reflect.DeepEqual(got, reference) {
				t.Errorf("trial %d HT/%s: suffix map disagrees with LL reference\n got  %v\n want %v",
					trial, a.name, got, reference)
			}
		}

		la, err := pwotd.Build(text, 0)
		if err != nil {
			t.Fatalf("trial %d LA/pwotd: %v", trial, err)
		}
		gotLA := suffixMapLA(la)
		if !reflect.DeepEqual(gotLA, reference) {
			t.Errorf("trial %d LA/pwotd: suffix map disagrees with LL reference\n got  %v\n want %v",
				trial, gotLA, reference)
		}
	}
}

// TestRandomHTEdgeLookups checks the randomized-properties list's HT
// claim: after construction, BranchOnce succeeds for exactly the edges
// that exist and fails for everything else, under both collision
// resolution strategies.
func TestRandomHTEdgeLookups(t *testing.T) {
	prng := rand.New(rand.NewPCG(3, 4))

	for _, resolution := range []edgehash.Resolution{edgehash.Cuckoo, edgehash.DoubleHash} {
		for trial := 0; trial < 20; trial++ {
			n := 1 + prng.IntN(10)
			text := randomText(prng, "abc", n)

			s := htstore.New(text, false, resolution, 8)
			if err := builder.MCCreightSimple(s); err != nil {
				t.Fatalf("trial %d: %v", trial, err)
			}

			var rec func(parent nodeid.ID)
			rec = func(parent nodeid.ID) {
				present := map[uint32]bool{}
				for _, child := range s.ChildrenAscending(parent) {
					c := text.At(int(s.HeadPosition(child)) + int(s.Depth(parent)))
					if _, ok := s.BranchOnce(parent, c); !ok {
						t.Errorf("trial %d: BranchOnce(%s, %d) failed for a known edge", trial, parent, c)
					}
					present[c] = true
					if child.IsBranch() {
						rec(child)
					}
				}
				for _, c := range []uint32{'a', 'b', 'c', 'd', charset.Sentinel} {
					if present[c] {
						continue
					}
					if _, ok := s.BranchOnce(parent, c); ok {
						t.Errorf("trial %d: BranchOnce(%s, %d) unexpectedly succeeded", trial, parent, c)
					}
				}
			}
			rec(s.Root())
		}
	}
}
