// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package visitor implements ordered traversal (C8) over a constructed
// tree, in two flavors: Walk/DumpDetailed/DumpSimple for the NodeStore-
// backed representations (LL, LL-BP, HT, HT-BP), and WalkLA/
// DumpDetailedLA for the LA array built by internal/pwotd, which needs
// its own entry point since LA does not implement NodeStore.
package visitor

import (
	"fmt"
	"io"

	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/lastore"
	"github.com/pbasista/stc-sub000/internal/nodeid"
	"github.com/pbasista/stc-sub000/internal/scan"
)

// Store is the children-enumeration contract traversal needs beyond
// scan.NodeStore's construction-time primitives.
type Store interface {
	scan.NodeStore
	ChildrenAscending(parent nodeid.ID) []nodeid.ID
}

// EdgeFunc is invoked once per edge during a Walk.
type EdgeFunc func(parent, child nodeid.ID, depth uint32)

// Walk performs an ascending-order depth-first traversal, calling enter
// before descending into child's own children and leave once they are
// exhausted.
func Walk(store Store, enter, leave EdgeFunc) {
	var rec func(node nodeid.ID)
	rec = func(node nodeid.ID) {
		for _, child := range store.ChildrenAscending(node) {
			depth := store.Depth(child)
			enter(node, child, depth)
			if child.IsBranch() {
				rec(child)
			}
			leave(node, child, depth)
		}
	}
	rec(store.Root())
}

func edgeLabel(store Store, parent, child nodeid.ID) []uint32 {
	text := store.Text()
	pd, cd, hp := store.Depth(parent), store.Depth(child), store.HeadPosition(child)
	out := make([]uint32, cd-pd)
	for i := range out {
		out[i] = text.At(int(hp) + int(pd) + i)
	}
	return out
}

func formatUnits(units []uint32) string {
	r := make([]rune, len(units))
	for i, u := range units {
		if u == charset.Sentinel {
			r[i] = '$'
			continue
		}
		r[i] = rune(u)
	}
	return string(r)
}

func kindMark(id nodeid.ID) string {
	if id.IsLeaf() {
		return "leaf"
	}
	return "branch"
}

// DumpDetailed writes one line per edge: parent id, child id, its kind,
// depth, head position and the edge label.
func DumpDetailed(w io.Writer, store Store) {
	Walk(store, func(parent, child nodeid.ID, depth uint32) {
		fmt.Fprintf(w, "%s -> %s (%s) depth=%d head=%d label=%q\n",
			parent, child, kindMark(child), depth, store.HeadPosition(child), formatUnits(edgeLabel(store, parent, child)))
	}, func(nodeid.ID, nodeid.ID, uint32) {})
}

// DumpSimple writes an indented outline of the tree's shape only — no
// labels or positions, one line per node.
func DumpSimple(w io.Writer, store Store) {
	var rec func(node nodeid.ID, indent int)
	rec = func(node nodeid.ID, indent int) {
		for _, child := range store.ChildrenAscending(node) {
			fmt.Fprintf(w, "%*s%s\n", indent, "", kindMark(child))
			if child.IsBranch() {
				rec(child, indent+2)
			}
		}
	}
	rec(store.Root(), 0)
}

// EdgeFuncLA is invoked once per edge during a WalkLA.
type EdgeFuncLA func(parent, child lastore.Ref, depth uint32)

// WalkLA performs the same ascending-order depth-first traversal over an
// LA store, decoding the LEAF and RIGHTMOST flag bits packed into each
// cell rather than dereferencing sibling or hash-table pointers.
func WalkLA(store *lastore.Store, enter, leave EdgeFuncLA) {
	var rec func(node lastore.Ref)
	rec = func(node lastore.Ref) {
		if store.IsLeaf(node) {
			return
		}
		for _, child := range store.Children(node) {
			depth := store.Depth(child)
			enter(node, child, depth)
			if !store.IsLeaf(child) {
				rec(child)
			}
			leave(node, child, depth)
		}
	}
	rec(store.Root())
}

// DumpSimpleLA is DumpSimple's LA counterpart.
func DumpSimpleLA(w io.Writer, store *lastore.Store) {
	var rec func(node lastore.Ref, indent int)
	rec = func(node lastore.Ref, indent int) {
		for _, child := range store.Children(node) {
			kind := "branch"
			if store.IsLeaf(child) {
				kind = "leaf"
			}
			fmt.Fprintf(w, "%*s%s\n", indent, "", kind)
			if !store.IsLeaf(child) {
				rec(child, indent+2)
			}
		}
	}
	rec(store.Root(), 0)
}

// DumpDetailedLA is DumpDetailed's LA counterpart, additionally
// reporting each child's RIGHTMOST flag.
func DumpDetailedLA(w io.Writer, store *lastore.Store) {
	WalkLA(store, func(parent, child lastore.Ref, depth uint32) {
		text := store.Text()
		pd, hp := store.Depth(parent), store.HeadPosition(child)
		units := make([]uint32, depth-pd)
		for i := range units {
			units[i] = text.At(int(hp) + int(pd) + i)
		}
		kind := "branch"
		if store.IsLeaf(child) {
			kind = "leaf"
		}
		fmt.Fprintf(w, "%d -> %d (%s) depth=%d head=%d rightmost=%t label=%q\n",
			parent, child, kind, depth, hp, store.IsRightmost(child), formatUnits(units))
	}, func(lastore.Ref, lastore.Ref, uint32) {})
}
