// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package stree is the public facade: choose a node representation and
// construction algorithm, Build a tree over a text, and Traverse it.
// Config.Validate enforces the compatibility matrix (LA only pairs with
// PWOTD, and vice versa) by aggregating every violation found, in the
// style of hashicorp/go-multierror, rather than stopping at the first.
package stree

import (
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/pbasista/stc-sub000/internal/builder"
	"github.com/pbasista/stc-sub000/internal/buildfail"
	"github.com/pbasista/stc-sub000/internal/charset"
	"github.com/pbasista/stc-sub000/internal/edgehash"
	"github.com/pbasista/stc-sub000/internal/htstore"
	"github.com/pbasista/stc-sub000/internal/lastore"
	"github.com/pbasista/stc-sub000/internal/llstore"
	"github.com/pbasista/stc-sub000/internal/pwotd"
	"github.com/pbasista/stc-sub000/internal/scan"
	"github.com/pbasista/stc-sub000/internal/storepool"
	"github.com/pbasista/stc-sub000/internal/visitor"
)

// Representation selects the node store's physical layout.
type Representation int

const (
	LL Representation = iota
	LLBP
	HT
	HTBP
	LA
)

func (r Representation) String() string {
	switch r {
	case LL:
		return "LL"
	case LLBP:
		return "LL-BP"
	case HT:
		return "HT"
	case HTBP:
		return "HT-BP"
	case LA:
		return "LA"
	default:
		return "unknown"
	}
}

// Algorithm selects the construction strategy.
type Algorithm int

const (
	MCCreightSimple Algorithm = iota
	MCCreightLinked
	UkkonenSimple
	UkkonenLinked
	PWOTD
)

func (a Algorithm) String() string {
	switch a {
	case MCCreightSimple:
		return "mccreight-simple"
	case MCCreightLinked:
		return "mccreight-linked"
	case UkkonenSimple:
		return "ukkonen-simple"
	case UkkonenLinked:
		return "ukkonen-linked"
	case PWOTD:
		return "pwotd"
	default:
		return "unknown"
	}
}

// Config selects every construction knob: representation and algorithm,
// the edge hash table's collision strategy (HT/HT-BP only), and the
// PWOTD partitioning depth (LA only).
type Config struct {
	Representation Representation
	Algorithm      Algorithm
	HashResolution edgehash.Resolution
	CuckooFns      int
	PrefixDepth    int
}

// Validate checks Config against the representation/algorithm
// compatibility matrix, collecting every violation rather than
// returning only the first.
func (c Config) Validate() error {
	var merr *multierror.Error

	switch {
	case c.Representation == LA && c.Algorithm != PWOTD:
		merr = multierror.Append(merr, buildfail.New(buildfail.ConfigError, "stree.Config.Validate",
			"the LA representation can only be built by the PWOTD algorithm"))
	case c.Representation != LA && c.Algorithm == PWOTD:
		merr = multierror.Append(merr, buildfail.New(buildfail.ConfigError, "stree.Config.Validate",
			"the PWOTD algorithm only builds the LA representation"))
	}

	if (c.Representation == LLBP || c.Representation == HTBP) &&
		(c.Algorithm == MCCreightSimple || c.Algorithm == UkkonenSimple) {
		merr = multierror.Append(merr, buildfail.New(buildfail.ConfigError, "stree.Config.Validate",
			"backward pointers are only compatible with the McCreight/Ukkonen linked variants, not the simple ones"))
	}

	switch c.Representation {
	case LL, LLBP, HT, HTBP, LA:
	default:
		merr = multierror.Append(merr, buildfail.New(buildfail.ConfigError, "stree.Config.Validate",
			"unknown representation"))
	}

	switch c.Algorithm {
	case MCCreightSimple, MCCreightLinked, UkkonenSimple, UkkonenLinked, PWOTD:
	default:
		merr = multierror.Append(merr, buildfail.New(buildfail.ConfigError, "stree.Config.Validate",
			"unknown algorithm"))
	}

	return merr.ErrorOrNil()
}

// Tree is a constructed suffix tree, in whichever representation its
// Config chose.
type Tree struct {
	cfg  Config
	text *charset.Text
	ll   *llstore.Store
	ht   *htstore.Store
	la   *lastore.Store
}

// Build validates cfg and constructs a tree for text.
func Build(text *charset.Text, cfg Config) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Tree{cfg: cfg, text: text}

	switch cfg.Representation {
	case LL, LLBP:
		s := llstore.New(text, cfg.Representation == LLBP)
		if err := runAlgorithm(s, cfg.Algorithm); err != nil {
			return nil, err
		}
		t.ll = s
	case HT, HTBP:
		s := htstore.New(text, cfg.Representation == HTBP, cfg.HashResolution, cfg.CuckooFns)
		if err := runAlgorithm(s, cfg.Algorithm); err != nil {
			return nil, err
		}
		t.ht = s
	case LA:
		s, err := pwotd.Build(text, cfg.PrefixDepth)
		if err != nil {
			return nil, err
		}
		t.la = s
	}

	return t, nil
}

// BuildPooledLL constructs an LL/LL-BP tree using a store checked out of
// pool, so a benchmark harness running many construct/traverse/delete
// cycles over the same text can reuse backing arrays instead of paying a
// fresh allocation every iteration. The caller must return the tree's
// store to pool itself (via Tree.ReleaseTo) instead of calling Delete,
// which would free the arrays pool expects back.
func BuildPooledLL(text *charset.Text, cfg Config, pool *storepool.LLPool) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Representation != LL && cfg.Representation != LLBP {
		return nil, buildfail.New(buildfail.ConfigError, "stree.BuildPooledLL", "pooled LL build requires the LL or LL-BP representation")
	}
	s := pool.Get(text)
	if err := runAlgorithm(s, cfg.Algorithm); err != nil {
		pool.Put(s)
		return nil, err
	}
	return &Tree{cfg: cfg, text: text, ll: s}, nil
}

// BuildPooledHT is BuildPooledLL's HT/HT-BP counterpart.
func BuildPooledHT(text *charset.Text, cfg Config, pool *storepool.HTPool) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Representation != HT && cfg.Representation != HTBP {
		return nil, buildfail.New(buildfail.ConfigError, "stree.BuildPooledHT", "pooled HT build requires the HT or HT-BP representation")
	}
	s := pool.Get(text)
	if err := runAlgorithm(s, cfg.Algorithm); err != nil {
		pool.Put(s)
		return nil, err
	}
	return &Tree{cfg: cfg, text: text, ht: s}, nil
}

// ReleaseTo returns a pooled tree's backing store to pool, instead of
// freeing it via Delete. Only valid for trees built by BuildPooledLL.
func (t *Tree) ReleaseTo(pool *storepool.LLPool) {
	pool.Put(t.ll)
	t.ll = nil
}

// ReleaseToHT returns a pooled tree's backing store to pool, instead of
// freeing it via Delete. Only valid for trees built by BuildPooledHT.
func (t *Tree) ReleaseToHT(pool *storepool.HTPool) {
	pool.Put(t.ht)
	t.ht = nil
}

func runAlgorithm(s scan.NodeStore, alg Algorithm) error {
	switch alg {
	case MCCreightSimple:
		return builder.MCCreightSimple(s)
	case MCCreightLinked:
		return builder.MCCreightLinked(s)
	case UkkonenSimple:
		return builder.UkkonenSimple(s)
	case UkkonenLinked:
		return builder.UkkonenLinked(s)
	default:
		return buildfail.New(buildfail.ConfigError, "stree.runAlgorithm", "algorithm is not compatible with this representation")
	}
}

// LeafCount reports the number of leaves (n+1, including the suffix
// consisting solely of the sentinel).
func (t *Tree) LeafCount() int {
	switch t.cfg.Representation {
	case LL, LLBP:
		return t.ll.LeafCount()
	case HT, HTBP:
		return t.ht.LeafCount()
	default:
		leaves := 0
		for ref := lastore.Ref(1); int(ref) <= t.la.Len(); ref++ {
			if t.la.IsLeaf(ref) {
				leaves++
			}
		}
		return leaves
	}
}

// MemoryStats reports bytes currently in use versus bytes the underlying
// store's backing arrays have reserved.
func (t *Tree) MemoryStats() (used, allocated uint64) {
	switch t.cfg.Representation {
	case LL, LLBP:
		return t.ll.MemoryStats()
	case HT, HTBP:
		return t.ht.MemoryStats()
	default:
		return t.la.MemoryStats()
	}
}

// Delete releases the tree's backing storage.
func (t *Tree) Delete() {
	switch t.cfg.Representation {
	case LL, LLBP:
		t.ll.Delete()
	case HT, HTBP:
		t.ht.Delete()
	case LA:
		t.la = nil
	}
}

// Traverse writes a dump of the tree to w: one edge (or node, in the
// Simple format) per line.
func (t *Tree) Traverse(w io.Writer, detailed bool) error {
	switch t.cfg.Representation {
	case LL, LLBP:
		if detailed {
			visitor.DumpDetailed(w, t.ll)
		} else {
			visitor.DumpSimple(w, t.ll)
		}
	case HT, HTBP:
		if detailed {
			visitor.DumpDetailed(w, t.ht)
		} else {
			visitor.DumpSimple(w, t.ht)
		}
	case LA:
		if detailed {
			visitor.DumpDetailedLA(w, t.la)
		} else {
			visitor.DumpSimpleLA(w, t.la)
		}
	}
	return nil
}
