package main

import (
	"github.com/pbasista/stc-sub000/internal/buildfail"
	"github.com/pbasista/stc-sub000/internal/edgehash"
	"github.com/pbasista/stc-sub000/internal/loader"
	"github.com/pbasista/stc-sub000/stree"
)

// benchmarkKind selects how far a run carries the tree after construction.
type benchmarkKind int

const (
	constructOnly benchmarkKind = iota
	constructTraverseDelete
)

// traversalKind selects the dump format (spec.md §6's traversal_type).
type traversalKind int

const (
	traversalSimple traversalKind = iota
	traversalDetailed
)

const maxInternalEncodingLen = 63

// flags mirrors the invocation surface of spec.md §6, one field per
// pflag switch, before any cross-flag validation or enum resolution.
type flags struct {
	typ                 string
	algorithm           string
	benchmark           string
	variation           string
	prefixLength        int
	collisionResolution string
	cuckooHashFunctions int
	traversalType       string
	input               string
	inputEncoding       string
	internalEncoding    string
	dumpPath            string
	logLevel            string
	iterations          int
}

// resolved is flags after parsing into the module's own vocabulary.
type resolved struct {
	cfg          stree.Config
	loadEncoding loader.Encoding
	benchmark    benchmarkKind
	traversal    traversalKind
	input        string
	dumpPath     string
	iterations   int
}

func parseType(typ, variation string) (stree.Representation, error) {
	bp := variation == "BackwardPointers"
	switch typ {
	case "LL":
		if bp {
			return stree.LLBP, nil
		}
		return stree.LL, nil
	case "HT":
		if bp {
			return stree.HTBP, nil
		}
		return stree.HT, nil
	case "LA":
		if bp {
			return 0, buildfail.New(buildfail.ConfigError, "config.parseType", "LA has no backward-pointer variant")
		}
		return stree.LA, nil
	default:
		return 0, buildfail.Newf(buildfail.ConfigError, "config.parseType", "unknown -type %q", typ)
	}
}

func parseAlgorithm(algorithm string) (stree.Algorithm, error) {
	switch algorithm {
	case "SimpleMcCreight":
		return stree.MCCreightSimple, nil
	case "McCreight":
		return stree.MCCreightLinked, nil
	case "SimpleUkkonen":
		return stree.UkkonenSimple, nil
	case "Ukkonen":
		return stree.UkkonenLinked, nil
	case "PWOTD":
		return stree.PWOTD, nil
	default:
		return 0, buildfail.Newf(buildfail.ConfigError, "config.parseAlgorithm", "unknown -algorithm %q", algorithm)
	}
}

func parseBenchmark(benchmark string) (benchmarkKind, error) {
	switch benchmark {
	case "ConstructOnly":
		return constructOnly, nil
	case "ConstructTraverseDelete":
		return constructTraverseDelete, nil
	default:
		return 0, buildfail.Newf(buildfail.ConfigError, "config.parseBenchmark", "unknown -benchmark %q", benchmark)
	}
}

func parseTraversal(traversal string, rep stree.Representation) (traversalKind, error) {
	switch traversal {
	case "Simple":
		return traversalSimple, nil
	case "Detailed":
		if rep == stree.LA {
			return 0, buildfail.New(buildfail.ConfigError, "config.parseTraversal", "LA only supports the Simple traversal dump")
		}
		return traversalDetailed, nil
	default:
		return 0, buildfail.Newf(buildfail.ConfigError, "config.parseTraversal", "unknown -traversal-type %q", traversal)
	}
}

func parseInputEncoding(enc string) (loader.Encoding, error) {
	switch enc {
	case "ASCII":
		return loader.ASCII, nil
	case "UTF-8":
		return loader.UTF8, nil
	case "UTF-16LE":
		return loader.UTF16LE, nil
	case "UTF-32LE":
		return loader.UTF32LE, nil
	default:
		return 0, buildfail.Newf(buildfail.ConfigError, "config.parseInputEncoding", "unknown -input-encoding %q", enc)
	}
}

func parseCollisionResolution(s string) (edgehash.Resolution, error) {
	switch s {
	case "Cuckoo":
		return edgehash.Cuckoo, nil
	case "DoubleHash":
		return edgehash.DoubleHash, nil
	default:
		return 0, buildfail.Newf(buildfail.ConfigError, "config.parseCollisionResolution", "unknown -collision-resolution %q", s)
	}
}

// resolve validates f and translates it into the module's own types,
// mirroring spec.md §6's compatibility matrix and I/O constraints.
func resolve(f flags) (resolved, error) {
	if f.input == "" {
		return resolved{}, buildfail.New(buildfail.ConfigError, "config.resolve", "-input is required")
	}
	if len(f.internalEncoding) > maxInternalEncodingLen {
		return resolved{}, buildfail.Newf(buildfail.ConfigError, "config.resolve",
			"-internal-encoding exceeds %d bytes", maxInternalEncodingLen)
	}
	if f.iterations < 1 {
		return resolved{}, buildfail.New(buildfail.ConfigError, "config.resolve", "-iterations must be >= 1")
	}

	rep, err := parseType(f.typ, f.variation)
	if err != nil {
		return resolved{}, err
	}
	alg, err := parseAlgorithm(f.algorithm)
	if err != nil {
		return resolved{}, err
	}
	bm, err := parseBenchmark(f.benchmark)
	if err != nil {
		return resolved{}, err
	}
	trav, err := parseTraversal(f.traversalType, rep)
	if err != nil {
		return resolved{}, err
	}
	loadEnc, err := parseInputEncoding(f.inputEncoding)
	if err != nil {
		return resolved{}, err
	}
	resolution, err := parseCollisionResolution(f.collisionResolution)
	if err != nil {
		return resolved{}, err
	}

	cfg := stree.Config{
		Representation: rep,
		Algorithm:      alg,
		HashResolution: resolution,
		CuckooFns:      f.cuckooHashFunctions,
		PrefixDepth:    f.prefixLength,
	}
	if err := cfg.Validate(); err != nil {
		return resolved{}, err
	}

	return resolved{
		cfg:          cfg,
		loadEncoding: loadEnc,
		benchmark:    bm,
		traversal:    trav,
		input:        f.input,
		dumpPath:     f.dumpPath,
		iterations:   f.iterations,
	}, nil
}
