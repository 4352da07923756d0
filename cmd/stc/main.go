package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/pbasista/stc-sub000/internal/bench"
	"github.com/pbasista/stc-sub000/internal/loader"
	"github.com/pbasista/stc-sub000/internal/storepool"
	"github.com/pbasista/stc-sub000/stree"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	var f flags

	pflag.StringVarP(&f.typ, "type", "t", "", "node representation: LL, HT, LA")
	pflag.StringVarP(&f.algorithm, "algorithm", "a", "", "construction algorithm: SimpleMcCreight, McCreight, SimpleUkkonen, Ukkonen, PWOTD")
	pflag.StringVarP(&f.benchmark, "benchmark", "b", "", "benchmark phases: ConstructOnly, ConstructTraverseDelete")
	pflag.StringVar(&f.variation, "variation", "Default", "Default or BackwardPointers")
	pflag.IntVar(&f.prefixLength, "prefix-length", 0, "PWOTD partitioning prefix depth override (0: let PWOTD choose)")
	pflag.StringVar(&f.collisionResolution, "collision-resolution", "Cuckoo", "HT edge table strategy: Cuckoo or DoubleHash")
	pflag.IntVar(&f.cuckooHashFunctions, "cuckoo-hash-functions", 8, "HT cuckoo hash function count")
	pflag.StringVar(&f.traversalType, "traversal-type", "Simple", "dump format: Detailed or Simple (LA: Simple only)")
	pflag.StringVarP(&f.input, "input", "i", "", "input file path")
	pflag.StringVar(&f.inputEncoding, "input-encoding", "UTF-8", "input encoding: ASCII, UTF-8, UTF-16LE, UTF-32LE")
	pflag.StringVar(&f.internalEncoding, "internal-encoding", "", "optional internal encoding override (<=63 bytes)")
	pflag.StringVarP(&f.dumpPath, "dump", "d", "", "optional traversal dump output path (empty: stdout)")
	pflag.StringVarP(&f.logLevel, "log-level", "l", "info", "log output level")
	pflag.IntVar(&f.iterations, "iterations", 1, "construct/traverse/delete cycles to run over the same input; LL and HT reuse pooled backing storage across iterations")

	pflag.Parse()

	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(f.logLevel)
	if err != nil {
		log.Error().Str("level", f.logLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	r, err := resolve(f)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return failure
	}

	in, err := os.Open(r.input)
	if err != nil {
		log.Error().Err(err).Str("input", r.input).Msg("could not open input file")
		return failure
	}
	defer in.Close()

	text, err := loader.Load(in, r.loadEncoding)
	if err != nil {
		log.Error().Err(err).Msg("could not load input")
		return failure
	}
	log.Info().Int("n", text.N).Str("width", text.Width.String()).
		Str("type", r.cfg.Representation.String()).Str("algorithm", r.cfg.Algorithm.String()).
		Msg("text loaded")

	out := os.Stdout
	if r.dumpPath != "" {
		df, err := os.Create(r.dumpPath)
		if err != nil {
			log.Error().Err(err).Str("dump", r.dumpPath).Msg("could not open dump output file")
			return failure
		}
		defer df.Close()
		out = df
	}

	var llPool *storepool.LLPool
	var htPool *storepool.HTPool
	switch r.cfg.Representation {
	case stree.LL, stree.LLBP:
		llPool = storepool.NewLLPool(r.cfg.Representation == stree.LLBP)
	case stree.HT, stree.HTBP:
		htPool = storepool.NewHTPool(r.cfg.Representation == stree.HTBP, r.cfg.HashResolution, r.cfg.CuckooFns)
	}

	for iter := 0; iter < r.iterations; iter++ {
		runner := bench.NewRunner(log)

		var tree *stree.Tree
		buildErr := runner.Memory("construct", func() (used, allocated uint64, err error) {
			switch {
			case llPool != nil:
				tree, err = stree.BuildPooledLL(text, r.cfg, llPool)
			case htPool != nil:
				tree, err = stree.BuildPooledHT(text, r.cfg, htPool)
			default:
				tree, err = stree.Build(text, r.cfg)
			}
			if err != nil {
				return 0, 0, err
			}
			used, allocated = tree.MemoryStats()
			return used, allocated, nil
		})
		if buildErr != nil {
			return failure
		}

		if r.benchmark == constructTraverseDelete {
			if traverseErr := runner.Time("traverse", func() error {
				return tree.Traverse(out, r.traversal == traversalDetailed)
			}); traverseErr != nil {
				return failure
			}
		}

		deleteErr := runner.Time("delete", func() error {
			switch {
			case llPool != nil:
				tree.ReleaseTo(llPool)
			case htPool != nil:
				tree.ReleaseToHT(htPool)
			default:
				tree.Delete()
			}
			return nil
		})
		if deleteErr != nil {
			return failure
		}

		for _, phase := range runner.Report().Phases {
			log.Info().Int("iteration", iter).Str("phase", phase.Name).Dur("elapsed", phase.Duration).
				Uint64("bytes_used", phase.BytesUsed).Uint64("bytes_allocated", phase.BytesAllocated).
				Msg("phase summary")
		}
	}

	if llPool != nil {
		live, total := llPool.Stats()
		log.Info().Int64("live", live).Int64("allocated", total).Msg("LL pool summary")
	}
	if htPool != nil {
		live, total := htPool.Stats()
		log.Info().Int64("live", live).Int64("allocated", total).Msg("HT pool summary")
	}

	return success
}
