package canfuzz

import (
	"context"

	"github.com/bft-labs/canfuzz/internal/adapters/fs"
	"github.com/bft-labs/canfuzz/internal/strategy"
)

// GenerateCorpus writes count directives from the configured algorithm
// to a corpus file at path, one directive per line. An existing file is
// replaced. The run stops early without error when the algorithm
// exhausts its space.
//
// The generated file can be replayed with the linear algorithm.
func GenerateCorpus(ctx context.Context, cfg Config, path string, count uint64) error {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	stratCfg, err := cfg.strategyConfig()
	if err != nil {
		return err
	}

	gen, err := strategy.New(stratCfg)
	if err != nil {
		return err
	}
	defer gen.Close()

	return fs.GenerateCorpus(ctx, path, int(count), gen)
}
