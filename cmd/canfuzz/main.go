package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/canfuzz/internal/cliconfig"
	"github.com/bft-labs/canfuzz/internal/domain"
	"github.com/bft-labs/canfuzz/pkg/canfuzz"
	logAdapter "github.com/bft-labs/canfuzz/pkg/log"
	"github.com/bft-labs/canfuzz/plugins/corpuswatch"
)

const helpBanner = `
  ____     _     _   _  _____  _   _  _____ _____
 / ___|   / \   | \ | ||  ___|| | | ||__  /|__  /
| |      / _ \  |  \| || |_   | | | |  / /   / /
| |___  / ___ \ | |\  ||  _|  | |_| | / /_  / /_
 \____|/_/   \_\|_| \_||_|     \___/ /____|/____|
`

const helpDescription = `
Generate and dispatch CAN bus fuzzing directives over SocketCAN.

Highlights:
  - Four generation strategies: random, linear replay, ring_bf, mutate.
  - Records every dispatched directive to a corpus for later replay.
  - Checkpoints let interrupted campaigns resume where they left off.
  - Dry-run mode dispatches to an in-process loopback instead of the bus.

Docs: https://github.com/bft-labs/canfuzz
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  canfuzz --alg random --interface can0 --count 1000 --corpus findings.txt
  canfuzz --alg ring_bf --id 7E0 --payload 0000 --checkpoint ~/.canfuzz/cp
  canfuzz --alg linear --file findings.txt --dry-run
  canfuzz --alg linear --file seeds.txt --gen --gen-count 500
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "canfuzz",
		Short:   "Generate and dispatch CAN bus fuzzing directives over SocketCAN",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.canfuzz/config.toml), then apply flag overrides
			// Determine config path
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Apply environment variables (CANFUZZ_*)
			// These override file config but are overridden by flags (checked via changed map)
			cliconfig.ApplyEnvConfig(&cfg, changed)

			// Validate and set derived defaults
			if err := cfg.Validate(); err != nil {
				return err
			}

			log.Info().Interface("config", cfg).Msg("configuration")

			// On the command line zero log depth means "no recent log";
			// the library spells that as a negative depth.
			logDepth := cfg.LogDepth
			if logDepth == 0 {
				logDepth = -1
			}

			// Convert cliconfig.Config to canfuzz.Config
			libCfg := canfuzz.Config{
				Algorithm:     cfg.Algorithm,
				ID:            cfg.ID,
				Payload:       cfg.Payload,
				IDBitmap:      cfg.IDBitmap,
				PayloadBitmap: cfg.PayloadBitmap,
				PayloadBytes:  cfg.PayloadBytes,
				File:          cfg.File,
				CorpusFile:    cfg.CorpusFile,
				LogDepth:      logDepth,
				Count:         cfg.Count,
				Seed:          cfg.Seed,
				Window:        cfg.Window,
				Gap:           cfg.Gap,
				Interface:     cfg.Interface,
				DryRun:        cfg.DryRun,
				CheckpointDir: cfg.CheckpointDir,
				Resume:        cfg.Resume,
			}

			// --gen writes a fresh random corpus over --file; the linear
			// run below replays it
			if cfg.Gen {
				genCfg := libCfg
				genCfg.Algorithm = "random"
				if err := canfuzz.GenerateCorpus(context.Background(), genCfg, cfg.File, cfg.GenCount); err != nil {
					return fmt.Errorf("generate corpus: %w", err)
				}
				log.Info().Str("path", cfg.File).Uint64("count", cfg.GenCount).Msg("corpus generated")
			}

			// Create zerolog adapter for the library
			zerologAdapter := logAdapter.NewZerologAdapterWithLogger(log)

			// Create canfuzz instance with the corpus watcher enabled;
			// the plugin disables itself when no corpus file is set
			engine, err := canfuzz.New(libCfg,
				canfuzz.WithLogger(zerologAdapter),
				corpuswatch.WithCorpusWatch(corpuswatch.DefaultConfig()),
			)
			if err != nil {
				return fmt.Errorf("create canfuzz: %w", err)
			}

			// Setup signal handling for graceful shutdown
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			// Start canfuzz
			if err := engine.Start(ctx); err != nil {
				return fmt.Errorf("start canfuzz: %w", err)
			}

			// Create done channel to detect completion
			doneCh := make(chan struct{})
			go func() {
				// Poll for completion (bounded runs and exhausted corpora)
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						status := engine.Status()
						if status == canfuzz.StateStopped || status == canfuzz.StateCrashed {
							close(doneCh)
							return
						}
					}
				}
			}()

			// Wait for signal or completion
			select {
			case <-sigCh:
				log.Info().Msg("received signal, stopping...")
				switch engine.Status() {
				case canfuzz.StateStopped:
					// Completed between the signal and now
				case canfuzz.StateCrashed:
					return engine.Err()
				default:
					if err := engine.Stop(); err != nil {
						return fmt.Errorf("stop canfuzz: %w", err)
					}
				}
			case <-doneCh:
				if engine.Status() == canfuzz.StateCrashed {
					log.Error().Msg("canfuzz crashed")
					return engine.Err()
				}
			}

			log.Info().Uint64("iterations", engine.Iterations()).Msg("run finished")
			return nil
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.canfuzz/config.toml)")

	root.Flags().StringVar(&cfg.Algorithm, "alg", cfg.Algorithm, "generation algorithm: random, linear, ring_bf, or mutate")
	root.Flags().StringVar(&cfg.ID, "id", cfg.ID, "arbitration id as 1-3 hex digits (ring_bf start, mutate template)")
	root.Flags().StringVar(&cfg.Payload, "payload", cfg.Payload, "payload as hex digit pairs (ring_bf start, mutate template)")
	root.Flags().StringVar(&cfg.IDBitmap, "id-bitmap", cfg.IDBitmap, "comma-separated bools marking id digits open to generation")
	root.Flags().StringVar(&cfg.PayloadBitmap, "payload-bitmap", cfg.PayloadBitmap, "comma-separated bools marking payload digits open to generation")
	root.Flags().IntVar(&cfg.PayloadBytes, "payload-bytes", cfg.PayloadBytes, "payload width in bytes for random generation (1-8)")

	root.Flags().StringVar(&cfg.File, "file", cfg.File, "corpus file to replay with --alg linear")
	root.Flags().BoolVar(&cfg.Gen, "gen", cfg.Gen, "write random directives to --file before replaying it")
	root.Flags().Uint64Var(&cfg.GenCount, "gen-count", cfg.GenCount, "number of directives to generate with --gen")
	root.Flags().StringVar(&cfg.CorpusFile, "corpus", cfg.CorpusFile, "append every dispatched directive to this file")
	root.Flags().IntVar(&cfg.LogDepth, "log-depth", cfg.LogDepth, "directives kept in the in-memory recent log (0 disables)")

	root.Flags().Uint64Var(&cfg.Count, "count", cfg.Count, "stop after this many directives (0 = unbounded)")
	root.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for deterministic generation (0 = time-based)")
	root.Flags().DurationVar(&cfg.Window, "window", cfg.Window, "response observation window after each send")
	root.Flags().DurationVar(&cfg.Gap, "gap", cfg.Gap, "extra delay between directives")

	root.Flags().StringVar(&cfg.Interface, "interface", cfg.Interface, "SocketCAN interface to fuzz")
	root.Flags().BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "dispatch to an in-process loopback instead of the bus")

	root.Flags().StringVar(&cfg.CheckpointDir, "checkpoint", cfg.CheckpointDir, "directory for checkpoint files")
	root.Flags().BoolVar(&cfg.Resume, "resume", cfg.Resume, "resume from the checkpoint in --checkpoint")

	if err := root.Execute(); err != nil {
		// Bad arguments and malformed corpus input are user mistakes:
		// report them and exit clean. Only unexpected failures exit 1.
		if errors.Is(err, domain.ErrInvalidConfig) ||
			errors.Is(err, domain.ErrMissingArgument) ||
			errors.Is(err, domain.ErrInvalidDirective) {
			log.Warn().Err(err).Msg("canfuzz")
			return
		}
		log.Error().Err(err).Msg("canfuzz")
		os.Exit(1)
	}
}
