package cliconfig

import (
	"errors"
	"testing"
	"time"

	"github.com/bft-labs/canfuzz/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Algorithm != "random" {
		t.Errorf("Algorithm = %v, want random", cfg.Algorithm)
	}
	if cfg.PayloadBytes != 8 {
		t.Errorf("PayloadBytes = %v, want 8", cfg.PayloadBytes)
	}
	if cfg.Window != 100*time.Microsecond {
		t.Errorf("Window = %v, want 100µs", cfg.Window)
	}
	if cfg.Interface != DefaultInterface {
		t.Errorf("Interface = %v, want %v", cfg.Interface, DefaultInterface)
	}
	if cfg.LogDepth != 16 {
		t.Errorf("LogDepth = %v, want 16", cfg.LogDepth)
	}
	if cfg.GenCount != 100 {
		t.Errorf("GenCount = %v, want 100", cfg.GenCount)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name          string
		config        Config
		wantErr       bool
		wantInterface string
	}{
		{
			name:    "valid default config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "unknown algorithm",
			config: func() Config {
				c := DefaultConfig()
				c.Algorithm = "simulated-annealing"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "linear without corpus file",
			config: func() Config {
				c := DefaultConfig()
				c.Algorithm = "linear"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "linear with corpus file",
			config: func() Config {
				c := DefaultConfig()
				c.Algorithm = "linear"
				c.File = "/tmp/corpus.txt"
				return c
			}(),
			wantErr: false,
		},
		{
			name: "linear sinking into its own replay file",
			config: func() Config {
				c := DefaultConfig()
				c.Algorithm = "linear"
				c.File = "/tmp/corpus.txt"
				c.CorpusFile = "/tmp/corpus.txt"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "ring_bf without id",
			config: func() Config {
				c := DefaultConfig()
				c.Algorithm = "ring_bf"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "ring_bf with id",
			config: func() Config {
				c := DefaultConfig()
				c.Algorithm = "ring_bf"
				c.ID = "7E0"
				return c
			}(),
			wantErr: false,
		},
		{
			name: "payload bytes too large",
			config: func() Config {
				c := DefaultConfig()
				c.PayloadBytes = 9
				return c
			}(),
			wantErr: true,
		},
		{
			name: "payload bytes zero",
			config: func() Config {
				c := DefaultConfig()
				c.PayloadBytes = 0
				return c
			}(),
			wantErr: true,
		},
		{
			name: "zero window",
			config: func() Config {
				c := DefaultConfig()
				c.Window = 0
				return c
			}(),
			wantErr: true,
		},
		{
			name: "negative gap",
			config: func() Config {
				c := DefaultConfig()
				c.Gap = -time.Second
				return c
			}(),
			wantErr: true,
		},
		{
			name: "negative log depth",
			config: func() Config {
				c := DefaultConfig()
				c.LogDepth = -1
				return c
			}(),
			wantErr: true,
		},
		{
			name: "zero log depth disables the recent log",
			config: func() Config {
				c := DefaultConfig()
				c.LogDepth = 0
				return c
			}(),
			wantErr: false,
		},
		{
			name: "gen with linear replay",
			config: func() Config {
				c := DefaultConfig()
				c.Algorithm = "linear"
				c.File = "/tmp/corpus.txt"
				c.Gen = true
				return c
			}(),
			wantErr: false,
		},
		{
			name: "gen without linear",
			config: func() Config {
				c := DefaultConfig()
				c.Gen = true
				return c
			}(),
			wantErr: true,
		},
		{
			name: "gen without gen-count",
			config: func() Config {
				c := DefaultConfig()
				c.Algorithm = "linear"
				c.File = "/tmp/corpus.txt"
				c.Gen = true
				c.GenCount = 0
				return c
			}(),
			wantErr: true,
		},
		{
			name: "gen combined with resume",
			config: func() Config {
				c := DefaultConfig()
				c.Algorithm = "linear"
				c.File = "/tmp/corpus.txt"
				c.Gen = true
				c.Resume = true
				c.CheckpointDir = "/tmp/canfuzz"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "resume without checkpoint dir",
			config: func() Config {
				c := DefaultConfig()
				c.Resume = true
				return c
			}(),
			wantErr: true,
		},
		{
			name: "resume with checkpoint dir",
			config: func() Config {
				c := DefaultConfig()
				c.Resume = true
				c.CheckpointDir = "/tmp/canfuzz"
				return c
			}(),
			wantErr: false,
		},
		{
			name: "interface defaults when omitted",
			config: func() Config {
				c := DefaultConfig()
				c.Interface = ""
				return c
			}(),
			wantErr:       false,
			wantInterface: DefaultInterface,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.wantInterface != "" && tt.config.Interface != tt.wantInterface {
				t.Errorf("Interface = %v, want %v", tt.config.Interface, tt.wantInterface)
			}
		})
	}
}

// Validation failures carry the domain sentinels so the CLI can exit
// clean on argument mistakes.
func TestConfig_Validate_ErrorClass(t *testing.T) {
	missing := DefaultConfig()
	missing.Algorithm = "linear"
	if err := missing.Validate(); !errors.Is(err, domain.ErrMissingArgument) {
		t.Errorf("Validate() = %v, want ErrMissingArgument", err)
	}

	invalid := DefaultConfig()
	invalid.Algorithm = "coverage"
	if err := invalid.Validate(); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
	}
}
