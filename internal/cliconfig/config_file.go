package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Algorithm     string `toml:"alg"`
	ID            string `toml:"id"`
	Payload       string `toml:"payload"`
	IDBitmap      string `toml:"id_bitmap"`
	PayloadBitmap string `toml:"payload_bitmap"`
	PayloadBytes  int    `toml:"payload_bytes"`
	File          string `toml:"file"`
	Gen           *bool  `toml:"gen"`
	GenCount      uint64 `toml:"gen_count"`
	CorpusFile    string `toml:"corpus"`
	LogDepth      int    `toml:"log_depth"`
	Count         uint64 `toml:"count"`
	Seed          int64  `toml:"seed"`
	Window        string `toml:"window"`
	Gap           string `toml:"gap"`
	Interface     string `toml:"interface"`
	DryRun        *bool  `toml:"dry_run"`
	CheckpointDir string `toml:"checkpoint"`
	Resume        *bool  `toml:"resume"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.canfuzz/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".canfuzz", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("alg", fc.Algorithm, &cfg.Algorithm)
	s.setString("id", fc.ID, &cfg.ID)
	s.setString("payload", fc.Payload, &cfg.Payload)
	s.setString("id-bitmap", fc.IDBitmap, &cfg.IDBitmap)
	s.setString("payload-bitmap", fc.PayloadBitmap, &cfg.PayloadBitmap)
	s.setString("file", fc.File, &cfg.File)
	s.setString("corpus", fc.CorpusFile, &cfg.CorpusFile)
	s.setString("interface", fc.Interface, &cfg.Interface)
	s.setString("checkpoint", fc.CheckpointDir, &cfg.CheckpointDir)

	if err := s.setDuration("window", fc.Window, &cfg.Window); err != nil {
		return err
	}
	if err := s.setDuration("gap", fc.Gap, &cfg.Gap); err != nil {
		return err
	}

	s.setInt("payload-bytes", fc.PayloadBytes, &cfg.PayloadBytes)
	s.setInt("log-depth", fc.LogDepth, &cfg.LogDepth)

	s.setUint64("gen-count", fc.GenCount, &cfg.GenCount)
	s.setUint64("count", fc.Count, &cfg.Count)
	s.setInt64("seed", fc.Seed, &cfg.Seed)

	s.setBool("gen", fc.Gen, &cfg.Gen)
	s.setBool("dry-run", fc.DryRun, &cfg.DryRun)
	s.setBool("resume", fc.Resume, &cfg.Resume)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
