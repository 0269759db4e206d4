package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (CANFUZZ_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("alg", os.Getenv("CANFUZZ_ALG"), &cfg.Algorithm)
	s.setString("id", os.Getenv("CANFUZZ_ID"), &cfg.ID)
	s.setString("payload", os.Getenv("CANFUZZ_PAYLOAD"), &cfg.Payload)
	s.setString("id-bitmap", os.Getenv("CANFUZZ_ID_BITMAP"), &cfg.IDBitmap)
	s.setString("payload-bitmap", os.Getenv("CANFUZZ_PAYLOAD_BITMAP"), &cfg.PayloadBitmap)
	s.setString("file", os.Getenv("CANFUZZ_FILE"), &cfg.File)
	s.setString("corpus", os.Getenv("CANFUZZ_CORPUS"), &cfg.CorpusFile)
	s.setString("interface", os.Getenv("CANFUZZ_INTERFACE"), &cfg.Interface)
	s.setString("checkpoint", os.Getenv("CANFUZZ_CHECKPOINT"), &cfg.CheckpointDir)

	if err := s.setDuration("window", os.Getenv("CANFUZZ_WINDOW"), &cfg.Window); err != nil {
		return err
	}
	if err := s.setDuration("gap", os.Getenv("CANFUZZ_GAP"), &cfg.Gap); err != nil {
		return err
	}

	if err := s.setIntFromString("payload-bytes", os.Getenv("CANFUZZ_PAYLOAD_BYTES"), &cfg.PayloadBytes); err != nil {
		return err
	}
	if err := s.setIntFromString("log-depth", os.Getenv("CANFUZZ_LOG_DEPTH"), &cfg.LogDepth); err != nil {
		return err
	}

	if err := s.setUint64FromString("gen-count", os.Getenv("CANFUZZ_GEN_COUNT"), &cfg.GenCount); err != nil {
		return err
	}
	if err := s.setUint64FromString("count", os.Getenv("CANFUZZ_COUNT"), &cfg.Count); err != nil {
		return err
	}
	if err := s.setInt64FromString("seed", os.Getenv("CANFUZZ_SEED"), &cfg.Seed); err != nil {
		return err
	}

	s.setBoolFromString("gen", os.Getenv("CANFUZZ_GEN"), &cfg.Gen)
	s.setBoolFromString("dry-run", os.Getenv("CANFUZZ_DRY_RUN"), &cfg.DryRun)
	s.setBoolFromString("resume", os.Getenv("CANFUZZ_RESUME"), &cfg.Resume)

	return nil
}
