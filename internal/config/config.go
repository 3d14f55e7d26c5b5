package config

import (
	"fmt"
)

// Recovery policies for a store file that fails to parse on load.
const (
	// RecoveryBackup renames the corrupt file aside before starting empty.
	RecoveryBackup = "backup"

	// RecoveryDiscard logs a warning and starts empty, leaving the corrupt
	// file in place until the next save overwrites it.
	RecoveryDiscard = "discard"

	// RecoveryFail aborts the operation with an error.
	RecoveryFail = "fail"
)

// Config is the root instinctd configuration.
type Config struct {
	Store   StoreConfig   `koanf:"store"`
	Import  ImportConfig  `koanf:"import"`
	Logging LoggingConfig `koanf:"logging"`
}

// StoreConfig controls the JSON-file instinct store.
type StoreConfig struct {
	// Path is the backing store file. Defaults to
	// ~/.config/instinctd/instincts.json.
	Path string `koanf:"path"`

	// Recovery is the corrupt-store policy: backup, discard, or fail.
	Recovery string `koanf:"recovery"`
}

// ImportConfig controls import behavior.
type ImportConfig struct {
	// Merge enables weighted-average merging on name collision instead of
	// skipping the incoming record.
	Merge bool `koanf:"merge"`
}

// LoggingConfig holds the CLI-facing logging knobs. The full logging
// configuration lives in internal/logging; this section only carries the
// values an operator reasonably overrides per invocation.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Output string `koanf:"output"`
}

// Validate checks configuration for errors.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store path cannot be empty")
	}
	switch c.Store.Recovery {
	case RecoveryBackup, RecoveryDiscard, RecoveryFail:
	default:
		return fmt.Errorf("store recovery must be 'backup', 'discard', or 'fail', got %q", c.Store.Recovery)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	switch c.Logging.Output {
	case "stdout", "stderr":
	default:
		return fmt.Errorf("logging output must be 'stdout' or 'stderr', got %q", c.Logging.Output)
	}
	return nil
}
