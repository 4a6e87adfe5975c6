package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultBufferSize is the capacity of the input line buffer, terminator included.
const DefaultBufferSize = 0x100

// MaxBufferSize bounds the input line buffer allocation.
const MaxBufferSize = 1 << 20

// Config holds all runtime configuration for the harness.
type Config struct {
	BufferSize   int
	Verbose      bool
	ManifestPath string
}

// DefaultConfig returns a baseline configuration without side effects.
func DefaultConfig() Config {
	return Config{
		BufferSize:   DefaultBufferSize,
		Verbose:      false,
		ManifestPath: "",
	}
}

// FromEnv overlays ADDHARNESS_* environment variables onto cfg.
// Unparseable values are ignored.
func FromEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv("ADDHARNESS_VERBOSE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
	if v := strings.TrimSpace(getenv("ADDHARNESS_MANIFEST")); v != "" {
		cfg.ManifestPath = v
	}
	if v := strings.TrimSpace(getenv("ADDHARNESS_BUFFER_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BufferSize = n
		}
	}
	return cfg
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(cfg Config) Config {
	cfg.ManifestPath = strings.TrimSpace(cfg.ManifestPath)
	// one content byte plus the terminator
	if cfg.BufferSize < 2 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.BufferSize > MaxBufferSize {
		cfg.BufferSize = MaxBufferSize
	}
	return cfg
}
