// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory closet event queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ranking workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the submission deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRankLimit caps GET /versatility?limit.
	MaxRankLimit int `koanf:"max_rank_limit"`

	// HighCompatThreshold is the default score bound for "highly
	// compatible" pair counts and top-pair listings.
	HighCompatThreshold int `koanf:"high_compat_threshold"`

	// TopPairsLimit is the default limit for top-pair listings.
	TopPairsLimit int `koanf:"top_pairs_limit"`

	// NeutralColors overrides the neutral-color scoring vocabulary.
	// Empty keeps the built-in bilingual defaults.
	NeutralColors []string `koanf:"neutral_colors"`

	// BasicVibes overrides the basic/classic vibe scoring vocabulary.
	// Empty keeps the built-in bilingual defaults.
	BasicVibes []string `koanf:"basic_vibes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		EventQueueSize:      100_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          500_000,
		MaxRankLimit:        100,
		HighCompatThreshold: 80,
		TopPairsLimit:       5,
	}
	return c
}
