// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"

	"github.com/talentdb/matchd/internal/weights"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CacheSize bounds the match result cache (entries, LRU-evicted).
	CacheSize int `koanf:"cache_size"`

	// WorkerCount sets the number of pair-scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// PoolScanLimit caps how many counterparts one ranking request scores.
	PoolScanLimit int `koanf:"pool_scan_limit"`

	// MaxTopK caps GET /match/...?top_k.
	MaxTopK int `koanf:"max_top_k"`

	// TieEpsilon is the score-equality tolerance for deterministic ordering.
	TieEpsilon float64 `koanf:"tie_epsilon"`

	// Weights is the initial scoring weight snapshot; mutable at runtime
	// through the /config endpoints.
	Weights weights.Snapshot `koanf:",squash"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":8080",
		CacheSize:     1024,
		WorkerCount:   runtime.NumCPU() * 2,
		PoolScanLimit: 1000,
		MaxTopK:       100,
		TieEpsilon:    1e-9,
		Weights:       weights.Defaults(),
	}
}
