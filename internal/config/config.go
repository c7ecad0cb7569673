// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file, and environment variables.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Matching MatchingConfig `koanf:"matching"`
	Refresh  RefreshConfig  `koanf:"refresh"`
	Events   EventsConfig   `koanf:"events"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedDemoData           bool   `koanf:"seed_demo_data"`           // Seed demo pets and adopters on startup
	SkipIndexes            bool   `koanf:"skip_indexes"`             // Skip index creation (fast test setup)
}

// MatchingConfig holds similarity and ranking parameters.
//
// Environment Variables:
//   - MATCH_THRESHOLD: minimum cosine similarity kept (default: 0.6)
//   - MATCH_ON_DEMAND_TOP_K: matches persisted by a single-adopter refresh (default: 5)
//   - MATCH_BATCH_TOP_K: matches persisted per adopter by the batch (default: 50)
type MatchingConfig struct {
	Threshold       float64       `koanf:"threshold"`
	OnDemandTopK    int           `koanf:"on_demand_top_k"`
	BatchTopK       int           `koanf:"batch_top_k"`
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	Workers         int           `koanf:"workers"` // 0 = GOMAXPROCS
	AdopterTimeout  time.Duration `koanf:"adopter_timeout"`
}

// RefreshConfig schedules the periodic full refresh.
type RefreshConfig struct {
	Enabled bool `koanf:"enabled"`

	// Hour is the local hour (0-23) of the first scheduled run.
	Hour int `koanf:"hour"`

	// Interval between runs after the first one.
	Interval time.Duration `koanf:"interval"`

	RunOnStartup bool          `koanf:"run_on_startup"`
	Timeout      time.Duration `koanf:"timeout"`
}

// EventsConfig holds change-event settings (Watermill).
//
// Backends:
//   - memory: in-process gochannel pub/sub, no external dependency
//   - nats: NATS JetStream via watermill-nats
type EventsConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Backend         string        `koanf:"backend"`
	NATSURL         string        `koanf:"nats_url"`
	TopicPrefix     string        `koanf:"topic_prefix"`
	BufferSize      int64         `koanf:"buffer_size"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
	RetryMax        int           `koanf:"retry_max"`
	DedupWindow     time.Duration `koanf:"dedup_window"` // How long a handled event id is remembered
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed browser origins. Empty disables cross-origin access.
	CORSOrigins []string `koanf:"cors_origins"`

	// Rate limit applied per client IP to the write endpoints.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns host:port for the listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load loads configuration using the koanf layered loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
