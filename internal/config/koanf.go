// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/pawmatch/config.yaml",
	"/etc/pawmatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/pawmatch.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
			SeedDemoData:           false,
		},
		Matching: MatchingConfig{
			Threshold:       0.6,
			OnDemandTopK:    5,
			BatchTopK:       50,
			DefaultPageSize: 10,
			MaxPageSize:     50,
			Workers:         0,
			AdopterTimeout:  30 * time.Second,
		},
		Refresh: RefreshConfig{
			Enabled:      true,
			Hour:         3,
			Interval:     24 * time.Hour,
			RunOnStartup: false,
			Timeout:      30 * time.Minute,
		},
		Events: EventsConfig{
			Enabled:         true,
			Backend:         BackendMemory,
			NATSURL:         "nats://127.0.0.1:4222",
			TopicPrefix:     "pawmatch",
			BufferSize:      256,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
			RetryMax:        3,
			DedupWindow:     10 * time.Minute,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8087,
			Timeout: 30 * time.Second,

			CORSOrigins:       []string{},
			RateLimitRequests: 30,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with the following precedence
// (highest wins):
//
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitListValues(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",

	// Matching
	"match_threshold":         "matching.threshold",
	"match_on_demand_top_k":   "matching.on_demand_top_k",
	"match_batch_top_k":       "matching.batch_top_k",
	"match_default_page_size": "matching.default_page_size",
	"match_max_page_size":     "matching.max_page_size",
	"match_workers":           "matching.workers",
	"match_adopter_timeout":   "matching.adopter_timeout",

	// Refresh scheduler
	"refresh_enabled":        "refresh.enabled",
	"refresh_hour":           "refresh.hour",
	"refresh_interval":       "refresh.interval",
	"refresh_run_on_startup": "refresh.run_on_startup",
	"refresh_timeout":        "refresh.timeout",

	// Events
	"events_enabled":          "events.enabled",
	"events_backend":          "events.backend",
	"nats_url":                "events.nats_url",
	"events_topic_prefix":     "events.topic_prefix",
	"events_buffer_size":      "events.buffer_size",
	"events_breaker_failures": "events.breaker_failures",
	"events_breaker_timeout":  "events.breaker_timeout",
	"events_retry_max":        "events.retry_max",
	"events_dedup_window":     "events.dedup_window",

	// Server
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"cors_origins": "server.cors_origins",

	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"rate_limit_disabled": "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - MATCH_THRESHOLD -> matching.threshold
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped keys are skipped so unrelated environment variables never leak into config.
	return ""
}

// listPaths are the keys that arrive from the environment as comma-separated
// strings but unmarshal into []string.
var listPaths = []string{"server.cors_origins"}

func splitListValues(k *koanf.Koanf) error {
	for _, path := range listPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		origins := []string{}
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
		if err := k.Set(path, origins); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
