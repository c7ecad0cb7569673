// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Event backends
const (
	BackendMemory = "memory"
	BackendNATS   = "nats"
)

// Validate checks all configuration sections and returns every problem found.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateDatabase(),
		c.validateMatching(),
		c.validateRefresh(),
		c.validateEvents(),
		c.validateServer(),
		c.validateLogging(),
	)
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	var errs []error
	if m.Threshold < 0 || m.Threshold > 1 {
		errs = append(errs, fmt.Errorf("MATCH_THRESHOLD must be within [0, 1], got %g", m.Threshold))
	}
	if m.OnDemandTopK < 1 {
		errs = append(errs, fmt.Errorf("MATCH_ON_DEMAND_TOP_K must be >= 1, got %d", m.OnDemandTopK))
	}
	if m.BatchTopK < 1 {
		errs = append(errs, fmt.Errorf("MATCH_BATCH_TOP_K must be >= 1, got %d", m.BatchTopK))
	}
	if m.DefaultPageSize < 1 || m.MaxPageSize < m.DefaultPageSize {
		errs = append(errs, fmt.Errorf("page sizes must satisfy 1 <= default (%d) <= max (%d)", m.DefaultPageSize, m.MaxPageSize))
	}
	if m.Workers < 0 {
		errs = append(errs, fmt.Errorf("MATCH_WORKERS must be >= 0, got %d", m.Workers))
	}
	if m.AdopterTimeout <= 0 {
		errs = append(errs, fmt.Errorf("MATCH_ADOPTER_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateRefresh() error {
	r := c.Refresh
	if !r.Enabled {
		return nil
	}
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("REFRESH_HOUR must be within 0..23, got %d", r.Hour)
	}
	if r.Interval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("REFRESH_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateEvents() error {
	e := c.Events
	if !e.Enabled {
		return nil
	}
	switch e.Backend {
	case BackendMemory:
	case BackendNATS:
		if strings.TrimSpace(e.NATSURL) == "" {
			return fmt.Errorf("NATS_URL is required when EVENTS_BACKEND=nats")
		}
		if !strings.HasPrefix(e.NATSURL, "nats://") && !strings.HasPrefix(e.NATSURL, "tls://") {
			return fmt.Errorf("NATS_URL must start with nats:// or tls://")
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be one of: memory, nats")
	}
	if e.TopicPrefix == "" {
		return fmt.Errorf("EVENTS_TOPIC_PREFIX is required")
	}
	if e.RetryMax < 0 {
		return fmt.Errorf("EVENTS_RETRY_MAX must be >= 0")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !c.Server.RateLimitDisabled && (c.Server.RateLimitRequests < 1 || c.Server.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive unless RATE_LIMIT_DISABLED is set")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
