// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import (
	"fmt"
	"runtime"
	"time"

	"github.com/tomtom215/pawmatch/internal/config"
)

// Config contains all configuration for the matching engine.
type Config struct {
	// Threshold is the minimum cosine similarity a candidate needs to be kept.
	Threshold float64 `json:"threshold"`

	// OnDemandTopK is the match count computed by RefreshOne when no K is given.
	OnDemandTopK int `json:"on_demand_top_k"`

	// BatchTopK is the match count computed by RefreshAll and Recommend.
	// Recommend pages are sliced from this list.
	BatchTopK int `json:"batch_top_k"`

	// DefaultPageSize is used by Recommend when the caller passes 0.
	DefaultPageSize int `json:"default_page_size"`

	// MaxPageSize caps the page size accepted by Recommend.
	MaxPageSize int `json:"max_page_size"`

	// Workers bounds the number of adopters refreshed concurrently.
	// Zero means GOMAXPROCS.
	Workers int `json:"workers"`

	// AdopterTimeout bounds the work done for one adopter in a batch.
	AdopterTimeout time.Duration `json:"adopter_timeout"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Threshold:       0.6,
		OnDemandTopK:    5,
		BatchTopK:       50,
		DefaultPageSize: 10,
		MaxPageSize:     50,
		Workers:         0,
		AdopterTimeout:  30 * time.Second,
	}
}

// ConfigFrom maps the matching section of the application config.
func ConfigFrom(m *config.MatchingConfig) *Config {
	return &Config{
		Threshold:       m.Threshold,
		OnDemandTopK:    m.OnDemandTopK,
		BatchTopK:       m.BatchTopK,
		DefaultPageSize: m.DefaultPageSize,
		MaxPageSize:     m.MaxPageSize,
		Workers:         m.Workers,
		AdopterTimeout:  m.AdopterTimeout,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0, 1], got %f", c.Threshold)
	}
	if c.OnDemandTopK < 1 {
		return fmt.Errorf("on_demand_top_k must be positive, got %d", c.OnDemandTopK)
	}
	if c.BatchTopK < 1 {
		return fmt.Errorf("batch_top_k must be positive, got %d", c.BatchTopK)
	}
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("default_page_size must be positive, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("max_page_size must be >= default_page_size, got %d < %d", c.MaxPageSize, c.DefaultPageSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.AdopterTimeout <= 0 {
		return fmt.Errorf("adopter_timeout must be positive, got %v", c.AdopterTimeout)
	}
	return nil
}

// workerCount resolves Workers to a concrete limit.
func (c *Config) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
