// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import (
	"runtime"
	"testing"
	"time"

	"github.com/tomtom215/pawmatch/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("defaults are valid", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("threshold and top-k", func(t *testing.T) {
		if cfg.Threshold != 0.6 || cfg.OnDemandTopK != 5 || cfg.BatchTopK != 50 {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("zero workers resolves to GOMAXPROCS", func(t *testing.T) {
		if got := cfg.workerCount(); got != runtime.GOMAXPROCS(0) {
			t.Errorf("workerCount() = %d", got)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{name: "valid default config", modify: func(*Config) {}},
		{name: "threshold zero", modify: func(c *Config) { c.Threshold = 0 }},
		{name: "threshold above one", modify: func(c *Config) { c.Threshold = 1.01 }, wantError: true},
		{name: "negative threshold", modify: func(c *Config) { c.Threshold = -0.1 }, wantError: true},
		{name: "zero on-demand top-k", modify: func(c *Config) { c.OnDemandTopK = 0 }, wantError: true},
		{name: "zero batch top-k", modify: func(c *Config) { c.BatchTopK = 0 }, wantError: true},
		{name: "zero default page size", modify: func(c *Config) { c.DefaultPageSize = 0 }, wantError: true},
		{name: "max page below default", modify: func(c *Config) { c.MaxPageSize = 5 }, wantError: true},
		{name: "negative workers", modify: func(c *Config) { c.Workers = -2 }, wantError: true},
		{name: "zero adopter timeout", modify: func(c *Config) { c.AdopterTimeout = 0 }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestConfigFrom(t *testing.T) {
	got := ConfigFrom(&config.MatchingConfig{
		Threshold:       0.75,
		OnDemandTopK:    3,
		BatchTopK:       20,
		DefaultPageSize: 5,
		MaxPageSize:     25,
		Workers:         4,
		AdopterTimeout:  time.Second,
	})

	want := Config{
		Threshold:       0.75,
		OnDemandTopK:    3,
		BatchTopK:       20,
		DefaultPageSize: 5,
		MaxPageSize:     25,
		Workers:         4,
		AdopterTimeout:  time.Second,
	}
	if *got != want {
		t.Errorf("ConfigFrom() = %+v, want %+v", *got, want)
	}
	if got.workerCount() != 4 {
		t.Errorf("workerCount() = %d", got.workerCount())
	}
}
