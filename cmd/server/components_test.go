// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pawmatch/internal/config"
	"github.com/tomtom215/pawmatch/internal/logging"
	"github.com/tomtom215/pawmatch/internal/supervisor"
)

func testConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Path:                   ":memory:",
			MaxMemory:              "512MB",
			PreserveInsertionOrder: true,
			SkipIndexes:            true,
			SeedDemoData:           true,
		},
		Matching: config.MatchingConfig{
			Threshold:       0.6,
			OnDemandTopK:    5,
			BatchTopK:       50,
			DefaultPageSize: 10,
			MaxPageSize:     50,
			Workers:         2,
			AdopterTimeout:  5 * time.Second,
		},
		Refresh: config.RefreshConfig{Enabled: true, Hour: 3, Interval: 24 * time.Hour, Timeout: time.Minute},
		Events: config.EventsConfig{
			Enabled:         true,
			Backend:         config.BackendMemory,
			TopicPrefix:     "pawmatch-test",
			BufferSize:      16,
			BreakerFailures: 5,
			BreakerTimeout:  time.Second,
			RetryMax:        1,
		},
		Server: config.ServerConfig{
			Host:              "127.0.0.1",
			Port:              8087,
			Timeout:           5 * time.Second,
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
	}
}

func TestBuildComponents(t *testing.T) {
	cfg := testConfig()
	ctx := context.Background()

	comps, err := buildComponents(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildComponents() error = %v", err)
	}
	t.Cleanup(func() {
		if err := comps.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	if comps.events == nil {
		t.Fatal("events should be enabled")
	}

	rec := httptest.NewRecorder()
	comps.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d: %s", rec.Code, rec.Body.String())
	}

	// Seeded adopters exist, so a refresh produces a report.
	report, err := comps.orchestrator.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	if report.Adopters == 0 {
		t.Error("expected seeded adopters")
	}
}

func TestBuildComponentsWithoutEvents(t *testing.T) {
	cfg := testConfig()
	cfg.Events.Enabled = false
	cfg.Database.SeedDemoData = false

	comps, err := buildComponents(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildComponents() error = %v", err)
	}
	t.Cleanup(func() { _ = comps.Close() })

	if comps.events != nil {
		t.Error("events should be nil when disabled")
	}

	// Without a notifier the hook applies synchronously; an unknown pet has
	// nothing to remove.
	rec := httptest.NewRecorder()
	comps.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/pets/999/changed", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("pet hook status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBuildComponentsRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Events.Backend = "kafka"

	_, err := buildComponents(context.Background(), cfg, zerolog.Nop())
	if err == nil || !strings.Contains(err.Error(), "event bus") {
		t.Fatalf("buildComponents() error = %v, want event bus error", err)
	}
}

func TestAddServicesStartsTree(t *testing.T) {
	cfg := testConfig()
	cfg.Database.SeedDemoData = false
	cfg.Server.Port = 0

	comps, err := buildComponents(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildComponents() error = %v", err)
	}
	t.Cleanup(func() { _ = comps.Close() })

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{ShutdownTimeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	addServices(tree, cfg, comps, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	select {
	case <-comps.events.consumer.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("event consumer did not start")
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor tree did not stop")
	}
}
