// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

/*
Package config provides centralized configuration management for Pawmatch.

Configuration is layered with koanf v2:

 1. Defaults: built-in values from defaultConfig()
 2. Config File: optional YAML file (CONFIG_PATH, config.yaml, /etc/pawmatch/config.yaml)
 3. Environment Variables: explicit mapping table, highest priority

# Configuration Structure

  - DatabaseConfig: DuckDB path, memory limit, threads, demo seeding
  - MatchingConfig: similarity threshold, top-K sizes, pagination, worker pool
  - RefreshConfig: nightly batch schedule and timeout
  - EventsConfig: watermill backend (in-memory or NATS JetStream), circuit breaker
  - ServerConfig: ops HTTP listener
  - LoggingConfig: zerolog level, format, caller

# Environment Variables

Database:
  - DUCKDB_PATH: Database file path (default: /data/pawmatch.duckdb)
  - DUCKDB_MAX_MEMORY: Memory limit (default: 1GB)
  - DUCKDB_THREADS: Worker threads, 0 = NumCPU (default: 0)
  - SEED_DEMO_DATA: Seed demo pets and adopters on startup (default: false)

Matching:
  - MATCH_THRESHOLD: Minimum cosine similarity kept (default: 0.6)
  - MATCH_ON_DEMAND_TOP_K: Matches kept by single-adopter refresh (default: 5)
  - MATCH_BATCH_TOP_K: Matches kept by the nightly batch (default: 50)
  - MATCH_DEFAULT_PAGE_SIZE / MATCH_MAX_PAGE_SIZE: Recommendation paging (default: 10 / 50)
  - MATCH_WORKERS: Concurrent adopters per batch, 0 = GOMAXPROCS (default: 0)
  - MATCH_ADOPTER_TIMEOUT: Per-adopter deadline inside a batch (default: 30s)

Refresh:
  - REFRESH_ENABLED, REFRESH_HOUR, REFRESH_INTERVAL, REFRESH_RUN_ON_STARTUP, REFRESH_TIMEOUT

Events:
  - EVENTS_ENABLED, EVENTS_BACKEND (memory|nats), NATS_URL, EVENTS_TOPIC_PREFIX
  - EVENTS_BREAKER_FAILURES, EVENTS_BREAKER_TIMEOUT, EVENTS_RETRY_MAX
  - EVENTS_DEDUP_WINDOW: How long handled event ids are remembered (default: 10m)

Server and logging:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT
  - CORS_ORIGINS (comma separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, RATE_LIMIT_DISABLED
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	db, err := database.New(&cfg.Database)
*/
package config
