// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package provides metrics for:
  - Feature encoding and vector store writes
  - Ranking latency and candidate pool size
  - Match reconciliation row operations
  - Refresh runs (batch and single adopter) and per-adopter failures
  - Change-event publishing and handling
  - Circuit breaker state transitions
  - HTTP request latency and DuckDB query performance

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8087/metrics

# Usage

Instruments are package-level variables registered with the default registry
through promauto. Helper functions wrap the common recording patterns:

	start := time.Now()
	result, err := reconciler.Reconcile(ctx, userID, top)
	metrics.RecordReconcile(result.Inserted, result.Updated, result.Deleted)
	metrics.RecordRefreshRun("single", time.Since(start), err)
*/
package metrics
