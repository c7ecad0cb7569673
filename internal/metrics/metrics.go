// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pawmatch_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawmatch_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	DBTransactionRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pawmatch_duckdb_transaction_retries_total",
			Help: "Total number of transactions retried after a write conflict",
		},
	)

	// Encoder Metrics
	VectorsEncoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawmatch_vectors_encoded_total",
			Help: "Total number of feature vectors encoded and stored",
		},
		[]string{"entity"}, // "pet", "adopter"
	)

	// Ranker Metrics
	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pawmatch_rank_duration_seconds",
			Help:    "Time to score and rank candidates for one adopter",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	CandidatePoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pawmatch_candidate_pool_size",
			Help: "Number of available pet vectors loaded for the latest refresh",
		},
	)

	// Reconciler Metrics
	ReconcileOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawmatch_reconcile_operations_total",
			Help: "Total number of match rows written by reconciliation",
		},
		[]string{"operation"}, // "insert", "update", "delete"
	)

	// Refresh Metrics
	RefreshRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawmatch_refresh_runs_total",
			Help: "Total number of refresh runs",
		},
		[]string{"mode", "result"}, // mode: "batch", "single"; result: "success", "error"
	)

	RefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pawmatch_refresh_duration_seconds",
			Help:    "Duration of refresh runs in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120, 600},
		},
		[]string{"mode"},
	)

	RefreshAdopterFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawmatch_refresh_adopter_failures_total",
			Help: "Total number of adopters skipped by a batch refresh",
		},
		[]string{"reason"}, // "missing_preferences", "persistence", "other"
	)

	RefreshLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pawmatch_refresh_last_success_timestamp",
			Help: "Unix timestamp of the last successful batch refresh",
		},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawmatch_events_published_total",
			Help: "Total number of change events published",
		},
		[]string{"topic", "result"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawmatch_events_handled_total",
			Help: "Total number of change events handled",
		},
		[]string{"topic", "result"},
	)

	EventsDuplicate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawmatch_events_duplicate_total",
			Help: "Total number of redelivered change events skipped",
		},
		[]string{"event_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pawmatch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawmatch_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawmatch_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawmatch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pawmatch_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordVectorEncoded counts one stored vector for the entity kind.
func RecordVectorEncoded(entity string) {
	VectorsEncoded.WithLabelValues(entity).Inc()
}

// RecordRank records the time taken to rank one adopter.
func RecordRank(duration time.Duration) {
	RankDuration.Observe(duration.Seconds())
}

// RecordReconcile adds the row operations of one reconciliation.
func RecordReconcile(inserted, updated, deleted int) {
	ReconcileOperations.WithLabelValues("insert").Add(float64(inserted))
	ReconcileOperations.WithLabelValues("update").Add(float64(updated))
	ReconcileOperations.WithLabelValues("delete").Add(float64(deleted))
}

// RecordRefreshRun records a completed refresh run.
func RecordRefreshRun(mode string, duration time.Duration, err error) {
	RefreshDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if err != nil {
		RefreshRuns.WithLabelValues(mode, "error").Inc()
		return
	}
	RefreshRuns.WithLabelValues(mode, "success").Inc()
	if mode == "batch" {
		RefreshLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordAdopterFailure counts an adopter skipped by a batch refresh.
func RecordAdopterFailure(reason string) {
	RefreshAdopterFailures.WithLabelValues(reason).Inc()
}

// RecordEventPublished records the outcome of publishing a change event.
func RecordEventPublished(topic string, err error) {
	EventsPublished.WithLabelValues(topic, resultLabel(err)).Inc()
}

// RecordEventHandled records the outcome of handling a change event.
func RecordEventHandled(topic string, err error) {
	EventsHandled.WithLabelValues(topic, resultLabel(err)).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
