// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

/*
Package middleware provides HTTP middleware for the operations API.

Key Components:

  - RequestID: reuses or generates an X-Request-ID and stores it in the
    request context for logging.Ctx
  - RequestLogger: one structured log line per request
  - PrometheusMetrics: request counts and latency labelled by chi route
    pattern, so /api/v1/adopters/7/recommendations and
    /api/v1/adopters/8/recommendations share a series

All middleware has the func(http.Handler) http.Handler shape used by chi's
Router.Use.
*/
package middleware
