// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/pawmatch/internal/models"
)

const healthCheckTimeout = 2 * time.Second

// Health reports store connectivity, schema version and the last batch refresh.
// It answers 503 with status "degraded" when the store is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	health := models.HealthStatus{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("health check: database ping failed")
		health.Status = "degraded"
	} else {
		health.DatabaseOK = true
		if v, err := h.store.GetCurrentSchemaVersion(ctx); err == nil {
			health.SchemaVersion = v
		}
	}

	if report := h.matcher.LastReport(); report != nil {
		health.LastRefresh = report.StartedAt
	}

	status := http.StatusOK
	if !health.DatabaseOK {
		status = http.StatusServiceUnavailable
	}
	respondData(w, status, health, start)
}
