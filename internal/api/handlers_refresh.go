// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/pawmatch/internal/logging"
)

// RefreshAll runs a full batch refresh and returns its report. A partial
// report from a cancelled run is still returned with 500.
func (h *Handler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	report, err := h.matcher.RefreshAll(r.Context())
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("run_id", report.RunID).
		Int("refreshed", report.Refreshed).
		Int("failed", report.Failed).
		Msg("batch refresh triggered via API")
	respondData(w, http.StatusOK, report, start)
}

// RefreshAdopter recomputes one adopter's matches. The optional k query
// parameter overrides the on-demand top-K.
func (h *Handler) RefreshAdopter(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, apiErr := parseIDParam(chi.URLParam(r, "userID"), "user_id")
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	k, ok := getIntParam(r, "k", 0)
	if !ok || k < 0 {
		respondError(w, r, http.StatusBadRequest, invalidQueryParam("k"), nil)
		return
	}

	result, err := h.matcher.RefreshOne(r.Context(), userID, k)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, result, start)
}
