// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package api

import (
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/pawmatch/internal/validation"
)

// Recommendations returns one page of an adopter's matches.
//
// Query parameters:
//   - page: 1-based page number (default 1)
//   - page_size: results per page (default and maximum come from matching config)
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, apiErr := parseIDParam(chi.URLParam(r, "userID"), "user_id")
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	page, ok := getIntParam(r, "page", 1)
	if !ok {
		respondError(w, r, http.StatusBadRequest, invalidQueryParam("page"), nil)
		return
	}
	pageSize, ok := getIntParam(r, "page_size", 0)
	if !ok {
		respondError(w, r, http.StatusBadRequest, invalidQueryParam("page_size"), nil)
		return
	}

	query := validation.RecommendationQuery{UserID: userID, Page: page, PageSize: pageSize}
	if apiErr := validateRequest(&query); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	result, err := h.matcher.Recommend(r.Context(), query.UserID, query.Page, query.PageSize)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, result, start)
}

// PetScore is the body of the pair-score endpoint.
type PetScore struct {
	UserID     int64   `json:"user_id"`
	PetID      int64   `json:"pet_id"`
	MatchScore float64 `json:"match_score"`
}

// ScorePet returns the similarity of one adopter and one pet without
// changing stored matches.
func (h *Handler) ScorePet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, apiErr := parseIDParam(chi.URLParam(r, "userID"), "user_id")
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	petID, apiErr := parseIDParam(chi.URLParam(r, "petID"), "pet_id")
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	score, err := h.matcher.ScorePet(r.Context(), userID, petID)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, PetScore{UserID: userID, PetID: petID, MatchScore: math.Round(score*100) / 100}, start)
}
