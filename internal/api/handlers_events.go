// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ChangeAccepted is returned when a change was queued on the event bus.
type ChangeAccepted struct {
	EventID string `json:"event_id"`
}

// PetChanged is the hook the CRUD layer calls after a pet record changes.
// The vector is re-encoded, or removed with its matches when the pet is no
// longer available.
func (h *Handler) PetChanged(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	petID, apiErr := parseIDParam(chi.URLParam(r, "petID"), "pet_id")
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	if h.notifier != nil {
		eventID, err := h.notifier.PublishPetChanged(r.Context(), petID)
		if err != nil {
			respondEngineError(w, r, err)
			return
		}
		respondData(w, http.StatusAccepted, ChangeAccepted{EventID: eventID}, start)
		return
	}

	if err := h.matcher.OnPetChanged(r.Context(), petID); err != nil {
		respondEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreferencesChanged is the hook the CRUD layer calls after an adopter saves
// preferences. The adopter vector is re-encoded and matches recomputed.
func (h *Handler) PreferencesChanged(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, apiErr := parseIDParam(chi.URLParam(r, "userID"), "user_id")
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	if h.notifier != nil {
		eventID, err := h.notifier.PublishPreferencesChanged(r.Context(), userID)
		if err != nil {
			respondEngineError(w, r, err)
			return
		}
		respondData(w, http.StatusAccepted, ChangeAccepted{EventID: eventID}, start)
		return
	}

	result, err := h.matcher.OnPreferencesChanged(r.Context(), userID)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, result, start)
}
