// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package models

import "time"

// PetVector is the persisted encoding of one pet.
type PetVector struct {
	PetID         int64     `json:"pet_id"`
	Vector        []float64 `json:"vector"`
	SchemaVersion int       `json:"schema_version"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AdopterVector is the persisted encoding of one adopter's preferences.
type AdopterVector struct {
	UserID        int64     `json:"user_id"`
	Vector        []float64 `json:"vector"`
	SchemaVersion int       `json:"schema_version"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CandidateVector is an available pet vector as read for ranking.
type CandidateVector struct {
	PetID   int64      `json:"pet_id"`
	Species PetSpecies `json:"species"`
	Vector  []float64  `json:"vector"`
}

// Match is one persisted recommendation row. At most one row exists per
// (UserID, PetID) pair.
type Match struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	PetID     int64     `json:"pet_id"`
	Score     float64   `json:"match_score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recommendation is one rendered entry of a recommendation page.
type Recommendation struct {
	Pet        PetSummary `json:"pet"`
	MatchScore float64    `json:"match_score"`
}

// RecommendationPage is a page sliced from an adopter's current match set.
type RecommendationPage struct {
	UserID   int64            `json:"user_id"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int              `json:"total"`
	HasMore  bool             `json:"has_more"`
	Results  []Recommendation `json:"results"`
}
