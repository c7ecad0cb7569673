// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import (
	"sort"
	"time"

	"github.com/tomtom215/pawmatch/internal/metrics"
	"github.com/tomtom215/pawmatch/internal/models"
)

// ScoredPet is one ranked candidate.
type ScoredPet struct {
	PetID int64   `json:"pet_id"`
	Score float64 `json:"score"`
}

// Ranker scores candidates against an adopter vector.
type Ranker struct {
	threshold float64
}

// NewRanker creates a ranker that drops candidates scoring below threshold.
func NewRanker(threshold float64) *Ranker {
	return &Ranker{threshold: threshold}
}

// Rank returns the candidates scoring at least the threshold, ordered by
// score descending, truncated to k. Equal scores keep the candidate order.
// A k of zero or less returns every qualifying candidate.
//
// Any candidate whose length differs from the adopter vector fails the whole
// ranking with a *DimensionError.
func (r *Ranker) Rank(adopter []float64, candidates []models.CandidateVector, k int) ([]ScoredPet, error) {
	start := time.Now()
	defer func() { metrics.RecordRank(time.Since(start)) }()

	scored := make([]ScoredPet, 0, len(candidates))
	for _, c := range candidates {
		score, err := CosineSimilarity(adopter, c.Vector)
		if err != nil {
			return nil, err
		}
		if score >= r.threshold {
			scored = append(scored, ScoredPet{PetID: c.PetID, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}
