// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/tomtom215/pawmatch/internal/models"
)

func TestRanker_IdenticalAndOrthogonal(t *testing.T) {
	r := NewRanker(0.6)
	candidates := []models.CandidateVector{
		{PetID: 1, Vector: []float64{1, 0, 0.5}},
		{PetID: 2, Vector: []float64{0, 1, 0}},
	}

	got, err := r.Rank([]float64{1, 0, 0.5}, candidates, 5)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(Rank()) = %d, want 1: %+v", len(got), got)
	}
	if got[0].PetID != 1 || math.Abs(got[0].Score-1) > epsilon {
		t.Errorf("Rank()[0] = %+v, want pet 1 with score 1.0", got[0])
	}
}

func TestRanker_ThresholdIsInclusive(t *testing.T) {
	r := NewRanker(0)
	candidates := []models.CandidateVector{
		{PetID: 1, Vector: []float64{0, 1}},
	}
	got, err := r.Rank([]float64{1, 0}, candidates, 5)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(got) != 1 || got[0].Score != 0 {
		t.Errorf("Rank() = %+v, want the zero-scored candidate kept", got)
	}
}

func TestRanker_StableTiesAndTruncation(t *testing.T) {
	r := NewRanker(0.6)
	candidates := []models.CandidateVector{
		{PetID: 10, Vector: []float64{1, 1}},
		{PetID: 11, Vector: []float64{1, 1}},
		{PetID: 12, Vector: []float64{1, 0.9}},
		{PetID: 13, Vector: []float64{1, 1}},
	}

	got, err := r.Rank([]float64{1, 1}, candidates, 3)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	wantIDs := []int64{10, 11, 13}
	if len(got) != len(wantIDs) {
		t.Fatalf("len(Rank()) = %d, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].PetID != id {
			t.Errorf("Rank()[%d].PetID = %d, want %d", i, got[i].PetID, id)
		}
	}
}

func TestRanker_NoCandidates(t *testing.T) {
	got, err := NewRanker(0.6).Rank([]float64{1, 0}, nil, 5)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Rank() = %+v, want empty", got)
	}
}

func TestRanker_DimensionMismatch(t *testing.T) {
	candidates := []models.CandidateVector{
		{PetID: 1, Vector: []float64{1, 0}},
		{PetID: 2, Vector: []float64{1, 0, 0}},
	}
	_, err := NewRanker(0.6).Rank([]float64{1, 0}, candidates, 5)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Rank() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestRankerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("sorted descending and above threshold", prop.ForAll(
		func(adopter []float64, pool [][]float64, threshold float64, k int) bool {
			candidates := make([]models.CandidateVector, len(pool))
			for i, v := range pool {
				candidates[i] = models.CandidateVector{PetID: int64(i), Vector: v}
			}

			got, err := NewRanker(threshold).Rank(adopter, candidates, k)
			if err != nil {
				return false
			}
			if len(got) > k {
				return false
			}
			for i, sp := range got {
				if sp.Score < threshold {
					return false
				}
				if i > 0 && got[i-1].Score < sp.Score {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, gen.Float64Range(0, 1)),
		gen.SliceOf(gen.SliceOfN(4, gen.Float64Range(0, 1))),
		gen.Float64Range(0, 1),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
