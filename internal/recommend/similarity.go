// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// CosineSimilarity returns dot(a, b) / (|a| * |b|).
//
// It returns 0 when either input is empty or has zero magnitude, and a
// *DimensionError when the lengths differ. Identical vectors score exactly 1
// and the result is clamped to [-1, 1].
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}
	// floats panics on unequal lengths.
	if len(a) != len(b) {
		return 0, &DimensionError{Want: len(a), Got: len(b)}
	}

	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	if floats.Equal(a, b) {
		return 1, nil
	}
	// Rounding can push parallel vectors just past 1.
	return math.Max(-1, math.Min(1, floats.Dot(a, b)/(normA*normB))), nil
}
