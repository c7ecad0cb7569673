// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	// ErrMissingPreferences means the adopter has not saved a preference
	// record, so no adopter vector can be built. It is not retried.
	ErrMissingPreferences = errors.New("adopter has no saved preferences")

	// ErrDimensionMismatch means two vectors disagree in length. It signals a
	// schema error and aborts a batch refresh.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrPersistence means a reconciliation transaction failed and was rolled
	// back. The adopter's previous matches are unchanged.
	ErrPersistence = errors.New("match persistence failed")
)

// DimensionError describes a vector length mismatch.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: want %d, got %d", ErrDimensionMismatch, e.Want, e.Got)
}

// Unwrap returns ErrDimensionMismatch.
func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// failureReason classifies a per-adopter failure for metrics and reports.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingPreferences):
		return "missing_preferences"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "other"
	}
}

// ErrPetNotFound means a pet id does not resolve to a pet record.
var ErrPetNotFound = errors.New("pet not found")
