// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/pawmatch/internal/metrics"
)

// ensureContext creates a context with 30-second timeout if none provided
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}

	return ctx, func() {}
}

// observe records the duration and outcome of one store operation.
func observe(operation, table string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}

// Checkpoint forces a WAL checkpoint
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// RecordCounts holds row counts for the main tables.
type RecordCounts struct {
	Pets           int64 `json:"pets"`
	AvailablePets  int64 `json:"available_pets"`
	Adopters       int64 `json:"adopters"`
	PetVectors     int64 `json:"pet_vectors"`
	AdopterVectors int64 `json:"adopter_vectors"`
	Matches        int64 `json:"matches"`
}

// GetRecordCounts returns the count of records in main tables
func (db *DB) GetRecordCounts(ctx context.Context) (*RecordCounts, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var c RecordCounts
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM pets),
			(SELECT COUNT(*) FROM pets WHERE status = 'Available'),
			(SELECT COUNT(*) FROM user_preferences),
			(SELECT COUNT(*) FROM pet_vectors),
			(SELECT COUNT(*) FROM adopter_vectors),
			(SELECT COUNT(*) FROM matches)`).Scan(
		&c.Pets, &c.AvailablePets, &c.Adopters, &c.PetVectors, &c.AdopterVectors, &c.Matches)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	return &c, nil
}
