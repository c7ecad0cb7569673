// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pawmatch/internal/models"
)

// UpsertPetVector stores the pet's current vector, replacing any previous one.
func (db *DB) UpsertPetVector(ctx context.Context, v *models.PetVector) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "pet_vectors", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	encoded, err := json.Marshal(v.Vector)
	if err != nil {
		return fmt.Errorf("encode pet vector %d: %w", v.PetID, err)
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = dbNow()
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO pet_vectors (pet_id, vector, schema_version, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (pet_id) DO UPDATE SET
			vector = EXCLUDED.vector,
			schema_version = EXCLUDED.schema_version,
			updated_at = EXCLUDED.updated_at`,
		v.PetID, string(encoded), v.SchemaVersion, v.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert pet vector %d: %w", v.PetID, err)
	}
	return nil
}

// UpsertAdopterVector stores the adopter's current vector, replacing any previous one.
func (db *DB) UpsertAdopterVector(ctx context.Context, v *models.AdopterVector) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "adopter_vectors", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	encoded, err := json.Marshal(v.Vector)
	if err != nil {
		return fmt.Errorf("encode adopter vector %d: %w", v.UserID, err)
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = dbNow()
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO adopter_vectors (user_id, vector, schema_version, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			vector = EXCLUDED.vector,
			schema_version = EXCLUDED.schema_version,
			updated_at = EXCLUDED.updated_at`,
		v.UserID, string(encoded), v.SchemaVersion, v.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert adopter vector %d: %w", v.UserID, err)
	}
	return nil
}

// GetAdopterVector returns the stored vector, or nil when none exists.
func (db *DB) GetAdopterVector(ctx context.Context, userID int64) (v *models.AdopterVector, err error) {
	start := time.Now()
	defer func() { observe("select", "adopter_vectors", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var raw string
	out := &models.AdopterVector{UserID: userID}
	err = db.conn.QueryRowContext(ctx,
		`SELECT vector, schema_version, updated_at FROM adopter_vectors WHERE user_id = ?`, userID).
		Scan(&raw, &out.SchemaVersion, &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get adopter vector %d: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(raw), &out.Vector); err != nil {
		return nil, fmt.Errorf("decode adopter vector %d: %w", userID, err)
	}
	return out, nil
}

// GetPetVector returns the stored vector, or nil when none exists.
func (db *DB) GetPetVector(ctx context.Context, petID int64) (v *models.PetVector, err error) {
	start := time.Now()
	defer func() { observe("select", "pet_vectors", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var raw string
	out := &models.PetVector{PetID: petID}
	err = db.conn.QueryRowContext(ctx,
		`SELECT vector, schema_version, updated_at FROM pet_vectors WHERE pet_id = ?`, petID).
		Scan(&raw, &out.SchemaVersion, &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pet vector %d: %w", petID, err)
	}
	if err := json.Unmarshal([]byte(raw), &out.Vector); err != nil {
		return nil, fmt.Errorf("decode pet vector %d: %w", petID, err)
	}
	return out, nil
}

// ListAvailablePetVectors returns the vectors of Available pets written with
// the given schema version, ordered by pet id.
func (db *DB) ListAvailablePetVectors(ctx context.Context, schemaVersion int) (out []models.CandidateVector, err error) {
	start := time.Now()
	defer func() { observe("select", "pet_vectors", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT v.pet_id, p.species, v.vector
		FROM pet_vectors v
		JOIN pets p ON p.id = v.pet_id
		WHERE p.status = 'Available' AND v.schema_version = ?
		ORDER BY v.pet_id`, schemaVersion)
	if err != nil {
		return nil, fmt.Errorf("list pet vectors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.CandidateVector
		var raw string
		if err := rows.Scan(&c.PetID, &c.Species, &raw); err != nil {
			return nil, fmt.Errorf("scan pet vector: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &c.Vector); err != nil {
			return nil, fmt.Errorf("decode pet vector %d: %w", c.PetID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RemovePet deletes the pet's vector and every match referencing the pet in
// one transaction. The pet record itself is kept. It returns the number of
// matches deleted.
func (db *DB) RemovePet(ctx context.Context, petID int64) (removed int64, err error) {
	start := time.Now()
	defer func() { observe("delete", "matches", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.withTx(ctx, "matches", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE pet_id = ?`, petID)
		if err != nil {
			return fmt.Errorf("delete matches for pet %d: %w", petID, err)
		}
		removed, _ = res.RowsAffected()
		if _, err := tx.ExecContext(ctx, `DELETE FROM pet_vectors WHERE pet_id = ?`, petID); err != nil {
			return fmt.Errorf("delete vector for pet %d: %w", petID, err)
		}
		return nil
	})
	return removed, err
}
