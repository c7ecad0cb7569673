// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

/*
database_schema.go - Database Schema Management

Tables:
  - pets: adoptable animals with their matching attributes and status
  - pet_training_traits: training traits per pet (HouseTrained, LitterTrained)
  - user_preferences: one preference record per adopter
  - user_training_preferences: training traits an adopter asks for
  - pet_vectors / adopter_vectors: current feature vector per entity,
    stored as a JSON array with the encoding schema version
  - matches: persisted top-K recommendations, unique per (user_id, pet_id)

Timestamps are stored as UTC TIMESTAMP so the schema needs no ICU extension.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS pets (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		species TEXT NOT NULL,
		breed TEXT,
		age_group TEXT NOT NULL,
		sex TEXT NOT NULL,
		size TEXT,
		energy_level TEXT,
		experience_level TEXT,
		hair_length TEXT,
		allergy_friendly BOOLEAN,
		special_needs BOOLEAN,
		kid_friendly BOOLEAN,
		pet_friendly BOOLEAN,
		status TEXT NOT NULL DEFAULT 'Available',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS pet_training_traits (
		pet_id BIGINT NOT NULL,
		trait TEXT NOT NULL,
		PRIMARY KEY (pet_id, trait)
	);`,

	`CREATE TABLE IF NOT EXISTS user_preferences (
		user_id BIGINT PRIMARY KEY,
		preferred_species TEXT NOT NULL DEFAULT 'NoPreference',
		pet_purpose TEXT,
		has_children BOOLEAN NOT NULL DEFAULT false,
		has_dogs BOOLEAN NOT NULL DEFAULT false,
		has_cats BOOLEAN NOT NULL DEFAULT false,
		ownership_experience TEXT,
		preferred_age TEXT,
		preferred_sex TEXT,
		preferred_size TEXT,
		preferred_energy_level TEXT,
		preferred_hair_length TEXT,
		wants_allergy_friendly BOOLEAN NOT NULL DEFAULT false,
		accepts_special_needs BOOLEAN NOT NULL DEFAULT false,
		updated_at TIMESTAMP NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS user_training_preferences (
		user_id BIGINT NOT NULL,
		trait TEXT NOT NULL,
		PRIMARY KEY (user_id, trait)
	);`,

	`CREATE TABLE IF NOT EXISTS pet_vectors (
		pet_id BIGINT PRIMARY KEY,
		vector TEXT NOT NULL,
		schema_version INTEGER NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS adopter_vectors (
		user_id BIGINT PRIMARY KEY,
		vector TEXT NOT NULL,
		schema_version INTEGER NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		pet_id BIGINT NOT NULL,
		match_score DOUBLE NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, pet_id)
	);`,
}

// createIndexes creates database indexes for query optimization.
// Skipped when cfg.SkipIndexes is true (fast test setup).
func (db *DB) createIndexes() error {
	if db.cfg != nil && db.cfg.SkipIndexes {
		return nil
	}
	return db.CreateIndexes()
}

// CreateIndexes creates all database indexes.
func (db *DB) CreateIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_pets_status ON pets(status);`,
	`CREATE INDEX IF NOT EXISTS idx_pets_species_status ON pets(species, status);`,
	`CREATE INDEX IF NOT EXISTS idx_pet_vectors_version ON pet_vectors(schema_version);`,
	`CREATE INDEX IF NOT EXISTS idx_matches_pet ON matches(pet_id);`,
}
