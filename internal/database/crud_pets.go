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
	"strings"
	"time"

	"github.com/tomtom215/pawmatch/internal/models"
)

const petColumns = `p.id, p.name, p.species, p.breed, p.age_group, p.sex, p.size, p.energy_level,
	p.experience_level, p.hair_length, p.allergy_friendly, p.special_needs, p.kid_friendly,
	p.pet_friendly, p.status, p.created_at`

// UpsertPet inserts or replaces a pet record and its training traits.
// The pet's updated_at moves forward so a stored vector becomes stale.
func (db *DB) UpsertPet(ctx context.Context, pet *models.Pet) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "pets", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	now := dbNow()
	if pet.CreatedAt.IsZero() {
		pet.CreatedAt = now
	}
	if pet.Status == "" {
		pet.Status = models.StatusAvailable
	}

	return db.withTx(ctx, "pets", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pets (id, name, species, breed, age_group, sex, size, energy_level,
				experience_level, hair_length, allergy_friendly, special_needs, kid_friendly,
				pet_friendly, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				species = EXCLUDED.species,
				breed = EXCLUDED.breed,
				age_group = EXCLUDED.age_group,
				sex = EXCLUDED.sex,
				size = EXCLUDED.size,
				energy_level = EXCLUDED.energy_level,
				experience_level = EXCLUDED.experience_level,
				hair_length = EXCLUDED.hair_length,
				allergy_friendly = EXCLUDED.allergy_friendly,
				special_needs = EXCLUDED.special_needs,
				kid_friendly = EXCLUDED.kid_friendly,
				pet_friendly = EXCLUDED.pet_friendly,
				status = EXCLUDED.status,
				updated_at = EXCLUDED.updated_at`,
			pet.ID, pet.Name, string(pet.Species), nullString(pet.Breed), string(pet.AgeGroup), string(pet.Sex),
			nullString(string(pet.Size)), nullString(string(pet.EnergyLevel)),
			nullString(string(pet.ExperienceLevel)), nullString(string(pet.HairLength)),
			nullBool(pet.AllergyFriendly), nullBool(pet.SpecialNeeds), nullBool(pet.KidFriendly),
			nullBool(pet.PetFriendly), string(pet.Status), pet.CreatedAt.UTC(), now)
		if err != nil {
			return fmt.Errorf("upsert pet %d: %w", pet.ID, err)
		}
		return replaceTraits(ctx, tx, "pet_training_traits", "pet_id", pet.ID, pet.Traits)
	})
}

// SetPetStatus changes a pet's adoption status.
func (db *DB) SetPetStatus(ctx context.Context, petID int64, status models.PetStatus) (err error) {
	start := time.Now()
	defer func() { observe("update", "pets", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE pets SET status = ?, updated_at = ? WHERE id = ?`, string(status), dbNow(), petID)
	if err != nil {
		return fmt.Errorf("update pet %d status: %w", petID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("pet %d: %w", petID, ErrNotFound)
	}
	return nil
}

// DeletePet removes a pet with its traits, vector and matches.
func (db *DB) DeletePet(ctx context.Context, petID int64) (err error) {
	start := time.Now()
	defer func() { observe("delete", "pets", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, "pets", func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM matches WHERE pet_id = ?`,
			`DELETE FROM pet_vectors WHERE pet_id = ?`,
			`DELETE FROM pet_training_traits WHERE pet_id = ?`,
			`DELETE FROM pets WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, petID); err != nil {
				return fmt.Errorf("delete pet %d: %w", petID, err)
			}
		}
		return nil
	})
}

// GetPet returns the pet, or nil when it does not exist.
func (db *DB) GetPet(ctx context.Context, petID int64) (pet *models.Pet, err error) {
	start := time.Now()
	defer func() { observe("select", "pets", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets p WHERE p.id = ?`, petID)
	pet, err = scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pet %d: %w", petID, err)
	}

	traits, err := db.loadTraits(ctx, "pet_training_traits", "pet_id", []int64{petID})
	if err != nil {
		return nil, err
	}
	pet.Traits = traits[petID]
	return pet, nil
}

// ListPetsNeedingVectors returns Available pets with no vector of the given
// schema version, or whose record changed after the vector was written.
func (db *DB) ListPetsNeedingVectors(ctx context.Context, schemaVersion int) (pets []models.Pet, err error) {
	start := time.Now()
	defer func() { observe("select", "pets", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets p
		LEFT JOIN pet_vectors v ON v.pet_id = p.id
		WHERE p.status = 'Available'
		  AND (v.pet_id IS NULL OR v.schema_version <> ? OR p.updated_at > v.updated_at)
		ORDER BY p.id`, schemaVersion)
	if err != nil {
		return nil, fmt.Errorf("list pets needing vectors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		pets = append(pets, *pet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]int64, len(pets))
	for i := range pets {
		ids[i] = pets[i].ID
	}
	traits, err := db.loadTraits(ctx, "pet_training_traits", "pet_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range pets {
		pets[i].Traits = traits[pets[i].ID]
	}
	return pets, nil
}

// GetPetSummaries returns display summaries keyed by pet id. Missing ids are
// absent from the map.
func (db *DB) GetPetSummaries(ctx context.Context, petIDs []int64) (out map[int64]models.PetSummary, err error) {
	out = make(map[int64]models.PetSummary, len(petIDs))
	if len(petIDs) == 0 {
		return out, nil
	}

	start := time.Now()
	defer func() { observe("select", "pets", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, species, breed, age_group, sex, status FROM pets WHERE id IN (`+placeholders(len(petIDs))+`)`,
		int64Args(petIDs)...)
	if err != nil {
		return nil, fmt.Errorf("get pet summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.PetSummary
		var breed sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.Species, &breed, &s.AgeGroup, &s.Sex, &s.Status); err != nil {
			return nil, fmt.Errorf("scan pet summary: %w", err)
		}
		s.Breed = breed.String
		out[s.ID] = s
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (*models.Pet, error) {
	var (
		p                                          models.Pet
		breed, size, energy, experience, hair      sql.NullString
		allergy, specialNeeds, kidFriendly, petFri sql.NullBool
	)
	err := row.Scan(&p.ID, &p.Name, &p.Species, &breed, &p.AgeGroup, &p.Sex, &size, &energy,
		&experience, &hair, &allergy, &specialNeeds, &kidFriendly, &petFri, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Breed = breed.String
	p.Size = models.PetSize(size.String)
	p.EnergyLevel = models.PetEnergyLevel(energy.String)
	p.ExperienceLevel = models.ExperienceLevel(experience.String)
	p.HairLength = models.HairLength(hair.String)
	p.AllergyFriendly = boolPtr(allergy)
	p.SpecialNeeds = boolPtr(specialNeeds)
	p.KidFriendly = boolPtr(kidFriendly)
	p.PetFriendly = boolPtr(petFri)
	return &p, nil
}

// replaceTraits rewrites the trait rows owned by one pet or adopter.
func replaceTraits(ctx context.Context, tx *sql.Tx, table, ownerCol string, ownerID int64, traits []models.TrainingTrait) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE `+ownerCol+` = ?`, ownerID); err != nil {
		return fmt.Errorf("clear %s for %d: %w", table, ownerID, err)
	}
	seen := make(map[models.TrainingTrait]bool, len(traits))
	for _, t := range traits {
		if seen[t] {
			continue
		}
		seen[t] = true
		if _, err := tx.ExecContext(ctx, `INSERT INTO `+table+` (`+ownerCol+`, trait) VALUES (?, ?)`, ownerID, string(t)); err != nil {
			return fmt.Errorf("insert %s for %d: %w", table, ownerID, err)
		}
	}
	return nil
}

// loadTraits returns traits per owner id, in trait name order.
func (db *DB) loadTraits(ctx context.Context, table, ownerCol string, ids []int64) (map[int64][]models.TrainingTrait, error) {
	out := make(map[int64][]models.TrainingTrait, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+ownerCol+`, trait FROM `+table+` WHERE `+ownerCol+` IN (`+placeholders(len(ids))+`) ORDER BY `+ownerCol+`, trait`,
		int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var trait string
		if err := rows.Scan(&id, &trait); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out[id] = append(out[id], models.TrainingTrait(trait))
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func boolPtr(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}

// dbNow returns the current time at the column precision (microseconds, UTC).
func dbNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
