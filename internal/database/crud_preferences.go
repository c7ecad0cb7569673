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

	"github.com/tomtom215/pawmatch/internal/models"
)

// UpsertPreferences inserts or replaces an adopter's preference record.
// UpdatedAt is set to the write time so the stored adopter vector is
// recognized as stale.
func (db *DB) UpsertPreferences(ctx context.Context, prefs *models.Preferences) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "user_preferences", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	prefs.UpdatedAt = dbNow()
	species := prefs.PreferredSpecies
	if species == "" {
		species = models.PreferSpeciesAny
	}

	return db.withTx(ctx, "user_preferences", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO user_preferences (user_id, preferred_species, pet_purpose, has_children,
				has_dogs, has_cats, ownership_experience, preferred_age, preferred_sex, preferred_size,
				preferred_energy_level, preferred_hair_length, wants_allergy_friendly,
				accepts_special_needs, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET
				preferred_species = EXCLUDED.preferred_species,
				pet_purpose = EXCLUDED.pet_purpose,
				has_children = EXCLUDED.has_children,
				has_dogs = EXCLUDED.has_dogs,
				has_cats = EXCLUDED.has_cats,
				ownership_experience = EXCLUDED.ownership_experience,
				preferred_age = EXCLUDED.preferred_age,
				preferred_sex = EXCLUDED.preferred_sex,
				preferred_size = EXCLUDED.preferred_size,
				preferred_energy_level = EXCLUDED.preferred_energy_level,
				preferred_hair_length = EXCLUDED.preferred_hair_length,
				wants_allergy_friendly = EXCLUDED.wants_allergy_friendly,
				accepts_special_needs = EXCLUDED.accepts_special_needs,
				updated_at = EXCLUDED.updated_at`,
			prefs.UserID, string(species), nullString(string(prefs.PetPurpose)),
			prefs.HasChildren, prefs.HasDogs, prefs.HasCats,
			nullString(string(prefs.OwnershipExperience)), nullString(string(prefs.PreferredAge)),
			nullString(string(prefs.PreferredSex)), nullString(string(prefs.PreferredSize)),
			nullString(string(prefs.PreferredEnergyLevel)), nullString(string(prefs.PreferredHairLength)),
			prefs.WantsAllergyFriendly, prefs.AcceptsSpecialNeeds, prefs.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upsert preferences %d: %w", prefs.UserID, err)
		}
		return replaceTraits(ctx, tx, "user_training_preferences", "user_id", prefs.UserID, prefs.Traits)
	})
}

// GetPreferences returns the adopter's preferences, or nil when none are saved.
func (db *DB) GetPreferences(ctx context.Context, userID int64) (prefs *models.Preferences, err error) {
	start := time.Now()
	defer func() { observe("select", "user_preferences", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		p                                  models.Preferences
		purpose, ownership, age, sex, size sql.NullString
		energy, hair                       sql.NullString
	)
	err = db.conn.QueryRowContext(ctx, `
		SELECT user_id, preferred_species, pet_purpose, has_children, has_dogs, has_cats,
			ownership_experience, preferred_age, preferred_sex, preferred_size,
			preferred_energy_level, preferred_hair_length, wants_allergy_friendly,
			accepts_special_needs, updated_at
		FROM user_preferences WHERE user_id = ?`, userID).Scan(
		&p.UserID, &p.PreferredSpecies, &purpose, &p.HasChildren, &p.HasDogs, &p.HasCats,
		&ownership, &age, &sex, &size, &energy, &hair,
		&p.WantsAllergyFriendly, &p.AcceptsSpecialNeeds, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences %d: %w", userID, err)
	}

	p.PetPurpose = models.PetPurpose(purpose.String)
	p.OwnershipExperience = models.OwnershipExperience(ownership.String)
	p.PreferredAge = models.PetAgeGroup(age.String)
	p.PreferredSex = models.PreferredSex(sex.String)
	p.PreferredSize = models.PreferredSize(size.String)
	p.PreferredEnergyLevel = models.PreferredEnergyLevel(energy.String)
	p.PreferredHairLength = models.PreferredHairLength(hair.String)

	traits, err := db.loadTraits(ctx, "user_training_preferences", "user_id", []int64{userID})
	if err != nil {
		return nil, err
	}
	p.Traits = traits[userID]
	return &p, nil
}

// ListAdopterIDs returns every adopter with saved preferences, ascending.
func (db *DB) ListAdopterIDs(ctx context.Context) (ids []int64, err error) {
	start := time.Now()
	defer func() { observe("select", "user_preferences", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT user_id FROM user_preferences ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list adopters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan adopter id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
