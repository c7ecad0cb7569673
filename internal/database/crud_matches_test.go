// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/pawmatch/internal/logging"
	"github.com/tomtom215/pawmatch/internal/models"
	"github.com/tomtom215/pawmatch/internal/recommend"
)

func newMatch(userID, petID int64, score float64) *models.Match {
	now := time.Now()
	return &models.Match{ID: uuid.NewString(), UserID: userID, PetID: petID, Score: score, CreatedAt: now, UpdatedAt: now}
}

func TestInsertMatchRequiresAvailablePet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.UpsertPet(ctx, testPet(1, models.SpeciesDog)); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertPet(ctx, testPet(2, models.SpeciesDog)); err != nil {
		t.Fatal(err)
	}
	if err := db.SetPetStatus(ctx, 2, models.StatusAdopted); err != nil {
		t.Fatal(err)
	}

	var inserted []bool
	err := db.WithMatchTx(ctx, func(tx recommend.MatchTx) error {
		inserted = inserted[:0]
		for _, petID := range []int64{1, 2, 3} {
			ok, err := tx.InsertMatch(ctx, newMatch(7, petID, 0.9))
			if err != nil {
				return err
			}
			inserted = append(inserted, ok)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithMatchTx() error = %v", err)
	}
	if !inserted[0] || inserted[1] || inserted[2] {
		t.Errorf("inserted = %v, want [true false false]", inserted)
	}

	matches, err := db.ListMatches(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].PetID != 1 {
		t.Errorf("ListMatches() = %+v", matches)
	}
}

func TestWithMatchTxRollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.UpsertPet(ctx, testPet(1, models.SpeciesDog)); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := db.WithMatchTx(ctx, func(tx recommend.MatchTx) error {
		if _, err := tx.InsertMatch(ctx, newMatch(7, 1, 0.9)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithMatchTx() error = %v, want boom", err)
	}

	matches, err := db.ListMatches(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("rolled back transaction left %d matches", len(matches))
	}
}

func TestUpdateAndDeleteMatch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.UpsertPet(ctx, testPet(1, models.SpeciesDog)); err != nil {
		t.Fatal(err)
	}
	m := newMatch(7, 1, 0.7)
	if err := db.WithMatchTx(ctx, func(tx recommend.MatchTx) error {
		_, err := tx.InsertMatch(ctx, m)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	later := m.UpdatedAt.Add(time.Minute)
	if err := db.WithMatchTx(ctx, func(tx recommend.MatchTx) error {
		return tx.UpdateMatchScore(ctx, m.ID, 0.95, later)
	}); err != nil {
		t.Fatalf("UpdateMatchScore() error = %v", err)
	}

	got, _ := db.ListMatches(ctx, 7)
	if len(got) != 1 || got[0].Score != 0.95 || got[0].ID != m.ID {
		t.Fatalf("after update = %+v", got)
	}
	if !got[0].UpdatedAt.After(got[0].CreatedAt) {
		t.Errorf("UpdatedAt %v should be after CreatedAt %v", got[0].UpdatedAt, got[0].CreatedAt)
	}

	err := db.WithMatchTx(ctx, func(tx recommend.MatchTx) error {
		return tx.UpdateMatchScore(ctx, "missing", 0.1, later)
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateMatchScore(missing) error = %v, want ErrNotFound", err)
	}

	if err := db.WithMatchTx(ctx, func(tx recommend.MatchTx) error {
		return tx.DeleteMatch(ctx, m.ID)
	}); err != nil {
		t.Fatal(err)
	}
	got, _ = db.ListMatches(ctx, 7)
	if len(got) != 0 {
		t.Errorf("after delete = %+v", got)
	}
}

func TestRemovePet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, id := range []int64{1, 2} {
		if err := db.UpsertPet(ctx, testPet(id, models.SpeciesDog)); err != nil {
			t.Fatal(err)
		}
		if err := db.UpsertPetVector(ctx, &models.PetVector{PetID: id, Vector: []float64{1}, SchemaVersion: 1}); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.WithMatchTx(ctx, func(tx recommend.MatchTx) error {
		for _, m := range []*models.Match{newMatch(7, 1, 0.9), newMatch(8, 1, 0.8), newMatch(7, 2, 0.7)} {
			if _, err := tx.InsertMatch(ctx, m); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	removed, err := db.RemovePet(ctx, 1)
	if err != nil {
		t.Fatalf("RemovePet() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("RemovePet() removed = %d, want 2", removed)
	}

	pv, err := db.GetPetVector(ctx, 1)
	if err != nil || pv != nil {
		t.Errorf("pet vector after RemovePet = %v, %v", pv, err)
	}
	if pet, _ := db.GetPet(ctx, 1); pet == nil {
		t.Error("RemovePet must keep the pet record")
	}
	remaining, _ := db.ListMatches(ctx, 7)
	if len(remaining) != 1 || remaining[0].PetID != 2 {
		t.Errorf("remaining matches = %+v", remaining)
	}
}

func TestReconcilerAgainstDuckDB(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for id := int64(1); id <= 4; id++ {
		if err := db.UpsertPet(ctx, testPet(id, models.SpeciesDog)); err != nil {
			t.Fatal(err)
		}
	}

	rec := recommend.NewReconciler(db, logging.Logger())

	first := []recommend.ScoredPet{{PetID: 1, Score: 0.9}, {PetID: 2, Score: 0.8}, {PetID: 3, Score: 0.7}}
	res, err := rec.Reconcile(ctx, 7, first)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if res.Inserted != 3 {
		t.Errorf("first reconcile = %+v", res)
	}
	before, _ := db.ListMatches(ctx, 7)

	second := []recommend.ScoredPet{{PetID: 2, Score: 0.85}, {PetID: 4, Score: 0.75}}
	res, err = rec.Reconcile(ctx, 7, second)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if res.Inserted != 1 || res.Updated != 1 || res.Deleted != 2 {
		t.Errorf("second reconcile = %+v, want 1 inserted, 1 updated, 2 deleted", res)
	}

	after, _ := db.ListMatches(ctx, 7)
	if len(after) != 2 || after[0].PetID != 2 || after[1].PetID != 4 {
		t.Fatalf("matches after reconcile = %+v", after)
	}
	for _, b := range before {
		if b.PetID == 2 && b.ID != after[0].ID {
			t.Error("surviving match should keep its id")
		}
	}

	// Idempotent on the same input.
	res, err = rec.Reconcile(ctx, 7, second)
	if err != nil {
		t.Fatal(err)
	}
	if res.Inserted != 0 || res.Deleted != 0 {
		t.Errorf("repeat reconcile = %+v", res)
	}
}
