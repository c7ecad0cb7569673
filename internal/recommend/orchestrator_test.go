// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pawmatch/internal/models"
)

// matchingPet encodes identically to adopterPrefs with the same species.
func matchingPet(id int64, species models.PetSpecies) models.Pet {
	return models.Pet{
		ID:              id,
		Name:            fmt.Sprintf("pet-%d", id),
		Species:         species,
		Sex:             models.SexFemale,
		AgeGroup:        models.AgeAdult,
		Size:            models.SizeMedium,
		EnergyLevel:     models.EnergyCalm,
		HairLength:      models.HairShort,
		ExperienceLevel: models.ExperienceBeginner,
		KidFriendly:     boolPtr(true),
		Status:          models.StatusAvailable,
	}
}

// oppositePet scores about 0.3 against a cat-preferring adopterPrefs.
func oppositePet(id int64) models.Pet {
	return models.Pet{
		ID:              id,
		Name:            fmt.Sprintf("pet-%d", id),
		Species:         models.SpeciesDog,
		Sex:             models.SexMale,
		AgeGroup:        models.AgeSenior,
		Size:            models.SizeExtraLarge,
		EnergyLevel:     models.EnergyVeryActive,
		HairLength:      models.HairLong,
		ExperienceLevel: models.ExperienceAdvanced,
		AllergyFriendly: boolPtr(true),
		SpecialNeeds:    boolPtr(true),
		PetFriendly:     boolPtr(true),
		KidFriendly:     boolPtr(false),
		Traits:          []models.TrainingTrait{models.TraitHouseTrained, models.TraitLitterTrained},
		Status:          models.StatusAvailable,
	}
}

func adopterPrefs(userID int64, species models.PreferredSpecies) models.Preferences {
	return models.Preferences{
		UserID:               userID,
		PreferredSpecies:     species,
		PreferredSex:         models.PreferSexFemale,
		PreferredAge:         models.AgeAdult,
		PreferredSize:        "Medium",
		PreferredEnergyLevel: "Calm",
		PreferredHairLength:  "Short",
		OwnershipExperience:  models.OwnershipFirstTime,
		HasChildren:          true,
	}
}

func newTestOrchestrator(t *testing.T, store *memStore, mutate func(*Config)) *Orchestrator {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 4
	if mutate != nil {
		mutate(cfg)
	}
	o, err := NewOrchestrator(cfg, store, store, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewOrchestrator() error = %v", err)
	}
	return o
}

func TestNewOrchestrator_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 1.5
	store := newMemStore()
	if _, err := NewOrchestrator(cfg, store, store, store, zerolog.Nop()); err == nil {
		t.Fatal("NewOrchestrator() error = nil, want invalid config error")
	}
}

func TestRefreshOne(t *testing.T) {
	store := newMemStore()
	store.addPet(matchingPet(1, models.SpeciesCat))
	store.addPet(oppositePet(2))
	store.addPet(matchingPet(3, models.SpeciesCat))
	store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
	o := newTestOrchestrator(t, store, nil)

	res, err := o.RefreshOne(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("RefreshOne() error = %v", err)
	}
	if len(res.Matches) != 2 || res.Matches[0].PetID != 1 || res.Matches[1].PetID != 3 {
		t.Fatalf("Matches = %+v, want pets 1 and 3", res.Matches)
	}
	if res.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2", res.Inserted)
	}

	rows := store.matchesFor(10)
	if _, ok := rows[2]; ok {
		t.Errorf("pet 2 scored below threshold but was stored: %v", rows)
	}
	if v, _ := store.GetAdopterVector(context.Background(), 10); v == nil || v.SchemaVersion != SchemaVersion {
		t.Errorf("adopter vector = %+v, want current schema version", v)
	}
}

func TestRefreshOne_MissingPreferences(t *testing.T) {
	store := newMemStore()
	store.addPet(matchingPet(1, models.SpeciesCat))
	o := newTestOrchestrator(t, store, nil)

	_, err := o.RefreshOne(context.Background(), 42, 0)
	if !errors.Is(err, ErrMissingPreferences) {
		t.Errorf("RefreshOne() error = %v, want ErrMissingPreferences", err)
	}
}

func TestRefreshOne_NoCandidates(t *testing.T) {
	store := newMemStore()
	store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
	o := newTestOrchestrator(t, store, nil)

	res, err := o.RefreshOne(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("RefreshOne() error = %v", err)
	}
	if len(res.Matches) != 0 {
		t.Errorf("Matches = %+v, want empty", res.Matches)
	}
}

func TestRefreshOne_SpeciesFilter(t *testing.T) {
	t.Run("restricts to preferred species", func(t *testing.T) {
		store := newMemStore()
		store.addPet(matchingPet(1, models.SpeciesDog))
		store.addPet(matchingPet(2, models.SpeciesCat))
		store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
		o := newTestOrchestrator(t, store, nil)

		res, err := o.RefreshOne(context.Background(), 10, 0)
		if err != nil {
			t.Fatalf("RefreshOne() error = %v", err)
		}
		if len(res.Matches) != 1 || res.Matches[0].PetID != 2 {
			t.Errorf("Matches = %+v, want only the cat", res.Matches)
		}
	})

	t.Run("falls back when nothing matches", func(t *testing.T) {
		store := newMemStore()
		store.addPet(matchingPet(1, models.SpeciesDog))
		store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
		o := newTestOrchestrator(t, store, nil)

		res, err := o.RefreshOne(context.Background(), 10, 0)
		if err != nil {
			t.Fatalf("RefreshOne() error = %v", err)
		}
		if len(res.Matches) != 1 || res.Matches[0].PetID != 1 {
			t.Errorf("Matches = %+v, want the dog after fallback", res.Matches)
		}
	})
}

func TestRefreshAll(t *testing.T) {
	store := newMemStore()
	for i := int64(1); i <= 8; i++ {
		store.addPet(matchingPet(i, models.SpeciesCat))
	}
	for u := int64(100); u < 110; u++ {
		store.addPrefs(adopterPrefs(u, models.PreferSpeciesCat))
	}
	o := newTestOrchestrator(t, store, func(c *Config) { c.BatchTopK = 5 })

	report, err := o.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	if report.Adopters != 10 || report.Refreshed != 10 || report.Failed != 0 {
		t.Errorf("report = %+v, want 10 adopters refreshed", report)
	}
	if report.Candidates != 8 {
		t.Errorf("Candidates = %d, want 8", report.Candidates)
	}
	if report.Inserted != 50 {
		t.Errorf("Inserted = %d, want 50", report.Inserted)
	}
	for u := int64(100); u < 110; u++ {
		if rows := store.matchesFor(u); len(rows) != 5 {
			t.Errorf("user %d has %d matches, want 5", u, len(rows))
		}
	}
	if o.LastReport() != report {
		t.Error("LastReport() does not return the latest report")
	}
}

func TestRefreshAll_ContinuesPastFailures(t *testing.T) {
	store := newMemStore()
	store.addPet(matchingPet(1, models.SpeciesCat))
	for u := int64(1); u <= 5; u++ {
		store.addPrefs(adopterPrefs(u, models.PreferSpeciesCat))
	}
	store.failOn = "insert"
	store.failUser = 3
	o := newTestOrchestrator(t, store, nil)

	report, err := o.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	if report.Failed != 1 || report.Refreshed != 4 {
		t.Errorf("report = %+v, want 4 refreshed and 1 failed", report)
	}
	if rows := store.matchesFor(3); len(rows) != 0 {
		t.Errorf("failed adopter has rows %v, want none", rows)
	}
	if rows := store.matchesFor(4); len(rows) != 1 {
		t.Errorf("adopter 4 rows = %v, want 1", rows)
	}
}

func TestRefreshAll_DimensionMismatchAborts(t *testing.T) {
	store := newMemStore()
	store.addPet(matchingPet(1, models.SpeciesCat))
	store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
	store.petVecs[1] = models.PetVector{PetID: 1, Vector: []float64{1, 0}, SchemaVersion: SchemaVersion}
	o := newTestOrchestrator(t, store, nil)

	report, err := o.RefreshAll(context.Background())
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("RefreshAll() error = %v, want ErrDimensionMismatch", err)
	}
	if report.Refreshed != 0 {
		t.Errorf("Refreshed = %d, want 0", report.Refreshed)
	}
	if o.LastReport() != nil {
		t.Error("a failed batch must not replace the last report")
	}
}

func TestRefreshAll_RepairsCorruptAdopterVector(t *testing.T) {
	store := newMemStore()
	store.addPet(matchingPet(1, models.SpeciesCat))
	for u := int64(10); u <= 12; u++ {
		store.addPrefs(adopterPrefs(u, models.PreferSpeciesCat))
	}
	store.adopterVecs[11] = models.AdopterVector{
		UserID:        11,
		Vector:        make([]float64, Dimension-1),
		SchemaVersion: SchemaVersion,
		UpdatedAt:     time.Now(),
	}
	o := newTestOrchestrator(t, store, func(c *Config) { c.Workers = 1 })

	report, err := o.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	if report.Refreshed != 3 || report.Failed != 0 {
		t.Errorf("report = %+v, want 3 refreshed", report)
	}
	if v := store.adopterVecs[11]; len(v.Vector) != Dimension {
		t.Errorf("adopter 11 vector length = %d, want %d", len(v.Vector), Dimension)
	}
	for u := int64(10); u <= 12; u++ {
		if got := store.matchesFor(u); got[1] != 1 {
			t.Errorf("user %d matches = %v, want pet 1 scored exactly 1", u, got)
		}
	}
}

func TestRefreshAll_Cancelled(t *testing.T) {
	store := newMemStore()
	store.addPet(matchingPet(1, models.SpeciesCat))
	store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
	o := newTestOrchestrator(t, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := o.RefreshAll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RefreshAll() error = %v, want context.Canceled", err)
	}
	if !report.Cancelled || report.Refreshed != 0 {
		t.Errorf("report = %+v, want cancelled with nothing refreshed", report)
	}
}

func TestRefreshAll_ReencodesStaleVectors(t *testing.T) {
	store := newMemStore()
	store.addPet(matchingPet(1, models.SpeciesCat))
	store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
	store.petVecs[1] = models.PetVector{PetID: 1, Vector: []float64{1}, SchemaVersion: SchemaVersion - 1}
	store.adopterVecs[10] = models.AdopterVector{UserID: 10, Vector: []float64{1}, SchemaVersion: SchemaVersion - 1, UpdatedAt: time.Now()}
	o := newTestOrchestrator(t, store, nil)

	if _, err := o.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	if v := store.petVecs[1]; v.SchemaVersion != SchemaVersion || len(v.Vector) != Dimension {
		t.Errorf("pet vector = %+v, want re-encoded", v)
	}
	if v := store.adopterVecs[10]; v.SchemaVersion != SchemaVersion || len(v.Vector) != Dimension {
		t.Errorf("adopter vector = %+v, want re-encoded", v)
	}
	if rows := store.matchesFor(10); len(rows) != 1 {
		t.Errorf("rows = %v, want 1 match", rows)
	}
}

func TestOnPetChanged_AdoptedPetMatchesRemoved(t *testing.T) {
	store := newMemStore()
	store.addPet(matchingPet(1, models.SpeciesCat))
	store.addPet(matchingPet(2, models.SpeciesCat))
	store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
	o := newTestOrchestrator(t, store, nil)
	ctx := context.Background()

	if _, err := o.RefreshOne(ctx, 10, 0); err != nil {
		t.Fatalf("RefreshOne() error = %v", err)
	}

	adopted := matchingPet(1, models.SpeciesCat)
	adopted.Status = models.StatusAdopted
	store.addPet(adopted)

	if err := o.OnPetChanged(ctx, 1); err != nil {
		t.Fatalf("OnPetChanged() error = %v", err)
	}
	if _, ok := store.petVecs[1]; ok {
		t.Error("adopted pet still has a vector")
	}
	if rows := store.matchesFor(10); len(rows) != 1 || rows[2] == 0 {
		t.Errorf("rows = %v, want only pet 2", rows)
	}

	res, err := o.RefreshOne(ctx, 10, 0)
	if err != nil {
		t.Fatalf("RefreshOne() error = %v", err)
	}
	for _, sp := range res.Matches {
		if sp.PetID == 1 {
			t.Error("adopted pet returned as a candidate")
		}
	}
}

func TestOnPetChanged(t *testing.T) {
	t.Run("available pet is encoded", func(t *testing.T) {
		store := newMemStore()
		store.addPet(matchingPet(1, models.SpeciesDog))
		o := newTestOrchestrator(t, store, nil)

		if err := o.OnPetChanged(context.Background(), 1); err != nil {
			t.Fatalf("OnPetChanged() error = %v", err)
		}
		if v, ok := store.petVecs[1]; !ok || len(v.Vector) != Dimension {
			t.Errorf("pet vector = %+v, want encoded", v)
		}
	})

	t.Run("deleted pet is removed", func(t *testing.T) {
		store := newMemStore()
		store.petVecs[7] = models.PetVector{PetID: 7, Vector: make([]float64, Dimension), SchemaVersion: SchemaVersion}
		o := newTestOrchestrator(t, store, nil)

		if err := o.OnPetChanged(context.Background(), 7); err != nil {
			t.Fatalf("OnPetChanged() error = %v", err)
		}
		if _, ok := store.petVecs[7]; ok {
			t.Error("deleted pet still has a vector")
		}
	})
}

func TestOnPreferencesChanged(t *testing.T) {
	store := newMemStore()
	store.addPet(matchingPet(1, models.SpeciesCat))
	store.addPet(matchingPet(2, models.SpeciesDog))
	store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
	o := newTestOrchestrator(t, store, nil)
	ctx := context.Background()

	if _, err := o.OnPreferencesChanged(ctx, 10); err != nil {
		t.Fatalf("OnPreferencesChanged() error = %v", err)
	}
	if rows := store.matchesFor(10); len(rows) != 1 || rows[1] == 0 {
		t.Fatalf("rows = %v, want the cat", rows)
	}

	store.addPrefs(adopterPrefs(10, models.PreferSpeciesDog))
	if _, err := o.OnPreferencesChanged(ctx, 10); err != nil {
		t.Fatalf("OnPreferencesChanged() error = %v", err)
	}
	if rows := store.matchesFor(10); len(rows) != 1 || rows[2] == 0 {
		t.Errorf("rows = %v, want the dog after the preference change", rows)
	}
}

func TestRecommend_Pagination(t *testing.T) {
	store := newMemStore()
	for i := int64(1); i <= 12; i++ {
		store.addPet(matchingPet(i, models.SpeciesCat))
	}
	store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
	o := newTestOrchestrator(t, store, nil)
	ctx := context.Background()

	tests := []struct {
		page, size int
		wantIDs    []int64
		wantMore   bool
	}{
		{page: 1, size: 5, wantIDs: []int64{1, 2, 3, 4, 5}, wantMore: true},
		{page: 3, size: 5, wantIDs: []int64{11, 12}, wantMore: false},
		{page: 4, size: 5, wantIDs: nil, wantMore: false},
		{page: 0, size: 0, wantIDs: []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, wantMore: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d size %d", tt.page, tt.size), func(t *testing.T) {
			page, err := o.Recommend(ctx, 10, tt.page, tt.size)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if page.Total != 12 {
				t.Errorf("Total = %d, want 12", page.Total)
			}
			if page.HasMore != tt.wantMore {
				t.Errorf("HasMore = %v, want %v", page.HasMore, tt.wantMore)
			}
			if len(page.Results) != len(tt.wantIDs) {
				t.Fatalf("len(Results) = %d, want %d", len(page.Results), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				r := page.Results[i]
				if r.Pet.ID != id {
					t.Errorf("Results[%d].Pet.ID = %d, want %d", i, r.Pet.ID, id)
				}
				if r.MatchScore != 1 {
					t.Errorf("Results[%d].MatchScore = %v, want 1", i, r.MatchScore)
				}
			}
		})
	}

	if rows := store.matchesFor(10); len(rows) != 12 {
		t.Errorf("stored matches = %d, want 12", len(rows))
	}
}

func TestScorePet(t *testing.T) {
	store := newMemStore()
	store.addPet(matchingPet(1, models.SpeciesCat))
	store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
	o := newTestOrchestrator(t, store, nil)
	ctx := context.Background()

	score, err := o.ScorePet(ctx, 10, 1)
	if err != nil {
		t.Fatalf("ScorePet() error = %v", err)
	}
	if score < 1-epsilon {
		t.Errorf("ScorePet() = %v, want 1", score)
	}

	if _, err := o.ScorePet(ctx, 10, 999); !errors.Is(err, ErrPetNotFound) {
		t.Errorf("ScorePet(unknown pet) error = %v, want ErrPetNotFound", err)
	}
	if _, err := o.ScorePet(ctx, 11, 1); !errors.Is(err, ErrMissingPreferences) {
		t.Errorf("ScorePet(no prefs) error = %v, want ErrMissingPreferences", err)
	}
}

func TestEncodeAll(t *testing.T) {
	store := newMemStore()
	store.addPet(matchingPet(1, models.SpeciesCat))
	store.addPet(matchingPet(2, models.SpeciesDog))
	adopted := matchingPet(3, models.SpeciesDog)
	adopted.Status = models.StatusAdopted
	store.addPet(adopted)
	store.addPrefs(adopterPrefs(10, models.PreferSpeciesCat))
	o := newTestOrchestrator(t, store, nil)

	n, err := o.EncodeAll(context.Background())
	if err != nil {
		t.Fatalf("EncodeAll() error = %v", err)
	}
	if n != 3 {
		t.Errorf("EncodeAll() = %d, want 3 (two pets, one adopter)", n)
	}
	if len(store.matches) != 0 {
		t.Error("EncodeAll() must not write matches")
	}
}
