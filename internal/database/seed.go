// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package database

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/tomtom215/pawmatch/internal/logging"
	"github.com/tomtom215/pawmatch/internal/models"
)

// SeedSummary reports what SeedDemoData wrote.
type SeedSummary struct {
	Pets     int  `json:"pets"`
	Adopters int  `json:"adopters"`
	Skipped  bool `json:"skipped"`
}

// SeedDemoData fills an empty database with a reproducible set of pets and
// adopters for demos and local development. It does nothing when pets
// already exist.
func (db *DB) SeedDemoData(ctx context.Context) (*SeedSummary, error) {
	counts, err := db.GetRecordCounts(ctx)
	if err != nil {
		return nil, err
	}
	if counts.Pets > 0 {
		logging.Info().Int64("pets", counts.Pets).Msg("Database already has pets, skipping demo seed")
		return &SeedSummary{Skipped: true}, nil
	}

	const (
		numPets     = 40
		numAdopters = 12
	)

	// Fixed seed keeps demo output stable between runs.
	rng := rand.New(rand.NewPCG(42, 2026))

	dogNames := []string{"Biscuit", "Maple", "Rocket", "Juniper", "Waffles", "Scout", "Hazel", "Bear", "Olive", "Ziggy"}
	catNames := []string{"Mochi", "Pepper", "Luna", "Tofu", "Sable", "Pumpkin", "Miso", "Clementine", "Ash", "Nori"}
	dogBreeds := []string{"Labrador Mix", "Beagle", "Border Collie", "Greyhound", "Pit Bull Mix", "Shih Tzu"}
	catBreeds := []string{"Domestic Shorthair", "Maine Coon", "Siamese", "Domestic Longhair", "Tabby"}

	ages := []models.PetAgeGroup{models.AgeBaby, models.AgeYoung, models.AgeAdult, models.AgeSenior}
	sizes := []models.PetSize{models.SizeSmall, models.SizeMedium, models.SizeLarge, models.SizeExtraLarge}
	energies := []models.PetEnergyLevel{models.EnergyLapPet, models.EnergyCalm, models.EnergyModerate, models.EnergyVeryActive}
	experience := []models.ExperienceLevel{models.ExperienceBeginner, models.ExperienceIntermediate, models.ExperienceAdvanced}
	hair := []models.HairLength{models.HairShort, models.HairMedium, models.HairLong}
	statuses := []models.PetStatus{models.StatusAvailable, models.StatusAvailable, models.StatusAvailable, models.StatusPending, models.StatusAdopted}

	pick := func(n int) int { return rng.IntN(n) }
	maybeBool := func() *bool {
		if rng.IntN(5) == 0 {
			return nil
		}
		b := rng.IntN(2) == 0
		return &b
	}

	logging.Info().Int("count", numPets).Msg("Creating demo pets...")
	for i := 1; i <= numPets; i++ {
		pet := &models.Pet{
			ID:              int64(i),
			AgeGroup:        ages[pick(len(ages))],
			Sex:             []models.PetSex{models.SexMale, models.SexFemale}[pick(2)],
			EnergyLevel:     energies[pick(len(energies))],
			ExperienceLevel: experience[pick(len(experience))],
			HairLength:      hair[pick(len(hair))],
			AllergyFriendly: maybeBool(),
			SpecialNeeds:    maybeBool(),
			KidFriendly:     maybeBool(),
			PetFriendly:     maybeBool(),
			Status:          statuses[pick(len(statuses))],
		}
		if i%2 == 0 {
			pet.Species = models.SpeciesDog
			pet.Name = dogNames[pick(len(dogNames))]
			pet.Breed = dogBreeds[pick(len(dogBreeds))]
			pet.Size = sizes[pick(len(sizes))]
			pet.Traits = []models.TrainingTrait{models.TraitHouseTrained}
		} else {
			pet.Species = models.SpeciesCat
			pet.Name = catNames[pick(len(catNames))]
			pet.Breed = catBreeds[pick(len(catBreeds))]
			pet.Size = models.SizeSmall
			pet.Traits = []models.TrainingTrait{models.TraitLitterTrained}
		}
		if err := db.UpsertPet(ctx, pet); err != nil {
			return nil, fmt.Errorf("failed to seed pet %d: %w", i, err)
		}
	}

	speciesPrefs := []models.PreferredSpecies{models.PreferSpeciesAny, models.PreferSpeciesDog, models.PreferSpeciesCat}
	ownership := []models.OwnershipExperience{models.OwnershipFirstTime, models.OwnershipHadBefore, models.OwnershipCurrentlyHave}

	logging.Info().Int("count", numAdopters).Msg("Creating demo adopters...")
	for i := 1; i <= numAdopters; i++ {
		prefs := &models.Preferences{
			UserID:               int64(1000 + i),
			PreferredSpecies:     speciesPrefs[pick(len(speciesPrefs))],
			PetPurpose:           []models.PetPurpose{models.PurposeMyself, models.PurposeMyFamily}[pick(2)],
			HasChildren:          rng.IntN(2) == 0,
			HasDogs:              rng.IntN(3) == 0,
			HasCats:              rng.IntN(3) == 0,
			OwnershipExperience:  ownership[pick(len(ownership))],
			PreferredAge:         append([]models.PetAgeGroup{models.AgeNoPreference}, ages...)[pick(len(ages)+1)],
			PreferredSex:         []models.PreferredSex{models.PreferSexAny, models.PreferSexFemale, models.PreferSexMale}[pick(3)],
			PreferredSize:        models.PreferredSize(sizes[pick(len(sizes))]),
			PreferredEnergyLevel: models.PreferredEnergyLevel(energies[pick(len(energies))]),
			PreferredHairLength:  models.NoPreference,
			WantsAllergyFriendly: rng.IntN(4) == 0,
			AcceptsSpecialNeeds:  rng.IntN(3) == 0,
		}
		if rng.IntN(2) == 0 {
			prefs.Traits = []models.TrainingTrait{models.TraitHouseTrained}
		}
		if err := db.UpsertPreferences(ctx, prefs); err != nil {
			return nil, fmt.Errorf("failed to seed adopter %d: %w", prefs.UserID, err)
		}
	}

	logging.Info().Int("pets", numPets).Int("adopters", numAdopters).Msg("Demo data seeded")
	return &SeedSummary{Pets: numPets, Adopters: numAdopters}, nil
}
