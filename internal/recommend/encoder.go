// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import (
	"github.com/tomtom215/pawmatch/internal/models"
)

// EncodePet converts a pet record into a vector of length Dimension.
//
// Defaults for absent values:
//   - temperament flags: 0
//   - species: Dog
//   - size, energy level, age group, hair length: 0.5
//   - experience level: Beginner (0)
func EncodePet(p *models.Pet) []float64 {
	v := make([]float64, Dimension)

	v[fieldAllergyFriendly] = optionalBool(p.AllergyFriendly)
	v[fieldSpecialNeeds] = optionalBool(p.SpecialNeeds)
	v[fieldKidFriendly] = optionalBool(p.KidFriendly)
	v[fieldPetFriendly] = optionalBool(p.PetFriendly)

	switch p.Sex {
	case models.SexFemale:
		v[fieldSex] = 0
	case models.SexMale:
		v[fieldSex] = 1
	default:
		v[fieldSex] = neutral
	}

	if p.Species == models.SpeciesCat {
		v[fieldSpecies] = 0
	} else {
		v[fieldSpecies] = 1
	}

	v[fieldSize] = ordinalOr(sizeOrder, p.Size, neutral)
	v[fieldEnergyLevel] = ordinalOr(energyOrder, p.EnergyLevel, neutral)
	v[fieldAgeGroup] = ordinalOr(ageOrder, p.AgeGroup, neutral)
	v[fieldExperienceLevel] = ordinalOr(experienceOrder, p.ExperienceLevel, 0)
	v[fieldHairLength] = ordinalOr(hairOrder, p.HairLength, neutral)

	encodeTraits(v, p.Traits)
	return v
}

// EncodeAdopter converts an adopter preference record into a vector of
// length Dimension. NoPreference encodes as 0.5 for every categorical and
// ordinal field.
func EncodeAdopter(p *models.Preferences) ([]float64, error) {
	if p == nil {
		return nil, ErrMissingPreferences
	}
	v := make([]float64, Dimension)

	v[fieldAllergyFriendly] = boolValue(p.WantsAllergyFriendly)
	v[fieldSpecialNeeds] = boolValue(p.AcceptsSpecialNeeds)
	v[fieldKidFriendly] = boolValue(p.HasChildren)
	v[fieldPetFriendly] = boolValue(p.HasDogs || p.HasCats)

	switch p.PreferredSex {
	case models.PreferSexFemale:
		v[fieldSex] = 0
	case models.PreferSexMale:
		v[fieldSex] = 1
	default:
		v[fieldSex] = neutral
	}

	switch p.PreferredSpecies {
	case models.PreferSpeciesCat:
		v[fieldSpecies] = 0
	case models.PreferSpeciesDog:
		v[fieldSpecies] = 1
	default:
		v[fieldSpecies] = neutral
	}

	v[fieldSize] = preference(sizeOrder, models.PetSize(p.PreferredSize))
	v[fieldEnergyLevel] = preference(energyOrder, models.PetEnergyLevel(p.PreferredEnergyLevel))
	v[fieldAgeGroup] = preference(ageOrder, p.PreferredAge)
	v[fieldHairLength] = preference(hairOrder, models.HairLength(p.PreferredHairLength))

	experience, ok := ownershipToExperience[p.OwnershipExperience]
	if !ok {
		experience = models.ExperienceBeginner
	}
	v[fieldExperienceLevel] = ordinalOr(experienceOrder, experience, 0)

	encodeTraits(v, p.Traits)
	return v, nil
}

// preference encodes an adopter-side ordinal, where NoPreference and unknown
// labels sit at the midpoint.
func preference[T ~string](order []T, v T) float64 {
	if string(v) == models.NoPreference {
		return neutral
	}
	return ordinalOr(order, v, neutral)
}

func ordinalOr[T ~string](order []T, v T, fallback float64) float64 {
	if x, ok := ordinal(order, v); ok {
		return x
	}
	return fallback
}

func encodeTraits(v []float64, traits []models.TrainingTrait) {
	for i, trait := range traitVocabulary {
		for _, t := range traits {
			if t == trait {
				v[scalarFields+i] = 1
				break
			}
		}
	}
}

func optionalBool(b *bool) float64 {
	if b == nil {
		return 0
	}
	return boolValue(*b)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
