// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import "github.com/tomtom215/pawmatch/internal/models"

// SchemaVersion identifies the encoding below. Any change to the field order,
// an enumeration order, the trait vocabulary, a default, or the ownership
// experience mapping must bump it so stored vectors are re-encoded.
const SchemaVersion = 1

// Scalar field positions, shared by the pet and adopter encoders.
const (
	fieldAllergyFriendly = iota
	fieldSpecialNeeds
	fieldKidFriendly
	fieldPetFriendly
	fieldSex
	fieldSpecies
	fieldSize
	fieldEnergyLevel
	fieldAgeGroup
	fieldExperienceLevel
	fieldHairLength

	scalarFields
)

// traitVocabulary is the multi-hot block appended after the scalar fields.
var traitVocabulary = [...]models.TrainingTrait{
	models.TraitHouseTrained,
	models.TraitLitterTrained,
}

// Dimension is the length of every encoded vector.
const Dimension = scalarFields + len(traitVocabulary)

// neutral is the value for "no preference" and for absent pet ordinals.
const neutral = 0.5

var (
	sizeOrder = []models.PetSize{
		models.SizeSmall, models.SizeMedium, models.SizeLarge, models.SizeExtraLarge,
	}
	energyOrder = []models.PetEnergyLevel{
		models.EnergyLapPet, models.EnergyCalm, models.EnergyModerate, models.EnergyVeryActive,
	}
	ageOrder = []models.PetAgeGroup{
		models.AgeNoPreference, models.AgeBaby, models.AgeYoung, models.AgeAdult, models.AgeSenior,
	}
	experienceOrder = []models.ExperienceLevel{
		models.ExperienceBeginner, models.ExperienceIntermediate, models.ExperienceAdvanced,
	}
	hairOrder = []models.HairLength{
		models.HairShort, models.HairMedium, models.HairLong,
	}
)

// ownershipToExperience maps the adopter's ownership history onto the pet
// experience scale. Unset or unknown values map to Beginner.
var ownershipToExperience = map[models.OwnershipExperience]models.ExperienceLevel{
	models.OwnershipFirstTime:     models.ExperienceBeginner,
	models.OwnershipHadBefore:     models.ExperienceIntermediate,
	models.OwnershipCurrentlyHave: models.ExperienceAdvanced,
}

var fieldNames = [Dimension]string{
	fieldAllergyFriendly: "allergy_friendly",
	fieldSpecialNeeds:    "special_needs",
	fieldKidFriendly:     "kid_friendly",
	fieldPetFriendly:     "pet_friendly",
	fieldSex:             "sex",
	fieldSpecies:         "species",
	fieldSize:            "size",
	fieldEnergyLevel:     "energy_level",
	fieldAgeGroup:        "age_group",
	fieldExperienceLevel: "experience_level",
	fieldHairLength:      "hair_length",
	scalarFields + 0:     "trait_" + string(models.TraitHouseTrained),
	scalarFields + 1:     "trait_" + string(models.TraitLitterTrained),
}

// FieldNames returns the name of every vector position in order.
func FieldNames() []string {
	out := make([]string, Dimension)
	copy(out, fieldNames[:])
	return out
}

// ordinal returns position/(cardinality-1) for v in order. The second result
// is false when v is not part of the enumeration.
func ordinal[T ~string](order []T, v T) (float64, bool) {
	for i, label := range order {
		if label == v {
			return float64(i) / float64(len(order)-1), true
		}
	}
	return 0, false
}
