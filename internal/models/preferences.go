// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package models

import "time"

// NoPreference is the adopter-side label meaning any value is acceptable.
const NoPreference = "NoPreference"

// PreferredSpecies is the adopter's species preference.
type PreferredSpecies string

const (
	PreferSpeciesAny PreferredSpecies = NoPreference
	PreferSpeciesDog PreferredSpecies = "Dog"
	PreferSpeciesCat PreferredSpecies = "Cat"
)

// PreferredSex is the adopter's sex preference.
type PreferredSex string

const (
	PreferSexAny    PreferredSex = NoPreference
	PreferSexFemale PreferredSex = "Female"
	PreferSexMale   PreferredSex = "Male"
)

// PreferredSize is the adopter's size preference.
type PreferredSize string

// PreferredEnergyLevel is the adopter's energy preference.
type PreferredEnergyLevel string

// PreferredHairLength is the adopter's coat preference.
type PreferredHairLength string

// PetPurpose records who the pet is for.
type PetPurpose string

const (
	PurposeMyself   PetPurpose = "Myself"
	PurposeMyFamily PetPurpose = "MyFamily"
)

// OwnershipExperience is the adopter's own description of their history with
// pets. It is mapped onto ExperienceLevel before encoding.
type OwnershipExperience string

const (
	OwnershipFirstTime     OwnershipExperience = "FirstTime"
	OwnershipHadBefore     OwnershipExperience = "HadBefore"
	OwnershipCurrentlyHave OwnershipExperience = "CurrentlyHave"
)

// Preferences is the adopter preference record plus training-trait wishlist.
type Preferences struct {
	UserID               int64                `json:"user_id"`
	PreferredSpecies     PreferredSpecies     `json:"preferred_species" validate:"omitempty,oneof=NoPreference Dog Cat"`
	PetPurpose           PetPurpose           `json:"pet_purpose,omitempty" validate:"omitempty,oneof=Myself MyFamily"`
	HasChildren          bool                 `json:"has_children"`
	HasDogs              bool                 `json:"has_dogs"`
	HasCats              bool                 `json:"has_cats"`
	OwnershipExperience  OwnershipExperience  `json:"ownership_experience,omitempty" validate:"omitempty,oneof=FirstTime HadBefore CurrentlyHave"`
	PreferredAge         PetAgeGroup          `json:"preferred_age" validate:"omitempty,oneof=NoPreference Baby Young Adult Senior"`
	PreferredSex         PreferredSex         `json:"preferred_sex" validate:"omitempty,oneof=NoPreference Female Male"`
	PreferredSize        PreferredSize        `json:"preferred_size" validate:"omitempty,oneof=NoPreference Small Medium Large ExtraLarge"`
	PreferredEnergyLevel PreferredEnergyLevel `json:"preferred_energy_level" validate:"omitempty,oneof=NoPreference LapPet Calm Moderate VeryActive"`
	PreferredHairLength  PreferredHairLength  `json:"preferred_hair_length" validate:"omitempty,oneof=NoPreference Short Medium Long"`
	WantsAllergyFriendly bool                 `json:"wants_allergy_friendly"`
	AcceptsSpecialNeeds  bool                 `json:"accepts_special_needs"`
	Traits               []TrainingTrait      `json:"traits,omitempty" validate:"dive,oneof=HouseTrained LitterTrained"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// SpeciesFilter returns the species the adopter asked for, or false when any
// species is acceptable.
func (p *Preferences) SpeciesFilter() (PetSpecies, bool) {
	switch p.PreferredSpecies {
	case PreferSpeciesDog:
		return SpeciesDog, true
	case PreferSpeciesCat:
		return SpeciesCat, true
	default:
		return "", false
	}
}
