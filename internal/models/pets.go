// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package models

import "time"

// PetSpecies is the species of an adoptable animal.
type PetSpecies string

const (
	SpeciesDog PetSpecies = "Dog"
	SpeciesCat PetSpecies = "Cat"
)

// PetSex is the biological sex of an adoptable animal.
type PetSex string

const (
	SexMale   PetSex = "Male"
	SexFemale PetSex = "Female"
)

// PetSize is the adult size class of an animal.
type PetSize string

const (
	SizeSmall      PetSize = "Small"
	SizeMedium     PetSize = "Medium"
	SizeLarge      PetSize = "Large"
	SizeExtraLarge PetSize = "ExtraLarge"
)

// PetEnergyLevel describes how active an animal is.
type PetEnergyLevel string

const (
	EnergyLapPet     PetEnergyLevel = "LapPet"
	EnergyCalm       PetEnergyLevel = "Calm"
	EnergyModerate   PetEnergyLevel = "Moderate"
	EnergyVeryActive PetEnergyLevel = "VeryActive"
)

// PetAgeGroup is shared by pets and adopter preferences. NoPreference is the
// first label on both sides.
type PetAgeGroup string

const (
	AgeNoPreference PetAgeGroup = "NoPreference"
	AgeBaby         PetAgeGroup = "Baby"
	AgeYoung        PetAgeGroup = "Young"
	AgeAdult        PetAgeGroup = "Adult"
	AgeSenior       PetAgeGroup = "Senior"
)

// ExperienceLevel is the owner experience a pet needs.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "Beginner"
	ExperienceIntermediate ExperienceLevel = "Intermediate"
	ExperienceAdvanced     ExperienceLevel = "Advanced"
)

// HairLength is the coat length of an animal.
type HairLength string

const (
	HairShort  HairLength = "Short"
	HairMedium HairLength = "Medium"
	HairLong   HairLength = "Long"
)

// PetStatus is the adoption status. Only Available pets are match candidates.
type PetStatus string

const (
	StatusAvailable PetStatus = "Available"
	StatusPending   PetStatus = "Pending"
	StatusAdopted   PetStatus = "Adopted"
)

// TrainingTrait is one entry of the training-trait vocabulary.
type TrainingTrait string

const (
	TraitHouseTrained  TrainingTrait = "HouseTrained"
	TraitLitterTrained TrainingTrait = "LitterTrained"
)

// Pet is the attribute record of an adoptable animal.
//
// Size, EnergyLevel, ExperienceLevel and HairLength are optional; the empty
// label means the shelter has not recorded a value. The boolean temperament
// flags are optional as well and nil means unknown.
type Pet struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name" validate:"required,max=100"`
	Species         PetSpecies      `json:"species" validate:"required,oneof=Dog Cat"`
	Breed           string          `json:"breed,omitempty" validate:"max=100"`
	AgeGroup        PetAgeGroup     `json:"age_group" validate:"required,oneof=NoPreference Baby Young Adult Senior"`
	Sex             PetSex          `json:"sex" validate:"required,oneof=Male Female"`
	Size            PetSize         `json:"size,omitempty" validate:"omitempty,oneof=Small Medium Large ExtraLarge"`
	EnergyLevel     PetEnergyLevel  `json:"energy_level,omitempty" validate:"omitempty,oneof=LapPet Calm Moderate VeryActive"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	HairLength      HairLength      `json:"hair_length,omitempty" validate:"omitempty,oneof=Short Medium Long"`
	AllergyFriendly *bool           `json:"allergy_friendly,omitempty"`
	SpecialNeeds    *bool           `json:"special_needs,omitempty"`
	KidFriendly     *bool           `json:"kid_friendly,omitempty"`
	PetFriendly     *bool           `json:"pet_friendly,omitempty"`
	Status          PetStatus       `json:"status" validate:"required,oneof=Available Pending Adopted"`
	Traits          []TrainingTrait `json:"traits,omitempty" validate:"dive,oneof=HouseTrained LitterTrained"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsAvailable reports whether the pet may be recommended.
func (p *Pet) IsAvailable() bool {
	return p.Status == StatusAvailable
}

// PetSummary is the pet view attached to a rendered recommendation.
type PetSummary struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Species  PetSpecies  `json:"species"`
	Breed    string      `json:"breed,omitempty"`
	AgeGroup PetAgeGroup `json:"age_group"`
	Sex      PetSex      `json:"sex"`
	Status   PetStatus   `json:"status"`
}

// Summary returns the summary view of the pet.
func (p *Pet) Summary() PetSummary {
	return PetSummary{
		ID:       p.ID,
		Name:     p.Name,
		Species:  p.Species,
		Breed:    p.Breed,
		AgeGroup: p.AgeGroup,
		Sex:      p.Sex,
		Status:   p.Status,
	}
}
