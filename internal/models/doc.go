// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

/*
Package models defines data structures shared across the Pawmatch packages.

Key Components:

  - Pet: adoptable animal attribute record, including its training traits
  - Preferences: adopter preference record and training-trait wishlist
  - PetVector / AdopterVector: encoded feature vectors as persisted
  - Match: one persisted (adopter, pet) recommendation row
  - RecommendationPage: paginated recommendation list rendered by the API
  - APIResponse: standardized API response wrapper

Enumerations are string-typed so their labels survive storage and JSON
encoding unchanged. Adopter-side enumerations carry a NoPreference label that
the pet-side enumerations (with the exception of PetAgeGroup) do not.

Thread Safety:

Models are plain data holders and are not safe for concurrent mutation.
*/
package models
