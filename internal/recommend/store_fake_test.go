// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/pawmatch/internal/models"
)

var errInjected = errors.New("injected store failure")

// memStore is an in-memory VectorStore, ProfileStore and MatchStore.
type memStore struct {
	mu sync.Mutex
	// txMu serializes transactions, which commit by swapping the match map.
	txMu sync.Mutex

	pets        map[int64]models.Pet
	prefs       map[int64]models.Preferences
	petVecs     map[int64]models.PetVector
	adopterVecs map[int64]models.AdopterVector
	matches     map[string]models.Match

	// failOn makes the named match operation fail for failUser (0 = any user).
	failOn   string
	failUser int64
	txCount  int
}

func newMemStore() *memStore {
	return &memStore{
		pets:        make(map[int64]models.Pet),
		prefs:       make(map[int64]models.Preferences),
		petVecs:     make(map[int64]models.PetVector),
		adopterVecs: make(map[int64]models.AdopterVector),
		matches:     make(map[string]models.Match),
	}
}

func (s *memStore) addPet(p models.Pet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pets[p.ID] = p
}

func (s *memStore) addPrefs(p models.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[p.UserID] = p
}

// matchesFor returns pet id -> score for the user.
func (s *memStore) matchesFor(userID int64) map[int64]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]float64)
	for _, m := range s.matches {
		if m.UserID == userID {
			out[m.PetID] = m.Score
		}
	}
	return out
}

func (s *memStore) matchRow(userID, petID int64) (models.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.UserID == userID && m.PetID == petID {
			return m, true
		}
	}
	return models.Match{}, false
}

// VectorStore

func (s *memStore) UpsertPetVector(_ context.Context, v *models.PetVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	cp.UpdatedAt = time.Now()
	s.petVecs[v.PetID] = cp
	return nil
}

func (s *memStore) UpsertAdopterVector(_ context.Context, v *models.AdopterVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	cp.UpdatedAt = time.Now()
	s.adopterVecs[v.UserID] = cp
	return nil
}

func (s *memStore) GetAdopterVector(_ context.Context, userID int64) (*models.AdopterVector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.adopterVecs[userID]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *memStore) ListAvailablePetVectors(_ context.Context, schemaVersion int) ([]models.CandidateVector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CandidateVector, 0, len(s.petVecs))
	for id, v := range s.petVecs {
		pet, ok := s.pets[id]
		if !ok || !pet.IsAvailable() || v.SchemaVersion != schemaVersion {
			continue
		}
		out = append(out, models.CandidateVector{PetID: id, Species: pet.Species, Vector: v.Vector})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PetID < out[j].PetID })
	return out, nil
}

func (s *memStore) RemovePet(_ context.Context, petID int64) (int64, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.petVecs, petID)
	var n int64
	for id, m := range s.matches {
		if m.PetID == petID {
			delete(s.matches, id)
			n++
		}
	}
	return n, nil
}

// ProfileStore

func (s *memStore) GetPet(_ context.Context, petID int64) (*models.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pets[petID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memStore) GetPreferences(_ context.Context, userID int64) (*models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memStore) ListAdopterIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.prefs))
	for id := range s.prefs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memStore) ListPetsNeedingVectors(_ context.Context, schemaVersion int) ([]models.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Pet
	for id, p := range s.pets {
		if !p.IsAvailable() {
			continue
		}
		if v, ok := s.petVecs[id]; ok && v.SchemaVersion == schemaVersion {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) GetPetSummaries(_ context.Context, petIDs []int64) (map[int64]models.PetSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]models.PetSummary, len(petIDs))
	for _, id := range petIDs {
		if p, ok := s.pets[id]; ok {
			out[id] = p.Summary()
		}
	}
	return out, nil
}

// MatchStore

func (s *memStore) WithMatchTx(ctx context.Context, fn func(tx MatchTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.txCount++
	working := make(map[string]models.Match, len(s.matches))
	for k, v := range s.matches {
		working[k] = v
	}
	s.mu.Unlock()

	tx := &memTx{store: s, matches: working}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	s.matches = working
	s.mu.Unlock()
	return nil
}

type memTx struct {
	store   *memStore
	matches map[string]models.Match
}

func (tx *memTx) fail(op string, userID int64) bool {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	return tx.store.failOn == op && (tx.store.failUser == 0 || tx.store.failUser == userID)
}

func (tx *memTx) ListMatches(_ context.Context, userID int64) ([]models.Match, error) {
	if tx.fail("list", userID) {
		return nil, errInjected
	}
	var out []models.Match
	for _, m := range tx.matches {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (tx *memTx) UpdateMatchScore(_ context.Context, matchID string, score float64, updatedAt time.Time) error {
	m, ok := tx.matches[matchID]
	if !ok {
		return nil
	}
	if tx.fail("update", m.UserID) {
		return errInjected
	}
	m.Score = score
	m.UpdatedAt = updatedAt
	tx.matches[matchID] = m
	return nil
}

func (tx *memTx) InsertMatch(_ context.Context, m *models.Match) (bool, error) {
	if tx.fail("insert", m.UserID) {
		return false, errInjected
	}
	tx.store.mu.Lock()
	pet, known := tx.store.pets[m.PetID]
	tx.store.mu.Unlock()
	if known && !pet.IsAvailable() {
		return false, nil
	}
	tx.matches[m.ID] = *m
	return true, nil
}

func (tx *memTx) DeleteMatch(_ context.Context, matchID string) error {
	m, ok := tx.matches[matchID]
	if !ok {
		return nil
	}
	if tx.fail("delete", m.UserID) {
		return errInjected
	}
	delete(tx.matches, matchID)
	return nil
}
