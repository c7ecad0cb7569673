// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tomtom215/pawmatch/internal/metrics"
	"github.com/tomtom215/pawmatch/internal/models"
)

// MatchStore runs match reads and writes inside one transaction.
type MatchStore interface {
	// WithMatchTx runs fn in a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	WithMatchTx(ctx context.Context, fn func(tx MatchTx) error) error
}

// MatchTx is the set of match operations available inside a transaction.
type MatchTx interface {
	ListMatches(ctx context.Context, userID int64) ([]models.Match, error)
	UpdateMatchScore(ctx context.Context, matchID string, score float64, updatedAt time.Time) error
	// InsertMatch stores m unless its pet is no longer available. The
	// result reports whether a row was written.
	InsertMatch(ctx context.Context, m *models.Match) (bool, error)
	DeleteMatch(ctx context.Context, matchID string) error
}

// ReconcileResult counts the row operations of one reconciliation.
type ReconcileResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
}

// Reconciler converges persisted matches to a freshly ranked list.
type Reconciler struct {
	store  MatchStore
	locks  *userLocks
	logger zerolog.Logger
	now    func() time.Time
}

// NewReconciler creates a reconciler over store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReconciler(store MatchStore, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		locks:  newUserLocks(),
		logger: logger.With().Str("component", "reconciler").Logger(),
		now:    time.Now,
	}
}

// Reconcile makes the adopter's match rows equal top. Rows for pets still in
// top keep their id and created_at and get the new score; missing rows are
// inserted; rows for pets no longer in top are deleted. Everything commits as
// one transaction, serialized per adopter. Any store failure rolls the
// transaction back and is returned wrapped in ErrPersistence.
func (r *Reconciler) Reconcile(ctx context.Context, userID int64, top []ScoredPet) (ReconcileResult, error) {
	ctx, span := otel.Tracer("internal/recommend").Start(ctx, "reconcile")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.Int("top_k", len(top)))

	unlock := r.locks.lock(userID)
	defer unlock()

	var result ReconcileResult
	err := r.store.WithMatchTx(ctx, func(tx MatchTx) error {
		result = ReconcileResult{}

		existing, err := tx.ListMatches(ctx, userID)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		byPet := make(map[int64]models.Match, len(existing))
		for _, m := range existing {
			byPet[m.PetID] = m
		}

		now := r.now().UTC()
		keep := make(map[int64]struct{}, len(top))
		for _, sp := range top {
			keep[sp.PetID] = struct{}{}

			if m, ok := byPet[sp.PetID]; ok {
				if err := tx.UpdateMatchScore(ctx, m.ID, sp.Score, now); err != nil {
					return fmt.Errorf("update match %s: %w", m.ID, err)
				}
				result.Updated++
				continue
			}

			inserted, err := tx.InsertMatch(ctx, &models.Match{
				ID:        uuid.New().String(),
				UserID:    userID,
				PetID:     sp.PetID,
				Score:     sp.Score,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return fmt.Errorf("insert match for pet %d: %w", sp.PetID, err)
			}
			if inserted {
				result.Inserted++
			}
		}

		for petID, m := range byPet {
			if _, ok := keep[petID]; ok {
				continue
			}
			if err := tx.DeleteMatch(ctx, m.ID); err != nil {
				return fmt.Errorf("delete match %s: %w", m.ID, err)
			}
			result.Deleted++
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ReconcileResult{}, fmt.Errorf("%w: user %d: %w", ErrPersistence, userID, err)
	}

	metrics.RecordReconcile(result.Inserted, result.Updated, result.Deleted)
	r.logger.Debug().
		Int64("user_id", userID).
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Int("deleted", result.Deleted).
		Msg("matches reconciled")

	return result, nil
}
