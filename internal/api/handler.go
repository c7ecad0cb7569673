// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pawmatch/internal/models"
	"github.com/tomtom215/pawmatch/internal/recommend"
)

// Matcher is the engine surface used by the handlers.
// *recommend.Orchestrator implements it.
type Matcher interface {
	RefreshAll(ctx context.Context) (*recommend.RefreshReport, error)
	RefreshOne(ctx context.Context, userID int64, k int) (*recommend.RefreshResult, error)
	Recommend(ctx context.Context, userID int64, page, pageSize int) (*models.RecommendationPage, error)
	ScorePet(ctx context.Context, userID, petID int64) (float64, error)
	OnPetChanged(ctx context.Context, petID int64) error
	OnPreferencesChanged(ctx context.Context, userID int64) (*recommend.RefreshResult, error)
	LastReport() *recommend.RefreshReport
}

// StoreHealth reports database reachability. *database.DB implements it.
type StoreHealth interface {
	Ping(ctx context.Context) error
	GetCurrentSchemaVersion(ctx context.Context) (int, error)
}

// ChangeNotifier publishes change events. *eventprocessor.Publisher implements it.
type ChangeNotifier interface {
	PublishPetChanged(ctx context.Context, petID int64) (string, error)
	PublishPreferencesChanged(ctx context.Context, userID int64) (string, error)
}

// Handler serves the operations API.
type Handler struct {
	matcher   Matcher
	store     StoreHealth
	notifier  ChangeNotifier
	version   string
	startTime time.Time
	logger    zerolog.Logger
}

// NewHandler creates a Handler. notifier may be nil, in which case change
// hooks are applied synchronously.
func NewHandler(matcher Matcher, store StoreHealth, notifier ChangeNotifier, version string, logger zerolog.Logger) *Handler {
	return &Handler{
		matcher:   matcher,
		store:     store,
		notifier:  notifier,
		version:   version,
		startTime: time.Now(),
		logger:    logger.With().Str("component", "api").Logger(),
	}
}
