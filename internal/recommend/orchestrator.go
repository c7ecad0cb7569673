// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/pawmatch/internal/metrics"
	"github.com/tomtom215/pawmatch/internal/models"
)

// VectorStore persists one current vector per pet and per adopter.
type VectorStore interface {
	UpsertPetVector(ctx context.Context, v *models.PetVector) error
	UpsertAdopterVector(ctx context.Context, v *models.AdopterVector) error

	// GetAdopterVector returns nil when the adopter has no stored vector.
	GetAdopterVector(ctx context.Context, userID int64) (*models.AdopterVector, error)

	// ListAvailablePetVectors returns the vectors of Available pets encoded
	// with schemaVersion, in pet id order.
	ListAvailablePetVectors(ctx context.Context, schemaVersion int) ([]models.CandidateVector, error)

	// RemovePet deletes the pet's vector and every match referencing it in
	// one transaction and returns the number of matches deleted.
	RemovePet(ctx context.Context, petID int64) (int64, error)
}

// ProfileStore reads the source records vectors are derived from.
type ProfileStore interface {
	// GetPet returns nil when the pet does not exist.
	GetPet(ctx context.Context, petID int64) (*models.Pet, error)

	// GetPreferences returns nil when the adopter has no preference record.
	GetPreferences(ctx context.Context, userID int64) (*models.Preferences, error)

	// ListAdopterIDs returns every adopter with a preference record.
	ListAdopterIDs(ctx context.Context) ([]int64, error)

	// ListPetsNeedingVectors returns Available pets without a vector of
	// schemaVersion, or whose record changed after their vector was stored.
	ListPetsNeedingVectors(ctx context.Context, schemaVersion int) ([]models.Pet, error)

	GetPetSummaries(ctx context.Context, petIDs []int64) (map[int64]models.PetSummary, error)
}

// RefreshResult is the outcome of refreshing one adopter.
type RefreshResult struct {
	UserID  int64       `json:"user_id"`
	Matches []ScoredPet `json:"matches"`
	ReconcileResult
}

// RefreshReport summarizes one batch refresh.
type RefreshReport struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Candidates int           `json:"candidates"`
	Adopters   int           `json:"adopters"`
	Refreshed  int           `json:"refreshed"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	Inserted   int           `json:"inserted"`
	Updated    int           `json:"updated"`
	Deleted    int           `json:"deleted"`
	Cancelled  bool          `json:"cancelled"`
}

// Orchestrator drives encoding, ranking and reconciliation.
type Orchestrator struct {
	cfg        *Config
	vectors    VectorStore
	profiles   ProfileStore
	ranker     *Ranker
	reconciler *Reconciler
	logger     zerolog.Logger
	tracer     trace.Tracer

	lastReport atomic.Pointer[RefreshReport]
}

// NewOrchestrator creates an orchestrator over the given stores.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOrchestrator(cfg *Config, vectors VectorStore, profiles ProfileStore, matches MatchStore, logger zerolog.Logger) (*Orchestrator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Orchestrator{
		cfg:        cfg,
		vectors:    vectors,
		profiles:   profiles,
		ranker:     NewRanker(cfg.Threshold),
		reconciler: NewReconciler(matches, logger),
		logger:     logger.With().Str("component", "orchestrator").Logger(),
		tracer:     otel.Tracer("internal/recommend"),
	}, nil
}

// Config returns the engine configuration.
func (o *Orchestrator) Config() *Config {
	return o.cfg
}

// LastReport returns the report of the most recent batch refresh, or nil.
func (o *Orchestrator) LastReport() *RefreshReport {
	return o.lastReport.Load()
}

// RefreshAll recomputes matches for every adopter against all available pets.
//
// Pet vectors are brought up to date and loaded once. Adopters are refreshed
// in parallel, bounded by Config.Workers, each committing independently. A
// failing adopter is logged and counted and the batch continues. A candidate
// vector of the wrong length fails every adopter and aborts the batch. Cancelling ctx stops the batch
// between adopters; adopters already committed keep their new matches.
func (o *Orchestrator) RefreshAll(ctx context.Context) (*RefreshReport, error) {
	report := &RefreshReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	logger := o.logger.With().Str("run_id", report.RunID).Logger()

	ctx, span := o.tracer.Start(ctx, "refresh_all")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", report.RunID))

	err := o.refreshAll(ctx, report, logger)
	report.Duration = time.Since(report.StartedAt)
	report.Skipped = report.Adopters - report.Refreshed - report.Failed
	metrics.RecordRefreshRun("batch", report.Duration, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().Err(err).
			Int("refreshed", report.Refreshed).
			Int("failed", report.Failed).
			Int("skipped", report.Skipped).
			Msg("batch refresh stopped")
		return report, err
	}

	o.lastReport.Store(report)
	logger.Info().
		Int("candidates", report.Candidates).
		Int("adopters", report.Adopters).
		Int("refreshed", report.Refreshed).
		Int("failed", report.Failed).
		Int("inserted", report.Inserted).
		Int("updated", report.Updated).
		Int("deleted", report.Deleted).
		Dur("duration", report.Duration).
		Msg("batch refresh complete")
	return report, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (o *Orchestrator) refreshAll(ctx context.Context, report *RefreshReport, logger zerolog.Logger) error {
	if _, err := o.ensurePetVectors(ctx); err != nil {
		return err
	}
	candidates, err := o.vectors.ListAvailablePetVectors(ctx, SchemaVersion)
	if err != nil {
		return fmt.Errorf("list pet vectors: %w", err)
	}
	report.Candidates = len(candidates)
	metrics.CandidatePoolSize.Set(float64(len(candidates)))

	adopterIDs, err := o.profiles.ListAdopterIDs(ctx)
	if err != nil {
		return fmt.Errorf("list adopters: %w", err)
	}
	report.Adopters = len(adopterIDs)

	logger.Info().
		Int("candidates", len(candidates)).
		Int("adopters", len(adopterIDs)).
		Int("workers", o.cfg.workerCount()).
		Msg("batch refresh started")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.workerCount())

	var mu sync.Mutex
	for _, userID := range adopterIDs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := o.refreshBatchAdopter(gctx, userID, candidates)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, ErrDimensionMismatch) {
					return fmt.Errorf("adopter %d: %w", userID, err)
				}
				if gctx.Err() != nil {
					return nil
				}
				report.Failed++
				reason := failureReason(err)
				metrics.RecordAdopterFailure(reason)
				logger.Warn().Err(err).
					Int64("user_id", userID).
					Str("reason", reason).
					Msg("adopter refresh failed, continuing")
				return nil
			}
			report.Refreshed++
			report.Inserted += res.Inserted
			report.Updated += res.Updated
			report.Deleted += res.Deleted
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		report.Cancelled = true
		return fmt.Errorf("batch refresh cancelled: %w", err)
	}
	return nil
}

func (o *Orchestrator) refreshBatchAdopter(ctx context.Context, userID int64, candidates []models.CandidateVector) (*RefreshResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.AdopterTimeout)
	defer cancel()

	prefs, err := o.preferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	vec, err := o.adopterVector(ctx, prefs)
	if err != nil {
		return nil, err
	}
	return o.refreshAdopter(ctx, userID, vec, prefs, candidates, o.cfg.BatchTopK)
}

// RefreshOne re-encodes one adopter's vector and recomputes their matches
// against all available pets. A k of zero or less uses Config.OnDemandTopK.
func (o *Orchestrator) RefreshOne(ctx context.Context, userID int64, k int) (*RefreshResult, error) {
	if k <= 0 {
		k = o.cfg.OnDemandTopK
	}
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "refresh_one")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.Int("top_k", k))

	res, err := o.refreshOne(ctx, userID, k)
	metrics.RecordRefreshRun("single", time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

func (o *Orchestrator) refreshOne(ctx context.Context, userID int64, k int) (*RefreshResult, error) {
	prefs, err := o.preferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	vec, err := o.storeAdopterVector(ctx, prefs)
	if err != nil {
		return nil, err
	}
	if _, err := o.ensurePetVectors(ctx); err != nil {
		return nil, err
	}
	candidates, err := o.vectors.ListAvailablePetVectors(ctx, SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("list pet vectors: %w", err)
	}
	return o.refreshAdopter(ctx, userID, vec, prefs, candidates, k)
}

// refreshAdopter ranks and reconciles one adopter against candidates.
func (o *Orchestrator) refreshAdopter(ctx context.Context, userID int64, vec []float64, prefs *models.Preferences, candidates []models.CandidateVector, k int) (*RefreshResult, error) {
	top, err := o.ranker.Rank(vec, filterBySpecies(candidates, prefs), k)
	if err != nil {
		return nil, fmt.Errorf("rank adopter %d: %w", userID, err)
	}
	rec, err := o.reconciler.Reconcile(ctx, userID, top)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{UserID: userID, Matches: top, ReconcileResult: rec}, nil
}

// Recommend recomputes the adopter's matches with Config.BatchTopK and
// returns one page of them with pet summaries and scores rounded to two
// decimals. Pages are 1-based.
func (o *Orchestrator) Recommend(ctx context.Context, userID int64, page, pageSize int) (*models.RecommendationPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = o.cfg.DefaultPageSize
	}
	if pageSize > o.cfg.MaxPageSize {
		pageSize = o.cfg.MaxPageSize
	}

	res, err := o.RefreshOne(ctx, userID, o.cfg.BatchTopK)
	if err != nil {
		return nil, err
	}

	out := &models.RecommendationPage{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
		Total:    len(res.Matches),
		Results:  []models.Recommendation{},
	}

	from := (page - 1) * pageSize
	if from >= len(res.Matches) {
		return out, nil
	}
	to := min(from+pageSize, len(res.Matches))
	slice := res.Matches[from:to]
	out.HasMore = to < len(res.Matches)

	ids := make([]int64, len(slice))
	for i, sp := range slice {
		ids[i] = sp.PetID
	}
	summaries, err := o.profiles.GetPetSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load pet summaries: %w", err)
	}

	for _, sp := range slice {
		summary, ok := summaries[sp.PetID]
		if !ok {
			continue
		}
		out.Results = append(out.Results, models.Recommendation{
			Pet:        summary,
			MatchScore: roundScore(sp.Score),
		})
	}
	return out, nil
}

// ScorePet returns the similarity between one adopter and one pet without
// touching stored matches. The pet does not need to be available.
func (o *Orchestrator) ScorePet(ctx context.Context, userID, petID int64) (float64, error) {
	prefs, err := o.preferences(ctx, userID)
	if err != nil {
		return 0, err
	}
	pet, err := o.profiles.GetPet(ctx, petID)
	if err != nil {
		return 0, fmt.Errorf("load pet %d: %w", petID, err)
	}
	if pet == nil {
		return 0, fmt.Errorf("%w: %d", ErrPetNotFound, petID)
	}

	adopter, err := EncodeAdopter(prefs)
	if err != nil {
		return 0, err
	}
	return CosineSimilarity(adopter, EncodePet(pet))
}

// OnPetChanged keeps the pet's vector in step with its record. An Available
// pet is re-encoded. A pet that was deleted or left Available loses its
// vector and every match row referencing it.
func (o *Orchestrator) OnPetChanged(ctx context.Context, petID int64) error {
	ctx, span := o.tracer.Start(ctx, "pet_changed")
	defer span.End()
	span.SetAttributes(attribute.Int64("pet_id", petID))

	pet, err := o.profiles.GetPet(ctx, petID)
	if err != nil {
		return fmt.Errorf("load pet %d: %w", petID, err)
	}

	if pet == nil || !pet.IsAvailable() {
		removed, err := o.vectors.RemovePet(ctx, petID)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("%w: remove pet %d: %w", ErrPersistence, petID, err)
		}
		metrics.RecordReconcile(0, 0, int(removed))
		o.logger.Info().
			Int64("pet_id", petID).
			Int64("matches_deleted", removed).
			Msg("pet no longer available, vector and matches removed")
		return nil
	}

	return o.storePetVector(ctx, pet)
}

// OnPreferencesChanged re-encodes the adopter's vector and recomputes their
// matches with Config.BatchTopK.
func (o *Orchestrator) OnPreferencesChanged(ctx context.Context, userID int64) (*RefreshResult, error) {
	return o.RefreshOne(ctx, userID, o.cfg.BatchTopK)
}

// EncodeAll re-encodes every pet that needs it and every adopter vector,
// without touching matches. It returns the number of vectors written.
func (o *Orchestrator) EncodeAll(ctx context.Context) (int, error) {
	pets, err := o.ensurePetVectors(ctx)
	if err != nil {
		return pets, err
	}
	ids, err := o.profiles.ListAdopterIDs(ctx)
	if err != nil {
		return pets, fmt.Errorf("list adopters: %w", err)
	}
	adopters := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return pets + adopters, err
		}
		prefs, err := o.preferences(ctx, id)
		if err != nil {
			return pets + adopters, err
		}
		if _, err := o.storeAdopterVector(ctx, prefs); err != nil {
			return pets + adopters, err
		}
		adopters++
	}
	return pets + adopters, nil
}

func (o *Orchestrator) preferences(ctx context.Context, userID int64) (*models.Preferences, error) {
	prefs, err := o.profiles.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences for user %d: %w", userID, err)
	}
	if prefs == nil {
		return nil, fmt.Errorf("%w: user %d", ErrMissingPreferences, userID)
	}
	return prefs, nil
}

// adopterVector returns the stored vector when it is current, otherwise it
// re-encodes and stores a new one. A stored vector of the wrong length is
// treated like a stale one.
func (o *Orchestrator) adopterVector(ctx context.Context, prefs *models.Preferences) ([]float64, error) {
	stored, err := o.vectors.GetAdopterVector(ctx, prefs.UserID)
	if err != nil {
		return nil, fmt.Errorf("load adopter vector %d: %w", prefs.UserID, err)
	}
	if stored == nil || stored.SchemaVersion != SchemaVersion || len(stored.Vector) != Dimension ||
		stored.UpdatedAt.Before(prefs.UpdatedAt) {
		return o.storeAdopterVector(ctx, prefs)
	}
	return stored.Vector, nil
}

func (o *Orchestrator) storeAdopterVector(ctx context.Context, prefs *models.Preferences) ([]float64, error) {
	vec, err := EncodeAdopter(prefs)
	if err != nil {
		return nil, err
	}
	err = o.vectors.UpsertAdopterVector(ctx, &models.AdopterVector{
		UserID:        prefs.UserID,
		Vector:        vec,
		SchemaVersion: SchemaVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("store adopter vector %d: %w", prefs.UserID, err)
	}
	metrics.RecordVectorEncoded("adopter")
	return vec, nil
}

func (o *Orchestrator) storePetVector(ctx context.Context, pet *models.Pet) error {
	err := o.vectors.UpsertPetVector(ctx, &models.PetVector{
		PetID:         pet.ID,
		Vector:        EncodePet(pet),
		SchemaVersion: SchemaVersion,
	})
	if err != nil {
		return fmt.Errorf("store pet vector %d: %w", pet.ID, err)
	}
	metrics.RecordVectorEncoded("pet")
	return nil
}

// ensurePetVectors encodes every Available pet whose vector is missing or
// stale and returns how many were written.
func (o *Orchestrator) ensurePetVectors(ctx context.Context) (int, error) {
	pets, err := o.profiles.ListPetsNeedingVectors(ctx, SchemaVersion)
	if err != nil {
		return 0, fmt.Errorf("list pets needing vectors: %w", err)
	}
	for i := range pets {
		if err := o.storePetVector(ctx, &pets[i]); err != nil {
			return i, err
		}
	}
	if len(pets) > 0 {
		o.logger.Debug().Int("pets", len(pets)).Msg("pet vectors encoded")
	}
	return len(pets), nil
}

// filterBySpecies keeps candidates of the adopter's preferred species. When
// no preference is set, or nothing would survive, all candidates are kept.
func filterBySpecies(candidates []models.CandidateVector, prefs *models.Preferences) []models.CandidateVector {
	species, ok := prefs.SpeciesFilter()
	if !ok {
		return candidates
	}
	filtered := make([]models.CandidateVector, 0, len(candidates))
	for _, c := range candidates {
		if c.Species == species {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return candidates
	}
	return filtered
}

func roundScore(s float64) float64 {
	return math.Round(s*100) / 100
}
