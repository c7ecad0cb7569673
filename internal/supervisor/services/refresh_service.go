// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pawmatch/internal/recommend"
)

// RefreshRunner is satisfied by *recommend.Orchestrator.
type RefreshRunner interface {
	RefreshAll(ctx context.Context) (*recommend.RefreshReport, error)
}

// RefreshServiceConfig controls when batch refreshes run.
type RefreshServiceConfig struct {
	// Hour is the local hour of day (0-23) of the first scheduled run.
	Hour int

	// Interval separates scheduled runs after the first. Default 24h.
	Interval time.Duration

	// RunOnStartup runs one refresh as soon as the service starts.
	RunOnStartup bool

	// Timeout bounds one refresh run. Default 30m.
	Timeout time.Duration
}

// RefreshService runs the batch refresh on a preferred-hour schedule.
type RefreshService struct {
	runner RefreshRunner
	config RefreshServiceConfig
	logger zerolog.Logger
	now    func() time.Time
}

// NewRefreshService creates a refresh scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(runner RefreshRunner, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &RefreshService{
		runner: runner,
		config: cfg,
		logger: logger.With().Str("service", "refresh").Logger(),
		now:    time.Now,
	}
}

// NextRun returns the first time at or after now whose hour is hour and
// whose minute and second are zero, in now's location.
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if next.Before(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	next := NextRun(s.now(), s.config.Hour)
	s.logger.Info().
		Int("hour", s.config.Hour).
		Dur("interval", s.config.Interval).
		Bool("run_on_startup", s.config.RunOnStartup).
		Time("next_run", next).
		Msg("Refresh scheduler starting")

	if s.config.RunOnStartup {
		s.run(ctx)
	}

	timer := time.NewTimer(next.Sub(s.now()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Refresh scheduler stopping")
			return ctx.Err()
		case <-timer.C:
			s.run(ctx)

			next = next.Add(s.config.Interval)
			// Skip slots missed while a long run was in progress.
			for now := s.now(); !next.After(now); {
				next = next.Add(s.config.Interval)
			}
			timer.Reset(next.Sub(s.now()))
			s.logger.Debug().Time("next_run", next).Msg("Next refresh scheduled")
		}
	}
}

// run executes one refresh. Failures are logged; the schedule continues.
func (s *RefreshService) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	report, err := s.runner.RefreshAll(runCtx)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return
	default:
		s.logger.Error().Err(err).Msg("Scheduled refresh failed")
		return
	}
	if report != nil && report.Failed > 0 {
		s.logger.Warn().
			Str("run_id", report.RunID).
			Int("failed", report.Failed).
			Int("adopters", report.Adopters).
			Msg("Scheduled refresh finished with failures")
	}
}

// String implements fmt.Stringer for suture's logs.
func (s *RefreshService) String() string {
	return "refresh-scheduler"
}
