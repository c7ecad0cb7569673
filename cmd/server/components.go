// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pawmatch/internal/api"
	"github.com/tomtom215/pawmatch/internal/config"
	"github.com/tomtom215/pawmatch/internal/database"
	"github.com/tomtom215/pawmatch/internal/eventprocessor"
	"github.com/tomtom215/pawmatch/internal/logging"
	"github.com/tomtom215/pawmatch/internal/recommend"
	"github.com/tomtom215/pawmatch/internal/supervisor"
	"github.com/tomtom215/pawmatch/internal/supervisor/services"
)

// components holds everything main wires together.
type components struct {
	db           *database.DB
	orchestrator *recommend.Orchestrator
	events       *eventComponents
	router       http.Handler
}

// eventComponents is nil when events are disabled.
type eventComponents struct {
	bus       *eventprocessor.Bus
	publisher *eventprocessor.Publisher
	consumer  *eventprocessor.Consumer
}

// Close releases the event bus and then the database.
func (c *components) Close() error {
	var errs []error
	if c.events != nil {
		errs = append(errs, c.events.publisher.Close(), c.events.bus.Close())
	}
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	return errors.Join(errs...)
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func buildComponents(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*components, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	c := &components{db: db}

	if cfg.Database.SeedDemoData {
		summary, err := db.SeedDemoData(ctx)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		logger.Info().
			Int("pets", summary.Pets).
			Int("adopters", summary.Adopters).
			Bool("skipped", summary.Skipped).
			Msg("Demo data seeded")
	}

	orch, err := recommend.NewOrchestrator(recommend.ConfigFrom(&cfg.Matching), db, db, db, logger)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("create orchestrator: %w", err)
	}
	c.orchestrator = orch

	if cfg.Events.Enabled {
		events, err := initEvents(ctx, &cfg.Events, orch, logger)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.events = events
	} else {
		logger.Info().Msg("Change events disabled (EVENTS_ENABLED=false); change hooks apply synchronously")
	}

	var notifier api.ChangeNotifier
	if c.events != nil {
		notifier = c.events.publisher
	}
	handler := api.NewHandler(orch, db, notifier, version, logger)
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Server))
	c.router = api.NewRouter(handler, mw, cfg.Server.Timeout).SetupChi()

	return c, nil
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEvents(ctx context.Context, cfg *config.EventsConfig, handler eventprocessor.ChangeHandler, logger zerolog.Logger) (*eventComponents, error) {
	bus, err := eventprocessor.NewBus(ctx, cfg, logging.NewWatermillLogger("event_bus"))
	if err != nil {
		return nil, fmt.Errorf("initialize event bus: %w", err)
	}

	topics := eventprocessor.NewTopics(cfg.TopicPrefix)
	breaker := eventprocessor.NewCircuitBreaker(eventprocessor.BreakerConfigFrom(cfg), logger)
	publisher := eventprocessor.NewPublisher(bus.Publisher, topics, breaker, logger)
	consumer := eventprocessor.NewConsumer(bus.Subscriber, handler, topics, eventprocessor.RouterConfigFrom(cfg), logger)

	logger.Info().
		Str("backend", bus.Backend).
		Str("pet_topic", topics.PetChanged).
		Str("preferences_topic", topics.PreferencesChanged).
		Msg("Change events enabled")

	return &eventComponents{bus: bus, publisher: publisher, consumer: consumer}, nil
}

// addServices registers the long-running services with the supervisor tree.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func addServices(tree *supervisor.SupervisorTree, cfg *config.Config, c *components, logger zerolog.Logger) {
	if cfg.Refresh.Enabled {
		tree.AddMatchingService(services.NewRefreshService(c.orchestrator, services.RefreshServiceConfig{
			Hour:         cfg.Refresh.Hour,
			Interval:     cfg.Refresh.Interval,
			RunOnStartup: cfg.Refresh.RunOnStartup,
			Timeout:      cfg.Refresh.Timeout,
		}, logger))
		logger.Info().
			Int("hour", cfg.Refresh.Hour).
			Dur("interval", cfg.Refresh.Interval).
			Bool("run_on_startup", cfg.Refresh.RunOnStartup).
			Msg("Refresh scheduler added to supervisor tree")
	} else {
		logger.Info().Msg("Refresh scheduler disabled (REFRESH_ENABLED=false)")
	}

	if c.events != nil {
		tree.AddMessagingService(services.NewEventService(c.events.consumer, logger))
	}

	// WriteTimeout follows the refresh timeout so POST /api/v1/refresh can finish.
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           c.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Refresh.Timeout,
		IdleTimeout:       120 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), shutdownTimeout, logger))
}
