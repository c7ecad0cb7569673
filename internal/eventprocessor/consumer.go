// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tomtom215/pawmatch/internal/cache"
	"github.com/tomtom215/pawmatch/internal/logging"
	"github.com/tomtom215/pawmatch/internal/metrics"
	"github.com/tomtom215/pawmatch/internal/recommend"
)

// ChangeHandler applies change events to the matching engine.
// recommend.Orchestrator implements it.
type ChangeHandler interface {
	OnPetChanged(ctx context.Context, petID int64) error
	OnPreferencesChanged(ctx context.Context, userID int64) (*recommend.RefreshResult, error)
}

// RouterConfig configures the consumer's Watermill router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for in-flight handlers on shutdown.
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// DedupWindow is how long a handled event id is remembered so that a
	// redelivery is acknowledged without touching the engine.
	DedupWindow   time.Duration
	DedupCapacity int
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 500 * time.Millisecond,
		RetryMaxInterval:     10 * time.Second,
		RetryMultiplier:      2.0,
		DedupWindow:          cache.DefaultTTL,
		DedupCapacity:        cache.DefaultCapacity,
	}
}

// Consumer routes change events to a ChangeHandler.
//
// Each Run builds a fresh Watermill router, so a supervisor can restart a
// Consumer after a failure.
type Consumer struct {
	subscriber message.Subscriber
	handler    ChangeHandler
	topics     Topics
	config     RouterConfig
	logger     zerolog.Logger
	seen       *cache.SeenSet

	readyOnce sync.Once
	ready     chan struct{}
}

// NewConsumer creates a consumer reading from sub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewConsumer(sub message.Subscriber, handler ChangeHandler, topics Topics, cfg RouterConfig, logger zerolog.Logger) *Consumer {
	return &Consumer{
		subscriber: sub,
		handler:    handler,
		topics:     topics,
		config:     cfg,
		logger:     logger.With().Str("component", "event_consumer").Logger(),
		seen:       cache.NewSeenSet(cfg.DedupCapacity, cfg.DedupWindow),
		ready:      make(chan struct{}),
	}
}

// Ready is closed once the first router is running and subscribed.
func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

// Run processes events until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	wmLogger := logging.NewWatermillLogger("event_router")

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: c.config.CloseTimeout}, wmLogger)
	if err != nil {
		return fmt.Errorf("create watermill router: %w", err)
	}

	retry := middleware.Retry{
		MaxRetries:      c.config.RetryMaxRetries,
		InitialInterval: c.config.RetryInitialInterval,
		MaxInterval:     c.config.RetryMaxInterval,
		Multiplier:      c.config.RetryMultiplier,
		Logger:          wmLogger,
	}
	// Outermost first: give up after retries, skip redeliveries, then panic
	// recovery, then retry.
	router.AddMiddleware(c.dropExhausted, c.skipDuplicates, middleware.Recoverer, retry.Middleware)

	router.AddConsumerHandler("pet_changed", c.topics.PetChanged, c.subscriber, c.handlePetChanged)
	router.AddConsumerHandler("preferences_changed", c.topics.PreferencesChanged, c.subscriber, c.handlePreferencesChanged)

	go func() {
		select {
		case <-router.Running():
			c.readyOnce.Do(func() { close(c.ready) })
		case <-ctx.Done():
		}
	}()

	c.logger.Info().
		Str("pet_topic", c.topics.PetChanged).
		Str("preferences_topic", c.topics.PreferencesChanged).
		Msg("Event consumer starting")

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return nil
}

// dropExhausted acknowledges a message whose handler still fails after all
// retries. The next batch refresh repairs whatever the event would have done.
func (c *Consumer) dropExhausted(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		out, err := h(msg)
		if err != nil {
			c.logger.Error().Err(err).
				Str("event_id", msg.UUID).
				Str("event_type", msg.Metadata.Get(MetadataEventType)).
				Msg("Dropping change event after retries")
			return nil, nil
		}
		return out, nil
	}
}

// skipDuplicates acknowledges an event whose id was already handled
// successfully. JetStream redelivers on ack timeouts, and the memory backend
// can see the same event published twice by a retried caller.
func (c *Consumer) skipDuplicates(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		if c.seen.Seen(msg.UUID) {
			metrics.EventsDuplicate.WithLabelValues(msg.Metadata.Get(MetadataEventType)).Inc()
			c.logger.Debug().Str("event_id", msg.UUID).Msg("Skipping duplicate change event")
			return nil, nil
		}
		out, err := h(msg)
		if err == nil {
			c.seen.Mark(msg.UUID)
		}
		return out, err
	}
}

func (c *Consumer) messageContext(msg *message.Message) context.Context {
	ctx := otel.GetTextMapPropagator().Extract(msg.Context(), propagation.MapCarrier(msg.Metadata))
	return logging.ContextWithRequestID(ctx, msg.UUID)
}

func (c *Consumer) handlePetChanged(msg *message.Message) error {
	topic := c.topics.PetChanged
	ev, err := DecodePetChanged(msg)
	if err != nil {
		metrics.RecordEventHandled(topic, err)
		c.logger.Warn().Err(err).Str("event_id", msg.UUID).Msg("Discarding invalid pet event")
		return nil
	}

	err = c.handler.OnPetChanged(c.messageContext(msg), ev.PetID)
	metrics.RecordEventHandled(topic, err)
	if err != nil {
		return fmt.Errorf("pet %d: %w", ev.PetID, err)
	}
	return nil
}

func (c *Consumer) handlePreferencesChanged(msg *message.Message) error {
	topic := c.topics.PreferencesChanged
	ev, err := DecodePreferencesChanged(msg)
	if err != nil {
		metrics.RecordEventHandled(topic, err)
		c.logger.Warn().Err(err).Str("event_id", msg.UUID).Msg("Discarding invalid preferences event")
		return nil
	}

	_, err = c.handler.OnPreferencesChanged(c.messageContext(msg), ev.UserID)
	metrics.RecordEventHandled(topic, err)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, recommend.ErrMissingPreferences):
		c.logger.Warn().Int64("user_id", ev.UserID).Msg("Preferences event for adopter without preferences")
		return nil
	default:
		return fmt.Errorf("adopter %d: %w", ev.UserID, err)
	}
}
