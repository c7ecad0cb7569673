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

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tomtom215/pawmatch/internal/metrics"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// Publisher publishes change events with circuit breaker protection.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	topics         Topics
	logger         zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps pub. A nil breaker publishes unprotected.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPublisher(pub message.Publisher, topics Topics, cb *gobreaker.CircuitBreaker[interface{}], logger zerolog.Logger) *Publisher {
	return &Publisher{
		publisher:      pub,
		circuitBreaker: cb,
		topics:         topics,
		logger:         logger.With().Str("component", "event_publisher").Logger(),
	}
}

// PublishPetChanged announces a change to petID and returns the event id.
func (p *Publisher) PublishPetChanged(ctx context.Context, petID int64) (string, error) {
	ev := NewPetChanged(petID)
	msg, err := ev.ToMessage()
	if err != nil {
		return "", err
	}
	return ev.EventID, p.Publish(ctx, p.topics.PetChanged, msg)
}

// PublishPreferencesChanged announces a preference change for userID and
// returns the event id.
func (p *Publisher) PublishPreferencesChanged(ctx context.Context, userID int64) (string, error) {
	ev := NewPreferencesChanged(userID)
	msg, err := ev.ToMessage()
	if err != nil {
		return "", err
	}
	return ev.EventID, p.Publish(ctx, p.topics.PreferencesChanged, msg)
}

// Publish sends msg to topic. The trace context of ctx travels in the
// message metadata, and the message UUID is used as Nats-Msg-Id.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrPublisherClosed
	}

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))
	msg.SetContext(ctx)

	var err error
	if p.circuitBreaker != nil {
		_, err = p.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(topic, msg)
		})
		metrics.CircuitBreakerRequests.WithLabelValues(p.circuitBreaker.Name(), breakerResult(err)).Inc()
	} else {
		err = p.publisher.Publish(topic, msg)
	}
	metrics.RecordEventPublished(topic, err)

	if err != nil {
		p.logger.Warn().Err(err).Str("topic", topic).Str("event_id", msg.UUID).Msg("Failed to publish change event")
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.logger.Debug().Str("topic", topic).Str("event_id", msg.UUID).Msg("Published change event")
	return nil
}

func breakerResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	default:
		return "failure"
	}
}

// Close marks the publisher closed. The underlying publisher is owned by the
// Bus and closed there.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
