// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// EventConsumer is satisfied by *eventprocessor.Consumer.
type EventConsumer interface {
	Run(ctx context.Context) error
}

// EventService runs the change-event consumer. A consumer that returns
// before ctx is done is reported as failed so suture restarts it.
type EventService struct {
	consumer EventConsumer
	logger   zerolog.Logger
}

// NewEventService wraps consumer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventService(consumer EventConsumer, logger zerolog.Logger) *EventService {
	return &EventService{
		consumer: consumer,
		logger:   logger.With().Str("service", "events").Logger(),
	}
}

// errConsumerStopped is returned when the consumer exits on its own.
var errConsumerStopped = errors.New("event consumer stopped unexpectedly")

// Serve implements suture.Service.
func (s *EventService) Serve(ctx context.Context) error {
	err := s.consumer.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Event consumer failed")
		return fmt.Errorf("event consumer: %w", err)
	}
	return errConsumerStopped
}

// String implements fmt.Stringer for suture's logs.
func (s *EventService) String() string {
	return "event-consumer"
}
