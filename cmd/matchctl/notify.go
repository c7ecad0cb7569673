// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/pawmatch/internal/config"
	"github.com/tomtom215/pawmatch/internal/eventprocessor"
	"github.com/tomtom215/pawmatch/internal/logging"
)

// errNotifyBackend is returned when events would not leave this process.
var errNotifyBackend = errors.New("notify needs EVENTS_BACKEND=nats; the memory backend only reaches subscribers in the same process")

func newNotifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Publish a change event to a running daemon over NATS",
	}

	publish := func(cmd *cobra.Command, raw, name string, send func(ctx context.Context, p *eventprocessor.Publisher, id int64) (string, error)) error {
		id, err := parseID(raw, name)
		if err != nil {
			return err
		}
		cfg, err := a.loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		p, closeFn, err := newNotifyPublisher(ctx, &cfg.Events)
		if err != nil {
			return err
		}
		defer closeFn()

		eventID, err := send(ctx, p, id)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.out, "published %s\n", eventID)
		return err
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "pet <pet-id>",
			Short: "Publish a pet-changed event",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return publish(cmd, args[0], "pet-id", func(ctx context.Context, p *eventprocessor.Publisher, id int64) (string, error) {
					return p.PublishPetChanged(ctx, id)
				})
			},
		},
		&cobra.Command{
			Use:   "preferences <user-id>",
			Short: "Publish a preferences-changed event",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return publish(cmd, args[0], "user-id", func(ctx context.Context, p *eventprocessor.Publisher, id int64) (string, error) {
					return p.PublishPreferencesChanged(ctx, id)
				})
			},
		},
	)
	return cmd
}

func newNotifyPublisher(ctx context.Context, cfg *config.EventsConfig) (*eventprocessor.Publisher, func(), error) {
	if cfg.Backend != config.BackendNATS {
		return nil, nil, errNotifyBackend
	}
	bus, err := eventprocessor.NewBus(ctx, cfg, logging.NewWatermillLogger("matchctl"))
	if err != nil {
		return nil, nil, err
	}
	logger := logging.WithComponent("matchctl")
	breaker := eventprocessor.NewCircuitBreaker(eventprocessor.BreakerConfigFrom(cfg), logger)
	p := eventprocessor.NewPublisher(bus.Publisher, eventprocessor.NewTopics(cfg.TopicPrefix), breaker, logger)
	return p, func() {
		_ = p.Close()
		if err := bus.Close(); err != nil {
			logger.Warn().Err(err).Msg("close event bus")
		}
	}, nil
}
