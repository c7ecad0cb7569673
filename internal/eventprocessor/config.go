// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package eventprocessor

import (
	"github.com/tomtom215/pawmatch/internal/config"
)

// PublishBreakerName labels the publish circuit breaker in metrics and logs.
const PublishBreakerName = "event_publish"

// RouterConfigFrom maps the events configuration onto router settings.
func RouterConfigFrom(cfg *config.EventsConfig) RouterConfig {
	rc := DefaultRouterConfig()
	rc.RetryMaxRetries = cfg.RetryMax
	if cfg.DedupWindow > 0 {
		rc.DedupWindow = cfg.DedupWindow
	}
	return rc
}

// BreakerConfigFrom maps the events configuration onto breaker settings.
func BreakerConfigFrom(cfg *config.EventsConfig) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             PublishBreakerName,
		FailureThreshold: cfg.BreakerFailures,
		Timeout:          cfg.BreakerTimeout,
	}
}
