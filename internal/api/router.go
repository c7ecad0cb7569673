// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/pawmatch/internal/middleware"
)

// Router wires the handler and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	timeout       time.Duration
}

// NewRouter creates a Router. timeout bounds every request except the
// batch refresh, which runs under the scheduler's own timeout.
func NewRouter(handler *Handler, mw *ChiMiddleware, timeout time.Duration) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw, timeout: timeout}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS())

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", router.handler.Health)

		// Reads
		r.Group(func(r chi.Router) {
			if router.timeout > 0 {
				r.Use(chimiddleware.Timeout(router.timeout))
			}
			r.Get("/adopters/{userID}/recommendations", router.handler.Recommendations)
			r.Get("/adopters/{userID}/pets/{petID}/score", router.handler.ScorePet)
		})

		// Writes
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Post("/refresh", router.handler.RefreshAll)

			r.Group(func(r chi.Router) {
				if router.timeout > 0 {
					r.Use(chimiddleware.Timeout(router.timeout))
				}
				r.Post("/adopters/{userID}/refresh", router.handler.RefreshAdopter)
				r.Post("/adopters/{userID}/preferences/changed", router.handler.PreferencesChanged)
				r.Post("/pets/{petID}/changed", router.handler.PetChanged)
			})
		})
	})

	return r
}
