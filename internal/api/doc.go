// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

/*
Package api provides the operations HTTP API of the matching engine.

Routes (chi):

	GET  /api/v1/health                                   store and refresh status
	GET  /metrics                                         Prometheus exposition
	POST /api/v1/refresh                                  full batch refresh
	POST /api/v1/adopters/{userID}/refresh?k=             recompute one adopter
	GET  /api/v1/adopters/{userID}/recommendations        paginated matches
	GET  /api/v1/adopters/{userID}/pets/{petID}/score     score one pair
	POST /api/v1/pets/{petID}/changed                     pet change hook
	POST /api/v1/adopters/{userID}/preferences/changed    preference change hook

Every JSON body uses the models.APIResponse envelope. Engine errors map to
error codes:

	PREFERENCES_REQUIRED  409  adopter has not saved preferences
	NOT_FOUND             404  unknown pet
	VALIDATION_ERROR      400  bad path or query parameters
	SERVICE_UNAVAILABLE   503  event publishing circuit is open
	INTERNAL_ERROR        500  store or engine failure

Change hooks publish to the event bus when a ChangeNotifier is configured
and answer 202 with the event id. Without one they apply the change
synchronously.

The write routes are rate limited per client IP with go-chi/httprate.
*/
package api
