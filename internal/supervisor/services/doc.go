// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

// Package services adapts daemon components to suture.Service.
//
//   - RefreshService: runs the batch refresh at a preferred hour, then every interval
//   - EventService: runs the change-event consumer
//   - HTTPServerService: runs an http.Server with graceful shutdown
package services
