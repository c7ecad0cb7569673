// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

/*
Package supervisor runs the long-lived parts of the daemon under a suture v4
supervisor tree.

Tree layout:

	pawmatch (root)
	├── matching-layer   refresh scheduler
	├── messaging-layer  change-event consumer
	└── api-layer        HTTP server

A crashing event consumer is restarted with backoff without interrupting the
API or a batch refresh in progress. Supervisor events are logged through
sutureslog into the zerolog pipeline (see logging.NewSlogLogger).
*/
package supervisor
