// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

/*
Package main is the entry point for the Pawmatch matching daemon.

Pawmatch encodes adoptable pets and adopter preferences as fixed-length
feature vectors, ranks pets for each adopter by cosine similarity, and keeps
each adopter's stored match list in step with the ranking.

# Application Architecture

	RootSupervisor ("pawmatch")
	├── MatchingSupervisor ("matching-layer")
	│   └── Refresh scheduler (daily batch refresh)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event consumer (pet and preference change events)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (operations API)

Component initialization order:

 1. Configuration: koanf v2 with defaults, YAML file and environment variables
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB store for pets, preferences, vectors and matches
 4. Orchestrator: encoder, ranker and reconciler
 5. Events (optional): watermill bus, breaker-protected publisher, consumer
 6. Supervisor tree: suture v4
 7. HTTP server: chi router

# Configuration

	DUCKDB_PATH=/data/pawmatch.duckdb
	SEED_DEMO_DATA=false
	MATCH_THRESHOLD=0.6
	MATCH_BATCH_TOP_K=50
	REFRESH_HOUR=3
	EVENTS_BACKEND=memory        # memory or nats
	NATS_URL=nats://127.0.0.1:4222
	HTTP_PORT=8087
	LOG_LEVEL=info

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops every
service, the HTTP server drains in-flight requests, and the event bus and
database are closed in that order.
*/
package main
