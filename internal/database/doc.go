// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

// Package database provides DuckDB-backed persistence for Pawmatch.
//
// # Overview
//
// DB implements the store interfaces the matching engine depends on:
//
//   - recommend.ProfileStore: pets and adopter preferences
//   - recommend.VectorStore: one current vector per pet and per adopter
//   - recommend.MatchStore: transactional match reconciliation
//
// # Architecture
//
//   - database.go: Connection lifecycle (open, initialize, checkpoint, close)
//   - database_schema.go: Table and index creation
//   - migrations.go: Versioned migrations tracked in schema_migrations
//   - database_connection.go: Pool configuration and transaction retry
//   - crud_pets.go, crud_preferences.go: Source records and training traits
//   - crud_vectors.go: Vector persistence (JSON-encoded float arrays)
//   - crud_matches.go: Match reads and the MatchTx implementation
//   - seed.go: Reproducible demo data
//
// # Concurrency
//
// DuckDB uses optimistic concurrency control. Writers that touch the same
// rows conflict on commit; withTx retries those conflicts with exponential
// backoff. Match inserts re-check pet availability inside the transaction,
// so a pet adopted while a batch is running never gains a new match row.
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	orch, err := recommend.NewOrchestrator(matchCfg, db, db, db, logger)
package database
