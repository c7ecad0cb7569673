// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

// Package recommend implements the vector-based pet matching engine.
//
// # Architecture
//
// Matching is a fixed, deterministic pipeline over engineered features:
//
//   - Feature Encoder: pet and adopter records become D-dimensional vectors
//     using one shared, versioned field order (see SchemaVersion, Dimension)
//   - Similarity Ranker: cosine similarity, threshold filter, stable top-K
//   - Match Reconciler: diff-based convergence of persisted match rows
//   - Orchestrator: batch refresh over every adopter, single-adopter refresh,
//     paginated recommendations, and pet/preference change hooks
//
// There are no learned weights and no approximate nearest-neighbour index;
// every candidate is scored.
//
// # Storage
//
// The package owns no storage. VectorStore, ProfileStore and MatchStore are
// implemented by the database package and injected through NewOrchestrator.
// Stored vectors carry the schema version they were encoded with; vectors of
// another version are re-encoded before they are ranked.
//
// # Usage
//
//	orch, err := recommend.NewOrchestrator(recommend.DefaultConfig(), db, db, db, logger)
//	if err != nil {
//	    return err
//	}
//
//	// Nightly batch
//	report, err := orch.RefreshAll(ctx)
//
//	// One adopter, paginated
//	page, err := orch.Recommend(ctx, userID, 1, 10)
//
// # Thread Safety
//
// The Orchestrator is safe for concurrent use. Reconciliation for one adopter
// is serialized by a per-user lock, so a batch refresh and an interactive
// request never interleave writes to the same adopter's matches. Different
// adopters reconcile in parallel.
package recommend
