// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/pawmatch/internal/models"
	"github.com/tomtom215/pawmatch/internal/recommend"
)

// WithMatchTx runs fn in one DuckDB transaction. Transaction conflicts are
// retried, so fn may run more than once.
func (db *DB) WithMatchTx(ctx context.Context, fn func(tx recommend.MatchTx) error) (err error) {
	start := time.Now()
	defer func() { observe("reconcile", "matches", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, "matches", func(tx *sql.Tx) error {
		return fn(&matchTx{tx: tx})
	})
}

// ListMatches returns the adopter's persisted matches, best first.
func (db *DB) ListMatches(ctx context.Context, userID int64) (out []models.Match, err error) {
	start := time.Now()
	defer func() { observe("select", "matches", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, matchSelect+` ORDER BY match_score DESC, pet_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches for user %d: %w", userID, err)
	}
	return scanMatches(rows)
}

const matchSelect = `SELECT id, user_id, pet_id, match_score, created_at, updated_at FROM matches WHERE user_id = ?`

// matchTx implements recommend.MatchTx over one *sql.Tx.
type matchTx struct {
	tx *sql.Tx
}

func (m *matchTx) ListMatches(ctx context.Context, userID int64) ([]models.Match, error) {
	rows, err := m.tx.QueryContext(ctx, matchSelect+` ORDER BY pet_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches for user %d: %w", userID, err)
	}
	return scanMatches(rows)
}

func (m *matchTx) UpdateMatchScore(ctx context.Context, matchID string, score float64, updatedAt time.Time) error {
	res, err := m.tx.ExecContext(ctx,
		`UPDATE matches SET match_score = ?, updated_at = ? WHERE id = ?`,
		score, updatedAt.UTC().Truncate(time.Microsecond), matchID)
	if err != nil {
		return fmt.Errorf("update match %s: %w", matchID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	return nil
}

// InsertMatch inserts the row only while the pet is still Available, so a
// pet adopted after candidates were read never gains a new match. It
// reports whether a row was written.
func (m *matchTx) InsertMatch(ctx context.Context, match *models.Match) (bool, error) {
	res, err := m.tx.ExecContext(ctx, `
		INSERT INTO matches (id, user_id, pet_id, match_score, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM pets WHERE id = ? AND status = 'Available')`,
		match.ID, match.UserID, match.PetID, match.Score,
		match.CreatedAt.UTC().Truncate(time.Microsecond), match.UpdatedAt.UTC().Truncate(time.Microsecond),
		match.PetID)
	if err != nil {
		return false, fmt.Errorf("insert match user %d pet %d: %w", match.UserID, match.PetID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert match rows affected: %w", err)
	}
	return n > 0, nil
}

func (m *matchTx) DeleteMatch(ctx context.Context, matchID string) error {
	if _, err := m.tx.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, matchID); err != nil {
		return fmt.Errorf("delete match %s: %w", matchID, err)
	}
	return nil
}

func scanMatches(rows *sql.Rows) ([]models.Match, error) {
	defer closeWithLog(rows, "match rows")

	var out []models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.UserID, &m.PetID, &m.Score, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
