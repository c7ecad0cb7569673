// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/pawmatch/internal/config"
	"github.com/tomtom215/pawmatch/internal/database"
	"github.com/tomtom215/pawmatch/internal/logging"
	"github.com/tomtom215/pawmatch/internal/recommend"
)

// env is an opened store plus the orchestrator built on it.
type env struct {
	cfg   *config.Config
	db    *database.DB
	orch  *recommend.Orchestrator
	close func() error
}

// app carries global flags and the env opener. Tests replace open.
type app struct {
	out      io.Writer
	dbPath   string
	jsonOut  bool
	logLevel string
	open     func(ctx context.Context, a *app) (*env, error)
}

func newApp(out io.Writer) *app {
	return &app{out: out, open: openEnv}
}

// loadConfig applies the --db override to the layered configuration.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	return cfg, nil
}

func openEnv(ctx context.Context, a *app) (*env, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	orch, err := recommend.NewOrchestrator(recommend.ConfigFrom(&cfg.Matching), db, db, db, logging.WithComponent("matchctl"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &env{cfg: cfg, db: db, orch: orch, close: db.Close}, nil
}

// withEnv opens the env, runs fn and closes the env.
func (a *app) withEnv(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := a.open(ctx, a)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("close database")
		}
	}()
	return fn(ctx, e)
}

// printJSON writes v as indented JSON.
func (a *app) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "matchctl",
		Short: "Operator CLI for the pawmatch matching engine",
		Long: `matchctl drives the matching engine against a DuckDB store.

Examples:
  # Seed a local database and run a batch refresh
  matchctl --db ./pawmatch.duckdb seed
  matchctl --db ./pawmatch.duckdb refresh all

  # Show the second page of recommendations for adopter 7
  matchctl recommend 7 --page 2 --page-size 5

  # Mark a pet adopted and drop its matches
  matchctl pet status 12 Adopted`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logging.Init(logging.Config{Level: a.logLevel, Format: "console", Timestamp: true})
		},
	}

	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "DuckDB file (overrides DUCKDB_PATH)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of tables")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newRefreshCmd(a),
		newRecommendCmd(a),
		newScoreCmd(a),
		newEncodeCmd(a),
		newPetCmd(a),
		newLoadCmd(a),
		newSeedCmd(a),
		newNotifyCmd(a),
	)
	return root
}

// parseID parses a positive integer id argument.
func parseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}
