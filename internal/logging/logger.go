// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

// Package logging provides centralized zerolog-based logging for Pawmatch.
//
// # Quick Start
//
//	logging.Init(logging.ConfigFrom(&cfg.Logging))
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Int64("user_id", id).Msg("Refresh failed")
//
//	// With context (request ID, refresh run ID)
//	logging.Ctx(ctx).Info().Int("matches", n).Msg("Adopter refreshed")
//
// Components that take a logger (orchestrator, reconciler, event router)
// receive a child of the global logger via WithComponent. Libraries that
// want slog (suture) or a watermill.LoggerAdapter are bridged by the
// adapters in slog_adapter.go.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pawmatch/internal/config"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error, fatal, panic.
	Level string

	// Format is json or console. matchctl uses console.
	Format string

	Caller    bool
	Timestamp bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the configuration used before Init is called.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// ConfigFrom maps the loaded logging section onto a logger configuration.
// Timestamps are always on for the daemon.
func ConfigFrom(c *config.LoggingConfig) Config {
	cfg := DefaultConfig()
	if c.Level != "" {
		cfg.Level = c.Level
	}
	if c.Format != "" {
		cfg.Format = c.Format
	}
	cfg.Caller = c.Caller
	return cfg
}

var (
	mu  sync.RWMutex
	log zerolog.Logger
)

//nolint:gochecknoinits // package helpers must work before Init
func init() {
	log = build(DefaultConfig())
}

// Init replaces the global logger. It may be called more than once.
func Init(cfg Config) {
	l := build(cfg)
	mu.Lock()
	log = l
	mu.Unlock()
}

func build(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	var w io.Writer = cfg.Output
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(w).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// parseLevel accepts zerolog level names case-insensitively plus "warning".
// Anything unrecognized logs at info.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger replaces the global logger. Tests use it to capture output.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

func event(start func(*zerolog.Logger) *zerolog.Event) *zerolog.Event {
	mu.RLock()
	l := log
	mu.RUnlock()
	return start(&l)
}

func Debug() *zerolog.Event { return event((*zerolog.Logger).Debug) }
func Info() *zerolog.Event  { return event((*zerolog.Logger).Info) }
func Warn() *zerolog.Event  { return event((*zerolog.Logger).Warn) }
func Error() *zerolog.Event { return event((*zerolog.Logger).Error) }

// Fatal logs and then calls os.Exit(1).
func Fatal() *zerolog.Event { return event((*zerolog.Logger).Fatal) }

// Err logs at error level with err attached, or at info when err is nil.
func Err(err error) *zerolog.Event {
	return event(func(l *zerolog.Logger) *zerolog.Event { return l.Err(err) })
}

// NewTestLogger creates a logger that writes to w.
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
