// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(NewTestLogger(&buf)))

	logger.Warn("service restarted",
		"service", "refresh",
		"attempt", 2,
		"backoff", time.Second,
		"err", errors.New("panic"),
	)

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"service":"refresh"`, `"attempt":2`, `"err":"panic"`, "service restarted"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	h := NewSlogHandler(zerolog.New(nil).Level(zerolog.WarnLevel))
	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(NewSlogHandler(NewTestLogger(&buf)))

	base.With("component", "events").WithGroup("msg").Info("handled", "topic", "pawmatch.pets.changed")

	out := buf.String()
	if !strings.Contains(out, `"component":"events"`) || strings.Contains(out, `"msg.component"`) {
		t.Errorf("output %q missing component attr", out)
	}
	if !strings.Contains(out, `"msg.topic":"pawmatch.pets.changed"`) {
		t.Errorf("output %q missing grouped key", out)
	}
}

func TestSlogHandler_WithAttrsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	h := NewSlogHandler(NewTestLogger(&buf))
	_ = h.WithAttrs([]slog.Attr{slog.String("a", "1")})
	if len(h.attrs) != 0 {
		t.Error("parent handler mutated")
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWatermillLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { Init(DefaultConfig()) })

	logger := NewWatermillLogger("events")
	logger.Info("Subscribing", watermill.LogFields{"topic": "pawmatch.preferences.changed"})

	out := buf.String()
	if !strings.Contains(out, `"component":"events"`) || !strings.Contains(out, "pawmatch.preferences.changed") {
		t.Errorf("output %q missing watermill fields", out)
	}
}
