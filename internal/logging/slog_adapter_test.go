// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandlerLevels(t *testing.T) {
	tests := []struct {
		name      string
		slogLevel slog.Level
		wantLevel string
	}{
		{"debug", slog.LevelDebug, "debug"},
		{"info", slog.LevelInfo, "info"},
		{"warn", slog.LevelWarn, "warn"},
		{"error", slog.LevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			zl := zerolog.New(&buf).Level(zerolog.TraceLevel)
			logger := slog.New(NewSlogHandlerWithLogger(zl))

			logger.Log(t.Context(), tt.slogLevel, "bridged message")

			output := buf.String()
			if !strings.Contains(output, `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("expected level %q in output: %s", tt.wantLevel, output)
			}
			if !strings.Contains(output, "bridged message") {
				t.Errorf("expected message in output: %s", output)
			}
		})
	}
}

func TestSlogHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	logger := slog.New(NewSlogHandlerWithLogger(zl))

	logger.Info("attrs",
		slog.String("service", "http-server"),
		slog.Int("restarts", 3),
		slog.Bool("healthy", true),
		slog.Duration("backoff", 2*time.Second),
	)

	output := buf.String()
	for _, want := range []string{
		`"service":"http-server"`,
		`"restarts":3`,
		`"healthy":true`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestSlogHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	logger := slog.New(NewSlogHandlerWithLogger(zl)).With(slog.String("supervisor", "root"))

	logger.Info("child logger")

	output := buf.String()
	if !strings.Contains(output, `"supervisor":"root"`) {
		t.Errorf("expected pre-configured attr in output: %s", output)
	}
}

func TestSlogHandlerWithGroup(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	logger := slog.New(NewSlogHandlerWithLogger(zl)).WithGroup("suture")

	logger.Info("grouped", slog.String("event", "restart"))

	output := buf.String()
	if !strings.Contains(output, `"suture.event":"restart"`) {
		t.Errorf("expected group-prefixed key in output: %s", output)
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	t.Parallel()

	zl := zerolog.New(nil).Level(zerolog.WarnLevel)
	handler := NewSlogHandlerWithLogger(zl)

	if handler.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}
	if !handler.Enabled(t.Context(), slog.LevelError) {
		t.Error("expected error to be enabled at warn level")
	}
}

func TestNewSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	logger := NewSlogLogger()
	logger.Info("global bridge")

	if !strings.Contains(buf.String(), "global bridge") {
		t.Errorf("expected message via global logger, output: %s", buf.String())
	}
}
