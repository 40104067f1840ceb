// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateRequestID(t *testing.T) {
	t.Parallel()

	id1 := GenerateRequestID()
	id2 := GenerateRequestID()

	if id1 == "" {
		t.Error("expected non-empty request ID")
	}
	if id1 == id2 {
		t.Error("expected unique request IDs")
	}
	if len(id1) != 36 {
		t.Errorf("expected UUID length 36, got %d", len(id1))
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("expected empty request ID on fresh context, got %q", got)
	}

	ctx = ContextWithRequestID(ctx, "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("RequestIDFromContext() = %q, want %q", got, "req-123")
	}
}

func TestLoggerFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	stored := zerolog.New(&buf)

	ctx := ContextWithLogger(context.Background(), stored)
	got := LoggerFromContext(ctx)

	got.Info().Msg("stored logger")
	if !strings.Contains(buf.String(), "stored logger") {
		t.Errorf("expected stored logger to be returned, output: %s", buf.String())
	}
}

func TestCtxAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	ctx := ContextWithRequestID(context.Background(), "abc-def")
	Ctx(ctx).Info().Msg("with id")

	output := buf.String()
	if !strings.Contains(output, "request_id") {
		t.Errorf("expected request_id field in output: %s", output)
	}
	if !strings.Contains(output, "abc-def") {
		t.Errorf("expected request id value in output: %s", output)
	}
}

func TestCtxWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	Ctx(context.Background()).Info().Msg("no id")

	output := buf.String()
	if strings.Contains(output, "request_id") {
		t.Errorf("did not expect request_id field in output: %s", output)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	logger := WithComponent("catalog")
	logger.Info().Msg("component log")

	output := buf.String()
	if !strings.Contains(output, `"component":"catalog"`) {
		t.Errorf("expected component field in output: %s", output)
	}
}
