package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(primaryLevel, secondaryLevel slog.Level) (*slog.Logger, *bytes.Buffer, *bytes.Buffer) {
	var primaryBuf, secondaryBuf bytes.Buffer
	primary := slog.NewTextHandler(&primaryBuf, &slog.HandlerOptions{Level: primaryLevel})
	secondary := slog.NewTextHandler(&secondaryBuf, &slog.HandlerOptions{Level: secondaryLevel})
	return slog.New(NewDualHandler(primary, secondary)), &primaryBuf, &secondaryBuf
}

func TestDualHandlerMirrorsErrorsToSecondary(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	EnableErrorMirroring()

	logger, primaryBuf, secondaryBuf := newTestLogger(slog.LevelInfo, slog.LevelError)

	logger.Error("fetch failed", slog.String("entityType", "people"))
	logger.Info("page loaded")

	if got := primaryBuf.String(); !strings.Contains(got, "fetch failed") || !strings.Contains(got, "page loaded") {
		t.Fatalf("expected primary log to contain both messages, got %q", got)
	}
	if got := secondaryBuf.String(); !strings.Contains(got, "fetch failed") {
		t.Fatalf("expected secondary log to contain error message, got %q", got)
	}
	if got := secondaryBuf.String(); strings.Contains(got, "page loaded") {
		t.Fatalf("secondary log should not contain info message, got %q", got)
	}
}

func TestDualHandlerCanDisableMirroring(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	DisableErrorMirroring()

	logger, primaryBuf, secondaryBuf := newTestLogger(slog.LevelInfo, slog.LevelError)

	logger.Error("fetch failed")

	if got := primaryBuf.String(); !strings.Contains(got, "fetch failed") {
		t.Fatalf("expected primary log to contain error message, got %q", got)
	}
	if got := secondaryBuf.String(); got != "" {
		t.Fatalf("expected secondary log to be empty when mirroring disabled, got %q", got)
	}
}
