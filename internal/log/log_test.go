package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	original := Logger()
	ReplaceLogger(slog.New(newHandler(buf)))
	t.Cleanup(func() {
		ReplaceLogger(original)
		_ = SetLevel("info")
	})
	return buf
}

func TestInfoProducesLogfmtWithTimestamp(t *testing.T) {
	buf := captureLogs(t)

	Info(context.Background(), "hello", "user", "test")

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatalf("expected log output, got empty string")
	}
	for _, want := range []string{"ts=", "level=info", "msg=hello", "user=test"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in log line, got %q", want, line)
		}
	}
}

func TestRequestIDIsAttached(t *testing.T) {
	buf := captureLogs(t)

	ctx := WithRequestID(context.Background(), "abc-123")
	Warn(ctx, "slow query")

	line := buf.String()
	if !strings.Contains(line, "requestID=abc-123") {
		t.Fatalf("expected request id in log line, got %q", line)
	}
	if !strings.Contains(line, "level=warn") {
		t.Fatalf("expected warn level in log line, got %q", line)
	}
}

func TestSetLevelFiltersDebug(t *testing.T) {
	buf := captureLogs(t)

	if err := SetLevel("error"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	Debug(context.Background(), "hidden")
	Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below error level, got %q", buf.String())
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	t.Parallel()

	if err := SetLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestRequestIDMissing(t *testing.T) {
	t.Parallel()

	if _, ok := RequestID(context.Background()); ok {
		t.Fatal("expected no request id on empty context")
	}
}
