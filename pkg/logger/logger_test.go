package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestInitAndLevelString(t *testing.T) {
	Init("debug")
	if got := LevelString(); got != "debug" {
		t.Fatalf("LevelString() = %q, want %q", got, "debug")
	}
	Init("WARN")
	if got := LevelString(); got != "warn" {
		t.Fatalf("LevelString() = %q, want %q", got, "warn")
	}
	Init("Error")
	if got := LevelString(); got != "error" {
		t.Fatalf("LevelString() = %q, want %q", got, "error")
	}
	Init("nonsense")
	if got := LevelString(); got != "info" {
		t.Fatalf("LevelString() = %q, want %q for unknown input", got, "info")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	orig := std.Out
	std.SetOutput(&buf)
	defer std.SetOutput(orig)

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg")
	Errorf("error-msg")

	out := buf.String()
	if strings.Contains(out, "debug-msg") {
		t.Fatalf("debug messages should be suppressed at warn level")
	}
	if strings.Contains(out, "info-msg") {
		t.Fatalf("info messages should be suppressed at warn level")
	}
	if !strings.Contains(out, "warn-msg") {
		t.Fatalf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "error-msg") {
		t.Fatalf("error message missing: %q", out)
	}

	Init("info")
	buf.Reset()
	Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("Info expected at info level, got: %q", buf.String())
	}
}

func TestRequestScopedEntry(t *testing.T) {
	var buf bytes.Buffer
	orig := std.Out
	std.SetOutput(&buf)
	defer std.SetOutput(orig)
	Init("info")

	ctx, _ := WithRequestID(context.Background(), "req-42")
	if got := RequestID(ctx); got != "req-42" {
		t.Fatalf("RequestID() = %q, want req-42", got)
	}
	FromContext(ctx).Info("scoped")
	if !strings.Contains(buf.String(), "requestID=req-42") {
		t.Fatalf("expected request id in output, got %q", buf.String())
	}

	gen, _ := WithRequestID(context.Background(), "")
	if RequestID(gen) == "" {
		t.Fatalf("expected generated request id")
	}
	if RequestID(context.Background()) != "" {
		t.Fatalf("plain context should carry no request id")
	}
}
