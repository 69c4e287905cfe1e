//go:build !integration

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"payment-status-bot/internal/config"
)

func TestWith_AttachesContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(config.LogConfig{Level: "debug", Format: "json"}, false, &buf)

	ctx := WithTraceID(context.Background(), "abc")
	ctx = WithChatID(ctx, -42)
	ctx = WithUpdateID(ctx, 7)
	With(ctx, base).Info().Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if line["trace_id"] != "abc" {
		t.Errorf("expected trace_id abc, got %v", line["trace_id"])
	}
	if line["chat_id"] != float64(-42) {
		t.Errorf("expected chat_id -42, got %v", line["chat_id"])
	}
	if line["update_id"] != float64(7) {
		t.Errorf("expected update_id 7, got %v", line["update_id"])
	}
	if TraceID(ctx) != "abc" {
		t.Errorf("TraceID returned %q", TraceID(ctx))
	}
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(config.LogConfig{Level: "warn"}, false, &buf)
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Fatal("warn should be written")
	}
}

func TestRedact(t *testing.T) {
	if Redact("secret@example.com", true) != "secret@example.com" {
		t.Error("dev mode should not redact")
	}
	if Redact("short", false) != "***" {
		t.Error("short values should be fully masked")
	}
	if got := Redact("secret@example.com", false); got != "secr...om" {
		t.Errorf("unexpected redaction %q", got)
	}
}
