package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("test message")

	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Error("FromContext without a logger should return slog.Default()")
	}
}

func TestIDs_RoundTrip(t *testing.T) {
	ctx := context.Background()
	if ConnIDFromContext(ctx) != "" || RequestIDFromContext(ctx) != "" {
		t.Fatal("empty context should carry no IDs")
	}

	ctx = WithConnID(ctx, "01HZCONN")
	ctx = WithRequestID(ctx, "01HZREQ")

	if got := ConnIDFromContext(ctx); got != "01HZCONN" {
		t.Errorf("ConnIDFromContext() = %q", got)
	}
	if got := RequestIDFromContext(ctx); got != "01HZREQ" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
}

func TestL_AddsIDs(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	ctx := WithLogger(context.Background(), l)
	ctx = WithConnID(ctx, "c-1")
	ctx = WithRequestID(ctx, "r-1")

	L(ctx).Info("hello")

	entry := decodeEntry(t, &buf)
	if entry["conn_id"] != "c-1" {
		t.Errorf("conn_id = %v", entry["conn_id"])
	}
	if entry["request_id"] != "r-1" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
}

func TestL_NoIDs(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	L(WithLogger(context.Background(), l)).Info("hello")

	entry := decodeEntry(t, &buf)
	if _, ok := entry["conn_id"]; ok {
		t.Error("conn_id should be absent")
	}
}
