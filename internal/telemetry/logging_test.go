package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufferedLogger(buf *bytes.Buffer) *slog.Logger {
	baseHandler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(&traceHandler{baseHandler: baseHandler})
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}
	return record
}

func TestLoggerWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedLogger(&buf)

	logger.InfoContext(context.Background(), "crop listed", "crop_id", "c-1")

	record := decodeLogLine(t, &buf)

	if record["msg"] != "crop listed" {
		t.Errorf("expected msg %q, got %v", "crop listed", record["msg"])
	}
	if record["crop_id"] != "c-1" {
		t.Errorf("expected crop_id c-1, got %v", record["crop_id"])
	}
	if _, ok := record["trace_id"]; ok {
		t.Error("expected no trace_id without an active span")
	}
}

func TestLoggerInsideSpan(t *testing.T) {
	ctx := context.Background()

	tel, err := Initialize(ctx, validConfig(),
		WithTraceExporter(NewNoopTraceExporter()),
		WithMetricExporter(NewNoopMetricExporter()),
	)
	if err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	defer func() { _ = tel.Shutdown(ctx) }()

	spanCtx, span := StartSpan(ctx, "settle-order")
	defer span.End()

	var buf bytes.Buffer
	logger := newBufferedLogger(&buf)

	logger.InfoContext(spanCtx, "order settled")

	record := decodeLogLine(t, &buf)

	if record["trace_id"] != TraceID(spanCtx) {
		t.Errorf("expected trace_id %q, got %v", TraceID(spanCtx), record["trace_id"])
	}
	if record["span_id"] != SpanID(spanCtx) {
		t.Errorf("expected span_id %q, got %v", SpanID(spanCtx), record["span_id"])
	}
}

func TestLoggerPreservesAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedLogger(&buf).With("service", "agrochain-api").WithGroup("orders")

	logger.InfoContext(context.Background(), "placed", "order_id", "o-1")

	record := decodeLogLine(t, &buf)

	if record["service"] != "agrochain-api" {
		t.Errorf("expected service attr, got %v", record["service"])
	}

	group, ok := record["orders"].(map[string]any)
	if !ok {
		t.Fatalf("expected orders group, got %v", record["orders"])
	}
	if group["order_id"] != "o-1" {
		t.Errorf("expected grouped order_id o-1, got %v", group["order_id"])
	}
}
