package telemetry

import (
	"context"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// discardExporter satisfies both the span and the metric exporter interfaces
// so tests can initialize the full pipeline without an OTLP endpoint.
type discardExporter struct{}

func (discardExporter) ExportSpans(_ context.Context, _ []sdktrace.ReadOnlySpan) error {
	return nil
}

func (discardExporter) Temporality(_ sdkmetric.InstrumentKind) metricdata.Temporality {
	return metricdata.CumulativeTemporality
}

func (discardExporter) Aggregation(_ sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.AggregationDefault{}
}

func (discardExporter) Export(_ context.Context, _ *metricdata.ResourceMetrics) error {
	return nil
}

func (discardExporter) ForceFlush(_ context.Context) error {
	return nil
}

func (discardExporter) Shutdown(_ context.Context) error {
	return nil
}

// NewNoopTraceExporter returns a span exporter that discards everything.
func NewNoopTraceExporter() sdktrace.SpanExporter {
	return discardExporter{}
}

// NewNoopMetricExporter returns a metric exporter that discards everything.
func NewNoopMetricExporter() sdkmetric.Exporter {
	return discardExporter{}
}
