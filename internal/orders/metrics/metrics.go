package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/agrochain/agrochain/internal/orders"

// Metrics records order placement outcomes.
type Metrics struct {
	placed             metric.Int64Counter
	rejected           metric.Int64Counter
	settlementDuration metric.Float64Histogram
}

// NewMetrics constructs order metrics on the given meter provider.
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName)

	placed, err := meter.Int64Counter(
		"orders_placed_total",
		metric.WithDescription("Number of successfully settled orders"),
	)
	if err != nil {
		return nil, err
	}

	rejected, err := meter.Int64Counter(
		"orders_rejected_total",
		metric.WithDescription("Number of order placements rejected before settlement"),
	)
	if err != nil {
		return nil, err
	}

	settlementDuration, err := meter.Float64Histogram(
		"order_settlement_duration_seconds",
		metric.WithDescription("Time spent settling an order"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		placed:             placed,
		rejected:           rejected,
		settlementDuration: settlementDuration,
	}, nil
}

// RecordPlaced counts a settled order.
func (m *Metrics) RecordPlaced(ctx context.Context) {
	m.placed.Add(ctx, 1)
}

// RecordRejected counts a rejected placement with its rejection reason.
func (m *Metrics) RecordRejected(ctx context.Context, reason string) {
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordSettlement records how long a settlement attempt took.
func (m *Metrics) RecordSettlement(ctx context.Context, seconds float64) {
	m.settlementDuration.Record(ctx, seconds)
}
