package adapters

import (
	"context"
	"time"

	"github.com/agrochain/agrochain/internal/kafka"
	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/orders/ports"
	"github.com/agrochain/agrochain/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ObservableEventBus decorates an EventBus with spans and publish latency
// metrics.
type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *kafka.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *kafka.Metrics) *ObservableEventBus {
	return &ObservableEventBus{
		bus:     bus,
		metrics: metrics,
	}
}

func (e *ObservableEventBus) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	return e.publish(ctx, kafka.EventOrderPlaced, order, e.bus.PublishOrderPlaced)
}

func (e *ObservableEventBus) PublishOrderStatusChanged(ctx context.Context, order domain.Order) error {
	return e.publish(ctx, kafka.EventOrderStatusChanged, order, e.bus.PublishOrderStatusChanged)
}

func (e *ObservableEventBus) PublishPaymentStatusChanged(ctx context.Context, order domain.Order) error {
	return e.publish(ctx, kafka.EventPaymentStatusChanged, order, e.bus.PublishPaymentStatusChanged)
}

func (e *ObservableEventBus) publish(
	ctx context.Context,
	eventType string,
	order domain.Order,
	fn func(ctx context.Context, order domain.Order) error,
) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.Publish")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("event.type", eventType),
	)

	start := time.Now()
	err := fn(ctx, order)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, eventType, duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
