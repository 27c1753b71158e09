package adapters

import (
	"context"
	"time"

	"github.com/agrochain/agrochain/internal/database"
	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/orders/ports"
	"github.com/agrochain/agrochain/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ObservableRepository decorates an OrderRepository with spans and query
// duration metrics.
type ObservableRepository struct {
	repo    ports.OrderRepository
	metrics *database.Metrics
}

func NewObservableRepository(repo ports.OrderRepository, metrics *database.Metrics) *ObservableRepository {
	return &ObservableRepository{
		repo:    repo,
		metrics: metrics,
	}
}

func (r *ObservableRepository) Settle(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.Settle")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("crop.id", cropID),
		attribute.Int("order.quantity", quantity),
		attribute.String("operation", "settle_order"),
	)

	start := time.Now()
	order, err := r.repo.Settle(ctx, cropID, buyerID, quantity)
	r.metrics.RecordQuery(ctx, "settle_order", time.Since(start).Seconds())

	if err != nil {
		r.metrics.RecordError(ctx, "settle_order")
		telemetry.RecordSpanError(span, err)
		return domain.Order{}, err
	}

	telemetry.AddSpanAttributes(span, attribute.String("order.id", order.ID))
	telemetry.SetSpanSuccess(span)
	return order, nil
}

func (r *ObservableRepository) GetByID(ctx context.Context, id string) (domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.GetByID")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", id),
		attribute.String("operation", "get_order"),
	)

	start := time.Now()
	order, err := r.repo.GetByID(ctx, id)
	r.metrics.RecordQuery(ctx, "get_order", time.Since(start).Seconds())

	if err != nil {
		r.metrics.RecordError(ctx, "get_order")
		telemetry.RecordSpanError(span, err)
		return domain.Order{}, err
	}

	telemetry.SetSpanSuccess(span)
	return order, nil
}

func (r *ObservableRepository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Detail, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.ListByBuyer")
	defer span.End()

	telemetry.AddSpanAttributes(span, attribute.String("operation", "list_buyer_orders"))

	start := time.Now()
	details, err := r.repo.ListByBuyer(ctx, buyerID)
	r.metrics.RecordQuery(ctx, "list_buyer_orders", time.Since(start).Seconds())

	if err != nil {
		r.metrics.RecordError(ctx, "list_buyer_orders")
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("orders.count", len(details)))
	telemetry.SetSpanSuccess(span)
	return details, nil
}

func (r *ObservableRepository) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Detail, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.ListByFarmer")
	defer span.End()

	telemetry.AddSpanAttributes(span, attribute.String("operation", "list_farmer_orders"))

	start := time.Now()
	details, err := r.repo.ListByFarmer(ctx, farmerID)
	r.metrics.RecordQuery(ctx, "list_farmer_orders", time.Since(start).Seconds())

	if err != nil {
		r.metrics.RecordError(ctx, "list_farmer_orders")
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("orders.count", len(details)))
	telemetry.SetSpanSuccess(span)
	return details, nil
}

func (r *ObservableRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.UpdateStatus")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", id),
		attribute.String("order.status", string(to)),
		attribute.String("operation", "update_order_status"),
	)

	start := time.Now()
	err := r.repo.UpdateStatus(ctx, id, from, to)
	r.metrics.RecordQuery(ctx, "update_order_status", time.Since(start).Seconds())

	if err != nil {
		r.metrics.RecordError(ctx, "update_order_status")
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservableRepository) UpdatePaymentStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.UpdatePaymentStatus")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", id),
		attribute.String("order.payment_status", string(to)),
		attribute.String("operation", "update_payment_status"),
	)

	start := time.Now()
	err := r.repo.UpdatePaymentStatus(ctx, id, from, to)
	r.metrics.RecordQuery(ctx, "update_payment_status", time.Since(start).Seconds())

	if err != nil {
		r.metrics.RecordError(ctx, "update_payment_status")
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
