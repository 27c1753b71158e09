package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/orders/metrics"
	"github.com/agrochain/agrochain/internal/orders/ports"
	"github.com/agrochain/agrochain/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservablePlaceOrderHandler struct {
	handler PlaceOrderHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservablePlaceOrderHandler(handler PlaceOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservablePlaceOrderHandler {
	return &ObservablePlaceOrderHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservablePlaceOrderHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlaceOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	defer func() {
		o.metrics.RecordSettlement(ctx, time.Since(start).Seconds())
	}()

	o.logger.InfoContext(ctx, "placing order",
		"crop_id", cmd.CropID,
		"buyer_id", cmd.BuyerID,
		"quantity", cmd.Quantity,
	)

	order, err := o.handler.Handle(ctx, cmd)
	if err != nil {
		o.metrics.RecordRejected(ctx, rejectionReason(err))
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to place order",
			"error", err,
			"crop_id", cmd.CropID,
			"buyer_id", cmd.BuyerID,
		)
		return domain.Order{}, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("order.crop_id", order.CropID),
		attribute.Int("order.quantity", order.Quantity),
		attribute.Int64("order.total_cents", order.TotalCents),
	)

	o.logger.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"crop_id", order.CropID,
		"total_cents", order.TotalCents,
	)

	o.metrics.RecordPlaced(ctx)
	telemetry.SetSpanSuccess(span)

	return order, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrCropUnavailable):
		return "crop_unavailable"
	case errors.Is(err, domain.ErrOwnListing):
		return "own_listing"
	case errors.Is(err, ports.ErrCropNotFound):
		return "crop_not_found"
	default:
		return "error"
	}
}
