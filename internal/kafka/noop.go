package kafka

import (
	"context"
	"log/slog"

	"github.com/agrochain/agrochain/internal/orders/domain"
)

// NoopEventBus logs events without sending them anywhere. Used when no
// brokers are configured.
type NoopEventBus struct{}

// NewNoopEventBus returns a new no-op event publisher.
func NewNoopEventBus() *NoopEventBus {
	return &NoopEventBus{}
}

func (n *NoopEventBus) PublishOrderPlaced(_ context.Context, order domain.Order) error {
	slog.Debug("event::order_placed", "order_id", order.ID)
	return nil
}

func (n *NoopEventBus) PublishOrderStatusChanged(_ context.Context, order domain.Order) error {
	slog.Debug("event::order_status_changed", "order_id", order.ID, "status", order.Status)
	return nil
}

func (n *NoopEventBus) PublishPaymentStatusChanged(_ context.Context, order domain.Order) error {
	slog.Debug("event::payment_status_changed", "order_id", order.ID, "payment_status", order.PaymentStatus)
	return nil
}
