package ports

import (
	"context"

	"github.com/agrochain/agrochain/internal/orders/domain"
)

// EventBus publishes order lifecycle events for downstream consumers.
// Publishing is best effort: settlement never rolls back on a publish
// failure.
type EventBus interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
	PublishOrderStatusChanged(ctx context.Context, order domain.Order) error
	PublishPaymentStatusChanged(ctx context.Context, order domain.Order) error
}
