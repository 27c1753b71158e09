package ports

import (
	"context"
	"errors"

	"github.com/agrochain/agrochain/internal/orders/domain"
)

var (
	// ErrNotFound is returned when an order does not exist.
	ErrNotFound = errors.New("order not found")

	// ErrCropNotFound is returned by Settle when the crop being purchased
	// does not exist.
	ErrCropNotFound = errors.New("crop not found")

	// ErrNotAuthorized is returned when a user is not the party allowed
	// to perform the requested change on an order.
	ErrNotAuthorized = errors.New("not authorized for this order")

	// ErrConflict is returned when a concurrent update invalidated the
	// requested change.
	ErrConflict = errors.New("order was modified concurrently")
)

// OrderRepository persists orders. Settle is the only way to create one: it
// validates the purchase, decrements the crop's stock, and inserts the order
// as a single atomic step, serialized per crop. Guard rejections come back as
// the domain purchase errors; a missing crop as ErrCropNotFound.
// UpdateStatus and UpdatePaymentStatus are conditional on the previous state
// and return ErrConflict when a concurrent transition won.
type OrderRepository interface {
	Settle(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error)
	GetByID(ctx context.Context, id string) (domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Detail, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]domain.Detail, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) error
	UpdatePaymentStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error
}
