package domain

import (
	"errors"
	"fmt"
	"time"

	cropsdomain "github.com/agrochain/agrochain/internal/crops/domain"
	"github.com/google/uuid"
)

// Status is the fulfilment state of an order.
type Status string

// PaymentStatus is the payment state of an order, tracked independently of
// fulfilment.
type PaymentStatus string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"

	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

// Completed and Cancelled are terminal. Pending may move to either.
var validStatusNext = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

var validPaymentNext = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: nil,
	PaymentFailed:    nil,
}

// IsValid reports whether s is a known order status.
func (s Status) IsValid() bool {
	_, ok := validStatusNext[s]
	return ok
}

// CanTransitionTo reports whether the fulfilment state machine permits moving
// from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validStatusNext[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether p is a known payment status.
func (p PaymentStatus) IsValid() bool {
	_, ok := validPaymentNext[p]
	return ok
}

// CanTransitionTo reports whether the payment state machine permits moving
// from p to next.
func (p PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range validPaymentNext[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Purchase guard errors. These surface to callers as 400-class rejections,
// never as persistence failures.
var (
	ErrInvalidRequest    = errors.New("invalid purchase request")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrCropUnavailable   = errors.New("crop is not available for purchase")
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
	ErrOwnListing        = errors.New("cannot order your own listing")
)

// InvalidTransitionError reports a rejected state machine move.
type InvalidTransitionError struct {
	Field string
	From  string
	To    string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition %s from %q to %q", e.Field, e.From, e.To)
}

// Order is a settled purchase of a crop. FarmerID and TotalCents are frozen
// at placement time so later crop edits or deletions never change the record.
type Order struct {
	ID            string        `json:"id"`
	CropID        string        `json:"crop_id"`
	BuyerID       string        `json:"buyer_id"`
	FarmerID      string        `json:"farmer_id"`
	Quantity      int           `json:"quantity"`
	TotalCents    int64         `json:"total_cents"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// CheckPurchase validates a purchase request against the crop's current
// state. It must run with the crop state stable, i.e. inside whatever lock or
// transaction the repository uses to serialize settlement per crop.
func CheckPurchase(crop cropsdomain.Crop, buyerID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if buyerID == crop.FarmerID {
		return ErrOwnListing
	}
	if crop.Status != cropsdomain.StatusAvailable {
		return ErrCropUnavailable
	}
	if quantity > crop.Quantity {
		return ErrInsufficientStock
	}
	return nil
}

// NewOrder builds a pending order for the given crop. The total price is
// computed once here and never recomputed.
func NewOrder(crop cropsdomain.Crop, buyerID string, quantity int) Order {
	now := time.Now().UTC()
	return Order{
		ID:            uuid.NewString(),
		CropID:        crop.ID,
		BuyerID:       buyerID,
		FarmerID:      crop.FarmerID,
		Quantity:      quantity,
		TotalCents:    crop.PriceCents * int64(quantity),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TransitionStatus returns a copy of the order moved to next, or an
// InvalidTransitionError if the state machine forbids the move.
func (o Order) TransitionStatus(next Status) (Order, error) {
	if !next.IsValid() || !o.Status.CanTransitionTo(next) {
		return Order{}, &InvalidTransitionError{Field: "status", From: string(o.Status), To: string(next)}
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}

// TransitionPayment returns a copy of the order with its payment moved to
// next, or an InvalidTransitionError if the state machine forbids the move.
func (o Order) TransitionPayment(next PaymentStatus) (Order, error) {
	if !next.IsValid() || !o.PaymentStatus.CanTransitionTo(next) {
		return Order{}, &InvalidTransitionError{Field: "payment status", From: string(o.PaymentStatus), To: string(next)}
	}
	o.PaymentStatus = next
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}

// Party identifies the other side of an order when listing from one user's
// perspective.
type Party struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Detail is an order expanded with its crop snapshot and counterparty. Crop
// is nil when the listing has since been deleted; the order itself is
// unaffected.
type Detail struct {
	Order
	Crop         *cropsdomain.Crop `json:"crop,omitempty"`
	Counterparty Party             `json:"counterparty"`
}
