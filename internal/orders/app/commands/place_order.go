package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/orders/ports"
)

type PlaceOrderCommand struct {
	BuyerID  string
	CropID   string
	Quantity int
}

func (c PlaceOrderCommand) Validate() error {
	if strings.TrimSpace(c.BuyerID) == "" {
		return fmt.Errorf("%w: buyer id is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(c.CropID) == "" {
		return fmt.Errorf("%w: crop id is required", domain.ErrInvalidRequest)
	}
	if c.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

type PlaceOrderHandler interface {
	Handle(ctx context.Context, cmd PlaceOrderCommand) (domain.Order, error)
}

// PlaceOrderCommandHandler settles a purchase through the repository and
// publishes the resulting event. The repository owns atomicity: stock
// decrement and order insert either both happen or neither does.
type PlaceOrderCommandHandler struct {
	repo     ports.OrderRepository
	events   ports.EventBus
	listings ports.ListingInvalidator
	logger   *slog.Logger
}

// NewPlaceOrderCommandHandler wires the placement dependencies. listings may
// be nil when no cache is configured.
func NewPlaceOrderCommandHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
	listings ports.ListingInvalidator,
	logger *slog.Logger,
) *PlaceOrderCommandHandler {
	return &PlaceOrderCommandHandler{
		repo:     repo,
		events:   events,
		listings: listings,
		logger:   logger,
	}
}

func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return domain.Order{}, err
	}

	order, err := h.repo.Settle(ctx, cmd.CropID, cmd.BuyerID, cmd.Quantity)
	if err != nil {
		return domain.Order{}, err
	}

	// The order is committed at this point. A publish failure is logged
	// and swallowed so the client still gets their order back.
	if err := h.events.PublishOrderPlaced(ctx, order); err != nil {
		h.logger.WarnContext(ctx, "order settled but event publish failed",
			"order_id", order.ID,
			"error", err,
		)
	}

	// The cached listing now advertises stale stock. Drop it; a failure
	// here only delays freshness until the cache TTL expires.
	if h.listings != nil {
		if err := h.listings.Invalidate(ctx); err != nil {
			h.logger.WarnContext(ctx, "failed to invalidate listing cache", "error", err)
		}
	}

	return order, nil
}
