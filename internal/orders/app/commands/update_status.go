package commands

import (
	"context"
	"log/slog"

	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/orders/ports"
)

type UpdateStatusCommand struct {
	OrderID string
	ActorID string
	Next    domain.Status
}

// UpdateStatusCommandHandler moves an order through its fulfilment state
// machine. Only the order's farmer may act; anyone else gets
// ErrNotAuthorized. The store write is conditional on the status the actor
// saw, so racing transitions surface as ErrConflict instead of silently
// overwriting each other.
type UpdateStatusCommandHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
	logger *slog.Logger
}

func NewUpdateStatusCommandHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
	logger *slog.Logger,
) *UpdateStatusCommandHandler {
	return &UpdateStatusCommandHandler{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

func (h *UpdateStatusCommandHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (domain.Order, error) {
	order, err := h.repo.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return domain.Order{}, err
	}

	if cmd.ActorID != order.FarmerID {
		return domain.Order{}, ports.ErrNotAuthorized
	}

	updated, err := order.TransitionStatus(cmd.Next)
	if err != nil {
		return domain.Order{}, err
	}

	if err := h.repo.UpdateStatus(ctx, order.ID, order.Status, updated.Status); err != nil {
		return domain.Order{}, err
	}

	if err := h.events.PublishOrderStatusChanged(ctx, updated); err != nil {
		h.logger.WarnContext(ctx, "status updated but event publish failed",
			"order_id", updated.ID,
			"error", err,
		)
	}

	return updated, nil
}
