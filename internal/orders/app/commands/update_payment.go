package commands

import (
	"context"
	"log/slog"

	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/orders/ports"
)

type UpdatePaymentCommand struct {
	OrderID string
	ActorID string
	Next    domain.PaymentStatus
}

// UpdatePaymentCommandHandler moves an order's payment state. Only the
// order's buyer may act; conflict rules match UpdateStatusCommandHandler.
type UpdatePaymentCommandHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
	logger *slog.Logger
}

func NewUpdatePaymentCommandHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
	logger *slog.Logger,
) *UpdatePaymentCommandHandler {
	return &UpdatePaymentCommandHandler{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

func (h *UpdatePaymentCommandHandler) Handle(ctx context.Context, cmd UpdatePaymentCommand) (domain.Order, error) {
	order, err := h.repo.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return domain.Order{}, err
	}

	if cmd.ActorID != order.BuyerID {
		return domain.Order{}, ports.ErrNotAuthorized
	}

	updated, err := order.TransitionPayment(cmd.Next)
	if err != nil {
		return domain.Order{}, err
	}

	if err := h.repo.UpdatePaymentStatus(ctx, order.ID, order.PaymentStatus, updated.PaymentStatus); err != nil {
		return domain.Order{}, err
	}

	if err := h.events.PublishPaymentStatusChanged(ctx, updated); err != nil {
		h.logger.WarnContext(ctx, "payment status updated but event publish failed",
			"order_id", updated.ID,
			"error", err,
		)
	}

	return updated, nil
}
