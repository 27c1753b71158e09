package queries

import (
	"context"
	"errors"
	"strings"

	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/orders/ports"
)

// ListBuyerOrdersQuery requests a buyer's purchase history.
type ListBuyerOrdersQuery struct {
	BuyerID string
}

func (q ListBuyerOrdersQuery) Validate() error {
	if strings.TrimSpace(q.BuyerID) == "" {
		return errors.New("buyer_id is required")
	}
	return nil
}

// ListFarmerOrdersQuery requests the orders received by a farmer.
type ListFarmerOrdersQuery struct {
	FarmerID string
}

func (q ListFarmerOrdersQuery) Validate() error {
	if strings.TrimSpace(q.FarmerID) == "" {
		return errors.New("farmer_id is required")
	}
	return nil
}

// ListOrdersQueryHandler serves both sides of the order history.
type ListOrdersQueryHandler struct {
	repo ports.OrderRepository
}

// NewListOrdersQueryHandler constructs a ListOrdersQueryHandler.
func NewListOrdersQueryHandler(repo ports.OrderRepository) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{repo: repo}
}

// HandleBuyer returns the buyer's orders, newest first, with crop snapshot
// and farmer as the counterparty.
func (h *ListOrdersQueryHandler) HandleBuyer(ctx context.Context, query ListBuyerOrdersQuery) ([]domain.Detail, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.repo.ListByBuyer(ctx, query.BuyerID)
}

// HandleFarmer returns the farmer's received orders, newest first, with the
// buyer as the counterparty.
func (h *ListOrdersQueryHandler) HandleFarmer(ctx context.Context, query ListFarmerOrdersQuery) ([]domain.Detail, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.repo.ListByFarmer(ctx, query.FarmerID)
}
