package queries_test

import (
	"context"
	"testing"

	"github.com/agrochain/agrochain/internal/orders/app/queries"
	"github.com/agrochain/agrochain/internal/orders/domain"
)

type mockRepository struct {
	listByBuyerFn  func(ctx context.Context, buyerID string) ([]domain.Detail, error)
	listByFarmerFn func(ctx context.Context, farmerID string) ([]domain.Detail, error)
}

func (m *mockRepository) Settle(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error) {
	return domain.Order{}, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (domain.Order, error) {
	return domain.Order{}, nil
}

func (m *mockRepository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Detail, error) {
	if m.listByBuyerFn != nil {
		return m.listByBuyerFn(ctx, buyerID)
	}
	return nil, nil
}

func (m *mockRepository) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Detail, error) {
	if m.listByFarmerFn != nil {
		return m.listByFarmerFn(ctx, farmerID)
	}
	return nil, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	return nil
}

func (m *mockRepository) UpdatePaymentStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	return nil
}

func TestListBuyerOrders(t *testing.T) {
	t.Run("returns buyer orders", func(t *testing.T) {
		repo := &mockRepository{
			listByBuyerFn: func(ctx context.Context, buyerID string) ([]domain.Detail, error) {
				if buyerID != "buyer-1" {
					t.Errorf("ListByBuyer called with %q", buyerID)
				}
				return []domain.Detail{
					{Order: domain.Order{ID: "order-1", BuyerID: buyerID}},
				}, nil
			},
		}
		handler := queries.NewListOrdersQueryHandler(repo)

		details, err := handler.HandleBuyer(context.Background(), queries.ListBuyerOrdersQuery{BuyerID: "buyer-1"})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(details) != 1 || details[0].ID != "order-1" {
			t.Errorf("unexpected result: %+v", details)
		}
	})

	t.Run("rejects empty buyer id", func(t *testing.T) {
		handler := queries.NewListOrdersQueryHandler(&mockRepository{})

		if _, err := handler.HandleBuyer(context.Background(), queries.ListBuyerOrdersQuery{}); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestListFarmerOrders(t *testing.T) {
	t.Run("returns farmer orders", func(t *testing.T) {
		repo := &mockRepository{
			listByFarmerFn: func(ctx context.Context, farmerID string) ([]domain.Detail, error) {
				return []domain.Detail{
					{Order: domain.Order{ID: "order-2", FarmerID: farmerID}},
				}, nil
			},
		}
		handler := queries.NewListOrdersQueryHandler(repo)

		details, err := handler.HandleFarmer(context.Background(), queries.ListFarmerOrdersQuery{FarmerID: "farmer-1"})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(details) != 1 || details[0].ID != "order-2" {
			t.Errorf("unexpected result: %+v", details)
		}
	})

	t.Run("rejects empty farmer id", func(t *testing.T) {
		handler := queries.NewListOrdersQueryHandler(&mockRepository{})

		if _, err := handler.HandleFarmer(context.Background(), queries.ListFarmerOrdersQuery{}); err == nil {
			t.Error("expected validation error")
		}
	})
}
