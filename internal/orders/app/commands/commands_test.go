package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/agrochain/agrochain/internal/orders/app/commands"
	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/orders/ports"
)

type mockRepository struct {
	settleFn              func(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error)
	getByIDFn             func(ctx context.Context, id string) (domain.Order, error)
	updateStatusFn        func(ctx context.Context, id string, from, to domain.Status) error
	updatePaymentStatusFn func(ctx context.Context, id string, from, to domain.PaymentStatus) error
}

func (m *mockRepository) Settle(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error) {
	if m.settleFn != nil {
		return m.settleFn(ctx, cropID, buyerID, quantity)
	}
	return domain.Order{}, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (domain.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return domain.Order{}, ports.ErrNotFound
}

func (m *mockRepository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Detail, error) {
	return nil, nil
}

func (m *mockRepository) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Detail, error) {
	return nil, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, from, to)
	}
	return nil
}

func (m *mockRepository) UpdatePaymentStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	if m.updatePaymentStatusFn != nil {
		return m.updatePaymentStatusFn(ctx, id, from, to)
	}
	return nil
}

type mockEventBus struct {
	placedFn        func(ctx context.Context, order domain.Order) error
	statusChangedFn func(ctx context.Context, order domain.Order) error
	placed          []domain.Order
}

func (m *mockEventBus) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	m.placed = append(m.placed, order)
	if m.placedFn != nil {
		return m.placedFn(ctx, order)
	}
	return nil
}

func (m *mockEventBus) PublishOrderStatusChanged(ctx context.Context, order domain.Order) error {
	if m.statusChangedFn != nil {
		return m.statusChangedFn(ctx, order)
	}
	return nil
}

func (m *mockEventBus) PublishPaymentStatusChanged(ctx context.Context, order domain.Order) error {
	return nil
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) Invalidate(_ context.Context) error {
	m.calls++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingOrder() domain.Order {
	return domain.Order{
		ID:            "order-1",
		CropID:        "crop-1",
		BuyerID:       "buyer-1",
		FarmerID:      "farmer-1",
		Quantity:      2,
		TotalCents:    5000,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
}

func TestPlaceOrder(t *testing.T) {
	t.Run("settles and publishes with valid input", func(t *testing.T) {
		want := pendingOrder()
		repo := &mockRepository{
			settleFn: func(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error) {
				if cropID != "crop-1" || buyerID != "buyer-1" || quantity != 2 {
					t.Errorf("Settle called with (%q, %q, %d)", cropID, buyerID, quantity)
				}
				return want, nil
			},
		}
		events := &mockEventBus{}
		handler := commands.NewPlaceOrderCommandHandler(repo, events, nil, testLogger())

		order, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
			BuyerID:  "buyer-1",
			CropID:   "crop-1",
			Quantity: 2,
		})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if order.ID != want.ID {
			t.Errorf("expected order %q, got %q", want.ID, order.ID)
		}
		if len(events.placed) != 1 {
			t.Fatalf("expected 1 published event, got %d", len(events.placed))
		}
	})

	t.Run("rejects invalid quantity before settlement", func(t *testing.T) {
		repo := &mockRepository{
			settleFn: func(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error) {
				t.Fatal("Settle should not be called")
				return domain.Order{}, nil
			},
		}
		handler := commands.NewPlaceOrderCommandHandler(repo, &mockEventBus{}, nil, testLogger())

		_, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
			BuyerID:  "buyer-1",
			CropID:   "crop-1",
			Quantity: 0,
		})

		if !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Errorf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("rejects missing crop id before settlement", func(t *testing.T) {
		repo := &mockRepository{
			settleFn: func(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error) {
				t.Fatal("Settle should not be called")
				return domain.Order{}, nil
			},
		}
		handler := commands.NewPlaceOrderCommandHandler(repo, &mockEventBus{}, nil, testLogger())

		_, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
			BuyerID:  "buyer-1",
			Quantity: 1,
		})

		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("propagates settlement errors", func(t *testing.T) {
		repo := &mockRepository{
			settleFn: func(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error) {
				return domain.Order{}, domain.ErrInsufficientStock
			},
		}
		handler := commands.NewPlaceOrderCommandHandler(repo, &mockEventBus{}, nil, testLogger())

		_, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
			BuyerID:  "buyer-1",
			CropID:   "crop-1",
			Quantity: 100,
		})

		if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Errorf("expected ErrInsufficientStock, got %v", err)
		}
	})

	t.Run("drops the listing cache after settlement", func(t *testing.T) {
		want := pendingOrder()
		repo := &mockRepository{
			settleFn: func(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error) {
				return want, nil
			},
		}
		listings := &mockInvalidator{}
		handler := commands.NewPlaceOrderCommandHandler(repo, &mockEventBus{}, listings, testLogger())

		if _, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
			BuyerID:  "buyer-1",
			CropID:   "crop-1",
			Quantity: 2,
		}); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if listings.calls != 1 {
			t.Errorf("expected 1 cache invalidation, got %d", listings.calls)
		}
	})

	t.Run("returns order even when publish fails", func(t *testing.T) {
		want := pendingOrder()
		repo := &mockRepository{
			settleFn: func(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error) {
				return want, nil
			},
		}
		events := &mockEventBus{
			placedFn: func(ctx context.Context, order domain.Order) error {
				return errors.New("broker down")
			},
		}
		handler := commands.NewPlaceOrderCommandHandler(repo, events, nil, testLogger())

		order, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
			BuyerID:  "buyer-1",
			CropID:   "crop-1",
			Quantity: 2,
		})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if order.ID != want.ID {
			t.Errorf("expected order %q, got %q", want.ID, order.ID)
		}
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("farmer completes pending order", func(t *testing.T) {
		var gotFrom, gotTo domain.Status
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id string) (domain.Order, error) {
				return pendingOrder(), nil
			},
			updateStatusFn: func(ctx context.Context, id string, from, to domain.Status) error {
				gotFrom, gotTo = from, to
				return nil
			},
		}
		handler := commands.NewUpdateStatusCommandHandler(repo, &mockEventBus{}, testLogger())

		order, err := handler.Handle(context.Background(), commands.UpdateStatusCommand{
			OrderID: "order-1",
			ActorID: "farmer-1",
			Next:    domain.StatusCompleted,
		})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if order.Status != domain.StatusCompleted {
			t.Errorf("expected Completed, got %q", order.Status)
		}
		if gotFrom != domain.StatusPending || gotTo != domain.StatusCompleted {
			t.Errorf("conditional update called with (%q, %q)", gotFrom, gotTo)
		}
	})

	t.Run("farmer cancels pending order", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id string) (domain.Order, error) {
				return pendingOrder(), nil
			},
		}
		handler := commands.NewUpdateStatusCommandHandler(repo, &mockEventBus{}, testLogger())

		order, err := handler.Handle(context.Background(), commands.UpdateStatusCommand{
			OrderID: "order-1",
			ActorID: "farmer-1",
			Next:    domain.StatusCancelled,
		})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if order.Status != domain.StatusCancelled {
			t.Errorf("expected Cancelled, got %q", order.Status)
		}
	})

	t.Run("rejects the buyer", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id string) (domain.Order, error) {
				return pendingOrder(), nil
			},
		}
		handler := commands.NewUpdateStatusCommandHandler(repo, &mockEventBus{}, testLogger())

		_, err := handler.Handle(context.Background(), commands.UpdateStatusCommand{
			OrderID: "order-1",
			ActorID: "buyer-1",
			Next:    domain.StatusCompleted,
		})

		if !errors.Is(err, ports.ErrNotAuthorized) {
			t.Errorf("expected ErrNotAuthorized, got %v", err)
		}
	})

	t.Run("rejects non-party actor", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id string) (domain.Order, error) {
				return pendingOrder(), nil
			},
		}
		handler := commands.NewUpdateStatusCommandHandler(repo, &mockEventBus{}, testLogger())

		_, err := handler.Handle(context.Background(), commands.UpdateStatusCommand{
			OrderID: "order-1",
			ActorID: "stranger",
			Next:    domain.StatusCompleted,
		})

		if !errors.Is(err, ports.ErrNotAuthorized) {
			t.Errorf("expected ErrNotAuthorized, got %v", err)
		}
	})

	t.Run("rejects transition out of terminal state", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id string) (domain.Order, error) {
				order := pendingOrder()
				order.Status = domain.StatusCompleted
				return order, nil
			},
		}
		handler := commands.NewUpdateStatusCommandHandler(repo, &mockEventBus{}, testLogger())

		_, err := handler.Handle(context.Background(), commands.UpdateStatusCommand{
			OrderID: "order-1",
			ActorID: "farmer-1",
			Next:    domain.StatusCancelled,
		})

		var invalid *domain.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Errorf("expected InvalidTransitionError, got %v", err)
		}
	})

	t.Run("surfaces conflict from conditional write", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id string) (domain.Order, error) {
				return pendingOrder(), nil
			},
			updateStatusFn: func(ctx context.Context, id string, from, to domain.Status) error {
				return ports.ErrConflict
			},
		}
		handler := commands.NewUpdateStatusCommandHandler(repo, &mockEventBus{}, testLogger())

		_, err := handler.Handle(context.Background(), commands.UpdateStatusCommand{
			OrderID: "order-1",
			ActorID: "farmer-1",
			Next:    domain.StatusCompleted,
		})

		if !errors.Is(err, ports.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})
}

func TestUpdatePayment(t *testing.T) {
	t.Run("buyer marks payment completed", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id string) (domain.Order, error) {
				return pendingOrder(), nil
			},
		}
		handler := commands.NewUpdatePaymentCommandHandler(repo, &mockEventBus{}, testLogger())

		order, err := handler.Handle(context.Background(), commands.UpdatePaymentCommand{
			OrderID: "order-1",
			ActorID: "buyer-1",
			Next:    domain.PaymentCompleted,
		})

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if order.PaymentStatus != domain.PaymentCompleted {
			t.Errorf("expected Completed, got %q", order.PaymentStatus)
		}
	})

	t.Run("rejects the farmer", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id string) (domain.Order, error) {
				return pendingOrder(), nil
			},
		}
		handler := commands.NewUpdatePaymentCommandHandler(repo, &mockEventBus{}, testLogger())

		_, err := handler.Handle(context.Background(), commands.UpdatePaymentCommand{
			OrderID: "order-1",
			ActorID: "farmer-1",
			Next:    domain.PaymentCompleted,
		})

		if !errors.Is(err, ports.ErrNotAuthorized) {
			t.Errorf("expected ErrNotAuthorized, got %v", err)
		}
	})

	t.Run("rejects transition out of terminal payment state", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id string) (domain.Order, error) {
				order := pendingOrder()
				order.PaymentStatus = domain.PaymentFailed
				return order, nil
			},
		}
		handler := commands.NewUpdatePaymentCommandHandler(repo, &mockEventBus{}, testLogger())

		_, err := handler.Handle(context.Background(), commands.UpdatePaymentCommand{
			OrderID: "order-1",
			ActorID: "buyer-1",
			Next:    domain.PaymentCompleted,
		})

		var invalid *domain.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Errorf("expected InvalidTransitionError, got %v", err)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		handler := commands.NewUpdatePaymentCommandHandler(&mockRepository{}, &mockEventBus{}, testLogger())

		_, err := handler.Handle(context.Background(), commands.UpdatePaymentCommand{
			OrderID: "missing",
			ActorID: "buyer-1",
			Next:    domain.PaymentCompleted,
		})

		if !errors.Is(err, ports.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
