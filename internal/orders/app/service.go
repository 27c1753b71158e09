package app

import (
	"context"
	"log/slog"

	"github.com/agrochain/agrochain/internal/orders/app/commands"
	"github.com/agrochain/agrochain/internal/orders/app/queries"
	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/orders/metrics"
	"github.com/agrochain/agrochain/internal/orders/ports"
)

// Service bundles the order use cases exposed over the API.
type Service struct {
	idemStore      ports.IdempotencyStore
	placeHandler   commands.PlaceOrderHandler
	statusHandler  *commands.UpdateStatusCommandHandler
	paymentHandler *commands.UpdatePaymentCommandHandler
	listHandler    *queries.ListOrdersQueryHandler
}

// NewService wires the command and query handlers, with placement wrapped in
// its observability decorator. listings may be nil when no cache is
// configured.
func NewService(
	repo ports.OrderRepository,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	listings ports.ListingInvalidator,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	placeHandler := commands.NewObservablePlaceOrderHandler(
		commands.NewPlaceOrderCommandHandler(repo, events, listings, logger),
		logger,
		metrics,
	)

	return &Service{
		idemStore:      idem,
		placeHandler:   placeHandler,
		statusHandler:  commands.NewUpdateStatusCommandHandler(repo, events, logger),
		paymentHandler: commands.NewUpdatePaymentCommandHandler(repo, events, logger),
		listHandler:    queries.NewListOrdersQueryHandler(repo),
	}
}

// PlaceOrderInput captures the payload for placing an order.
type PlaceOrderInput struct {
	CropID   string `json:"crop_id"`
	Quantity int    `json:"quantity"`
}

// PlaceOrder settles a purchase for the buyer.
func (s *Service) PlaceOrder(ctx context.Context, buyerID string, input PlaceOrderInput) (domain.Order, error) {
	return s.placeHandler.Handle(ctx, commands.PlaceOrderCommand{
		BuyerID:  buyerID,
		CropID:   input.CropID,
		Quantity: input.Quantity,
	})
}

// ListBuyerOrders returns the actor's purchase history.
func (s *Service) ListBuyerOrders(ctx context.Context, buyerID string) ([]domain.Detail, error) {
	return s.listHandler.HandleBuyer(ctx, queries.ListBuyerOrdersQuery{BuyerID: buyerID})
}

// ListFarmerOrders returns the orders received by the actor's listings.
func (s *Service) ListFarmerOrders(ctx context.Context, farmerID string) ([]domain.Detail, error) {
	return s.listHandler.HandleFarmer(ctx, queries.ListFarmerOrdersQuery{FarmerID: farmerID})
}

// UpdateStatus moves an order through its fulfilment state machine.
func (s *Service) UpdateStatus(ctx context.Context, orderID, actorID string, next domain.Status) (domain.Order, error) {
	return s.statusHandler.Handle(ctx, commands.UpdateStatusCommand{
		OrderID: orderID,
		ActorID: actorID,
		Next:    next,
	})
}

// UpdatePayment moves an order's payment state.
func (s *Service) UpdatePayment(ctx context.Context, orderID, actorID string, next domain.PaymentStatus) (domain.Order, error) {
	return s.paymentHandler.Handle(ctx, commands.UpdatePaymentCommand{
		OrderID: orderID,
		ActorID: actorID,
		Next:    next,
	})
}

// SaveIdempotentResponse stores a placement response for a client key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse returns a previously stored placement response, or
// nil when the key is unseen.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
