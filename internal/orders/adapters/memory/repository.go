package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	authports "github.com/agrochain/agrochain/internal/auth/ports"
	cropsdomain "github.com/agrochain/agrochain/internal/crops/domain"
	cropsports "github.com/agrochain/agrochain/internal/crops/ports"
	"github.com/agrochain/agrochain/internal/orders/domain"
	"github.com/agrochain/agrochain/internal/orders/ports"
)

// Repository is an in-memory order store backed by the in-memory crop and
// user repositories. Settlement serializes on a per-crop mutex, so two
// concurrent purchases of the same crop never both read the same stock level.
type Repository struct {
	crops cropsports.CropRepository
	users authports.UserRepository

	mu     sync.RWMutex
	orders map[string]domain.Order

	cropLocks sync.Map // crop ID -> *sync.Mutex
}

// NewRepository constructs an in-memory repository over the given crop and
// user stores.
func NewRepository(crops cropsports.CropRepository, users authports.UserRepository) *Repository {
	return &Repository{
		crops:  crops,
		users:  users,
		orders: make(map[string]domain.Order),
	}
}

func (r *Repository) cropLock(cropID string) *sync.Mutex {
	lock, _ := r.cropLocks.LoadOrStore(cropID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (r *Repository) Settle(ctx context.Context, cropID, buyerID string, quantity int) (domain.Order, error) {
	lock := r.cropLock(cropID)
	lock.Lock()
	defer lock.Unlock()

	crop, err := r.crops.GetByID(ctx, cropID)
	if err != nil {
		if errors.Is(err, cropsports.ErrNotFound) {
			return domain.Order{}, ports.ErrCropNotFound
		}
		return domain.Order{}, err
	}

	if err := domain.CheckPurchase(*crop, buyerID, quantity); err != nil {
		return domain.Order{}, err
	}

	order := domain.NewOrder(*crop, buyerID, quantity)

	updated := *crop
	updated.Quantity -= quantity
	updated.Status = cropsdomain.StatusFor(updated.Quantity)
	updated.UpdatedAt = order.CreatedAt
	if err := r.crops.Update(ctx, updated); err != nil {
		return domain.Order{}, err
	}

	r.mu.Lock()
	r.orders[order.ID] = order
	r.mu.Unlock()

	return order, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, ports.ErrNotFound
	}
	return order, nil
}

func (r *Repository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Detail, error) {
	return r.list(ctx, func(o domain.Order) (bool, string) {
		return o.BuyerID == buyerID, o.FarmerID
	})
}

func (r *Repository) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Detail, error) {
	return r.list(ctx, func(o domain.Order) (bool, string) {
		return o.FarmerID == farmerID, o.BuyerID
	})
}

func (r *Repository) list(ctx context.Context, match func(domain.Order) (bool, string)) ([]domain.Detail, error) {
	r.mu.RLock()
	matched := make([]domain.Order, 0)
	counterparties := make(map[string]string)
	for _, order := range r.orders {
		if ok, counterpartyID := match(order); ok {
			matched = append(matched, order)
			counterparties[order.ID] = counterpartyID
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	details := make([]domain.Detail, 0, len(matched))
	for _, order := range matched {
		detail := domain.Detail{Order: order}

		// Crop may have been deleted since the order was placed.
		if crop, err := r.crops.GetByID(ctx, order.CropID); err == nil {
			detail.Crop = crop
		}

		if user, err := r.users.GetByID(ctx, counterparties[order.ID]); err == nil {
			detail.Counterparty = domain.Party{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
			}
		}

		details = append(details, detail)
	}

	return details, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	if order.Status != from {
		return ports.ErrConflict
	}

	order.Status = to
	r.orders[id] = order
	return nil
}

func (r *Repository) UpdatePaymentStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	if order.PaymentStatus != from {
		return ports.ErrConflict
	}

	order.PaymentStatus = to
	r.orders[id] = order
	return nil
}
