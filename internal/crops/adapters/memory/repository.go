package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/agrochain/agrochain/internal/crops/domain"
	"github.com/agrochain/agrochain/internal/crops/ports"
)

// FarmerLookup resolves the public identity attached to listings. The orders
// and auth memory adapters both satisfy it in tests.
type FarmerLookup interface {
	LookupFarmer(ctx context.Context, farmerID string) (domain.FarmerInfo, bool)
}

// Repository provides an in-memory crop store for local development and tests.
type Repository struct {
	mu      sync.RWMutex
	crops   map[string]domain.Crop
	farmers FarmerLookup
}

// NewRepository constructs a new in-memory repository. farmers may be nil,
// in which case listings carry only the farmer ID.
func NewRepository(farmers FarmerLookup) *Repository {
	return &Repository{
		crops:   make(map[string]domain.Crop),
		farmers: farmers,
	}
}

// Create stores a new crop.
func (r *Repository) Create(_ context.Context, crop domain.Crop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.crops[crop.ID] = crop
	return nil
}

// GetByID fetches a single crop by identifier.
func (r *Repository) GetByID(_ context.Context, id string) (*domain.Crop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	crop, ok := r.crops[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := crop
	return &copy, nil
}

// ListAvailable returns every available crop, oldest first, expanded with the
// farmer identity when a lookup is configured.
func (r *Repository) ListAvailable(ctx context.Context) ([]domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := []domain.Listing{}
	for _, crop := range r.crops {
		if crop.Status != domain.StatusAvailable {
			continue
		}

		listing := domain.Listing{Crop: crop, Farmer: domain.FarmerInfo{ID: crop.FarmerID}}
		if r.farmers != nil {
			if info, ok := r.farmers.LookupFarmer(ctx, crop.FarmerID); ok {
				listing.Farmer = info
			}
		}
		listings = append(listings, listing)
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.Before(listings[j].CreatedAt)
	})

	return listings, nil
}

// ListByFarmer returns all crops owned by the farmer, oldest first.
func (r *Repository) ListByFarmer(_ context.Context, farmerID string) ([]domain.Crop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	crops := []domain.Crop{}
	for _, crop := range r.crops {
		if crop.FarmerID == farmerID {
			crops = append(crops, crop)
		}
	}

	sort.Slice(crops, func(i, j int) bool {
		return crops[i].CreatedAt.Before(crops[j].CreatedAt)
	})

	return crops, nil
}

// Update replaces a stored crop.
func (r *Repository) Update(_ context.Context, crop domain.Crop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.crops[crop.ID]; !ok {
		return ports.ErrNotFound
	}
	r.crops[crop.ID] = crop
	return nil
}

// Delete removes a crop.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.crops[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.crops, id)
	return nil
}
