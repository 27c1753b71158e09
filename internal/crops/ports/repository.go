package ports

import (
	"context"
	"errors"

	"github.com/agrochain/agrochain/internal/crops/domain"
)

// CropRepository exposes persistence operations required by the crops service.
type CropRepository interface {
	Create(ctx context.Context, crop domain.Crop) error
	GetByID(ctx context.Context, id string) (*domain.Crop, error)
	ListAvailable(ctx context.Context) ([]domain.Listing, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]domain.Crop, error)
	Update(ctx context.Context, crop domain.Crop) error
	Delete(ctx context.Context, id string) error
}

// ListingCache holds the available-crops listing between reads. Get returns
// nil with no error on a cache miss.
type ListingCache interface {
	Get(ctx context.Context) ([]domain.Listing, error)
	Set(ctx context.Context, listings []domain.Listing) error
	Invalidate(ctx context.Context) error
}

var (
	// ErrNotFound is returned when the requested crop does not exist.
	ErrNotFound = errors.New("crop not found")

	// ErrNotOwner is returned when a caller mutates a crop they do not own.
	ErrNotOwner = errors.New("caller does not own this crop")
)
