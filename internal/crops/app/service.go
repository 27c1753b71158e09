package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/agrochain/agrochain/internal/crops/domain"
	"github.com/agrochain/agrochain/internal/crops/ports"
	"github.com/google/uuid"
)

// Service bundles listing use cases for farmers and browsing buyers.
type Service struct {
	repo   ports.CropRepository
	cache  ports.ListingCache
	logger *slog.Logger
}

// NewService wires required dependencies. cache may be nil when disabled.
func NewService(repo ports.CropRepository, cache ports.ListingCache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// CreateCropInput captures the payload for listing a crop.
type CreateCropInput struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// CreateCrop lists a new crop owned by the calling farmer.
func (s *Service) CreateCrop(ctx context.Context, farmerID string, input CreateCropInput) (*domain.Crop, error) {
	if input.Quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	now := time.Now().UTC()
	crop := domain.Crop{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Quantity:   input.Quantity,
		PriceCents: input.PriceCents,
		FarmerID:   farmerID,
		Status:     domain.StatusAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := crop.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, crop); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	s.logger.InfoContext(ctx, "crop listed", "crop_id", crop.ID, "farmer_id", farmerID)

	return &crop, nil
}

// ListAvailable returns every crop buyers can currently purchase, serving
// from the cache when warm.
func (s *Service) ListAvailable(ctx context.Context) ([]domain.Listing, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	listings, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, listings); err != nil {
			s.logger.WarnContext(ctx, "failed to warm listing cache", "error", err)
		}
	}

	return listings, nil
}

// ListMine returns the calling farmer's crops, sold ones included.
func (s *Service) ListMine(ctx context.Context, farmerID string) ([]domain.Crop, error) {
	return s.repo.ListByFarmer(ctx, farmerID)
}

// UpdateCropInput carries a partial update; nil fields are left unchanged.
type UpdateCropInput struct {
	Name       *string `json:"name"`
	Quantity   *int    `json:"quantity"`
	PriceCents *int64  `json:"price_cents"`
}

// UpdateCrop applies a partial update to a crop owned by the caller. Status is
// always derived from quantity and cannot be set directly.
func (s *Service) UpdateCrop(ctx context.Context, farmerID, cropID string, input UpdateCropInput) (*domain.Crop, error) {
	crop, err := s.repo.GetByID(ctx, cropID)
	if err != nil {
		return nil, err
	}

	if crop.FarmerID != farmerID {
		return nil, ports.ErrNotOwner
	}

	if input.Name != nil {
		crop.Name = *input.Name
	}
	if input.Quantity != nil {
		crop.Quantity = *input.Quantity
	}
	if input.PriceCents != nil {
		crop.PriceCents = *input.PriceCents
	}
	crop.Status = domain.StatusFor(crop.Quantity)
	crop.UpdatedAt = time.Now().UTC()

	if err := crop.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, *crop); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)

	return crop, nil
}

// DeleteCrop removes a crop owned by the caller. Orders referencing the crop
// keep their frozen copy of farmer and price.
func (s *Service) DeleteCrop(ctx context.Context, farmerID, cropID string) error {
	crop, err := s.repo.GetByID(ctx, cropID)
	if err != nil {
		return err
	}

	if crop.FarmerID != farmerID {
		return ports.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, cropID); err != nil {
		return err
	}

	s.invalidateListings(ctx)
	s.logger.InfoContext(ctx, "crop deleted", "crop_id", cropID, "farmer_id", farmerID)

	return nil
}

func (s *Service) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate listing cache", "error", err)
	}
}
