package domain_test

import (
	"testing"
	"time"

	"github.com/agrochain/agrochain/internal/crops/domain"
)

func validCrop() domain.Crop {
	now := time.Now().UTC()
	return domain.Crop{
		ID:         "crop-1",
		Name:       "Wheat",
		Quantity:   10,
		PriceCents: 2500,
		FarmerID:   "farmer-1",
		Status:     domain.StatusAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestStatusFor(t *testing.T) {
	if got := domain.StatusFor(0); got != domain.StatusSold {
		t.Errorf("StatusFor(0) = %q, want Sold", got)
	}
	if got := domain.StatusFor(1); got != domain.StatusAvailable {
		t.Errorf("StatusFor(1) = %q, want Available", got)
	}
}

func TestCropValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Crop)
		wantErr bool
	}{
		{name: "valid crop"},
		{
			name: "sold at zero quantity",
			mutate: func(c *domain.Crop) {
				c.Quantity = 0
				c.Status = domain.StatusSold
			},
		},
		{
			name:    "name too short",
			mutate:  func(c *domain.Crop) { c.Name = "W" },
			wantErr: true,
		},
		{
			name:    "negative quantity",
			mutate:  func(c *domain.Crop) { c.Quantity = -1 },
			wantErr: true,
		},
		{
			name:    "negative price",
			mutate:  func(c *domain.Crop) { c.PriceCents = -100 },
			wantErr: true,
		},
		{
			name:    "missing farmer",
			mutate:  func(c *domain.Crop) { c.FarmerID = "" },
			wantErr: true,
		},
		{
			name:    "status contradicts quantity",
			mutate:  func(c *domain.Crop) { c.Status = domain.StatusSold },
			wantErr: true,
		},
		{
			name: "available at zero quantity",
			mutate: func(c *domain.Crop) {
				c.Quantity = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crop := validCrop()
			if tt.mutate != nil {
				tt.mutate(&crop)
			}

			err := crop.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
