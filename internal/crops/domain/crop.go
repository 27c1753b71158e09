package domain

import (
	"errors"
	"strings"
	"time"
)

// Status captures the availability of a crop listing.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusSold      Status = "Sold"
)

// StatusFor derives the listing status from the remaining quantity. A crop is
// Sold exactly when nothing is left; the two fields never disagree.
func StatusFor(quantity int) Status {
	if quantity == 0 {
		return StatusSold
	}
	return StatusAvailable
}

// Crop is a farmer's listed quantity of produce at a unit price.
type Crop struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
	FarmerID   string    `json:"farmer_id"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate ensures the crop adheres to listing constraints.
func (c Crop) Validate() error {
	if len(strings.TrimSpace(c.Name)) < 2 {
		return errors.New("name must be at least 2 characters")
	}
	if c.Quantity < 0 {
		return errors.New("quantity must not be negative")
	}
	if c.PriceCents < 0 {
		return errors.New("price_cents must not be negative")
	}
	if c.FarmerID == "" {
		return errors.New("farmer_id is required")
	}
	if c.Status != StatusFor(c.Quantity) {
		return errors.New("status must match remaining quantity")
	}
	return nil
}

// FarmerInfo is the public identity attached to a listing.
type FarmerInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

// Listing is a crop expanded with its farmer's public identity, as shown to
// buyers browsing the marketplace.
type Listing struct {
	Crop
	Farmer FarmerInfo `json:"farmer"`
}
