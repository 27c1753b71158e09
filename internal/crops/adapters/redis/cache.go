// Package redis caches the available-crops listing, the hottest read in the
// marketplace. Writes that touch crop availability invalidate the key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/agrochain/agrochain/internal/crops/domain"
	"github.com/redis/go-redis/v9"
)

const listingsKey = "crops:available"

// TTL bounds staleness if an invalidation is ever missed.
var listingsTTL = 5 * time.Minute

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get returns the cached listing, or nil on a miss.
func (c *Cache) Get(ctx context.Context) ([]domain.Listing, error) {
	raw, err := c.client.Get(ctx, listingsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listings from cache: %w", err)
	}

	var listings []domain.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, fmt.Errorf("decode cached listings: %w", err)
	}

	return listings, nil
}

// Set replaces the cached listing.
func (c *Cache) Set(ctx context.Context, listings []domain.Listing) error {
	raw, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("encode listings: %w", err)
	}

	if err := c.client.Set(ctx, listingsKey, raw, listingsTTL).Err(); err != nil {
		return fmt.Errorf("set listings in cache: %w", err)
	}

	return nil
}

// Invalidate drops the cached listing.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, listingsKey).Err(); err != nil {
		return fmt.Errorf("invalidate listings cache: %w", err)
	}
	return nil
}
