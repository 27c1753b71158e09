// Package postgres persists placement responses keyed by the client's
// Idempotency-Key header, so a retried POST replays the original order
// instead of settling a second sale. Keys share the settlement database,
// which is what lets replay survive API restarts.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrochain/agrochain/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	selectReplay = `
		SELECT status_code, body, order_id
		FROM idempotency_keys
		WHERE key = $1
	`

	insertReplay = `
		INSERT INTO idempotency_keys (key, status_code, body, order_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO NOTHING
	`
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get loads the replay for a key, or nil when the key has never completed a
// placement.
func (s *Store) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	var replay ports.StoredResponse
	err := s.pool.QueryRow(ctx, selectReplay, key).Scan(
		&replay.StatusCode,
		&replay.Body,
		&replay.OrderID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load placement replay: %w", err)
	}

	return &replay, nil
}

// Save records the response of a settled placement. The first writer wins;
// a retry that raced past the Get check cannot overwrite the order the
// client was already shown.
func (s *Store) Save(ctx context.Context, key string, response ports.StoredResponse) error {
	_, err := s.pool.Exec(ctx, insertReplay,
		key,
		response.StatusCode,
		response.Body,
		response.OrderID,
	)
	if err != nil {
		return fmt.Errorf("store placement replay: %w", err)
	}

	return nil
}
