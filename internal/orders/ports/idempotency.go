package ports

import "context"

// StoredResponse is a previously returned order placement response, replayed
// when a client retries with the same idempotency key.
type StoredResponse struct {
	StatusCode int
	Body       []byte
	OrderID    string
}

// IdempotencyStore remembers placement responses by client-supplied key.
// Get returns (nil, nil) on a miss.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, response StoredResponse) error
}
