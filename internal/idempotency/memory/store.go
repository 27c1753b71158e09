// Package memory keeps placement replays in a map, for tests and local runs
// where a lost replay on restart is acceptable.
package memory

import (
	"context"
	"sync"

	"github.com/agrochain/agrochain/internal/orders/ports"
)

type Store struct {
	mu      sync.RWMutex
	replays map[string]ports.StoredResponse
}

func NewStore() *Store {
	return &Store{replays: make(map[string]ports.StoredResponse)}
}

// Get returns the replay for a key, or nil when the key is unknown.
func (s *Store) Get(_ context.Context, key string) (*ports.StoredResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	replay, ok := s.replays[key]
	if !ok {
		return nil, nil
	}
	copy := replay
	return &copy, nil
}

// Save records the response of a settled placement, keeping the first write
// to match the postgres store's conflict behavior.
func (s *Store) Save(_ context.Context, key string, response ports.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.replays[key]; ok {
		return nil
	}
	s.replays[key] = response
	return nil
}
