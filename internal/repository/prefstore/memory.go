package prefstore

import (
	"context"
	"sync"
)

// MemoryRepository is a map-backed Repository used in tests and for local
// development without a database.
type MemoryRepository struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string][]byte)}
}

func composite(userID, key string) string {
	return userID + "\x00" + key
}

func (r *MemoryRepository) Get(_ context.Context, userID, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[composite(userID, key)]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (r *MemoryRepository) Put(_ context.Context, userID, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	r.values[composite(userID, key)] = stored
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.values, composite(userID, key))
	return nil
}
