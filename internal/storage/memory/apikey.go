package memory

import (
	"context"
	"sync"

	"github.com/xenking/stockroom/internal/domain/auth"
)

var _ auth.Repository = (*APIKeyRepository)(nil)

// APIKeyRepository holds API keys by hash.
type APIKeyRepository struct {
	mu   sync.RWMutex
	keys map[string]*auth.APIKeyInfo
}

// NewAPIKeyRepository returns a repository holding keys.
func NewAPIKeyRepository(keys ...*auth.APIKeyInfo) *APIKeyRepository {
	r := &APIKeyRepository{keys: make(map[string]*auth.APIKeyInfo, len(keys))}
	for _, k := range keys {
		r.Add(k)
	}
	return r
}

// Add registers k, replacing any key with the same hash.
func (r *APIKeyRepository) Add(k *auth.APIKeyInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[k.KeyHash] = k
}

// FindByHash looks up a key by its HMAC-SHA256 hash.
// Returns auth.ErrKeyNotFound when no matching key exists.
func (r *APIKeyRepository) FindByHash(_ context.Context, hash string) (*auth.APIKeyInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k, ok := r.keys[hash]
	if !ok {
		return nil, auth.ErrKeyNotFound
	}
	return k, nil
}
