package secret

import (
	"context"
	"fmt"
)

// KeyPrefix namespaces secret keys in Valkey/Redis.
const KeyPrefix = "docchat:secret:"

// kvStore is the consumer interface for secret reads (ISP).
type kvStore interface {
	MGet(ctx context.Context, keys []string) ([][]byte, error)
}

// Repo reads secrets stored as plain string keys under KeyPrefix.
type Repo struct {
	store kvStore
}

// New creates a Redis-backed secret repository.
func New(s kvStore) *Repo {
	return &Repo{store: s}
}

// GetMany fetches all names with a single MGET. Missing keys are left out of the result.
func (r *Repo) GetMany(ctx context.Context, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	if len(names) == 0 {
		return out, nil
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = KeyPrefix + n
	}

	vals, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get secrets: %w", err)
	}
	if len(vals) != len(names) {
		return nil, fmt.Errorf("get secrets: expected %d values, got %d", len(names), len(vals))
	}

	for i, v := range vals {
		if v == nil {
			continue
		}
		out[names[i]] = string(v)
	}
	return out, nil
}
