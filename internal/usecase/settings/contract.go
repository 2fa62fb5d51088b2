package settings

import "context"

// SecretStore reads secrets by name.
type SecretStore interface {
	// GetMany returns the values the store defines for names in a single batch.
	// Names the store does not define are absent from the result.
	GetMany(ctx context.Context, names []string) (map[string]string, error)
}

// StoreFactory constructs the secret store on first resolution.
type StoreFactory func(ctx context.Context) (SecretStore, error)
