package settings

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/metrics"
)

// Resolver produces the process-wide Settings: file configuration overwritten
// once by secret-store values. The first successful Resolve is cached for the
// lifetime of the Resolver; failures are not cached.
type Resolver struct {
	base    domain.Settings
	driver  string
	factory StoreFactory
	logger  *zap.Logger

	mu        sync.Mutex
	resolved  bool
	current   domain.Settings
	overrides []string
}

// New creates a Resolver. factory may be nil, in which case no secret store is consulted.
func New(base domain.Settings, driver string, factory StoreFactory, logger *zap.Logger) *Resolver {
	return &Resolver{
		base:    base,
		driver:  driver,
		factory: factory,
		logger:  logger,
	}
}

// Resolve returns the resolved settings, contacting the secret store only on the
// first successful call. Concurrent first callers wait for a single resolution.
func (r *Resolver) Resolve(ctx context.Context) (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved {
		return r.current, nil
	}

	s := r.base
	var overrides []string

	if r.factory != nil {
		values, err := r.fetch(ctx)
		if err != nil {
			metrics.SecretFetchTotal.WithLabelValues(r.driver, "error").Inc()
			return domain.Settings{}, err
		}
		metrics.SecretFetchTotal.WithLabelValues(r.driver, "success").Inc()

		for _, key := range domain.SettingKeys() {
			if v, ok := values[domain.SecretName(key)]; ok {
				s.Set(key, v)
				overrides = append(overrides, key)
			}
		}
	}

	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("resolve settings: %w", err)
	}

	r.current = s
	r.overrides = overrides
	r.resolved = true

	r.logger.Info("Settings resolved",
		zap.String("secret_driver", r.driver),
		zap.Strings("overridden_keys", overrides),
		zap.String("search_index", s.SearchIndex),
		zap.String("embeddings_deployment", s.EmbeddingsDeployment),
	)

	return s, nil
}

func (r *Resolver) fetch(ctx context.Context) (map[string]string, error) {
	store, err := r.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s store: %w", domain.ErrSecretStore, r.driver, err)
	}

	keys := domain.SettingKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = domain.SecretName(k)
	}

	values, err := store.GetMany(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch secrets: %w", domain.ErrSecretStore, err)
	}
	return values, nil
}

// Overrides returns the setting keys that were overwritten by the secret store.
// Empty until the first successful Resolve.
func (r *Resolver) Overrides() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.overrides))
	copy(out, r.overrides)
	sort.Strings(out)
	return out
}

// HealthCheck reports whether settings can be resolved.
func (r *Resolver) HealthCheck(ctx context.Context) error {
	if _, err := r.Resolve(ctx); err != nil {
		return err
	}
	return nil
}
