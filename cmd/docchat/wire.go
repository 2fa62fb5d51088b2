package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/config"
	"github.com/kailas-cloud/docchat/internal/db"
	dbRedis "github.com/kailas-cloud/docchat/internal/db/redis"
	logpkg "github.com/kailas-cloud/docchat/internal/logger"
	"github.com/kailas-cloud/docchat/internal/metrics"
	secretrepo "github.com/kailas-cloud/docchat/internal/repository/secret"
	"github.com/kailas-cloud/docchat/internal/transport/azsearch"
	"github.com/kailas-cloud/docchat/internal/transport/keyvault"
	openaiEmb "github.com/kailas-cloud/docchat/internal/transport/openai"
	healthuc "github.com/kailas-cloud/docchat/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docchat/internal/usecase/search"
	settingsuc "github.com/kailas-cloud/docchat/internal/usecase/settings"
	"github.com/kailas-cloud/docchat/internal/version"
)

// app is the composition root shared by all subcommands.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	store    db.Store // nil unless the redis secret driver is used
	settings *settingsuc.Resolver
	embedder *openaiEmb.Embedder
	search   *searchuc.Service
	health   *healthuc.Service
}

func newApp(ctx context.Context, env string) (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Info("Starting docchat",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("secret_driver", cfg.Secrets.Driver),
	)

	metrics.Register()

	return buildApp(ctx, cfg, logger, nil)
}

// buildApp wires components from a loaded configuration.
// A non-nil factory replaces the one derived from cfg.Secrets.
func buildApp(
	ctx context.Context, cfg config.Config, logger *zap.Logger, factory settingsuc.StoreFactory,
) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	if factory == nil {
		var err error
		factory, a.store, err = secretStoreFactory(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	a.settings = settingsuc.New(cfg.Settings(), cfg.Secrets.Driver, factory, logger)

	a.embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		Settings: a.settings,
		Provider: "azure-openai",
		Logger:   logger,
	})
	searcher := azsearch.New(&azsearch.Config{
		Settings:   a.settings,
		APIVersion: cfg.Search.APIVersion,
		Logger:     logger,
	})

	a.search = searchuc.New(a.embedder, searcher, a.settings)

	// Pass nil interface (not typed nil pointer) when no database is used.
	var pinger healthuc.DBPinger
	if a.store != nil {
		pinger = a.store
	}
	a.health = healthuc.New(a.settings, pinger, a.embedder)

	return a, nil
}

// secretStoreFactory mirrors the configured driver. Key Vault clients are built
// lazily on first resolution; the redis driver connects eagerly so /health can ping it.
func secretStoreFactory(
	ctx context.Context, cfg config.Config, logger *zap.Logger,
) (settingsuc.StoreFactory, db.Store, error) {
	switch cfg.Secrets.Driver {
	case config.SecretDriverNone:
		return nil, nil, nil
	case config.SecretDriverEnv:
		return func(context.Context) (settingsuc.SecretStore, error) {
			return secretrepo.NewEnv(), nil
		}, nil, nil
	case config.SecretDriverAzureKeyVault:
		vault := cfg.Secrets.VaultName
		return func(context.Context) (settingsuc.SecretStore, error) {
			store, err := keyvault.New(vault, logger)
			if err != nil {
				return nil, err
			}
			return store, nil
		}, nil, nil
	case config.SecretDriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Secrets.Redis.Addrs,
			Password: cfg.Secrets.Redis.Password,
			DB:       cfg.Secrets.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create redis store: %w", err)
		}
		timeout := time.Duration(cfg.Secrets.Redis.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis not ready: %w", err)
		}
		logger.Info("Connected to secret database", zap.Strings("addrs", cfg.Secrets.Redis.Addrs))
		return func(context.Context) (settingsuc.SecretStore, error) {
			return secretrepo.New(store), nil
		}, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown secret driver %q", cfg.Secrets.Driver)
	}
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}
