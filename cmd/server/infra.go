package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/voicebook/internal/adapter/cache"
	"github.com/seu-repo/voicebook/internal/adapter/storage/memory"
	"github.com/seu-repo/voicebook/internal/adapter/storage/postgres"
	"github.com/seu-repo/voicebook/internal/adapter/storage/redisdoc"
	"github.com/seu-repo/voicebook/internal/adapter/vault"
	"github.com/seu-repo/voicebook/internal/ports"
	"github.com/seu-repo/voicebook/internal/service/health"
	"github.com/seu-repo/voicebook/pkg/config"
)

type infra struct {
	secrets    ports.SecretProvider
	redis      *redis.Client
	store      ports.DocumentStore
	cache      ports.Cache
	db         *gorm.DB
	commandLog ports.CommandLogRepository
	closers    []func() error
	log        *zap.Logger
}

func newInfra(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*infra, error) {
	in := &infra{log: logger}

	// Secrets
	var vaultSecrets *vault.SecretManager
	if cfg.Vault.Enabled {
		sm, err := vault.NewSecretManager(vault.Config{
			Address:  cfg.Vault.Address,
			Token:    cfg.Vault.Token,
			Mount:    cfg.Vault.Mount,
			CacheTTL: cfg.Vault.CacheTTL,
		}, logger)
		if err != nil {
			return nil, err
		}
		vaultSecrets = sm
		in.secrets = sm
		logger.Info("Secrets served from Vault", zap.String("address", cfg.Vault.Address))
	} else {
		in.secrets = vault.StaticSecrets{Gemini: cfg.Gemini.APIKey}
	}

	// Redis
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Successfully connected to Redis")
		in.redis = client
		in.closers = append(in.closers, client.Close)
	}

	// Document store
	switch cfg.Store.Driver {
	case "redis":
		in.store = redisdoc.NewStoreFromClient(in.redis, cfg.Store.KeyPrefix, logger)
	default:
		in.store = memory.NewStore(logger)
	}
	logger.Info("Document store ready", zap.String("driver", cfg.Store.Driver))

	// Cache
	if in.redis != nil {
		in.cache = cache.NewRedisCache(in.redis, cfg.Store.KeyPrefix+"cache:", logger)
	} else {
		local := cache.NewLocalCache(time.Minute, logger)
		in.cache = local
		in.closers = append(in.closers, local.Close)
	}

	// Command log
	if cfg.FeatureFlags.CommandLog {
		dbURL := cfg.Database.URL
		if dbURL == "" && vaultSecrets != nil {
			if url, err := vaultSecrets.DatabaseURL(ctx); err == nil {
				dbURL = url
			} else {
				logger.Warn("Database URL not found in Vault", zap.Error(err))
			}
		}
		if dbURL != "" {
			if err := in.openCommandLog(dbURL, cfg.Database, logger); err != nil {
				in.Close()
				return nil, err
			}
		} else {
			logger.Warn("Command log disabled: no database configured")
		}
	}

	return in, nil
}

func (in *infra) openCommandLog(url string, cfg config.DatabaseConfig, logger *zap.Logger) error {
	level := "silent"
	if cfg.LogQueries {
		level = "info"
	}
	db, err := postgres.NewConnection(url, postgres.PoolConfig{
		MaxIdleConns:    cfg.MaxIdleConns,
		MaxOpenConns:    cfg.MaxOpenConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		LogLevel:        level,
	}, logger)
	if err != nil {
		return err
	}
	in.closers = append(in.closers, func() error { return postgres.Close(db) })

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			return err
		}
	}
	in.db = db
	in.commandLog = postgres.NewCommandLogRepository(db, logger)
	return nil
}

// history is the repository behind the history endpoint, or nil.
func (in *infra) history() ports.CommandLogRepository {
	if in.commandLog == nil {
		return nil
	}
	return in.commandLog
}

func (in *infra) registerHealth(svc *health.Service) {
	if in.redis != nil {
		svc.RegisterPing("redis", true, func(ctx context.Context) error {
			return in.redis.Ping(ctx).Err()
		})
	}
	if in.db != nil {
		svc.RegisterPing("database", false, func(ctx context.Context) error {
			sqlDB, err := in.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}
}

// Close releases resources in reverse order of acquisition.
func (in *infra) Close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil {
			in.log.Warn("Error releasing resource", zap.Error(err))
		}
	}
	in.closers = nil
}
