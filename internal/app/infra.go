package app

import (
	"context"

	"github.com/baajur/users/internal/authz"
	"github.com/baajur/users/internal/cache"
	"github.com/baajur/users/internal/config"
	"github.com/baajur/users/internal/db"
	"github.com/baajur/users/internal/logger"
)

type Infra struct {
	DB         *db.DB
	RolesCache cache.Cache[[]authz.Role]
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.DatabaseDSN, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, err
	}

	if err := database.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	// Redis backs the roles cache when configured; single-node runs
	// fall back to the in-process LRU.
	var backend cache.Cache[[]authz.Role]
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		backend = cache.NewRedis[[]authz.Role](client, "roles:", 0)
		logger.Info("redis ready", nil)
	} else {
		backend, err = cache.NewMemory[[]authz.Role](cfg.RolesCacheSize)
		if err != nil {
			return nil, err
		}
	}

	return &Infra{
		DB:         database,
		RolesCache: backend,
	}, nil
}
