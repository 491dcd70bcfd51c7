package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/richardliu001/point-service/internal/config"
	"github.com/richardliu001/point-service/internal/repo"
	"go.uber.org/zap"
)

// openStores builds the balance and history stores selected by cfg. The returned
// func releases whatever connections were opened.
func openStores(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (repo.PointStore, repo.HistoryStore, func(), error) {
	var (
		points    repo.PointStore
		histories repo.HistoryStore
		closers   []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		points, histories = repo.NewMemoryPointStore(), repo.NewMemoryHistoryStore()
	default:
		gdb, err := repo.OpenGorm(cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open %s: %w", cfg.Store.Driver, err)
		}
		if sqlDB, err := gdb.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
		store := repo.NewGormStore(gdb)
		if err := store.Migrate(); err != nil {
			closeAll()
			return nil, nil, nil, fmt.Errorf("auto-migrate: %w", err)
		}
		points, histories = store, store
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			closeAll()
			return nil, nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		points = repo.NewCachedPointStore(points, rdb, cfg.Redis.TTL, log)
	}
	return points, histories, closeAll, nil
}
