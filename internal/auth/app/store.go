package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/internal/auth/store/drivers/memory"
	redisdrv "github.com/aussiebroadwan/registrar/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/registrar/internal/auth/store/drivers/sqlite"
)

// OpenStore connects the configured client store and brings its schema up
// to date.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger) (store.Store, error) {
	var (
		db  store.Store
		err error
	)

	switch cfg.ClientStore {
	case StoreSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	case StoreRedis:
		db, err = redisdrv.NewStore(ctx, redisdrv.Config{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	case StoreMemory:
		db = memory.NewStore()
		logger.Warn("using in-memory client store, registrations are lost on restart")
	default:
		return nil, fmt.Errorf("unknown client store %q", cfg.ClientStore)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.ClientStore, err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("client store ready", "driver", cfg.ClientStore)
	return db, nil
}
