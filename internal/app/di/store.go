package di

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/config"
	"user_backend/internal/platform/db"
	infraredis "user_backend/internal/platform/redis"
)

// Store bundles the configured user repository with its health check and cleanup.
type Store struct {
	Users usecase.UserRepository
	Ping  func(ctx context.Context) error
	Close func() error
}

// NewStore opens the backend selected by STORE_BACKEND.
func NewStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	var (
		gdb *gorm.DB
		rdb *redis.Client
		err error
	)
	store := &Store{
		Ping:  func(context.Context) error { return nil },
		Close: func() error { return nil },
	}

	switch cfg.Store.Backend {
	case config.BackendGorm:
		gdb, err = db.OpenDB(cfg.DB)
		if err != nil {
			return nil, err
		}
		store.Ping = func(ctx context.Context) error { return db.Ping(ctx, gdb) }
		store.Close = func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
	case config.BackendRedis:
		rdb, err = infraredis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		store.Ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		store.Close = rdb.Close
	case config.BackendMemory:
		slog.Warn("using in-memory user store; data is lost on restart")
	}

	store.Users, err = NewUserRepository(cfg.Store.Backend, gdb, rdb, cfg.Redis.Namespace)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}
	slog.Info("user store ready", "backend", cfg.Store.Backend)
	return store, nil
}
