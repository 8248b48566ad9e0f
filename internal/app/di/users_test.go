package di

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"user_backend/internal/feature/users/adapters"
	"user_backend/internal/platform/config"
)

func TestNewUserRepository(t *testing.T) {
	t.Parallel()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	// コマンドは送信されないので接続先は存在しなくてよい
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = rdb.Close() })

	t.Run("gorm", func(t *testing.T) {
		repo, err := NewUserRepository(config.BackendGorm, gdb, nil, "")
		require.NoError(t, err)
		assert.NotNil(t, repo)
	})

	t.Run("redis", func(t *testing.T) {
		repo, err := NewUserRepository(config.BackendRedis, nil, rdb, "users")
		require.NoError(t, err)
		assert.IsType(t, &adapters.UserRedis{}, repo)
	})

	t.Run("memory", func(t *testing.T) {
		repo, err := NewUserRepository(config.BackendMemory, nil, nil, "")
		require.NoError(t, err)
		assert.NotNil(t, repo)
	})

	t.Run("missing connections", func(t *testing.T) {
		_, err := NewUserRepository(config.BackendGorm, nil, rdb, "")
		assert.Error(t, err)
		_, err = NewUserRepository(config.BackendRedis, gdb, nil, "")
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewUserRepository("mongo", gdb, rdb, "")
		assert.ErrorContains(t, err, "mongo")
	})
}

func TestNewStore_Memory(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Store.Backend = config.BackendMemory

	store, err := NewStore(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotNil(t, store.Users)
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}

// TestNewStore_SQLite はSQLiteバックエンドでマイグレーション済みのストアが使えることを検証します。
func TestNewStore_SQLite(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Store.Backend = config.BackendGorm
	cfg.DB.Driver = "sqlite"
	cfg.DB.Path = "file::memory:"
	cfg.DB.RunMigrations = true

	store, err := NewStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	assert.NoError(t, store.Ping(ctx))
	users, err := store.Users.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
