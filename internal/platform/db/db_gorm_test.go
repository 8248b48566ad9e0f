package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/domain/entity"
)

// shortRetry はテスト中だけリトライ間隔を短くします。
func shortRetry(t *testing.T) {
	t.Helper()
	prev := retryInterval
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = prev })
}

// TestBuildDSN_Postgres はPostgreSQL用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_Postgres(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Driver:   DriverPostgres,
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}

	expected := "host=localhost user=testuser password=testpass dbname=testdb port=5432 sslmode=disable TimeZone=UTC"
	assert.Equal(t, expected, BuildDSN(cfg))
}

// TestBuildDSN_SQLite はSQLiteではファイルパスがそのままDSNになることを検証します。
func TestBuildDSN_SQLite(t *testing.T) {
	t.Parallel()

	cfg := Config{Driver: DriverSQLite, Path: "/tmp/users.db", Host: "ignored"}
	assert.Equal(t, "/tmp/users.db", BuildDSN(cfg))
}

func TestDialector(t *testing.T) {
	t.Parallel()

	d, err := Dialector(DriverSQLite, ":memory:")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector(DriverPostgres, "host=localhost")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector("mysql", "")
	assert.Error(t, err)
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attempts)
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// retryInterval を書き換えるため並列実行しない
	shortRetry(t)

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attempts)
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	shortRetry(t)

	attempts := 0
	cause := errors.New("connection refused")
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return nil, cause
	}

	_, err := ConnectWithRetry("test-dsn", 50*time.Millisecond, opener)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.GreaterOrEqual(t, attempts, 2)
}

// TestLoadConfigFromEnv は環境変数からデータベース設定が正しく読み込まれることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	// 環境変数を変更するため並列実行しない
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_CONNECT_TIMEOUT", "5s")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "envuser", cfg.User)
	assert.Equal(t, "envpass", cfg.Password)
	assert.Equal(t, "envdb", cfg.Name)
	assert.Equal(t, "envhost", cfg.Host)
	assert.Equal(t, "5433", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, "disable", cfg.SSLMode)
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_PATH", "DB_CONNECT_TIMEOUT", "RUN_MIGRATIONS", "DB_LOG_SQL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "./users.db", cfg.Path)
	assert.Equal(t, 60*time.Second, cfg.ConnectTimeout)
	assert.True(t, cfg.RunMigrations)
	assert.False(t, cfg.LogSQL)
}

func TestNewOpener_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := NewOpener(Config{Driver: "oracle"})
	assert.Error(t, err)
}

// TestOpenDB_SQLiteMemory はSQLiteのインメモリDBに接続しマイグレーションできることを検証します。
func TestOpenDB_SQLiteMemory(t *testing.T) {
	t.Parallel()

	db, err := OpenDB(Config{
		Driver:         DriverSQLite,
		Path:           "file::memory:",
		ConnectTimeout: time.Second,
		RunMigrations:  true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.True(t, db.Migrator().HasTable(&entity.User{}))
	assert.NoError(t, Ping(context.Background(), db))
}

func TestPing_NilDB(t *testing.T) {
	t.Parallel()

	assert.Error(t, Ping(context.Background(), nil))
}
