// Package db はGORMによるデータベース接続を提供します。
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"user_backend/internal/feature/users/domain/entity"
)

// サポートするドライバー
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// retryInterval は接続リトライの間隔です。
var retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	Driver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	Path     string `env:"DB_PATH" envDefault:"./users.db"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone string `env:"DB_TIMEZONE" envDefault:"UTC"`

	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"60s"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	LogSQL         bool          `env:"DB_LOG_SQL" envDefault:"false"`
}

// Opener はDSNからGORM接続を開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse db config: %w", err)
	}
	return cfg, nil
}

// BuildDSN はドライバーに応じた接続文字列を生成します。
// SQLite の場合はファイルパスをそのまま返します。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode, cfg.TimeZone)
	}
	return cfg.Path
}

// Dialector はドライバー名とDSNからGORMのDialectorを生成します。
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// NewOpener は設定に対応するOpenerを返します。
// 一意制約違反を gorm.ErrDuplicatedKey として扱えるよう TranslateError を有効にします。
func NewOpener(cfg Config) (Opener, error) {
	if _, err := Dialector(cfg.Driver, ""); err != nil {
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.LogSQL {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	return func(dsn string) (*gorm.DB, error) {
		dialector, err := Dialector(cfg.Driver, dsn)
		if err != nil {
			return nil, err
		}
		return gorm.Open(dialector, &gorm.Config{
			TranslateError: true,
			Logger:         gormLogger,
		})
	}, nil
}

// ConnectWithRetry は timeout が経過するまで一定間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(min(retryInterval, remaining))
	}
}

// OpenDB は設定に従って接続し、必要に応じてマイグレーションを実行します。
func OpenDB(cfg Config) (*gorm.DB, error) {
	open, err := NewOpener(cfg)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, open)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		// SQLite は書き込みが単一接続に限られるため接続数を1に絞る
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		db.Exec("PRAGMA journal_mode = WAL;")
		db.Exec("PRAGMA foreign_keys = ON;")
		slog.Info("USING_SQLITE", "path", cfg.Path)
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate はテーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.User{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Ping はデータベースへの疎通を確認します。
func Ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database is not configured")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
