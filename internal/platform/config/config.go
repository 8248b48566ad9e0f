// Package config は環境変数からアプリ全体の設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"user_backend/internal/platform/db"
	"user_backend/internal/platform/logging"
	infraredis "user_backend/internal/platform/redis"
)

// ストアのバックエンド
const (
	BackendGorm   = "gorm"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Server struct {
		Port               int      `env:"PORT" envDefault:"8080"`
		BasePath           string   `env:"BASE_PATH"`
		Mode               string   `env:"GIN_MODE" envDefault:"release"`
		CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	}

	Store struct {
		Backend string `env:"STORE_BACKEND" envDefault:"gorm"`
	}

	Log   logging.Config
	DB    db.Config
	Redis infraredis.Config
}

// Addr は listen アドレスを返します。
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Load は .env（存在すれば）と環境変数から設定を読み込みます。
func Load(envFiles ...string) (*Config, error) {
	// .env が無いのは正常（本番では環境変数を直接設定する）
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case BackendGorm, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}

	c.Server.BasePath = normalizeBasePath(c.Server.BasePath)
	return nil
}

// normalizeBasePath は "admin/" のような値を "/admin" に揃えます。
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
