// Package redis はRedisクライアントの生成を提供します。
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/redis/go-redis/v9"
)

// Config はRedis接続設定です。
type Config struct {
	Host      string `env:"REDIS_HOST" envDefault:"localhost"`
	Port      string `env:"REDIS_PORT" envDefault:"6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	Namespace string `env:"REDIS_NAMESPACE" envDefault:"users"`
}

// Addr は host:port 形式のアドレスを返します。
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Options は go-redis のクライアントオプションに変換します。
func (c Config) Options() *redis.Options {
	return &redis.Options{
		Addr:     c.Addr(),
		Password: c.Password,
		DB:       c.DB,
	}
}

// NewRedisClient はクライアントを生成し、接続確認まで行います。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(cfg.Options())

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.Addr(), "error", err)
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr(), err)
	}

	slog.Info("Redis connection successful", "address", cfg.Addr(), "db", cfg.DB)
	return rdb, nil
}
