// Package di provides dependency injection factories for creating application components.
package di

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/adapters"
	"user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/config"
)

// NewUserRepository creates a UserRepository implementation for the given backend.
// The gorm backend requires db and the redis backend requires rdb.
func NewUserRepository(backend string, db *gorm.DB, rdb *redis.Client, namespace string) (usecase.UserRepository, error) {
	switch backend {
	case config.BackendGorm:
		if db == nil {
			return nil, errors.New("gorm backend requires a database connection")
		}
		return adapters.NewUserGorm(db), nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, errors.New("redis backend requires a redis client")
		}
		return adapters.NewUserRedis(rdb, namespace), nil
	case config.BackendMemory:
		return adapters.NewUserMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", backend)
	}
}
