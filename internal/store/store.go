// Package store persists the set of links that have already been published.
package store

import (
	"context"
	"fmt"

	"github.com/nDmitry/rssposter/internal/config"
	"github.com/nDmitry/rssposter/internal/entity"
)

// Store defines the interface for keeping posted links between runs
type Store interface {
	// Load returns the stored links.
	// A missing or unreadable location yields an empty set, never an error.
	Load(ctx context.Context) entity.PostedSet

	// Save replaces the stored links with posted.
	// On failure the previously stored links stay intact.
	Save(ctx context.Context, posted entity.PostedSet) error

	// Close releases any resources used by the store
	Close() error
}

// Open creates the store selected by the configuration
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		return NewFileStore(cfg.StorageFile), nil
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisKey)
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.StoreDSN)
	case config.BackendPostgres:
		return OpenPostgres(ctx, cfg.StoreDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
