// Package storage keeps per-client key/value partitions, the server-side
// counterpart of a browser's local storage. A client is identified by an
// opaque id; keys and values are plain strings.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trackifyr/config"
)

var ErrNotFound = errors.New("storage: key not found")

type Store interface {
	Get(ctx context.Context, client, key string) (string, error)
	Set(ctx context.Context, client, key, value string) error
	Remove(ctx context.Context, client, key string) error
	Close() error
}

// Open returns the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemory(cfg.MaxClients, cfg.IdleTTL), nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.Path)
	case "postgres":
		return OpenPostgres(ctx, cfg.DatabaseURL)
	case "redis":
		return OpenRedis(ctx, cfg)
	}
	return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
}

// Partition binds a Store to a single client.
type Partition struct {
	store  Store
	client string
}

func NewPartition(store Store, client string) *Partition {
	return &Partition{store: store, client: client}
}

func (p *Partition) Client() string { return p.client }

func (p *Partition) GetItem(ctx context.Context, key string) (string, error) {
	return p.store.Get(ctx, p.client, key)
}

func (p *Partition) SetItem(ctx context.Context, key, value string) error {
	return p.store.Set(ctx, p.client, key, value)
}

func (p *Partition) RemoveItem(ctx context.Context, key string) error {
	return p.store.Remove(ctx, p.client, key)
}
