package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS client_storage (
	client     text NOT NULL,
	key        text NOT NULL,
	value      text NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (client, key)
)`

type item struct {
	Client    string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Postgres stores partitions in the client_storage table and keeps recently
// read values in a short lived cache.
type Postgres struct {
	db    *pgxpool.Pool
	cache *readThrough
	// serializes writes so the cache follows the table
	sync.Mutex
}

func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	db, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create client_storage: %w", err)
	}
	return &Postgres{
		db:    db,
		cache: newReadThrough(1000, ReadThroughTTL),
	}, nil
}

func cacheKey(client, key string) string { return client + "\x00" + key }

func (p *Postgres) Get(ctx context.Context, client, key string) (string, error) {
	return p.cache.get(cacheKey(client, key), func() (string, error) {
		var it item
		if err := pgxscan.Get(
			ctx, p.db, &it, `SELECT * FROM client_storage WHERE client=$1 AND key=$2`, client, key,
		); err != nil {
			if pgxscan.NotFound(err) {
				return "", ErrNotFound
			}
			slog.Error("Failed to get item: "+err.Error(), slog.String("key", key))
			return "", err
		}
		return it.Value, nil
	})
}

func (p *Postgres) Set(ctx context.Context, client, key, value string) error {
	p.Lock()
	defer p.Unlock()
	if _, err := p.db.Exec(ctx,
		`insert into client_storage (client, key, value) values ($1, $2, $3)
		 on conflict (client, key) do update set value = excluded.value, updated_at = now()`,
		client, key, value,
	); err != nil {
		p.cache.forget(cacheKey(client, key))
		return fmt.Errorf("set %s: %w", key, err)
	}
	p.cache.set(cacheKey(client, key), value)
	return nil
}

// Remove deletes the row before dropping the cache entry; a read that
// overlaps either step is not cached.
func (p *Postgres) Remove(ctx context.Context, client, key string) error {
	p.Lock()
	defer p.Unlock()
	defer p.cache.forget(cacheKey(client, key))
	if _, err := p.db.Exec(ctx, `delete from client_storage where client=$1 and key=$2`, client, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}
