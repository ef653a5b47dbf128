package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rif/cache2go"
)

// Memory keeps partitions in an LRU cache; idle clients expire after ttl.
// Expiry is checked on access: cache2go's own ttl runs a cleanup goroutine
// that spins while the oldest entry is still fresh.
type Memory struct {
	cache *cache2go.Cache
	ttl   time.Duration
	now   func() time.Time
	sync.Mutex
}

type partition struct {
	items   map[string]string
	touched time.Time
}

func NewMemory(maxClients int, ttl time.Duration) *Memory {
	if maxClients <= 0 {
		maxClients = 1000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Memory{cache: cache2go.New(maxClients, 0), ttl: ttl, now: time.Now}
}

func (m *Memory) items(client string) map[string]string {
	v, ok := m.cache.Get(client)
	if !ok {
		return nil
	}
	p := v.(*partition)
	now := m.now()
	if now.Sub(p.touched) > m.ttl {
		m.cache.Delete(client)
		return nil
	}
	p.touched = now
	return p.items
}

func (m *Memory) Get(_ context.Context, client, key string) (string, error) {
	m.Lock()
	defer m.Unlock()
	value, ok := m.items(client)[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(_ context.Context, client, key, value string) error {
	m.Lock()
	defer m.Unlock()
	items := m.items(client)
	if items == nil {
		items = make(map[string]string)
	}
	items[key] = value
	m.cache.Set(client, &partition{items: items, touched: m.now()})
	return nil
}

func (m *Memory) Remove(_ context.Context, client, key string) error {
	m.Lock()
	defer m.Unlock()
	items := m.items(client)
	if items == nil {
		return nil
	}
	delete(items, key)
	if len(items) == 0 {
		m.cache.Delete(client)
	}
	return nil
}

func (m *Memory) Close() error { return nil }
