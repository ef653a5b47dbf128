package storage

import (
	"sync"
	"time"

	"github.com/rif/cache2go"
)

// ReadThroughTTL bounds how long another instance's write can go unseen.
const ReadThroughTTL = 30 * time.Second

// readThrough caches loaded values. A load that overlaps a write or a
// remove is returned but never cached, so a removed record cannot come back.
type readThrough struct {
	cache *cache2go.Cache
	ttl   time.Duration
	now   func() time.Time
	gen   uint64
	sync.RWMutex
}

type cached struct {
	value string
	at    time.Time
}

func newReadThrough(size int, ttl time.Duration) *readThrough {
	// ttl is checked on read, see Memory
	return &readThrough{cache: cache2go.New(size, 0), ttl: ttl, now: time.Now}
}

func (rt *readThrough) lookup(key string) (string, bool) {
	v, ok := rt.cache.Get(key)
	if !ok {
		return "", false
	}
	c := v.(cached)
	if rt.now().Sub(c.at) > rt.ttl {
		return "", false
	}
	return c.value, true
}

func (rt *readThrough) get(key string, load func() (string, error)) (string, error) {
	rt.RLock()
	if v, ok := rt.lookup(key); ok {
		rt.RUnlock()
		return v, nil
	}
	gen := rt.gen
	rt.RUnlock()

	v, err := load()
	if err != nil {
		return "", err
	}
	rt.Lock()
	if rt.gen == gen {
		rt.cache.Set(key, cached{value: v, at: rt.now()})
	}
	rt.Unlock()
	return v, nil
}

func (rt *readThrough) set(key, value string) {
	rt.Lock()
	defer rt.Unlock()
	rt.gen++
	rt.cache.Set(key, cached{value: value, at: rt.now()})
}

func (rt *readThrough) forget(key string) {
	rt.Lock()
	defer rt.Unlock()
	rt.gen++
	rt.cache.Delete(key)
}
