package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Registry holds one Tracker per client. Trackers nobody has touched for
// longer than idle are dropped after a summary pass.
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
	seen     map[string]time.Time
	keep     int
	idle     time.Duration
	now      func() time.Time
}

func NewRegistry(keep int, idle time.Duration) *Registry {
	if idle <= 0 {
		idle = 24 * time.Hour
	}
	return &Registry{
		trackers: make(map[string]*Tracker),
		seen:     make(map[string]time.Time),
		keep:     keep,
		idle:     idle,
		now:      time.Now,
	}
}

// For returns the client's tracker, creating it on first use.
func (r *Registry) For(client string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trackers[client]
	if !ok {
		t = NewTracker(r.keep)
		r.trackers[client] = t
	}
	r.seen[client] = r.now()
	return t
}

// Lookup returns the client's tracker without creating one.
func (r *Registry) Lookup(client string) (*Tracker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trackers[client]
	return t, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}

// Summarize closes [start, end] on every tracker and evicts idle ones.
func (r *Registry) Summarize(start, end time.Time) {
	r.mu.Lock()
	clients := make(map[string]*Tracker, len(r.trackers))
	for client, t := range r.trackers {
		if end.Sub(r.seen[client]) > r.idle {
			delete(r.trackers, client)
			delete(r.seen, client)
			continue
		}
		clients[client] = t
	}
	r.mu.Unlock()

	for client, t := range clients {
		sum := t.Summarize(start, end)
		if sum.TotalEvents() == 0 {
			continue
		}
		slog.Info("activity summary",
			slog.String("client", client),
			slog.Float64("total_seconds", sum.TotalSeconds),
			slog.Int("active_seconds", sum.ActiveSeconds),
			slog.Float64("activity_percent", sum.ActivityPercent),
			slog.Int("mouse_events", sum.MouseEvents),
			slog.Int("keyboard_events", sum.KeyboardEvents),
			slog.Time("last_activity", t.LastActivity()),
		)
	}
}

// Run summarizes every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	start := r.now()
	for {
		select {
		case <-ctx.Done():
			return
		case end := <-ticker.C:
			r.Summarize(start, end)
			start = end
		}
	}
}
