// Package activity turns mouse and keyboard events into periodic activity
// summaries, one tracker per browser.
package activity

import (
	"sync"
	"time"

	"trackifyr/models"
)

const (
	KindMouse    = "mouse"
	KindKeyboard = "keyboard"
)

// MaxActiveSeconds bounds the distinct seconds one interval can hold.
const MaxActiveSeconds = 24 * 60 * 60

// Tracker counts input events and the distinct unix seconds they fall in.
type Tracker struct {
	mu             sync.Mutex
	mouseEvents    int
	keyboardEvents int
	active         map[int64]struct{}
	last           time.Time

	history []models.ActivitySummary
	keep    int
}

func NewTracker(keep int) *Tracker {
	if keep <= 0 {
		keep = 20
	}
	return &Tracker{active: make(map[int64]struct{}), keep: keep}
}

// Record counts ev. Events of an unknown kind are ignored.
func (t *Tracker) Record(ev models.ActivityEvent) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch ev.Kind {
	case KindMouse:
		t.mouseEvents++
	case KindKeyboard:
		t.keyboardEvents++
	default:
		return false
	}
	if len(t.active) < MaxActiveSeconds {
		t.active[ev.Timestamp.Unix()] = struct{}{}
	}
	if ev.Timestamp.After(t.last) {
		t.last = ev.Timestamp
	}
	return true
}

func (t *Tracker) RecordMouse(at time.Time) {
	t.Record(models.ActivityEvent{Kind: KindMouse, Timestamp: at})
}

func (t *Tracker) RecordKeyboard(at time.Time) {
	t.Record(models.ActivityEvent{Kind: KindKeyboard, Timestamp: at})
}

// LastActivity is the time of the most recent event, zero if none.
func (t *Tracker) LastActivity() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Summarize closes the interval [start, end]: active seconds are counted from
// start's second through end's second inclusive. Counters reset afterwards.
func (t *Tracker) Summarize(start, end time.Time) models.ActivitySummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := end.Sub(start).Seconds()
	active := 0
	for s := start.Unix(); s <= end.Unix(); s++ {
		if _, ok := t.active[s]; ok {
			active++
		}
	}
	pct := 0.0
	if total > 0 {
		pct = float64(active) / total * 100
	}
	sum := models.ActivitySummary{
		Start:           start,
		End:             end,
		TotalSeconds:    total,
		ActiveSeconds:   active,
		ActivityPercent: pct,
		MouseEvents:     t.mouseEvents,
		KeyboardEvents:  t.keyboardEvents,
	}

	t.mouseEvents = 0
	t.keyboardEvents = 0
	t.active = make(map[int64]struct{})

	t.history = append(t.history, sum)
	if len(t.history) > t.keep {
		t.history = t.history[len(t.history)-t.keep:]
	}
	return sum
}

// History returns the kept summaries, newest last.
func (t *Tracker) History() []models.ActivitySummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.ActivitySummary, len(t.history))
	copy(out, t.history)
	return out
}

// Latest returns the newest summary.
func (t *Tracker) Latest() (models.ActivitySummary, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.history) == 0 {
		return models.ActivitySummary{}, false
	}
	return t.history[len(t.history)-1], true
}
