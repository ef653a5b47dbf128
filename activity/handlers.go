package activity

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"trackifyr/auth"
	"trackifyr/models"
)

// MaxBatchBytes bounds the body of one activity post.
const MaxBatchBytes = "64K"

type MouseMovement struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp float64 `json:"timestamp"`
}

type MouseInteraction struct {
	TargetID  string  `json:"targetId"`
	Timestamp float64 `json:"timestamp"`
}

type KeyboardEvent struct {
	Type      string  `json:"type"`
	Timestamp float64 `json:"timestamp"`
}

// Batch is what the browser posts; timestamps are unix milliseconds.
type Batch struct {
	MouseMovements    []MouseMovement    `json:"movements"`
	MouseInteractions []MouseInteraction `json:"interactions"`
	KeyboardEvents    []KeyboardEvent    `json:"keyboardEvents"`
}

func millis(ms float64) time.Time {
	return time.UnixMilli(int64(ms))
}

// Apply records every event of b and returns how many were accepted.
func (t *Tracker) Apply(b Batch) int {
	n := 0
	for _, m := range b.MouseMovements {
		t.RecordMouse(millis(m.Timestamp))
		n++
	}
	for _, m := range b.MouseInteractions {
		t.RecordMouse(millis(m.Timestamp))
		n++
	}
	for _, k := range b.KeyboardEvents {
		// key releases are not activity
		if k.Type == "keyup" {
			continue
		}
		t.RecordKeyboard(millis(k.Timestamp))
		n++
	}
	return n
}

// IngestHandler records a batch into the signed in client's tracker.
func (r *Registry) IngestHandler(c echo.Context) error {
	var b Batch
	if err := c.Bind(&b); err != nil {
		return err
	}
	n := r.For(auth.ClientFrom(c)).Apply(b)
	return c.JSON(http.StatusAccepted, map[string]int{"accepted": n})
}

func (r *Registry) HistoryHandler(c echo.Context) error {
	items := []models.ActivitySummary{}
	if t, ok := r.Lookup(auth.ClientFrom(c)); ok {
		items = t.History()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
	})
}
