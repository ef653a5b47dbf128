package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackifyr/auth"
	"trackifyr/models"
	"trackifyr/storage"
)

var base = time.Unix(1_705_300_000, 0)

func TestSummarize(t *testing.T) {
	tr := NewTracker(5)
	tr.RecordMouse(base.Add(100 * time.Millisecond))
	tr.RecordMouse(base.Add(900 * time.Millisecond)) // same second
	tr.RecordKeyboard(base.Add(3 * time.Second))
	tr.RecordKeyboard(base.Add(30 * time.Second)) // outside the window

	sum := tr.Summarize(base, base.Add(10*time.Second))
	assert.Equal(t, 10.0, sum.TotalSeconds)
	assert.Equal(t, 2, sum.ActiveSeconds)
	assert.InDelta(t, 20.0, sum.ActivityPercent, 1e-9)
	assert.Equal(t, 2, sum.MouseEvents)
	assert.Equal(t, 2, sum.KeyboardEvents)
	assert.Equal(t, 4, sum.TotalEvents())

	// counters reset
	next := tr.Summarize(base.Add(10*time.Second), base.Add(40*time.Second))
	assert.Equal(t, 0, next.ActiveSeconds)
	assert.Equal(t, 0, next.TotalEvents())
}

func TestSummarizeIncludesEndSecond(t *testing.T) {
	tr := NewTracker(5)
	end := base.Add(10*time.Second + 400*time.Millisecond)
	tr.RecordMouse(base.Add(10*time.Second + 200*time.Millisecond))
	assert.Equal(t, 1, tr.Summarize(base, end).ActiveSeconds)
}

func TestSummarizeZeroInterval(t *testing.T) {
	tr := NewTracker(5)
	tr.RecordMouse(base)
	sum := tr.Summarize(base, base)
	assert.Equal(t, 0.0, sum.ActivityPercent)
	assert.Equal(t, 1, sum.ActiveSeconds)
}

func TestHistoryKeepsNewest(t *testing.T) {
	tr := NewTracker(2)
	_, ok := tr.Latest()
	assert.False(t, ok)

	for i := 0; i < 3; i++ {
		tr.RecordMouse(base)
		tr.Summarize(base.Add(time.Duration(i)*time.Second), base.Add(time.Duration(i+1)*time.Second))
	}
	h := tr.History()
	require.Len(t, h, 2)
	assert.Equal(t, base.Add(time.Second), h[0].Start)
	latest, ok := tr.Latest()
	assert.True(t, ok)
	assert.Equal(t, base.Add(2*time.Second), latest.Start)
}

func TestRecordIgnoresUnknownKind(t *testing.T) {
	tr := NewTracker(5)
	assert.False(t, tr.Record(models.ActivityEvent{Kind: "scroll", Timestamp: base}))
	assert.True(t, tr.Record(models.ActivityEvent{Kind: KindMouse, Timestamp: base}))
	assert.Equal(t, 1, tr.Summarize(base, base.Add(time.Second)).TotalEvents())
}

func TestActiveSecondsAreCapped(t *testing.T) {
	tr := NewTracker(5)
	for i := 0; i < MaxActiveSeconds+100; i++ {
		tr.RecordKeyboard(base.Add(time.Duration(i) * time.Second))
	}
	assert.Len(t, tr.active, MaxActiveSeconds)
	assert.Equal(t, MaxActiveSeconds+100, tr.Summarize(base, base).KeyboardEvents)
}

func TestRegistrySeparatesClients(t *testing.T) {
	r := NewRegistry(5, time.Hour)
	_, ok := r.Lookup("a")
	assert.False(t, ok)

	r.For("a").RecordKeyboard(base)
	r.For("b")
	r.Summarize(base, base.Add(time.Second))

	a, ok := r.Lookup("a")
	require.True(t, ok)
	latest, _ := a.Latest()
	assert.Equal(t, 1, latest.KeyboardEvents)

	b, ok := r.Lookup("b")
	require.True(t, ok)
	latest, _ = b.Latest()
	assert.Equal(t, 0, latest.TotalEvents())
	assert.True(t, b.LastActivity().IsZero())
}

func TestRegistryEvictsIdle(t *testing.T) {
	r := NewRegistry(5, time.Minute)
	now := base
	r.now = func() time.Time { return now }
	r.For("a")
	now = base.Add(50 * time.Second)
	r.For("b")

	r.Summarize(base, base.Add(90*time.Second))
	_, ok := r.Lookup("a")
	assert.False(t, ok)
	_, ok = r.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRunStopsOnCancel(t *testing.T) {
	r := NewRegistry(10, time.Hour)
	tr := r.For("a")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	assert.Eventually(t, func() bool { return len(tr.History()) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// newServer routes activity for the client named in the X-Client header.
func newServer(t *testing.T, r *Registry) *echo.Echo {
	t.Helper()
	store := storage.NewMemory(10, time.Hour)
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			part := storage.NewPartition(store, c.Request().Header.Get("X-Client"))
			g, err := auth.Load(c.Request().Context(), part, false)
			if err != nil {
				return err
			}
			c.Set(auth.ContextGate, g)
			return next(c)
		}
	})
	e.GET("/api/activity", r.HistoryHandler)
	e.POST("/api/activity", r.IngestHandler, middleware.BodyLimit(MaxBatchBytes))
	return e
}

func send(e *echo.Echo, method, client, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/activity", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Client", client)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIngestHandler(t *testing.T) {
	r := NewRegistry(5, time.Hour)
	e := newServer(t, r)

	ms := base.UnixMilli()
	body := `{
		"movements": [{"x": 1, "y": 2, "timestamp": ` + itoa(ms) + `}],
		"interactions": [{"targetId": "q1", "timestamp": ` + itoa(ms+1500) + `}],
		"keyboardEvents": [
			{"type": "keydown", "timestamp": ` + itoa(ms+2500) + `},
			{"type": "keyup", "timestamp": ` + itoa(ms+2600) + `}
		]
	}`
	rec := send(e, http.MethodPost, "a", body)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"accepted":3}`, rec.Body.String())

	tr, ok := r.Lookup("a")
	require.True(t, ok)
	sum := tr.Summarize(base, base.Add(10*time.Second))
	assert.Equal(t, 2, sum.MouseEvents)
	assert.Equal(t, 1, sum.KeyboardEvents)
	assert.Equal(t, 3, sum.ActiveSeconds)
	assert.Equal(t, base.Add(2500*time.Millisecond), tr.LastActivity())
}

func TestHistoryIsPerClient(t *testing.T) {
	r := NewRegistry(5, time.Hour)
	e := newServer(t, r)

	rec := send(e, http.MethodPost, "a", `{"keyboardEvents":[{"type":"keydown","timestamp":`+itoa(base.UnixMilli())+`}]}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	r.Summarize(base, base.Add(time.Second))

	rec = send(e, http.MethodGet, "a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Items []models.ActivitySummary `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, 1, out.Items[0].KeyboardEvents)

	rec = send(e, http.MethodGet, "b", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
	_, ok := r.Lookup("b")
	assert.False(t, ok)
}

func TestIngestBodyLimit(t *testing.T) {
	r := NewRegistry(5, time.Hour)
	e := newServer(t, r)
	body := `{"movements":[` + strings.Repeat(`{"timestamp":1},`, 10_000) + `{"timestamp":1}]}`
	rec := send(e, http.MethodPost, "a", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, 0, r.Len())
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
