package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus-planner-backend/internal/db/dbtest"
)

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Platform", " iOS ")
	r.Header.Set("X-App-Version", "2.1.0")
	r.Header.Set("X-Device-Locale", "de-DE")
	r.Header.Set("X-Session-Id", "abc")

	env := FromRequest(r)

	assert.Equal(t, "ios", env.Platform)
	assert.Equal(t, "2.1.0", env.AppVersion)
	assert.Equal(t, "de-DE", env.DeviceLocale)
	assert.Equal(t, "abc", env.SessionID)
}

func TestFromRequest_UnknownPlatform(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Platform", "toaster")

	assert.Equal(t, "unknown", FromRequest(r).Platform)
}

func TestSourceEventKeyFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Source-Event-Key", "fallback")
	assert.Equal(t, "fallback", SourceEventKeyFromRequest(r))

	r.Header.Set("Idempotency-Key", "preferred")
	assert.Equal(t, "preferred", SourceEventKeyFromRequest(r))
}

func countEvents(t *testing.T, rec *Recorder, name string) int {
	t.Helper()
	var n int
	require.NoError(t, rec.DB.QueryRow(context.Background(), `SELECT COUNT(*) FROM analytics_events WHERE event_name = ?`, name).Scan(&n))
	return n
}

func TestRecorderLog_DeduplicatesBySourceKey(t *testing.T) {
	rec := NewRecorder(dbtest.Open(t))
	rec.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	ctx := context.Background()

	env := Envelope{UserID: 7, Platform: "web"}
	rec.Log(ctx, env, "app_opened", map[string]any{"from": "icon"}, "key-1")
	rec.Log(ctx, env, "app_opened", map[string]any{"from": "icon"}, "key-1")
	rec.Log(ctx, env, "app_opened", map[string]any{"from": "push"}, "")
	rec.Log(ctx, env, "app_opened", map[string]any{"from": "push"}, "")

	assert.Equal(t, 3, countEvents(t, rec, "app_opened"))
}

func TestRecorderLog_SkipsAnonymousEvents(t *testing.T) {
	rec := NewRecorder(dbtest.Open(t))

	rec.Log(context.Background(), Envelope{}, "app_opened", nil, "")
	rec.Log(WithUserID(context.Background(), 3), Envelope{}, "app_opened", nil, "")

	assert.Equal(t, 1, countEvents(t, rec, "app_opened"))
}

func TestRecorderLog_NilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.Log(context.Background(), Envelope{UserID: 1}, "app_opened", nil, "")
	})
}

func TestTimerEventHandler(t *testing.T) {
	rec := NewRecorder(dbtest.Open(t))
	h := TimerEventHandler(rec)

	send := func(body string, withUser bool) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/events/timer", strings.NewReader(body))
		if withUser {
			r = r.WithContext(WithUserID(r.Context(), 5))
		}
		w := httptest.NewRecorder()
		h(w, r)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, send(`{"action":"started"}`, false).Code)
	assert.Equal(t, http.StatusBadRequest, send(`{"action":"exploded"}`, true).Code)
	assert.Equal(t, http.StatusOK, send(`{"action":"paused","mode":"work","duration":25}`, true).Code)

	assert.Equal(t, 1, countEvents(t, rec, "timer_paused"))
}
