package insights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus-planner-backend/internal/analytics"
	"focus-planner-backend/internal/auth"
	"focus-planner-backend/internal/db/dbtest"
	"focus-planner-backend/internal/sessions"
	"focus-planner-backend/internal/settings"
)

func newHandlers(t *testing.T, list []sessions.Session) *Handlers {
	dbx := dbtest.Open(t)
	svc, _ := newService(&fakeReader{sessions: list})
	return &Handlers{
		Service:  svc,
		Settings: settings.NewStore(dbx),
		Events:   analytics.NewRecorder(dbx),
	}
}

func asUser(r *http.Request, uid int) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), uid))
}

func TestHandlers_ApplyRecommendations(t *testing.T) {
	var list []sessions.Session
	for i := 0; i < 6; i++ {
		list = append(list, work(now.Add(-2*time.Hour), 30, true, 0))
	}
	h := newHandlers(t, list)

	w := httptest.NewRecorder()
	h.ApplyRecommendations(w, asUser(httptest.NewRequest(http.MethodPost, "/sessions/recommendations/apply", nil), 1))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Recommendation SessionRecommendation `json:"recommendation"`
		Settings       settings.Timer        `json:"settings"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 30, body.Recommendation.WorkDuration)
	assert.Equal(t, 30, body.Settings.PomodoroDuration)
	assert.Equal(t, 6, body.Settings.ShortBreakDuration)
	assert.Equal(t, 15, body.Settings.LongBreakDuration)

	stored, err := h.Settings.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.PomodoroDuration)
}

func TestHandlers_ApplyRecommendationsKeepsSettingsWithoutHistory(t *testing.T) {
	ctx := context.Background()

	for name, reader := range map[string]*fakeReader{
		"read fails":    {err: errors.New("db down")},
		"short history": {sessions: []sessions.Session{work(now.Add(-time.Hour), 50, true, 0)}},
	} {
		t.Run(name, func(t *testing.T) {
			h := newHandlers(t, nil)
			h.Service.Sessions = reader
			_, err := h.Settings.ApplyDurations(ctx, 1, 50, 10, 30)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			h.ApplyRecommendations(w, asUser(httptest.NewRequest(http.MethodPost, "/sessions/recommendations/apply", nil), 1))
			assert.Equal(t, http.StatusConflict, w.Code)

			stored, err := h.Settings.Get(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, 50, stored.PomodoroDuration)
			assert.Equal(t, 10, stored.ShortBreakDuration)
			assert.Equal(t, 30, stored.LongBreakDuration)
		})
	}
}

func TestHandlers_Read(t *testing.T) {
	h := newHandlers(t, scenarioD())

	w := httptest.NewRecorder()
	h.Recommendations(w, asUser(httptest.NewRequest(http.MethodGet, "/sessions/recommendations", nil), 1))
	require.Equal(t, http.StatusOK, w.Code)
	var rec SessionRecommendation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
	assert.Equal(t, 25, rec.WorkDuration)

	w = httptest.NewRecorder()
	h.FocusPattern(w, asUser(httptest.NewRequest(http.MethodGet, "/focus/pattern", nil), 1))
	require.Equal(t, http.StatusOK, w.Code)
	var p UserFocusPattern
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, 30, p.SessionCount)

	w = httptest.NewRecorder()
	h.Daily(w, asUser(httptest.NewRequest(http.MethodGet, "/focus/daily?days=7", nil), 1))
	require.Equal(t, http.StatusOK, w.Code)
	var daily []DailyStat
	require.NoError(t, json.NewDecoder(w.Body).Decode(&daily))
	assert.Len(t, daily, 7)

	w = httptest.NewRecorder()
	h.Insights(w, asUser(httptest.NewRequest(http.MethodGet, "/insights", nil), 1))
	require.Equal(t, http.StatusOK, w.Code)
	var report Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	assert.NotEmpty(t, report.Insights)
}

func TestHandlers_DailyRejectsBadDays(t *testing.T) {
	h := newHandlers(t, nil)

	for _, q := range []string{"0", "-3", "abc", "91"} {
		w := httptest.NewRecorder()
		h.Daily(w, asUser(httptest.NewRequest(http.MethodGet, "/focus/daily?days="+q, nil), 1))
		assert.Equal(t, http.StatusBadRequest, w.Code, "days=%s", q)
	}
}

func TestHandlers_RequireUser(t *testing.T) {
	h := newHandlers(t, nil)

	for _, fn := range []http.HandlerFunc{h.Recommendations, h.ApplyRecommendations, h.FocusPattern, h.Daily, h.Insights} {
		w := httptest.NewRecorder()
		fn(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}
