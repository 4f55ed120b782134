package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"focus-planner-backend/internal/db"
)

type CtxKey string

const (
	ctxUserIDKey CtxKey = "analytics_user_id"
)

// Envelope is what we store with every event.
type Envelope struct {
	UserID       int
	SessionID    string
	Platform     string
	AppVersion   string
	DeviceLocale string
	IPCountry    string
}

// FromRequest extracts event envelope fields from request.
// Backend-trustable fields only.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "ios", "android", "web", "desktop":
	default:
		platform = "unknown"
	}

	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	return Envelope{
		SessionID:    strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:     platform,
		AppVersion:   strings.TrimSpace(r.Header.Get("X-App-Version")),
		DeviceLocale: locale,
	}
}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(ctxUserIDKey)
	if v == nil {
		return 0, false
	}
	uid, ok := v.(int)
	return uid, ok
}

// SourceEventKeyFromRequest returns the client idempotency key, if any.
// Duplicate keys are ignored on insert.
func SourceEventKeyFromRequest(r *http.Request) string {
	k := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if k != "" {
		return k
	}
	return strings.TrimSpace(r.Header.Get("X-Source-Event-Key"))
}

// Recorder writes product analytics events.
type Recorder struct {
	DB  *db.DB
	Now func() time.Time
}

func NewRecorder(dbx *db.DB) *Recorder {
	return &Recorder{DB: dbx, Now: time.Now}
}

// Log inserts one analytics event. It never fails the caller's flow: bad
// props and insert errors are logged and dropped. Callers pass sanitized
// props, never raw user text.
func (rec *Recorder) Log(ctx context.Context, env Envelope, eventName string, props any, sourceEventKey string) {
	if rec == nil || rec.DB == nil || eventName == "" {
		return
	}

	userID := env.UserID
	if userID == 0 {
		uid, ok := UserIDFromContext(ctx)
		if !ok {
			return
		}
		userID = uid
	}

	b, err := json.Marshal(props)
	if err != nil {
		return
	}

	now := time.Now
	if rec.Now != nil {
		now = rec.Now
	}

	_, err = rec.DB.Exec(ctx, `
		INSERT INTO analytics_events (
			event_name, event_time,
			user_id, session_id,
			platform, app_version, device_locale, ip_country,
			source_event_key,
			properties
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_event_key) DO NOTHING
	`, eventName, rec.DB.Time(now()),
		userID, nullIfEmpty(env.SessionID),
		platformOrUnknown(env.Platform), env.AppVersion, nullIfEmpty(env.DeviceLocale), nullIfEmpty(env.IPCountry),
		nullIfEmpty(sourceEventKey),
		string(b),
	)
	if err != nil {
		log.Printf("[WARN] analytics: log %s user_id=%d: %v", eventName, userID, err)
	}
}

// LogRequest is Log with the envelope and idempotency key taken from r.
func (rec *Recorder) LogRequest(r *http.Request, userID int, eventName string, props any) {
	env := FromRequest(r)
	env.UserID = userID
	rec.Log(r.Context(), env, eventName, props, SourceEventKeyFromRequest(r))
}

func platformOrUnknown(p string) string {
	if p == "" {
		return "unknown"
	}
	return p
}

func nullIfEmpty(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
