package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"focus-planner-backend/internal/db"
)

func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Tokens are stateless; the client drops its copy.
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
		})
	}
}

// accountTables lists every table holding per-user rows, children first.
var accountTables = []struct {
	table  string
	column string
}{
	{"focus_sessions", "user_id"},
	{"tasks", "user_id"},
	{"timer_settings", "user_id"},
	{"analytics_events", "user_id"},
	{"users", "id"},
}

// DeleteAccountHandler removes every row the user owns. onDeleted, if set,
// runs after the commit.
func DeleteAccountHandler(dbx *db.DB, onDeleted func(ctx context.Context, userID int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := dbx.InTx(r.Context(), func(tx *db.Tx) error {
			return deleteAccount(r.Context(), tx, uid)
		})
		if err != nil {
			log.Printf("[ERROR] delete account user_id=%d: %v", uid, err)
			http.Error(w, "delete account failed", http.StatusInternalServerError)
			return
		}
		if onDeleted != nil {
			onDeleted(r.Context(), uid)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
		})
	}
}

func deleteAccount(ctx context.Context, tx *db.Tx, uid int) error {
	for _, t := range accountTables {
		q := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, t.table, t.column)
		if _, err := tx.Exec(ctx, q, uid); err != nil {
			return fmt.Errorf("delete %s: %w", t.table, err)
		}
	}
	return nil
}
