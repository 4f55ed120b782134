package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"focus-planner-backend/internal/db"
)

const minPasswordLen = 8

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeCredentials(r *http.Request) (credentials, bool) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return body, false
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	return body, true
}

func RegisterHandler(dbx *db.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := decodeCredentials(r)
		if !ok {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Email == "" || body.Password == "" {
			http.Error(w, "email & password required", http.StatusBadRequest)
			return
		}
		if len(body.Password) < minPasswordLen {
			http.Error(w, "password too short", http.StatusBadRequest)
			return
		}

		var exists int
		err := dbx.QueryRow(r.Context(), `SELECT COUNT(*) FROM users WHERE email = ?`, body.Email).Scan(&exists)
		if err != nil {
			log.Printf("[ERROR] register: lookup email: %v", err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if exists > 0 {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "password error", http.StatusInternalServerError)
			return
		}

		var id int
		err = dbx.QueryRow(r.Context(), `
			INSERT INTO users (email, password, created_at)
			VALUES (?, ?, ?)
			RETURNING id
		`, body.Email, string(hash), dbx.Time(time.Now())).Scan(&id)
		if err != nil {
			log.Printf("[ERROR] register: insert user: %v", err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		writeToken(w, secret, id, http.StatusCreated)
	}
}

func LoginHandler(dbx *db.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := decodeCredentials(r)
		if !ok {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var (
			id   int
			hash string
		)
		err := dbx.QueryRow(r.Context(), `SELECT id, password FROM users WHERE email = ?`, body.Email).Scan(&id, &hash)
		if err != nil {
			http.Error(w, "invalid login", http.StatusUnauthorized)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)) != nil {
			http.Error(w, "invalid login", http.StatusUnauthorized)
			return
		}

		writeToken(w, secret, id, http.StatusOK)
	}
}

func MeHandler(dbx *db.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var email string
		if err := dbx.QueryRow(r.Context(), `SELECT email FROM users WHERE id = ?`, uid).Scan(&email); err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id": uid,
			"email":   email,
		})
	}
}

func writeToken(w http.ResponseWriter, secret []byte, userID, status int) {
	token, err := GenerateToken(secret, userID)
	if err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"user_id": userID,
		"token":   token,
	})
}
