package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"focus-planner-backend/internal/analytics"
	"focus-planner-backend/internal/auth"
	"focus-planner-backend/internal/cache"
	"focus-planner-backend/internal/config"
	"focus-planner-backend/internal/db"
	"focus-planner-backend/internal/insights"
	"focus-planner-backend/internal/sessions"
	"focus-planner-backend/internal/settings"
	"focus-planner-backend/internal/tasks"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("[ERROR] failed to open %s database: %v", cfg.DBDriver, err)
	}
	defer database.Close()

	log.Printf("[INFO] connected to %s, schema v%d", cfg.DBDriver, db.SchemaVersion)

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		log.Println("[WARN] JWT_SECRET is empty; tokens are trivially forgeable")
	}
	loc := cfg.Location()

	events := analytics.NewRecorder(database)
	taskStore := tasks.NewStore(database)
	settingsStore := settings.NewStore(database)
	sessionStore := sessions.NewStore(database)

	insightsSvc := insights.NewService(sessionStore)
	insightsSvc.Location = loc
	insightsSvc.LookbackDays = cfg.AnalyticsLookbackDays
	insightsSvc.CacheTTL = cfg.InsightsCacheTTL
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Printf("[WARN] insights cache disabled: %v", err)
		} else {
			defer rc.Close()
			insightsSvc.Cache = rc
		}
	}

	sessionHandlers := &sessions.Handlers{
		Store:    sessionStore,
		Events:   events,
		OnChange: insightsSvc.Invalidate,
	}
	insightHandlers := &insights.Handlers{
		Service:  insightsSvc,
		Settings: settingsStore,
		Events:   events,
	}
	planner := &tasks.Planner{
		Tasks:    taskStore,
		Settings: settingsStore,
		Events:   events,
		Location: loc,
	}

	authMW := auth.New(secret)
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH -----
	mux.HandleFunc("/auth/register", methods{http.MethodPost: auth.RegisterHandler(database, secret)}.serve)
	mux.HandleFunc("/auth/login", methods{http.MethodPost: auth.LoginHandler(database, secret)}.serve)
	mux.HandleFunc("/auth/logout", methods{http.MethodPost: authMW.Wrap(auth.LogoutHandler())}.serve)
	mux.HandleFunc("/me", methods{
		http.MethodGet:    authMW.Wrap(auth.MeHandler(database)),
		http.MethodDelete: authMW.Wrap(auth.DeleteAccountHandler(database, insightsSvc.Invalidate)),
	}.serve)

	// ----- TASKS -----
	mux.HandleFunc("/tasks", methods{
		http.MethodGet:    authMW.Wrap(tasks.GetTasksHandler(taskStore)),
		http.MethodPost:   authMW.Wrap(tasks.CreateTaskHandler(taskStore, events)),
		http.MethodDelete: authMW.Wrap(tasks.DeleteTaskHandler(taskStore, events)),
	}.serve)
	mux.HandleFunc("/tasks/status", methods{http.MethodPost: authMW.Wrap(tasks.SetTaskStatusHandler(taskStore, events))}.serve)
	mux.HandleFunc("/schedule", methods{http.MethodPost: authMW.Wrap(tasks.ScheduleHandler(planner))}.serve)

	// ----- SETTINGS -----
	mux.HandleFunc("/settings/timer", methods{
		http.MethodGet: authMW.Wrap(settings.GetTimerHandler(settingsStore)),
		http.MethodPut: authMW.Wrap(settings.UpdateTimerHandler(settingsStore, events)),
	}.serve)

	// ----- SESSIONS -----
	mux.HandleFunc("/sessions", methods{
		http.MethodGet:  authMW.Wrap(sessionHandlers.List),
		http.MethodPost: authMW.Wrap(sessionHandlers.Record),
	}.serve)
	mux.HandleFunc("/sessions/complete", methods{http.MethodPost: authMW.Wrap(sessionHandlers.Complete)}.serve)
	mux.HandleFunc("/sessions/recommendations", methods{http.MethodGet: authMW.Wrap(insightHandlers.Recommendations)}.serve)
	mux.HandleFunc("/sessions/recommendations/apply", methods{http.MethodPost: authMW.Wrap(insightHandlers.ApplyRecommendations)}.serve)

	// ----- INSIGHTS -----
	mux.HandleFunc("/focus/pattern", methods{http.MethodGet: authMW.Wrap(insightHandlers.FocusPattern)}.serve)
	mux.HandleFunc("/focus/daily", methods{http.MethodGet: authMW.Wrap(insightHandlers.Daily)}.serve)
	mux.HandleFunc("/insights", methods{http.MethodGet: authMW.Wrap(insightHandlers.Insights)}.serve)

	// ----- ANALYTICS -----
	mux.HandleFunc("/analytics/app-opened", methods{http.MethodPost: authMW.Wrap(analytics.AppOpenedHandler(events))}.serve)
	mux.HandleFunc("/analytics/timer", methods{http.MethodPost: authMW.Wrap(analytics.TimerEventHandler(events))}.serve)

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Platform", "X-App-Version", "X-Session-Id", "X-Device-Locale", "Idempotency-Key", "X-Source-Event-Key"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] shutdown: %v", err)
		}
	}()

	log.Printf("[INFO] API server is running on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[ERROR] server: %v", err)
	}
}

// methods dispatches on the request method; OPTIONS is always accepted.
type methods map[string]http.HandlerFunc

func (m methods) serve(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.Method]; ok {
		h(w, r)
		return
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
