package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"focus-planner-backend/internal/db"
)

type Config struct {
	HTTPAddr string

	DBDriver   db.Dialect
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	JWTSecret   string
	CORSOrigins []string
	Timezone    string

	AnalyticsLookbackDays int

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	InsightsCacheTTL time.Duration
}

func Load() *Config {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] config: read .env: %v", err)
	}

	driver, err := db.ParseDialect(os.Getenv("DB_DRIVER"))
	if err != nil {
		log.Printf("[WARN] config: %v, using postgres", err)
		driver = db.Postgres
	}

	return &Config{
		HTTPAddr: envString("HTTP_ADDR", ":8080"),

		DBDriver:   driver,
		DBHost:     envString("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  envString("DB_SSLMODE", "disable"),
		SQLitePath: envString("SQLITE_PATH", "focus.db"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),
		Timezone:    envString("TIMEZONE", "UTC"),

		AnalyticsLookbackDays: envInt("ANALYTICS_LOOKBACK_DAYS", 30),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          envInt("REDIS_DB", 0),
		InsightsCacheTTL: envDuration("INSIGHTS_CACHE_TTL", 5*time.Minute),
	}
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == db.SQLite {
		return c.SQLitePath
	}
	return c.ConnString()
}

// Location resolves Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[WARN] config: unknown timezone %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
