// Package config loads application configuration from the environment.
// A .env file is honored when present so local runs do not need to
// export a dozen variables; real deployments set them directly.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field maps to
// one environment variable.  The journal is single-user: OwnerUserID
// scopes every query and defaults to the seeded owner row.
type Config struct {
	Env           string   // APP_ENV: dev, test or prod
	Port          string   // APP_PORT: HTTP port to listen on
	DBUser        string   // DB_USER
	DBPass        string   // DB_PASS, empty allowed
	DBHost        string   // DB_HOST
	DBPort        string   // DB_PORT
	DBName        string   // DB_NAME
	OwnerUserID   uint64   // OWNER_USER_ID, defaults to 1
	CORSOrigins   []string // CORS_ORIGINS, comma separated
	LogPath       string   // LOG_PATH, optional file the log stream is copied to
	EventsEnabled bool     // EVENTS_ENABLED: publish activity events to the broker
}

// Load reads configuration from the environment, consulting .env
// first.  Missing required variables are fatal: the server cannot run
// half-configured.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:           getenv("APP_ENV", "dev"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		OwnerUserID:   envUint64("OWNER_USER_ID", 1),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "http://localhost:3000,https://tea-ceremony-front.vercel.app")),
		LogPath:       os.Getenv("LOG_PATH"),
		EventsEnabled: envBool("EVENTS_ENABLED", true),
	}
}

// must retrieves a required environment variable and exits when it is
// unset or empty.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envUint64(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
		return n
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

// splitList splits a comma separated env value, trimming whitespace
// and dropping empty elements.
func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
