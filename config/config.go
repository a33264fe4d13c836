package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string
	LOG_LEVEL  string

	CORS_ORIGIN     string
	PUBLIC_BASE_URL string

	// Blob store addressing and signed original URLs
	ASSET_BASE_URL   string
	ASSET_URL_SECRET string
	ASSET_URL_TTL    time.Duration

	// Gallery visits: cached identity lifetime and in-memory visit idle timeout
	IDENTITY_TTL time.Duration
	VISIT_IDLE   time.Duration

	// "open" (any status may overwrite any other) or "workflow"
	LEDGER_POLICY string

	RATE_LIMIT_RPS   float64
	RATE_LIMIT_BURST int
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")
	PUBLIC_BASE_URL = getEnv("PUBLIC_BASE_URL", "http://localhost:5173")

	ASSET_BASE_URL = getEnv("ASSET_BASE_URL", "http://localhost:9000/photos")
	ASSET_URL_SECRET = getEnv("ASSET_URL_SECRET", JWT_SECRET)
	ASSET_URL_TTL = getDuration("ASSET_URL_TTL", 15*time.Minute)

	IDENTITY_TTL = getDuration("IDENTITY_TTL", 30*24*time.Hour)
	VISIT_IDLE = getDuration("VISIT_IDLE", 2*time.Hour)

	LEDGER_POLICY = getEnv("LEDGER_POLICY", "open")

	RATE_LIMIT_RPS = getFloat("RATE_LIMIT_RPS", 5)
	RATE_LIMIT_BURST = getInt("RATE_LIMIT_BURST", 20)
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid integer for %s (%q), using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Invalid number for %s (%q), using %g", key, raw, fallback)
		return fallback
	}
	return f
}
