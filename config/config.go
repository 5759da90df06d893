package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/yeremiapane/floorplan-admin/utils"
)

// Config holds runtime settings read from the environment.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	DBDriver       string // mysql or sqlite
	DBDSN          string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	LayoutCacheTTL time.Duration
	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env when present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	return Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBDSN:          getEnv("DB_DSN", "floorplan.db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getInt("REDIS_DB", 0),
		LayoutCacheTTL: getDuration("LAYOUT_CACHE_TTL", 30*time.Second),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 40),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		utils.ErrorLogger.Printf("invalid int for %s: %q, using %d", key, s, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		utils.ErrorLogger.Printf("invalid number for %s: %q, using %g", key, s, fallback)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		utils.ErrorLogger.Printf("invalid duration for %s: %q, using %s", key, s, fallback)
		return fallback
	}
	return d
}
