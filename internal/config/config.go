package config

import (
	"fmt"
	"log"
	"os"
	"time"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env              string
	HTTPPort         string
	DBHost           string
	DBPort           int
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string
	JWTIssuer        string
	JWTSecret        string
	TokenTTL         time.Duration
	RedisAddr        string
	RateLimitPerMin  int
	RateLimitBackend string

	// Proxy process only.
	ProxyPort  string
	BackendURL string
	StaticDir  string
}

// Load returns application config populated from environment variables with sensible defaults.
func Load() App {
	return App{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPPort:         getEnv("HTTP_PORT", "8090"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           intEnv("DB_PORT", 5432),
		DBUser:           getEnv("DB_USER", "classtrack"),
		DBPassword:       getEnv("DB_PASSWORD", "classtrack"),
		DBName:           getEnv("DB_NAME", "classtrack"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		JWTIssuer:        getEnv("JWT_ISSUER", "classtrack"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-signing-secret-change"),
		TokenTTL:         durationEnv("TOKEN_TTL", 8*time.Hour),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RateLimitPerMin:  intEnv("RATE_LIMIT_PER_MIN", 60),
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
		ProxyPort:        getEnv("PROXY_PORT", "8080"),
		BackendURL:       getEnv("BACKEND_URL", "http://localhost:8090"),
		StaticDir:        getEnv("STATIC_DIR", "web"),
	}
}

// DatabaseDSN assembles the Postgres connection string from the discrete DB_* variables.
func (a App) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		a.DBHost, a.DBPort, a.DBUser, a.DBPassword, a.DBName, a.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
