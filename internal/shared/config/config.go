package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	DatabaseURL        string
	RedisURL           string
	Env                string
	LogLevel           string
	JWTSecret          string
	JWTExpiration      time.Duration
	JWTIssuer          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	AuthRateLimit      float64
	AuthRateBurst      int
}

const devJWTSecret = "dev-insecure-secret"

// Load reads configuration from .env files and environment variables with sensible defaults.
func Load() Config {
	// Missing files are fine; real deployments use the environment.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_EXPIRATION", "1h")
	v.SetDefault("JWT_ISSUER", "resume-builder-api")
	v.SetDefault("AUTH_RATE_LIMIT", 5)
	v.SetDefault("AUTH_RATE_BURST", 10)

	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		if env == "production" {
			log.Printf("JWT_SECRET is required in production")
		} else {
			secret = devJWTSecret
		}
	}

	return Config{
		Port:               v.GetString("PORT"),
		CORSAllowOrigin:    splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		DatabaseURL:        dbURL,
		RedisURL:           strings.TrimSpace(v.GetString("REDIS_URL")),
		Env:                env,
		LogLevel:           v.GetString("LOG_LEVEL"),
		JWTSecret:          secret,
		JWTExpiration:      parseExpiration(v.GetString("JWT_EXPIRATION")),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:      v.GetString("UI_REDIRECT_URL"),
		AuthRateLimit:      v.GetFloat64("AUTH_RATE_LIMIT"),
		AuthRateBurst:      v.GetInt("AUTH_RATE_BURST"),
	}
}

// parseExpiration accepts Go durations ("90m") plus the day suffix ("7d").
func parseExpiration(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "d") {
		if d, err := time.ParseDuration(strings.TrimSuffix(raw, "d") + "h"); err == nil && d > 0 {
			return d * 24
		}
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	log.Printf("JWT_EXPIRATION %q invalid; using 1h", raw)
	return time.Hour
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}
