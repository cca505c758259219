package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	// Token issuance. Explicit here so the auth manager never reads
	// ambient state.
	JWTSecret string
	AccessTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Seed credentials for the bootstrap admin account.
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	AllowedOrigins []string

	OTLPEndpoint string

	RateLimit       int
	RateLimitWindow time.Duration
}

func Load() Config {
	// best effort; real deployments set env vars directly
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")

	adminPassword := getEnv("ADMIN_PASSWORD", "")

	if adminPassword == "" && env == "dev" {
		adminPassword = "admin123"
	}

	return Config{
		Env:   env,
		Port:  getEnvInt("PORT", 8080),
		DBURL: buildDBURL(),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		AccessTTL: getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@bloghub.local"),
		AdminPassword: adminPassword,

		AllowedOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),

		RateLimit:       getEnvInt("RATE_LIMIT", 100),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "bloghub")
	pass := getEnv("DB_PASSWORD", "bloghub")
	name := getEnv("DB_NAME", "bloghub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
