package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDriver      string
	DatabaseURL         string
	DatabaseLogLevel    string
	JWTSecret           string
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	ServerPort          string
	BootstrapAdminToken string
	CORSAllowedOrigins  []string
	LogLevel            slog.Level
	Location            *time.Location
}

// Load reads the environment, after merging an optional .env file from
// the working directory.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		DatabaseDriver:      getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:         getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/workforce"),
		DatabaseLogLevel:    getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:           getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		AccessTokenTTL:      getDuration("ACCESS_TOKEN_TTL", 60*time.Minute),
		RefreshTokenTTL:     getDuration("REFRESH_TOKEN_TTL", 24*time.Hour),
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		BootstrapAdminToken: getEnv("BOOTSTRAP_ADMIN_TOKEN", ""),
		CORSAllowedOrigins:  getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		LogLevel:            getLogLevel("LOG_LEVEL", slog.LevelInfo),
		Location:            getLocation("TIMEZONE", time.UTC),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", value)
		return defaultValue
	}
	return d
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getLogLevel(key string, defaultValue slog.Level) slog.Level {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		slog.Warn("invalid log level, using default", "key", key, "value", value)
		return defaultValue
	}
	return level
}

func getLocation(key string, defaultValue *time.Location) *time.Location {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	loc, err := time.LoadLocation(value)
	if err != nil {
		slog.Warn("unknown time zone, using default", "key", key, "value", value)
		return defaultValue
	}
	return loc
}
