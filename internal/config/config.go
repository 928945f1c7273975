package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"mealcall-app-go/pkg/logger"
)

type Config struct {
	Env      string
	HTTP     HTTPConfig
	DB       DBConfig
	JWT      JWTConfig
	Push     PushConfig
	Redis    RedisConfig
	MealCall MealCallConfig
}

type HTTPConfig struct {
	Port           string
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type PushConfig struct {
	Enabled  bool
	Endpoint string
}

type RedisConfig struct {
	Enabled bool
	Addr    string
	DB      int
}

type MealCallConfig struct {
	StrictCategories bool
	HistoryLimit     int
	ActiveCacheTTL   time.Duration
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Config{
		Env: getEnv("ENV", "development"),
		HTTP: HTTPConfig{
			Port:           getEnv("HTTP_PORT", "8080"),
			AllowedOrigins: splitCSV(getEnv("HTTP_ALLOWED_ORIGINS", "http://localhost:8081")),
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "mealcall_app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "dev-secret-change-in-production"),
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL", 24*time.Hour),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 90*24*time.Hour),
		},
		Push: PushConfig{
			Enabled:  getEnvBool("PUSH_ENABLED", true),
			Endpoint: getEnv("PUSH_ENDPOINT", ""),
		},
		Redis: RedisConfig{
			Enabled: getEnvBool("REDIS_ENABLED", false),
			Addr:    getEnv("REDIS_ADDR", "localhost:6379"),
			DB:      getEnvInt("REDIS_DB", 0),
		},
		MealCall: MealCallConfig{
			StrictCategories: getEnvBool("MEALCALL_STRICT_CATEGORIES", false),
			HistoryLimit:     getEnvInt("MEALCALL_HISTORY_LIMIT", 20),
			ActiveCacheTTL:   getEnvDuration("MEALCALL_ACTIVE_CACHE_TTL", 2*time.Hour),
		},
	}, nil
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.TimeZone)
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
