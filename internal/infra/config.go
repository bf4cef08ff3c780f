package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string
	Port                string
	RecordStoreBaseURL  string
	RecordStoreToken    string
	RecordStoreTimeout  time.Duration
	ChecklistConfigPath string
	DatabaseURL         string // optional; enables the write-back audit log
	DBMaxConns          int
	DBMinConns          int
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
	RateLimitPerMin     int
	AllowedOrigins      []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		RecordStoreBaseURL:  os.Getenv("RECORD_STORE_BASE_URL"),
		RecordStoreToken:    os.Getenv("RECORD_STORE_TOKEN"),
		RecordStoreTimeout:  time.Second * time.Duration(getEnvInt("RECORD_STORE_TIMEOUT_SECONDS", 30)),
		ChecklistConfigPath: getEnv("CHECKLIST_CONFIG_PATH", "checklist.json"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBMaxConns:          getEnvInt("DB_MAX_CONNS", 4),
		DBMinConns:          getEnvInt("DB_MIN_CONNS", 1),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if cfg.RecordStoreBaseURL == "" {
		return nil, fmt.Errorf("RECORD_STORE_BASE_URL is required")
	}

	if cfg.RecordStoreToken == "" {
		return nil, fmt.Errorf("RECORD_STORE_TOKEN is required")
	}

	return cfg, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
