package config

import (
	"os"
	"time"

	"github.com/adrien9192/tiktok-viral-scripts/internal/trends"
)

type Config struct {
	Port         string
	ConfigPath   string
	RedisURL     string
	TrendTTL     time.Duration
	TrendCountry string
	LogLevel     string
	Environment  string
	CORSOrigins  string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		ConfigPath:   getEnv("CONFIG_PATH", "config/viral_codes.yaml"),
		RedisURL:     getEnv("REDIS_URL", ""),
		TrendTTL:     getDuration("TREND_TTL", trends.DefaultTTL),
		TrendCountry: getEnv("TREND_COUNTRY", trends.DefaultCountry),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
