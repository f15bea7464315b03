// Package config reads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const localEnvFile = ".env.local"

type Config struct {
	HTTPPort string
	ShopName string

	LogLevel  string
	LogFormat string

	// LedgerDSN switches the order ledger from the JSON file to Postgres.
	LedgerDSN      string
	LedgerPath     string
	MigrationsPath string

	SessionRedisAddr string
	SessionTTL       time.Duration

	// FraudCasesPath enables the fraud-desk tools when set.
	FraudCasesPath string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads .env.local when present, then the environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(localEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}

	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		ShopName:         getEnv("SHOP_NAME", "Namkha Mountain Traders"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		LedgerDSN:        getEnv("LEDGER_DSN", ""),
		LedgerPath:       getEnv("LEDGER_PATH", "orders.json"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "internal/migrations"),
		SessionRedisAddr: getEnv("SESSION_REDIS_ADDR", ""),
		FraudCasesPath:   getEnv("FRAUD_CASES_PATH", ""),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.LedgerDSN == "" && cfg.LedgerPath == "" {
		return Config{}, fmt.Errorf("LEDGER_PATH is empty")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: time.ParseDuration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}

	return d, nil
}
