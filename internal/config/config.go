package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config collects every environment knob the api and worker processes read.
// Load is the only place os.Getenv appears; the rest of the codebase takes
// values from here.
type Config struct {
	DBHost     string `validate:"required"`
	DBUser     string `validate:"required"`
	DBPassword string
	DBName     string `validate:"required"`
	DBPort     string `validate:"required"`
	DBSSLMode  string

	RedisAddr   string `validate:"required"`
	KafkaBroker string

	Port       string `validate:"required"`
	ServiceKey string

	// ReconcileRunAt is the local wall-clock time (HH:MM) the daily run
	// fires at, interpreted in ReconcileTZ.
	ReconcileRunAt string `validate:"required"`
	// ReconcileTZ names the zone whose midnight bounds the coarse discovery
	// scan and whose clock drives the daily trigger. Empty means the server's
	// local zone.
	ReconcileTZ string

	OutboxPollInterval time.Duration
	// NotifyRate/NotifyBurst pace outbox publishing; the messenger downstream
	// throttles hard, so the publisher must not burst past it.
	NotifyRate  float64
	NotifyBurst int
	NotifyTopic string
}

// Load reads .env (when present), applies defaults and validates. A Config
// error is fatal at process start; nothing should run half-configured.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             getEnv("DB_NAME", "workforce"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:        os.Getenv("KAFKA_BROKER"),
		Port:               getEnv("PORT", "3000"),
		ServiceKey:         os.Getenv("SERVICE_KEY"),
		ReconcileRunAt:     getEnv("RECONCILE_RUN_AT", "01:30"),
		ReconcileTZ:        os.Getenv("RECONCILE_TZ"),
		OutboxPollInterval: getDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		NotifyRate:         getFloat("NOTIFY_RATE", 20),
		NotifyBurst:        getInt("NOTIFY_BURST", 50),
		NotifyTopic:        os.Getenv("NOTIFY_TOPIC"),
	}

	if _, err := time.Parse("15:04", cfg.ReconcileRunAt); err != nil {
		return nil, fmt.Errorf("RECONCILE_RUN_AT must be HH:MM, got %q", cfg.ReconcileRunAt)
	}
	if cfg.ReconcileTZ != "" {
		if _, err := time.LoadLocation(cfg.ReconcileTZ); err != nil {
			return nil, fmt.Errorf("RECONCILE_TZ is not a valid IANA name: %q", cfg.ReconcileTZ)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
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
	if err != nil {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
