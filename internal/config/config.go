package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	APIKey             string
	Latitude           float64
	Longitude          float64
	ForecastDays       int
	UpdateInterval     time.Duration
	APITimeout         time.Duration
	RateLimitRPS       float64
	RateLimitBurst     int
	ValidateKeyOnStart bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional Kafka update notifications.
	KafkaBrokers      []string
	KafkaUpdatesTopic string
	KafkaEnabled      bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	updateInterval, err := parseDuration("UPDATE_INTERVAL", "6h")
	if err != nil {
		return nil, err
	}

	apiTimeout, err := parseDuration("API_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	latitude, err := parseFloat("LATITUDE")
	if err != nil {
		return nil, err
	}
	longitude, err := parseFloat("LONGITUDE")
	if err != nil {
		return nil, err
	}

	days, err := parseInt("FORECAST_DAYS", 5)
	if err != nil {
		return nil, err
	}

	rps, err := parseRPS()
	if err != nil {
		return nil, err
	}
	burst, err := parseInt("RATE_LIMIT_BURST", 1)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	updatesTopic := envOrDefault("KAFKA_UPDATES_TOPIC", "pollen-forecast-updates")
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		APIKey:             os.Getenv("POLLEN_API_KEY"),
		Latitude:           latitude,
		Longitude:          longitude,
		ForecastDays:       days,
		UpdateInterval:     updateInterval,
		APITimeout:         apiTimeout,
		RateLimitRPS:       rps,
		RateLimitBurst:     burst,
		ValidateKeyOnStart: os.Getenv("VALIDATE_KEY_ON_START") == "true",

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:      brokers,
		KafkaUpdatesTopic: updatesTopic,
		KafkaEnabled:      kafkaEnabled,
	}

	if cfg.APIKey == "" {
		return nil, errors.New("POLLEN_API_KEY is required")
	}
	if cfg.Latitude < -90 || cfg.Latitude > 90 {
		return nil, errors.New("LATITUDE must be between -90 and 90")
	}
	if cfg.Longitude < -180 || cfg.Longitude > 180 {
		return nil, errors.New("LONGITUDE must be between -180 and 180")
	}
	if cfg.ForecastDays < 1 || cfg.ForecastDays > 5 {
		return nil, errors.New("FORECAST_DAYS must be between 1 and 5")
	}
	if cfg.UpdateInterval <= 0 {
		return nil, errors.New("UPDATE_INTERVAL must be positive")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

// parseRPS defaults to one request per minute, comfortably inside the
// Pollen API free-tier quota.
func parseRPS() (float64, error) {
	s := os.Getenv("RATE_LIMIT_RPS")
	if s == "" {
		return 1.0 / 60.0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, errors.New("invalid RATE_LIMIT_RPS")
	}
	return f, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
