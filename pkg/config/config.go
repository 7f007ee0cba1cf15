// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chris/jastip-settlement/pkg/fees"
	"github.com/shopspring/decimal"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
)

// Event backends.
const (
	EventsNone  = "none"
	EventsKafka = "kafka"
	EventsSQS   = "sqs"
)

// DynamoDBTables names the tables used by the DynamoDB backend.
type DynamoDBTables struct {
	Accounts string
	Ledger   string
	Orders   string
	Products string
}

// Config is everything the binaries read from the environment.
type Config struct {
	HTTPPort string

	StorageBackend string
	DatabaseURL    string
	Tables         DynamoDBTables

	RedisAddr          string
	OrderCacheTTL      time.Duration
	RateLimitPerMinute int

	EventsBackend string
	KafkaBrokers  []string
	KafkaTopic    string
	SQSQueueURL   string

	JWTSecret         string
	PlatformAccountID string

	Fees fees.Schedule

	LogLevel  slog.Level
	LogFormat string
}

// Load reads the configuration, applying defaults for unset variables.
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		HTTPPort:       getenv("HTTP_PORT", "8080"),
		StorageBackend: strings.ToLower(getenv("STORAGE_BACKEND", BackendMemory)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Tables: DynamoDBTables{
			Accounts: getenv("DYNAMODB_ACCOUNTS_TABLE_NAME", "jastip-accounts"),
			Ledger:   getenv("DYNAMODB_LEDGER_TABLE_NAME", "jastip-ledger"),
			Orders:   getenv("DYNAMODB_ORDERS_TABLE_NAME", "jastip-orders"),
			Products: getenv("DYNAMODB_PRODUCTS_TABLE_NAME", "jastip-products"),
		},
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		EventsBackend:     strings.ToLower(getenv("EVENTS_BACKEND", EventsNone)),
		KafkaTopic:        getenv("KAFKA_TOPIC", "jastip.events"),
		SQSQueueURL:       os.Getenv("SQS_QUEUE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		PlatformAccountID: getenv("PLATFORM_ACCOUNT_ID", "admin"),
		LogFormat:         strings.ToLower(getenv("LOG_FORMAT", "json")),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.OrderCacheTTL, err = getenvDuration("ORDER_CACHE_TTL", 5*time.Minute); err != nil {
		errs = append(errs, err)
	}
	if cfg.RateLimitPerMinute, err = getenvInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	cfg.Fees = fees.DefaultSchedule()
	for key, dst := range map[string]*int64{
		"RATE_PER_KM":       &cfg.Fees.RatePerKm,
		"MIN_SHIPPING_FEE":  &cfg.Fees.MinShippingFee,
		"BUYER_SERVICE_FEE": &cfg.Fees.BuyerServiceFee,
		"DRIVER_PICKUP_FEE": &cfg.Fees.DriverPickupFee,
		"MIN_WITHDRAWAL":    &cfg.Fees.MinWithdrawal,
		"MIN_TOPUP":         &cfg.Fees.MinTopUp,
	} {
		if *dst, err = getenvInt64(key, *dst); err != nil {
			errs = append(errs, err)
		}
	}
	if v := os.Getenv("SELLER_FEE_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SELLER_FEE_RATE: %w", err))
		} else {
			cfg.Fees.SellerFeeRate = rate
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate fails fast on settings the binaries cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageBackend {
	case BackendMemory, BackendDynamoDB:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	switch c.EventsBackend {
	case EventsNone:
	case EventsKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required for the kafka events backend"))
		}
	case EventsSQS:
		if c.SQSQueueURL == "" {
			errs = append(errs, errors.New("SQS_QUEUE_URL is required for the sqs events backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EVENTS_BACKEND %q", c.EventsBackend))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.PlatformAccountID == "" {
		errs = append(errs, errors.New("PLATFORM_ACCOUNT_ID must not be empty"))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat))
	}
	if err := c.Fees.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// NewLogger builds the process logger described by LogFormat and LogLevel.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getenvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
