// Package bootstrap builds the storage, event and Redis dependencies selected by the configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/jastip-settlement/pkg/config"
	"github.com/chris/jastip-settlement/pkg/events"
	"github.com/chris/jastip-settlement/pkg/storage"
	dydbstore "github.com/chris/jastip-settlement/pkg/storage/dynamodb"
	"github.com/chris/jastip-settlement/pkg/storage/memory"
	"github.com/chris/jastip-settlement/pkg/storage/postgres"
	"github.com/redis/go-redis/v9"
)

// Closer releases a dependency. It is never nil.
type Closer func()

func noop() {}

// OpenStorage connects to the configured storage backend.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, Closer, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.New(), noop, nil

	case config.BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("unable to load SDK config: %w", err)
		}
		t := cfg.Tables
		return dydbstore.New(dynamodb.NewFromConfig(awsCfg), t.Accounts, t.Ledger, t.Orders, t.Products), noop, nil

	case config.BackendPostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		store := postgres.New(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return store, pool.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// OpenPublisher creates the configured event publisher.
func OpenPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (events.Publisher, Closer, error) {
	switch cfg.EventsBackend {
	case config.EventsNone:
		return &events.NoOpPublisher{}, noop, nil

	case config.EventsKafka:
		p := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		return p, func() {
			if err := p.Close(); err != nil {
				logger.Error("failed to close kafka writer", slog.Any("error", err))
			}
		}, nil

	case config.EventsSQS:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("unable to load SDK config: %w", err)
		}
		return events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown events backend %q", cfg.EventsBackend)
}

// OpenRedis connects to Redis when REDIS_ADDR is set. It returns a nil client otherwise.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, Closer, error) {
	if cfg.RedisAddr == "" {
		return nil, noop, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, noop, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return rdb, func() { _ = rdb.Close() }, nil
}
