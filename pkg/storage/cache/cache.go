// Package cache provides a Redis read-through cache in front of any storage backend.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is used when New is given a non-positive ttl.
const DefaultTTL = 5 * time.Minute

func orderKey(id string) string {
	return "order:" + id
}

// cachedOrder carries the fields that Order hides from its JSON form.
type cachedOrder struct {
	models.Order
	Settled bool  `json:"settled"`
	Version int64 `json:"version"`
}

// Store caches single-order reads. Every other operation goes straight to the wrapped store.
type Store struct {
	storage.Storage
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// New wraps primary with an order cache held in rdb.
func New(primary storage.Storage, rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{Storage: primary, rdb: rdb, ttl: ttl, logger: logger}
}

// GetOrder returns the cached order if present, otherwise loads it from the wrapped store and caches it.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	if data, err := s.rdb.HGet(ctx, orderKey(orderID), "data").Bytes(); err == nil {
		var c cachedOrder
		if err := json.Unmarshal(data, &c); err == nil {
			order := c.Order
			order.Settled = c.Settled
			order.Version = c.Version
			return &order, nil
		}
	}

	order, err := s.Storage.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.fill(ctx, order); err != nil {
		s.logger.WarnContext(ctx, "failed to cache order", slog.String("order_id", orderID), slog.Any("error", err))
	}
	return order, nil
}

// UpdateOrder delegates to the wrapped store and replaces the cached copy with the updated order.
// If the update fails, or the new copy cannot be written, the cached copy is dropped instead.
func (s *Store) UpdateOrder(ctx context.Context, orderID string, fn storage.OrderMutation) (*models.Order, error) {
	updated, err := s.Storage.UpdateOrder(ctx, orderID, fn)
	if err != nil {
		s.invalidate(ctx, orderID)
		return nil, err
	}
	if err := s.fill(ctx, updated); err != nil {
		s.logger.WarnContext(ctx, "failed to refresh cached order", slog.String("order_id", orderID), slog.Any("error", err))
		s.invalidate(ctx, orderID)
	}
	return updated, nil
}

// fillScript stores an order unless the cache already holds a newer version of it,
// so a slow read-through cannot put back a copy that an update has replaced.
var fillScript = redis.NewScript(`
local cached = redis.call('HGET', KEYS[1], 'version')
if cached and tonumber(cached) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

func (s *Store) fill(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(cachedOrder{Order: *order, Settled: order.Settled, Version: order.Version})
	if err != nil {
		return err
	}
	return fillScript.Run(ctx, s.rdb, []string{orderKey(order.Id)}, order.Version, data, s.ttl.Milliseconds()).Err()
}

func (s *Store) invalidate(ctx context.Context, orderID string) {
	if err := s.rdb.Del(ctx, orderKey(orderID)).Err(); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate cached order", slog.String("order_id", orderID), slog.Any("error", err))
	}
}
