package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingMarker = "pending"

// RedisIdempotencyStore maps checkout idempotency keys to order ids. A claim
// holds a short-lived pending marker so a crashed request frees the key.
type RedisIdempotencyStore struct {
	Client     *redis.Client
	TTL        time.Duration
	PendingTTL time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{Client: client, TTL: ttl, PendingTTL: time.Minute}
}

func idempotencyKey(customerID int64, key string) string {
	return "idem:checkout:" + strconv.FormatInt(customerID, 10) + ":" + key
}

func (s *RedisIdempotencyStore) Claim(ctx context.Context, customerID int64, key string) (int64, bool, error) {
	redisKey := idempotencyKey(customerID, key)
	ok, err := s.Client.SetNX(ctx, redisKey, pendingMarker, s.PendingTTL).Result()
	if err != nil {
		return 0, false, err
	}
	if ok {
		return 0, true, nil
	}

	value, err := s.Client.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) || value == pendingMarker {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	orderID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return orderID, false, nil
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, customerID int64, key string, orderID int64) error {
	return s.Client.Set(ctx, idempotencyKey(customerID, key), strconv.FormatInt(orderID, 10), s.TTL).Err()
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, customerID int64, key string) error {
	return s.Client.Del(ctx, idempotencyKey(customerID, key)).Err()
}
