package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisCartStore keeps each cart as a hash of JSON lines keyed by cart key.
// Every write pushes the expiry out by TTL.
type RedisCartStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{Client: client, TTL: ttl}
}

func cartKey(customerID int64) string {
	return "cart:" + strconv.FormatInt(customerID, 10)
}

func (s *RedisCartStore) Items(ctx context.Context, customerID int64) ([]domain.CartItem, error) {
	fields, err := s.Client.HGetAll(ctx, cartKey(customerID)).Result()
	if err != nil {
		return nil, err
	}
	items := make([]domain.CartItem, 0, len(fields))
	for key, raw := range fields {
		var item domain.CartItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			log.Warn().Err(err).Int64("customer_id", customerID).Str("key", key).Msg("dropping unreadable cart line")
			continue
		}
		item.Key = key
		items = append(items, item)
	}
	return items, nil
}

func (s *RedisCartStore) Item(ctx context.Context, customerID int64, key string) (*domain.CartItem, error) {
	raw, err := s.Client.HGet(ctx, cartKey(customerID), key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	var item domain.CartItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, fmt.Errorf("decode cart line: %w", err)
	}
	item.Key = key
	return &item, nil
}

func (s *RedisCartStore) Put(ctx context.Context, customerID int64, item domain.CartItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	key := cartKey(customerID)
	_, err = s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, item.Key, payload)
		pipe.Expire(ctx, key, s.TTL)
		return nil
	})
	return err
}

func (s *RedisCartStore) Remove(ctx context.Context, customerID int64, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.Client.HDel(ctx, cartKey(customerID), keys...).Err()
}

func (s *RedisCartStore) Clear(ctx context.Context, customerID int64) error {
	return s.Client.Del(ctx, cartKey(customerID)).Err()
}
