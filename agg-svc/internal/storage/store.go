package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chuoois/FoodWeb-sub001/agg-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/events"

	"github.com/redis/go-redis/v9"
)

var ErrShopNotFound = errors.New("shop not found")

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) AddDelivery(ctx context.Context, delivery domain.Delivery) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO shop_revenue_daily (shop_id, day, order_count, subtotal_sum, total_sum)
		VALUES ($1, $2, 1, $3, $4)
		ON CONFLICT (shop_id, day) DO UPDATE SET
			order_count  = shop_revenue_daily.order_count + 1,
			subtotal_sum = shop_revenue_daily.subtotal_sum + EXCLUDED.subtotal_sum,
			total_sum    = shop_revenue_daily.total_sum + EXCLUDED.total_sum
	`, delivery.ShopID, delivery.Day.Format("2006-01-02"), delivery.Subtotal, delivery.Total)
	if err != nil {
		return fmt.Errorf("upsert daily revenue: %w", err)
	}
	return nil
}

func (s *Store) RecomputeShopRating(ctx context.Context, shopID int64) (domain.ShopRating, error) {
	rating := domain.ShopRating{ShopID: shopID}
	err := s.DB.QueryRowContext(ctx, `
		UPDATE shops
		SET rating = COALESCE((
			SELECT ROUND(AVG(rating::numeric), 2)
			FROM reviews
			WHERE shop_id = $1
		), 0),
		review_count = (
			SELECT COUNT(*)
			FROM reviews
			WHERE shop_id = $1
		)
		WHERE id = $1
		RETURNING rating, review_count
	`, shopID).Scan(&rating.Rating, &rating.ReviewCount)
	if errors.Is(err, sql.ErrNoRows) {
		return rating, ErrShopNotFound
	}
	if err != nil {
		return rating, err
	}
	return rating, nil
}

type RedisCache struct {
	Client    *redis.Client
	MarkerTTL time.Duration
}

func NewRedisCache(client *redis.Client, markerTTL time.Duration) *RedisCache {
	return &RedisCache{Client: client, MarkerTTL: markerTTL}
}

func deliveredKey(orderID int64) string {
	return fmt.Sprintf("revenue:delivered:%d", orderID)
}

func ratingKey(shopID int64) string {
	return fmt.Sprintf("shop:rating:%d", shopID)
}

func (c *RedisCache) MarkDelivered(ctx context.Context, orderID int64) (bool, error) {
	return c.Client.SetNX(ctx, deliveredKey(orderID), 1, c.MarkerTTL).Result()
}

func (c *RedisCache) UnmarkDelivered(ctx context.Context, orderID int64) error {
	return c.Client.Del(ctx, deliveredKey(orderID)).Err()
}

// BumpLeaderboard keeps a month's set around for the following month's reports too.
func (c *RedisCache) BumpLeaderboard(ctx context.Context, month string, shopID, total int64) error {
	key := events.LeaderboardKey(month)
	pipe := c.Client.TxPipeline()
	pipe.ZIncrBy(ctx, key, float64(total), strconv.FormatInt(shopID, 10))
	pipe.Expire(ctx, key, 62*24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisCache) CacheShopRating(ctx context.Context, rating domain.ShopRating) error {
	key := ratingKey(rating.ShopID)
	pipe := c.Client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"rating":       rating.Rating,
		"review_count": rating.ReviewCount,
		"last_updated": time.Now().Unix(),
	})
	pipe.Expire(ctx, key, 24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}
