package storage

import (
	"context"
	"strconv"

	"github.com/chuoois/FoodWeb-sub001/events"
	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisLeaderboard reads the monthly sorted sets agg-svc maintains.
type RedisLeaderboard struct {
	Client *redis.Client
}

func NewRedisLeaderboard(client *redis.Client) *RedisLeaderboard {
	return &RedisLeaderboard{Client: client}
}

var _ service.LeaderboardCache = (*RedisLeaderboard)(nil)

func (c *RedisLeaderboard) TopShops(ctx context.Context, month string, n int) ([]domain.LeaderboardEntry, error) {
	members, err := c.Client.ZRevRangeWithScores(ctx, events.LeaderboardKey(month), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for _, member := range members {
		raw, _ := member.Member.(string)
		shopID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Warn().Str("member", raw).Str("month", month).Msg("skipping bad leaderboard member")
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{ShopID: shopID, Total: int64(member.Score)})
	}
	return entries, nil
}
