package service

import (
	"context"

	"github.com/chuoois/FoodWeb-sub001/agg-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/events"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	AddDelivery(ctx context.Context, delivery domain.Delivery) error
	RecomputeShopRating(ctx context.Context, shopID int64) (domain.ShopRating, error)
}

type CacheInterface interface {
	// MarkDelivered reports true only for the first call per order.
	MarkDelivered(ctx context.Context, orderID int64) (bool, error)
	UnmarkDelivered(ctx context.Context, orderID int64) error
	BumpLeaderboard(ctx context.Context, month string, shopID, total int64) error
	CacheShopRating(ctx context.Context, rating domain.ShopRating) error
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type AggregatorInterface interface {
	ProcessOrderEvent(ctx context.Context, event events.OrderEvent) error
	ProcessReview(ctx context.Context, event events.ReviewEvent) error
}
