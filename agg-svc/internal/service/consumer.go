package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chuoois/FoodWeb-sub001/agg-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/events"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

type Aggregator struct {
	Store StoreInterface
	Cache CacheInterface
}

func NewAggregator(store StoreInterface, cache CacheInterface) *Aggregator {
	return &Aggregator{
		Store: store,
		Cache: cache,
	}
}

var _ AggregatorInterface = (*Aggregator)(nil)

// ProcessOrderEvent rolls a delivered order into its shop's daily revenue once.
func (a *Aggregator) ProcessOrderEvent(ctx context.Context, event events.OrderEvent) error {
	delivery, ok := domain.DeliveryFrom(event)
	if !ok {
		return nil
	}

	first, err := a.Cache.MarkDelivered(ctx, delivery.OrderID)
	if err != nil {
		return fmt.Errorf("mark order %d: %w", delivery.OrderID, err)
	}
	if !first {
		log.Debug().Int64("order_id", delivery.OrderID).Msg("duplicate delivery event skipped")
		return nil
	}

	if err := a.Store.AddDelivery(ctx, delivery); err != nil {
		if unmarkErr := a.Cache.UnmarkDelivered(ctx, delivery.OrderID); unmarkErr != nil {
			log.Error().Err(unmarkErr).Int64("order_id", delivery.OrderID).Msg("failed to clear delivery marker")
		}
		return fmt.Errorf("add delivery %d: %w", delivery.OrderID, err)
	}

	if err := a.Cache.BumpLeaderboard(ctx, delivery.Month, delivery.ShopID, delivery.Total); err != nil {
		log.Error().Err(err).Int64("shop_id", delivery.ShopID).Msg("failed to update revenue leaderboard")
	}

	log.Info().Int64("order_id", delivery.OrderID).Int64("shop_id", delivery.ShopID).
		Int64("total", delivery.Total).Msg("delivery aggregated")
	return nil
}

func (a *Aggregator) ProcessReview(ctx context.Context, event events.ReviewEvent) error {
	if event.Type != events.TypeShopReview {
		return nil
	}
	log.Info().Int64("shop_id", event.ShopID).Int("rating", event.Rating).Msg("processing review")

	rating, err := a.Store.RecomputeShopRating(ctx, event.ShopID)
	if err != nil {
		return fmt.Errorf("recompute rating of shop %d: %w", event.ShopID, err)
	}

	if err := a.Cache.CacheShopRating(ctx, rating); err != nil {
		log.Error().Err(err).Int64("shop_id", event.ShopID).Msg("failed to cache shop rating")
	}
	return nil
}

// Consumer drives one topic. A message is committed once Handle succeeds or its
// payload turns out to be malformed; until then it is retried in place and no
// later offset is fetched.
type Consumer struct {
	Name    string
	Reader  MessageReader
	Handle  func(ctx context.Context, message kafka.Message) error
	BackOff func() backoff.BackOff
}

func retryBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func NewOrderEventsConsumer(reader MessageReader, aggregator AggregatorInterface) *Consumer {
	return &Consumer{
		Name:    "order-events",
		Reader:  reader,
		BackOff: retryBackOff,
		Handle:  func(ctx context.Context, message kafka.Message) error {
			var event events.OrderEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
			}
			return aggregator.ProcessOrderEvent(ctx, event)
		},
	}
}

func NewReviewsConsumer(reader MessageReader, aggregator AggregatorInterface) *Consumer {
	return &Consumer{
		Name:    "reviews",
		Reader:  reader,
		BackOff: retryBackOff,
		Handle:  func(ctx context.Context, message kafka.Message) error {
			var event events.ReviewEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
			}
			return aggregator.ProcessReview(ctx, event)
		},
	}
}

var ErrMalformedMessage = errors.New("malformed message")

// Start blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	log.Info().Str("consumer", c.Name).Msg("Starting aggregation consumer")
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%s reader closed: %w", c.Name, err)
			}
			log.Error().Err(err).Str("consumer", c.Name).Msg("Error reading message")
			continue
		}

		if err := c.process(ctx, message); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%s offset %d: %w", c.Name, message.Offset, err)
		}

		if err := c.Reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("consumer", c.Name).Msg("Error committing offset")
		}
	}
}

// process handles one message, retrying failures until it succeeds or ctx ends.
func (c *Consumer) process(ctx context.Context, message kafka.Message) error {
	handle := func() error {
		err := c.Handle(ctx, message)
		if errors.Is(err, ErrMalformedMessage) {
			log.Warn().Err(err).Str("consumer", c.Name).Int64("offset", message.Offset).Msg("Skipping malformed message")
			return nil
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Error().Err(err).Str("consumer", c.Name).Int64("offset", message.Offset).
			Dur("retry_in", wait).Msg("Error processing message")
	}

	newBackOff := c.BackOff
	if newBackOff == nil {
		newBackOff = retryBackOff
	}
	return backoff.RetryNotify(handle, backoff.WithContext(newBackOff(), ctx), notify)
}
