package tests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/chuoois/FoodWeb-sub001/agg-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/agg-svc/internal/mocks"
	"github.com/chuoois/FoodWeb-sub001/agg-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/events"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 23:30 UTC on Oct 31 is already Nov 1 in the business zone.
var deliveredAt = time.Date(2026, 10, 31, 23, 30, 0, 0, time.UTC)

func deliveredEvent(orderID int64) events.OrderEvent {
	return events.OrderEvent{
		Type:           events.TypeOrderStatusChanged,
		ShopID:         4,
		OrderID:        orderID,
		Status:         "DELIVERED",
		PreviousStatus: "SHIPPING",
		Subtotal:       55000,
		TotalAmount:    106000,
		OccurredAt:     deliveredAt,
	}
}

func TestAggregator_ProcessOrderEvent(t *testing.T) {
	ctx := context.Background()
	matchDelivery := mock.MatchedBy(func(d domain.Delivery) bool {
		return d.OrderID == 9 && d.ShopID == 4 && d.Total == 106000 && d.Subtotal == 55000 &&
			d.Month == "2026-11" && d.Day.Format("2006-01-02") == "2026-11-01"
	})

	tests := []struct {
		name       string
		event      events.OrderEvent
		setupMocks func(store *mocks.StoreInterface, cache *mocks.CacheInterface)
		wantError  bool
	}{
		{
			name:  "success",
			event: deliveredEvent(9),
			setupMocks: func(store *mocks.StoreInterface, cache *mocks.CacheInterface) {
				cache.On("MarkDelivered", ctx, int64(9)).Return(true, nil).Once()
				store.On("AddDelivery", ctx, matchDelivery).Return(nil).Once()
				cache.On("BumpLeaderboard", ctx, "2026-11", int64(4), int64(106000)).Return(nil).Once()
			},
		},
		{
			name:  "duplicate_delivery",
			event: deliveredEvent(9),
			setupMocks: func(store *mocks.StoreInterface, cache *mocks.CacheInterface) {
				cache.On("MarkDelivered", ctx, int64(9)).Return(false, nil).Once()
			},
		},
		{
			name: "not_delivered",
			event: events.OrderEvent{
				Type: events.TypeOrderStatusChanged, ShopID: 4, OrderID: 9, Status: "SHIPPING", OccurredAt: deliveredAt,
			},
			setupMocks: func(store *mocks.StoreInterface, cache *mocks.CacheInterface) {},
		},
		{
			name: "created_event_ignored",
			event: events.OrderEvent{
				Type: events.TypeOrderCreated, ShopID: 4, OrderID: 9, Status: "DELIVERED", OccurredAt: deliveredAt,
			},
			setupMocks: func(store *mocks.StoreInterface, cache *mocks.CacheInterface) {},
		},
		{
			name:  "database_error_clears_marker",
			event: deliveredEvent(9),
			setupMocks: func(store *mocks.StoreInterface, cache *mocks.CacheInterface) {
				cache.On("MarkDelivered", ctx, int64(9)).Return(true, nil).Once()
				store.On("AddDelivery", ctx, matchDelivery).Return(errors.New("db connection failed")).Once()
				cache.On("UnmarkDelivered", ctx, int64(9)).Return(nil).Once()
			},
			wantError: true,
		},
		{
			name:  "leaderboard_error_is_not_fatal",
			event: deliveredEvent(9),
			setupMocks: func(store *mocks.StoreInterface, cache *mocks.CacheInterface) {
				cache.On("MarkDelivered", ctx, int64(9)).Return(true, nil).Once()
				store.On("AddDelivery", ctx, matchDelivery).Return(nil).Once()
				cache.On("BumpLeaderboard", ctx, "2026-11", int64(4), int64(106000)).Return(errors.New("redis error")).Once()
			},
		},
		{
			name:  "marker_error",
			event: deliveredEvent(9),
			setupMocks: func(store *mocks.StoreInterface, cache *mocks.CacheInterface) {
				cache.On("MarkDelivered", ctx, int64(9)).Return(false, errors.New("redis error")).Once()
			},
			wantError: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := mocks.NewStoreInterface(t)
			cache := mocks.NewCacheInterface(t)
			testCase.setupMocks(store, cache)

			err := service.NewAggregator(store, cache).ProcessOrderEvent(ctx, testCase.event)
			if testCase.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAggregator_ProcessReview(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store := mocks.NewStoreInterface(t)
		cache := mocks.NewCacheInterface(t)
		rating := domain.ShopRating{ShopID: 4, Rating: 4.5, ReviewCount: 2}
		store.On("RecomputeShopRating", ctx, int64(4)).Return(rating, nil).Once()
		cache.On("CacheShopRating", ctx, rating).Return(nil).Once()

		err := service.NewAggregator(store, cache).ProcessReview(ctx, events.ReviewEvent{Type: events.TypeShopReview, ShopID: 4, Rating: 5})
		assert.NoError(t, err)
	})

	t.Run("recompute_error", func(t *testing.T) {
		store := mocks.NewStoreInterface(t)
		cache := mocks.NewCacheInterface(t)
		store.On("RecomputeShopRating", ctx, int64(4)).Return(domain.ShopRating{}, errors.New("db connection failed")).Once()

		err := service.NewAggregator(store, cache).ProcessReview(ctx, events.ReviewEvent{Type: events.TypeShopReview, ShopID: 4, Rating: 5})
		assert.Error(t, err)
	})

	t.Run("unknown_type", func(t *testing.T) {
		store := mocks.NewStoreInterface(t)
		cache := mocks.NewCacheInterface(t)

		err := service.NewAggregator(store, cache).ProcessReview(ctx, events.ReviewEvent{Type: "new_review", ShopID: 4})
		assert.NoError(t, err)
		store.AssertNotCalled(t, "RecomputeShopRating")
	})
}

// fakeReader serves queued messages, then io.EOF, as a closed kafka.Reader does.
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
	trace     *[]string
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}
	if len(r.messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	message := r.messages[0]
	r.messages = r.messages[1:]
	return message, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
		if r.trace != nil {
			*r.trace = append(*r.trace, fmt.Sprintf("commit %d", m.Offset))
		}
	}
	return nil
}

func noWait() backoff.BackOff {
	return &backoff.ZeroBackOff{}
}

func TestConsumer_CommitsHandledAndMalformed(t *testing.T) {
	ctx := context.Background()
	good, err := json.Marshal(deliveredEvent(9))
	require.NoError(t, err)

	reader := &fakeReader{messages: []kafka.Message{
		{Offset: 1, Value: good},
		{Offset: 2, Value: []byte("{not json")},
	}}

	store := mocks.NewStoreInterface(t)
	cache := mocks.NewCacheInterface(t)
	cache.On("MarkDelivered", mock.Anything, int64(9)).Return(true, nil).Once()
	store.On("AddDelivery", mock.Anything, mock.AnythingOfType("domain.Delivery")).Return(nil).Once()
	cache.On("BumpLeaderboard", mock.Anything, "2026-11", int64(4), int64(106000)).Return(nil).Once()

	consumer := service.NewOrderEventsConsumer(reader, service.NewAggregator(store, cache))
	consumer.BackOff = noWait
	err = consumer.Start(ctx)

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestConsumer_RetriesFailedMessageBeforeMovingOn(t *testing.T) {
	ctx := context.Background()
	first, err := json.Marshal(deliveredEvent(10))
	require.NoError(t, err)
	second, err := json.Marshal(deliveredEvent(11))
	require.NoError(t, err)

	var trace []string
	reader := &fakeReader{
		messages: []kafka.Message{{Offset: 1, Value: first}, {Offset: 2, Value: second}},
		trace:    &trace,
	}
	record := func(args mock.Arguments) {
		trace = append(trace, fmt.Sprintf("add %d", args.Get(1).(domain.Delivery).OrderID))
	}

	store := mocks.NewStoreInterface(t)
	cache := mocks.NewCacheInterface(t)
	cache.On("MarkDelivered", mock.Anything, int64(10)).Return(true, nil).Twice()
	store.On("AddDelivery", mock.Anything, mock.MatchedBy(func(d domain.Delivery) bool { return d.OrderID == 10 })).
		Run(record).Return(errors.New("db connection failed")).Once()
	cache.On("UnmarkDelivered", mock.Anything, int64(10)).Return(nil).Once()
	store.On("AddDelivery", mock.Anything, mock.MatchedBy(func(d domain.Delivery) bool { return d.OrderID == 10 })).
		Run(record).Return(nil).Once()
	cache.On("MarkDelivered", mock.Anything, int64(11)).Return(true, nil).Once()
	store.On("AddDelivery", mock.Anything, mock.MatchedBy(func(d domain.Delivery) bool { return d.OrderID == 11 })).
		Run(record).Return(nil).Once()
	cache.On("BumpLeaderboard", mock.Anything, "2026-11", int64(4), int64(106000)).Return(nil).Twice()

	consumer := service.NewOrderEventsConsumer(reader, service.NewAggregator(store, cache))
	consumer.BackOff = noWait
	err = consumer.Start(ctx)

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"add 10", "add 10", "commit 1", "add 11", "commit 2"}, trace)
}

func TestConsumer_StopsRetryingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	payload, err := json.Marshal(deliveredEvent(10))
	require.NoError(t, err)

	reader := &fakeReader{messages: []kafka.Message{{Offset: 1, Value: payload}, {Offset: 2, Value: payload}}}
	store := mocks.NewStoreInterface(t)
	cache := mocks.NewCacheInterface(t)
	attempts := 0
	cache.On("MarkDelivered", mock.Anything, int64(10)).Run(func(mock.Arguments) {
		attempts++
		if attempts == 3 {
			cancel()
		}
	}).Return(false, errors.New("redis error")).Times(3)

	consumer := service.NewOrderEventsConsumer(reader, service.NewAggregator(store, cache))
	consumer.BackOff = noWait

	assert.NoError(t, consumer.Start(ctx))
	assert.Empty(t, reader.committed)
	assert.Len(t, reader.messages, 1, "the next offset is never fetched")
}

func TestConsumer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	consumer := service.NewReviewsConsumer(&fakeReader{}, service.NewAggregator(mocks.NewStoreInterface(t), mocks.NewCacheInterface(t)))
	assert.NoError(t, consumer.Start(ctx))
}
