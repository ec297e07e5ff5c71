package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/chuoois/FoodWeb-sub001/events"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// publishScript assigns the next shop sequence number, appends the event to the
// bounded replay log and fans it out, all in one step so the log stays ordered.
var publishScript = redis.NewScript(`
local seq = redis.call('INCR', KEYS[1])
local entry = seq .. '|' .. ARGV[1]
redis.call('RPUSH', KEYS[2], entry)
redis.call('LTRIM', KEYS[2], -tonumber(ARGV[2]), -1)
redis.call('PUBLISH', ARGV[3], entry)
return seq
`)

type RedisOrderStream struct {
	Client     *redis.Client
	ReplaySize int64
}

func NewRedisOrderStream(client *redis.Client, replaySize int64) *RedisOrderStream {
	if replaySize <= 0 {
		replaySize = 256
	}
	return &RedisOrderStream{Client: client, ReplaySize: replaySize}
}

func seqKey(shopID int64) string {
	return "orders:seq:shop:" + strconv.FormatInt(shopID, 10)
}

func logKey(shopID int64) string {
	return "orders:log:shop:" + strconv.FormatInt(shopID, 10)
}

func ChannelName(shopID int64) string {
	return "orders:shop:" + strconv.FormatInt(shopID, 10)
}

func (s *RedisOrderStream) Publish(ctx context.Context, event *events.OrderEvent) error {
	event.Seq = 0
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	seq, err := publishScript.Run(ctx, s.Client,
		[]string{seqKey(event.ShopID), logKey(event.ShopID)},
		string(payload), s.ReplaySize, ChannelName(event.ShopID),
	).Int64()
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	event.Seq = seq
	return nil
}

func decodeEntry(entry string) (events.OrderEvent, error) {
	var event events.OrderEvent
	head, body, ok := strings.Cut(entry, "|")
	if !ok {
		return event, errors.New("malformed stream entry")
	}
	seq, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return event, fmt.Errorf("malformed stream sequence: %w", err)
	}
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		return event, err
	}
	event.Seq = seq
	return event, nil
}

// Replay returns the logged events after afterSeq. A sequence ahead of the
// counter means the counter was reset, which is reported as a gap too.
func (s *RedisOrderStream) Replay(ctx context.Context, shopID, afterSeq int64) (*domain.Replay, error) {
	head, err := s.Client.Get(ctx, seqKey(shopID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	replay := &domain.Replay{Head: head}
	if afterSeq >= head {
		replay.Gap = afterSeq > head
		return replay, nil
	}

	entries, err := s.Client.LRange(ctx, logKey(shopID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		event, err := decodeEntry(entry)
		if err != nil {
			log.Warn().Err(err).Int64("shop_id", shopID).Msg("skipping unreadable stream entry")
			continue
		}
		if event.Seq > afterSeq {
			replay.Events = append(replay.Events, event)
		}
	}

	if len(replay.Events) == 0 || replay.Events[0].Seq != afterSeq+1 {
		replay.Gap = true
		replay.Events = nil
		return replay, nil
	}
	if last := replay.Events[len(replay.Events)-1].Seq; last > replay.Head {
		replay.Head = last
	}
	return replay, nil
}

// Subscribe confirms the subscription before returning, so nothing published
// afterwards can be missed by a replay read that follows.
func (s *RedisOrderStream) Subscribe(ctx context.Context, shopID int64) (domain.Subscription, error) {
	pubsub := s.Client.Subscribe(ctx, ChannelName(shopID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe to shop %d: %w", shopID, err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		events: make(chan events.OrderEvent, 64),
		done:   make(chan struct{}),
	}
	go sub.pump()
	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	events chan events.OrderEvent
	done   chan struct{}
	once   sync.Once
}

func (s *redisSubscription) pump() {
	defer close(s.events)
	for msg := range s.pubsub.Channel() {
		event, err := decodeEntry(msg.Payload)
		if err != nil {
			log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping unreadable order event")
			continue
		}
		select {
		case s.events <- event:
		case <-s.done:
			return
		}
	}
}

func (s *redisSubscription) Events() <-chan events.OrderEvent {
	return s.events
}

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}
