package storage

import (
	"context"
	"encoding/json"

	"github.com/chuoois/FoodWeb-sub001/events"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// PublishOrderEvent keys messages by shop so one shop's events stay ordered
// within a partition.
func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, event events.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   event.Key(),
		Value: payload,
		Time:  event.OccurredAt,
	})
}
