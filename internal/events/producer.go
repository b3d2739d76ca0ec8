package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicUser    = "user_events"
	TopicProduct = "product_events"

	writeTimeout = 5 * time.Second
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

// NewProducer does not dial; brokers are contacted on the first write.
func NewProducer(brokers []string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           writeTimeout,
	}
	return &Producer{writer: w}
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, any) error { return nil }
