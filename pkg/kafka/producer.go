package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers []string
}

// Publisher sends JSON-encoded messages to a topic.
type Publisher interface {
	Send(ctx context.Context, topic, key string, message interface{}) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

func NewProducer(cfg Config) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one Kafka broker must be specified")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return &Producer{writer: writer}, nil
}

// NewPublisher returns a Producer when brokers are configured and a
// NopPublisher otherwise.
func NewPublisher(cfg Config) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return NopPublisher{}, nil
	}
	return NewProducer(cfg)
}

func (p *Producer) Send(ctx context.Context, topic, key string, message interface{}) error {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Value: msgBytes,
	}
	if key != "" {
		msg.Key = []byte(key)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

type NopPublisher struct{}

func (NopPublisher) Send(context.Context, string, string, interface{}) error { return nil }

func (NopPublisher) Close() error { return nil }
