// Package eventbus publishes domain events as JSON messages on a Kafka topic.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookingdesk/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher interface {
	Publish(ctx context.Context, key string, payload interface{}) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
	topic  string
	log    *logger.Logger
}

// NewKafkaPublisher writes synchronously to topic with one-broker acks
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return NewKafkaPublisherWith(writer, topic, log)
}

func NewKafkaPublisherWith(writer MessageWriter, topic string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic, log: logger.OrDefault(log).WithComponent("eventbus")}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", p.topic, err)
	}

	p.log.DebugContext(ctx, "event published", "topic", p.topic, "key", key)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop drops every event; used when BOOKING_EVENTS_ENABLED is false
type Noop struct{}

func (Noop) Publish(context.Context, string, interface{}) error { return nil }
func (Noop) Close() error                                      { return nil }

// Fanout publishes each event to every publisher and joins their errors
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, key string, payload interface{}) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, key, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, p := range f {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}
