package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"bookingdesk/pkg/logger"

	"github.com/IBM/sarama"
)

type ConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	SessionTimeoutMs  int
	HeartbeatMs       int
	RetryBackoffMs    int
	MaxProcessingTime time.Duration
	OffsetOldest      bool
	Retry             RetryPolicy
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:           []string{"localhost:9092"},
		GroupID:           "bookingdesk-notifications",
		Topics:            []string{"email-notifications"},
		SessionTimeoutMs:  30000,
		HeartbeatMs:       3000,
		RetryBackoffMs:    100,
		MaxProcessingTime: 5 * time.Minute,
		OffsetOldest:      true,
		Retry:             DefaultRetryPolicy(),
	}
}

// KafkaNotificationConsumer drains the notification topic through a consumer group
type KafkaNotificationConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	emailService  EmailService
	log           *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewKafkaNotificationConsumer(config *ConsumerConfig, emailService EmailService, log *logger.Logger) (*KafkaNotificationConsumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Retry.Backoff = time.Duration(config.RetryBackoffMs) * time.Millisecond
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaNotificationConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		emailService:  emailService,
		log:           logger.OrDefault(log).WithComponent("notification-consumer"),
	}, nil
}

func (knc *KafkaNotificationConsumer) StartConsumers(ctx context.Context, numWorkers int) error {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	ctx, knc.cancel = context.WithCancel(ctx)

	go knc.handleErrors()

	for i := 0; i < numWorkers; i++ {
		knc.wg.Add(1)
		go func(workerID int) {
			defer knc.wg.Done()
			knc.runWorker(ctx, workerID)
		}(i)
	}

	knc.log.Info("notification consumers started", "workers", numWorkers, "topics", knc.config.Topics)
	return nil
}

func (knc *KafkaNotificationConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &ConsumerGroupHandler{
		workerID:     workerID,
		emailService: knc.emailService,
		retry:        knc.config.Retry,
		log:          &logger.Logger{Logger: knc.log.With("worker", workerID)},
	}

	for {
		if ctx.Err() != nil {
			return
		}
		err := knc.consumerGroup.Consume(ctx, knc.config.Topics, handler)
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return
		}
		if err != nil {
			handler.log.WithError(err).Warn("consume failed")
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (knc *KafkaNotificationConsumer) handleErrors() {
	for err := range knc.consumerGroup.Errors() {
		knc.log.WithError(err).Error("consumer group error")
	}
}

func (knc *KafkaNotificationConsumer) Stop() error {
	if knc.cancel != nil {
		knc.cancel()
	}
	knc.wg.Wait()

	if err := knc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	knc.log.Info("notification consumers stopped")
	return nil
}

type ConsumerGroupHandler struct {
	workerID     int
	emailService EmailService
	retry        RetryPolicy
	log          *logger.Logger
}

func (h *ConsumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *ConsumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *ConsumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			h.processMessage(session.Context(), message)
			// failed mail is logged, not redelivered forever
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *ConsumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) {
	var notification EmailNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		h.log.WithError(err).Error("dropping malformed notification",
			"topic", message.Topic, "partition", message.Partition, "offset", message.Offset)
		return
	}
	_ = deliver(ctx, h.emailService, &notification, h.retry, h.log)
}

// KafkaQueue publishes through the sync producer and delivers from the consumer group
type KafkaQueue struct {
	producer *KafkaNotificationProducer
	consumer *KafkaNotificationConsumer
	workers  int
}

func NewKafkaQueue(producer *KafkaNotificationProducer, consumer *KafkaNotificationConsumer, workers int) *KafkaQueue {
	return &KafkaQueue{producer: producer, consumer: consumer, workers: workers}
}

func (q *KafkaQueue) Enqueue(ctx context.Context, n *EmailNotification) error {
	return q.producer.PublishNotification(ctx, n)
}

func (q *KafkaQueue) Start(ctx context.Context) error {
	if q.consumer == nil {
		return nil
	}
	return q.consumer.StartConsumers(ctx, q.workers)
}

func (q *KafkaQueue) Stop() error {
	var errs []error
	if q.consumer != nil {
		errs = append(errs, q.consumer.Stop())
	}
	errs = append(errs, q.producer.Close())
	return errors.Join(errs...)
}
