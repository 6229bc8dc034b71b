package notifications

import (
	"fmt"

	"bookingdesk/internal/shared/config"
	"bookingdesk/pkg/logger"
)

const (
	TransportLocal = "local"
	TransportKafka = "kafka"
)

// NewEmailService picks SMTP when a host is configured, else the log sender
func NewEmailService(cfg config.EmailConfig, log *logger.Logger) (EmailService, error) {
	if cfg.SMTPHost == "" {
		logger.OrDefault(log).Warn("SMTP_HOST not set; emails will only be logged")
		return NewLogEmailService(log), nil
	}
	return NewSMTPEmailService(NewSMTPConfig(cfg), log)
}

// NewQueue builds the notification transport selected by NOTIFICATION_TRANSPORT
func NewQueue(cfg config.KafkaConfig, email EmailService, log *logger.Logger) (Queue, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 3
	}

	switch cfg.NotificationTransport {
	case "", TransportLocal:
		return NewLocalQueue(email, workers, 256, DefaultRetryPolicy(), log), nil

	case TransportKafka:
		producerConfig := DefaultKafkaProducerConfig()
		producerConfig.Brokers = cfg.Brokers
		producerConfig.NotificationTopic = cfg.NotificationTopic

		producer, err := NewKafkaNotificationProducer(producerConfig, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create notification producer: %w", err)
		}

		consumerConfig := DefaultConsumerConfig()
		consumerConfig.Brokers = cfg.Brokers
		consumerConfig.Topics = []string{cfg.NotificationTopic}
		consumerConfig.GroupID = cfg.ConsumerGroup

		consumer, err := NewKafkaNotificationConsumer(consumerConfig, email, log)
		if err != nil {
			_ = producer.Close()
			return nil, fmt.Errorf("failed to create notification consumer: %w", err)
		}
		return NewKafkaQueue(producer, consumer, workers), nil

	default:
		return nil, fmt.Errorf("unknown notification transport %q", cfg.NotificationTransport)
	}
}

// NewFromConfig wires email sender, queue and dispatcher
func NewFromConfig(cfg *config.Config, files FileReader, log *logger.Logger) (*Dispatcher, error) {
	email, err := NewEmailService(cfg.Email, log)
	if err != nil {
		return nil, err
	}
	queue, err := NewQueue(cfg.Kafka, email, log)
	if err != nil {
		return nil, err
	}
	return NewDispatcher(queue, files, DispatcherOptions{
		CompanyName: cfg.Company.Name,
		LoginURL:    cfg.AppURL + "/login",
	}, log), nil
}
