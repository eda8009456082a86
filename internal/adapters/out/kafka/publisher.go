// Package kafka publishes simulator notifications to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dronedelivery/internal/core/application/simulator"
	"dronedelivery/internal/pkg/errs"
	"dronedelivery/internal/pkg/logging"

	"github.com/IBM/sarama"
)

// DefaultTopic receives notifications when no topic is configured.
const DefaultTopic = "drone-notifications"

// ErrPublisherIsNotConstructed is returned when a Publisher was not created through its constructors.
var ErrPublisherIsNotConstructed = errors.New("Publisher must be created via NewPublisher constructor")

// NewConfig returns the producer configuration: every replica acknowledges,
// sends are retried, and successes are returned as the sync producer requires.
func NewConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "dronedelivery"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Producer.Return.Successes = true
	config.Net.DialTimeout = 10 * time.Second
	config.Net.ReadTimeout = 10 * time.Second
	config.Net.WriteTimeout = 10 * time.Second
	return config
}

// Publisher writes each notification as a JSON message keyed by vehicle id,
// so one vehicle's events stay ordered within a partition.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewPublisher connects a sync producer to brokers.
//
// Parameters:
//   - brokers: at least one broker address
//   - topic: destination topic; empty means DefaultTopic
//   - logger: component logger; nil discards
//
// Returns:
//   - *Publisher: ready to subscribe to simulator channels
//   - error: ValueIsRequiredError without brokers, or the producer error
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}

	producer, err := sarama.NewSyncProducer(brokers, NewConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return NewPublisherWithProducer(producer, topic, logger)
}

// NewPublisherWithProducer wraps an existing producer.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger) (*Publisher, error) {
	if producer == nil {
		return nil, errs.NewValueIsRequiredError("producer")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "KafkaPublisher", "topic", topic),
	}, nil
}

// Topic returns the destination topic.
func (p *Publisher) Topic() string {
	return p.topic
}

// Publish sends one notification and waits for the acknowledgement.
func (p *Publisher) Publish(ctx context.Context, n simulator.Notification) error {
	if p == nil || p.producer == nil {
		return ErrPublisherIsNotConstructed
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(n.VehicleID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("channel"), Value: []byte(n.Channel)},
		},
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish notification",
			"channel", n.Channel, "vehicleId", n.VehicleID, "error", err)
		return fmt.Errorf("publish %s notification: %w", n.Channel, err)
	}

	p.logger.DebugContext(ctx, "notification published",
		"channel", n.Channel, "vehicleId", n.VehicleID, "partition", partition, "offset", offset)
	return nil
}

// Observer adapts Publish to a simulator observer.
func (p *Publisher) Observer() simulator.Observer {
	return p.Publish
}

// Close flushes and closes the producer.
func (p *Publisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
