package kafka

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Producer handles publishing messages to Kafka topics, one lazily created
// writer per topic sharing a single transport
type Producer struct {
	writers   map[string]*kafka.Writer
	transport *kafka.Transport
	config    *Config
}

// NewProducer creates a new Kafka producer
func NewProducer(config *Config) *Producer {
	return &Producer{
		writers:   make(map[string]*kafka.Writer),
		transport: newTransport(config),
		config:    config,
	}
}

func newTransport(config *Config) *kafka.Transport {
	transport := &kafka.Transport{
		ClientID: config.ClientID,
	}

	if config.TLSEnabled {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	if config.SASLEnabled {
		transport.SASL = saslMechanism(config)
	}

	return transport
}

func saslMechanism(config *Config) sasl.Mechanism {
	switch config.SASLMechanism {
	case "SCRAM-SHA-256":
		if m, err := scram.Mechanism(scram.SHA256, config.SASLUsername, config.SASLPassword); err == nil {
			return m
		}
	case "SCRAM-SHA-512":
		if m, err := scram.Mechanism(scram.SHA512, config.SASLUsername, config.SASLPassword); err == nil {
			return m
		}
	}
	return plain.Mechanism{Username: config.SASLUsername, Password: config.SASLPassword}
}

// getWriter returns a writer for the specified topic, creating one if necessary
func (p *Producer) getWriter(topic string) *kafka.Writer {
	if writer, exists := p.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.config.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    p.config.BatchSize,
		BatchTimeout: p.config.BatchTimeout,
		RequiredAcks: kafka.RequiredAcks(p.config.RequiredAcks),
		Async:        false,
		Transport:    p.transport,
	}

	p.writers[topic] = writer
	return writer
}

func eventMessage(event *Event) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event %s: %w", event.ID, err)
	}

	// Keyed by subject so all events for one entity land on the same partition
	msg := kafka.Message{
		Key:   []byte(event.Subject),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "event-source", Value: []byte(event.Source)},
			{Key: "event-id", Value: []byte(event.ID)},
			{Key: "event-time", Value: []byte(event.Time.Format(time.RFC3339))},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: event.Time,
	}

	if event.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{
			Key:   "correlation-id",
			Value: []byte(event.CorrelationID),
		})
	}

	return msg, nil
}

// PublishEvent publishes an event to the specified topic
func (p *Producer) PublishEvent(ctx context.Context, topic string, event *Event) error {
	msg, err := eventMessage(event)
	if err != nil {
		return err
	}

	writer := p.getWriter(topic)
	if err := writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event to topic %s: %w", topic, err)
	}

	return nil
}

// PublishBatch publishes multiple events to a topic
func (p *Producer) PublishBatch(ctx context.Context, topic string, events []*Event) error {
	messages := make([]kafka.Message, 0, len(events))

	for _, event := range events {
		msg, err := eventMessage(event)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	writer := p.getWriter(topic)
	if err := writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to publish batch to topic %s: %w", topic, err)
	}

	return nil
}

// Close closes all writers
func (p *Producer) Close() error {
	var lastErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close writer for topic %s: %w", topic, err)
		}
	}
	return lastErr
}
