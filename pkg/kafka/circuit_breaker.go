package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/emporium/backoffice/pkg/logging"
	"github.com/emporium/backoffice/pkg/metrics"
	"github.com/emporium/backoffice/pkg/resilience"
)

// CircuitBreakerProducer wraps a Producer with circuit breaker protection and
// publish metrics. When the broker is unhealthy the breaker opens and publish
// calls fail fast instead of blocking request handlers.
type CircuitBreakerProducer struct {
	producer       *Producer
	circuitBreaker *resilience.CircuitBreaker
	metrics        *metrics.Metrics
	logger         *logging.Logger
}

// NewCircuitBreakerProducer creates a new circuit breaker protected Kafka producer
func NewCircuitBreakerProducer(producer *Producer, m *metrics.Metrics, logger *logging.Logger) *CircuitBreakerProducer {
	config := &resilience.CircuitBreakerConfig{
		Name:                  "kafka-producer",
		MaxRequests:           5,
		Interval:              60 * time.Second,
		Timeout:               30 * time.Second,
		FailureThreshold:      5,
		SuccessThreshold:      2,
		FailureRatioThreshold: 0.5,
		MinRequestsToTrip:     10,
	}

	var slogLogger *slog.Logger
	if logger != nil && logger.Logger != nil {
		slogLogger = logger.Logger
	} else {
		slogLogger = slog.Default()
	}

	return &CircuitBreakerProducer{
		producer:       producer,
		circuitBreaker: resilience.NewCircuitBreaker(config, slogLogger),
		metrics:        m,
		logger:         logger,
	}
}

// NewProductionProducer creates a producer wired with metrics and circuit
// breaker protection from a Config
func NewProductionProducer(config *Config, m *metrics.Metrics, logger *logging.Logger) *CircuitBreakerProducer {
	return NewCircuitBreakerProducer(NewProducer(config), m, logger)
}

func (p *CircuitBreakerProducer) record(topic, eventType string, start time.Time, err error) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordKafkaPublish(topic, eventType, err == nil, time.Since(start))
	p.metrics.SetCircuitBreakerState(p.circuitBreaker.Name(), int(p.circuitBreaker.State()))
	if p.circuitBreaker.State() == gobreaker.StateOpen {
		p.metrics.RecordCircuitBreakerTrip(p.circuitBreaker.Name())
	}
}

// PublishEvent publishes an event through the circuit breaker
func (p *CircuitBreakerProducer) PublishEvent(ctx context.Context, topic string, event *Event) error {
	start := time.Now()

	_, err := p.circuitBreaker.Execute(ctx, func() (interface{}, error) {
		return nil, p.producer.PublishEvent(ctx, topic, event)
	})

	p.record(topic, event.Type, start, err)

	if err != nil && p.logger != nil {
		p.logger.WithContext(ctx).Error("Failed to publish event",
			"topic", topic,
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err.Error(),
		)
	}

	return err
}

// PublishBatch publishes multiple events through the circuit breaker
func (p *CircuitBreakerProducer) PublishBatch(ctx context.Context, topic string, events []*Event) error {
	start := time.Now()

	_, err := p.circuitBreaker.Execute(ctx, func() (interface{}, error) {
		return nil, p.producer.PublishBatch(ctx, topic, events)
	})

	eventType := "batch"
	if len(events) == 1 {
		eventType = events[0].Type
	}
	p.record(topic, eventType, start, err)

	if err != nil && p.logger != nil {
		p.logger.WithContext(ctx).Error("Failed to publish batch",
			"topic", topic,
			"count", len(events),
			"error", err.Error(),
		)
	}

	return err
}

// State returns the current circuit breaker state
func (p *CircuitBreakerProducer) State() gobreaker.State {
	return p.circuitBreaker.State()
}

// Close closes the underlying producer
func (p *CircuitBreakerProducer) Close() error {
	return p.producer.Close()
}
