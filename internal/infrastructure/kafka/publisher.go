package kafka

import (
	"context"
	"strings"

	"github.com/emporium/backoffice/internal/domain"
	"github.com/emporium/backoffice/pkg/kafka"
)

const eventSource = "/backoffice/api"

// EventPublisher adapts the circuit breaker protected Kafka producer to the
// domain.EventPublisher interface. Events are routed to a topic by their
// type prefix and keyed by the id of the entity they describe.
type EventPublisher struct {
	producer *kafka.CircuitBreakerProducer
}

// NewEventPublisher creates a new EventPublisher
func NewEventPublisher(producer *kafka.CircuitBreakerProducer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// Publish publishes a single domain event
func (p *EventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	envelope := kafka.NewEvent(eventSource, event.EventType(), subjectOf(event), event)
	envelope.Time = event.OccurredAt()

	return p.producer.PublishEvent(ctx, topicFor(event.EventType()), envelope)
}

// PublishAll publishes multiple domain events, grouped per topic
func (p *EventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	byTopic := make(map[string][]*kafka.Event)
	for _, event := range events {
		envelope := kafka.NewEvent(eventSource, event.EventType(), subjectOf(event), event)
		envelope.Time = event.OccurredAt()

		topic := topicFor(event.EventType())
		byTopic[topic] = append(byTopic[topic], envelope)
	}

	for topic, envelopes := range byTopic {
		if err := p.producer.PublishBatch(ctx, topic, envelopes); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying producer
func (p *EventPublisher) Close() error {
	return p.producer.Close()
}

func topicFor(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "product."):
		return kafka.Topics.StockEvents
	case strings.HasPrefix(eventType, "seller."):
		return kafka.Topics.SaleEvents
	case strings.HasPrefix(eventType, "sale."):
		return kafka.Topics.SaleEvents
	case strings.HasPrefix(eventType, "customer."):
		return kafka.Topics.CustomerEvents
	case strings.HasPrefix(eventType, "bill."):
		return kafka.Topics.BillEvents
	case strings.HasPrefix(eventType, "parcel."):
		return kafka.Topics.ParcelEvents
	case strings.HasPrefix(eventType, "return."):
		return kafka.Topics.ReturnEvents
	default:
		return kafka.Topics.StockEvents
	}
}

func subjectOf(event domain.DomainEvent) string {
	switch e := event.(type) {
	case *domain.ProductCreatedEvent:
		return e.ProductID
	case *domain.StockAdjustedEvent:
		return e.ProductID
	case *domain.SellerCreatedEvent:
		return e.SellerID
	case *domain.CommissionAdjustedEvent:
		return e.SellerID
	case *domain.CustomerCreatedEvent:
		return e.CustomerID
	case *domain.CustomerDeletedEvent:
		return e.CustomerID
	case *domain.BillCreatedEvent:
		return e.BillID
	case *domain.BillPaymentAddedEvent:
		return e.BillID
	case *domain.BillCancelledEvent:
		return e.BillID
	case *domain.ParcelCreatedEvent:
		return e.ParcelID
	case *domain.ParcelReturnedEvent:
		return e.ParcelID
	case *domain.ReturnCreatedEvent:
		return e.ReturnID
	default:
		return event.EventType()
	}
}
