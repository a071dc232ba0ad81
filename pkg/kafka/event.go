package kafka

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for every message published to the event topics.
// Data carries the domain event payload and is marshalled as-is.
type Event struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	Source        string      `json:"source"`
	Subject       string      `json:"subject"`
	Time          time.Time   `json:"time"`
	CorrelationID string      `json:"correlationId,omitempty"`
	Data          interface{} `json:"data"`
}

// NewEvent creates an event envelope for a domain event payload
func NewEvent(source, eventType, subject string, data interface{}) *Event {
	return &Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Source:  source,
		Subject: subject,
		Time:    time.Now().UTC(),
		Data:    data,
	}
}

// WithCorrelationID attaches a correlation id for cross-request tracing
func (e *Event) WithCorrelationID(correlationID string) *Event {
	e.CorrelationID = correlationID
	return e
}
