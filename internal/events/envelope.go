package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bus names shared with the other services.
const (
	EventsExchange           = "ecommerce.events"
	OrderSubmittedRoutingKey = "order.submitted.v1"
	producerName             = "storefront-service"
)

var ErrInvalidEnvelope = errors.New("invalid event envelope")

// EventType names one versioned event and the schema of its payload.
type EventType struct {
	Name    string
	Version int
	Schema  string
}

// Envelope is how the storefront frames its events on the bus. The JSON field
// names are the bus-wide contract and must not change.
type Envelope[T any] struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	Sequence      *int64    `json:"sequence,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
	Payload       T         `json:"payload"`
}

// EnvelopeMetadata carries request context into the envelope. An empty
// CorrelationID gets a fresh one.
type EnvelopeMetadata struct {
	CorrelationID string
}

func newEnvelope[T any](et EventType, partitionKey string, seq int64, meta EnvelopeMetadata, payload T) Envelope[T] {
	if meta.CorrelationID == "" {
		meta.CorrelationID = uuid.NewString()
	}
	return Envelope[T]{
		EventName:     et.Name,
		EventVersion:  et.Version,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		Producer:      producerName,
		PartitionKey:  partitionKey,
		Sequence:      &seq,
		OccurredAt:    time.Now().UTC(),
		Schema:        et.Schema,
		Payload:       payload,
	}
}

func (e Envelope[T]) Validate(et EventType) error {
	switch {
	case e.EventName != et.Name:
		return fmt.Errorf("%w: eventName %q, want %q", ErrInvalidEnvelope, e.EventName, et.Name)
	case e.EventVersion != et.Version:
		return fmt.Errorf("%w: eventVersion %d, want %d", ErrInvalidEnvelope, e.EventVersion, et.Version)
	case e.PartitionKey == "":
		return fmt.Errorf("%w: missing partitionKey", ErrInvalidEnvelope)
	case e.Producer != producerName:
		return fmt.Errorf("%w: producer %q", ErrInvalidEnvelope, e.Producer)
	}
	return nil
}
