// Package events defines the contract shared by every Avro-encoded event.
package events

import "time"

// EventMetadata is the technical envelope embedded in every event.
type EventMetadata struct {
	EventID   string    `avro:"event_id"`
	EventType string    `avro:"event_type"`
	Source    string    `avro:"source"`
	Timestamp time.Time `avro:"timestamp"`
	TraceID   *string   `avro:"trace_id"`
}

// Event is implemented by every message type published or consumed.
type Event interface {
	GetMetadata() *EventMetadata
	// GetTopic returns the topic the event is published to.
	GetTopic() string
	// GetSchemaName returns the Avro full name (namespace.name).
	GetSchemaName() string
	// GetSchema returns the Avro schema JSON.
	GetSchema() []byte
}

// MetadataSchema is the Avro definition of EventMetadata, for embedding into
// event schemas.
const MetadataSchema = `{
  "type": "record",
  "name": "EventMetadata",
  "namespace": "com.ecommerce.events",
  "fields": [
    {"name": "event_id", "type": "string"},
    {"name": "event_type", "type": "string"},
    {"name": "source", "type": "string"},
    {"name": "timestamp", "type": {"type": "long", "logicalType": "timestamp-millis"}},
    {"name": "trace_id", "type": ["null", "string"], "default": null}
  ]
}`
