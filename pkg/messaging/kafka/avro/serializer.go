package avro

import (
	"fmt"
	"sync"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	hambavro "github.com/hamba/avro/v2"
)

type Serializer interface {
	// Serialize encodes event with its own schema and frames it with the
	// schema id registered under {topic}-value.
	Serialize(event events.Event) ([]byte, error)
}

type serializer struct {
	registry SchemaRegistry

	mu     sync.RWMutex
	parsed map[string]hambavro.Schema
}

func NewSerializer(registry SchemaRegistry) Serializer {
	return &serializer{registry: registry, parsed: make(map[string]hambavro.Schema)}
}

func (s *serializer) Serialize(event events.Event) ([]byte, error) {
	schema, err := s.schemaOf(event)
	if err != nil {
		return nil, err
	}

	id, err := s.registry.SchemaID(ValueSubject(event.GetTopic()), string(event.GetSchema()))
	if err != nil {
		return nil, err
	}

	payload, err := hambavro.Marshal(schema, event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", event.GetSchemaName(), err)
	}
	return frame(id, payload), nil
}

func (s *serializer) schemaOf(event events.Event) (hambavro.Schema, error) {
	name := event.GetSchemaName()

	s.mu.RLock()
	schema, ok := s.parsed[name]
	s.mu.RUnlock()
	if ok {
		return schema, nil
	}

	schema, err := hambavro.Parse(string(event.GetSchema()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", name, err)
	}

	s.mu.Lock()
	s.parsed[name] = schema
	s.mu.Unlock()
	return schema, nil
}

// ValueSubject is the TopicNameStrategy subject for message values.
func ValueSubject(topic string) string {
	return topic + "-value"
}
