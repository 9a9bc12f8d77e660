package avro

import (
	"fmt"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	hambavro "github.com/hamba/avro/v2"
)

type Deserializer interface {
	// Deserialize decodes framed data with the writer schema from the
	// registry into the event type registered for that schema's name.
	Deserialize(data []byte) (events.Event, error)
}

type deserializer struct {
	registry SchemaRegistry
	events   events.EventRegistry
}

func NewDeserializer(registry SchemaRegistry, eventRegistry events.EventRegistry) Deserializer {
	return &deserializer{registry: registry, events: eventRegistry}
}

func (d *deserializer) Deserialize(data []byte) (events.Event, error) {
	id, payload, err := unframe(data)
	if err != nil {
		return nil, err
	}

	schema, name, err := d.registry.WriterSchema(id)
	if err != nil {
		return nil, err
	}

	event, err := d.events.NewEvent(name)
	if err != nil {
		return nil, err
	}

	if err := hambavro.Unmarshal(schema, payload, event); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return event, nil
}
