package events

import (
	"fmt"
	"sync"
)

type EventFactory func() Event

// EventRegistry maps Avro full names to factories for decoding.
type EventRegistry interface {
	// Register adds the factory under the schema name of the event it builds.
	Register(factory EventFactory)
	NewEvent(schemaName string) (Event, error)
}

type eventRegistry struct {
	mu        sync.RWMutex
	factories map[string]EventFactory
}

func NewEventRegistry() EventRegistry {
	return &eventRegistry{factories: make(map[string]EventFactory)}
}

func (r *eventRegistry) Register(factory EventFactory) {
	name := factory().GetSchemaName()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

func (r *eventRegistry) NewEvent(schemaName string) (Event, error) {
	r.mu.RLock()
	factory, ok := r.factories[schemaName]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown event schema: %s", schemaName)
	}
	return factory(), nil
}
