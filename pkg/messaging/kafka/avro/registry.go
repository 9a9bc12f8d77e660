package avro

import (
	"errors"
	"fmt"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/schemaregistry"
	hambavro "github.com/hamba/avro/v2"
)

// SchemaRegistry caches schema ids and writer schemas.
type SchemaRegistry interface {
	// SchemaID returns the id of schemaJSON under subject. With autoRegister
	// the schema is registered when absent; otherwise it must already exist.
	SchemaID(subject, schemaJSON string) (int, error)
	// WriterSchema returns the parsed schema for id and its full name.
	WriterSchema(id int) (hambavro.Schema, string, error)
}

type writerSchema struct {
	schema hambavro.Schema
	name   string
}

type confluentRegistry struct {
	client       schemaregistry.Client
	autoRegister bool

	mu      sync.RWMutex
	ids     map[string]int
	writers map[int]writerSchema
}

func NewSchemaRegistry(client schemaregistry.Client, autoRegister bool) SchemaRegistry {
	return &confluentRegistry{
		client:       client,
		autoRegister: autoRegister,
		ids:          make(map[string]int),
		writers:      make(map[int]writerSchema),
	}
}

func (r *confluentRegistry) SchemaID(subject, schemaJSON string) (int, error) {
	key := subject + "\x00" + schemaJSON

	r.mu.RLock()
	id, ok := r.ids[key]
	r.mu.RUnlock()
	if ok {
		return id, nil
	}

	info := schemaregistry.SchemaInfo{Schema: schemaJSON, SchemaType: "AVRO"}
	var err error
	if r.autoRegister {
		id, err = r.client.Register(subject, info, false)
	} else {
		id, err = r.client.GetID(subject, info, false)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve schema id for subject %s: %w", subject, err)
	}

	r.mu.Lock()
	r.ids[key] = id
	r.mu.Unlock()
	return id, nil
}

func (r *confluentRegistry) WriterSchema(id int) (hambavro.Schema, string, error) {
	r.mu.RLock()
	w, ok := r.writers[id]
	r.mu.RUnlock()
	if ok {
		return w.schema, w.name, nil
	}

	w, err := r.fetchWriter(id)
	if err != nil {
		return nil, "", err
	}

	r.mu.Lock()
	r.writers[id] = w
	r.mu.Unlock()
	return w.schema, w.name, nil
}

func (r *confluentRegistry) fetchWriter(id int) (writerSchema, error) {
	subjects, err := r.client.GetSubjectsAndVersionsByID(id)
	if err != nil {
		return writerSchema{}, fmt.Errorf("failed to look up subjects for schema %d: %w", id, err)
	}
	if len(subjects) == 0 {
		return writerSchema{}, fmt.Errorf("no subject references schema %d", id)
	}

	info, err := r.client.GetBySubjectAndID(subjects[0].Subject, id)
	if err != nil {
		return writerSchema{}, fmt.Errorf("failed to fetch schema %d: %w", id, err)
	}

	schema, err := hambavro.Parse(info.Schema)
	if err != nil {
		return writerSchema{}, fmt.Errorf("failed to parse schema %d: %w", id, err)
	}
	named, ok := schema.(hambavro.NamedSchema)
	if !ok {
		return writerSchema{}, errors.New("writer schema is not a named type")
	}
	return writerSchema{schema: schema, name: named.FullName()}, nil
}
