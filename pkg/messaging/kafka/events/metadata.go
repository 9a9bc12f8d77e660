package events

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// MetadataPopulator stamps outgoing events.
type MetadataPopulator interface {
	// Populate fills the metadata of event and returns the new event ID.
	Populate(ctx context.Context, event Event) string
}

type metadataPopulator struct {
	source string
	now    func() time.Time
}

func NewMetadataPopulator(source string) MetadataPopulator {
	return &metadataPopulator{source: source, now: time.Now}
}

func (p *metadataPopulator) Populate(ctx context.Context, event Event) string {
	md := event.GetMetadata()
	md.EventID = uuid.NewString()
	md.EventType = typeName(event)
	md.Source = p.source
	md.Timestamp = p.now().UTC().Truncate(time.Millisecond)
	md.TraceID = nil

	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		id := sc.TraceID().String()
		md.TraceID = &id
	}
	return md.EventID
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
