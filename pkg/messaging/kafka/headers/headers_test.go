package headers

import (
	"context"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestGetSet(t *testing.T) {
	hs := []kafka.Header{{Key: EventType, Value: []byte("A")}, {Key: "x", Value: []byte("1")}}

	assert.Equal(t, "A", Get(hs, EventType))
	assert.Equal(t, "", Get(hs, "missing"))

	hs = Set(hs, EventType, "B")

	assert.Equal(t, "B", Get(hs, EventType))
	assert.Len(t, hs, 2)
	assert.Equal(t, "1", Get(hs, "x"))
}

func TestCarrier_PropagatesTraceContext(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x0a},
		SpanID:     trace.SpanID{0x0b},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	msg := &kafka.Message{}
	propagator := propagation.TraceContext{}

	propagator.Inject(ctx, Carrier{Message: msg})
	require.NotEmpty(t, Get(msg.Headers, "traceparent"))

	extracted := trace.SpanContextFromContext(propagator.Extract(context.Background(), Carrier{Message: msg}))
	assert.Equal(t, sc.TraceID(), extracted.TraceID())
	assert.Equal(t, sc.SpanID(), extracted.SpanID())
	assert.Contains(t, Carrier{Message: msg}.Keys(), "traceparent")
}
