package consumer

import (
	"context"
	"sync"
	"testing"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type testEvent struct {
	Metadata events.EventMetadata
	Code     string
}

func (e *testEvent) GetMetadata() *events.EventMetadata { return &e.Metadata }
func (e *testEvent) GetTopic() string                   { return "product-price-changes" }
func (e *testEvent) GetSchemaName() string              { return "com.test.TestEvent" }
func (e *testEvent) GetSchema() []byte                  { return nil }

type handlerFunc func(ctx context.Context, event events.Event) error

func (f handlerFunc) Process(ctx context.Context, event events.Event) error { return f(ctx, event) }

type fakeDeserializer struct {
	event events.Event
	err   error
}

func (f fakeDeserializer) Deserialize([]byte) (events.Event, error) { return f.event, f.err }

type fakeOffsets struct {
	mu     sync.Mutex
	stored []*kafka.Message
	err    error
}

func (f *fakeOffsets) StoreMessage(m *kafka.Message) ([]kafka.TopicPartition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, m)
	return nil, f.err
}

func (f *fakeOffsets) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

type fakeDLQ struct {
	mu     sync.Mutex
	causes []error
	err    error
}

func (f *fakeDLQ) SendToDLQ(_ context.Context, _ *kafka.Message, cause error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.causes = append(f.causes, cause)
	return f.err
}

func (f *fakeDLQ) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.causes)
}

func testMessage(key string, offset int64) *kafka.Message {
	topic := "product-price-changes"
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 0, Offset: kafka.Offset(offset)},
		Key:            []byte(key),
		Value:          []byte{0, 0, 0, 0, 1},
	}
}

func testTracer() *messageTracer {
	return newMessageTracer(tracenoop.NewTracerProvider())
}

func newTestResultHandler(t *testing.T, offsets *fakeOffsets, dlq DLQHandler) *resultHandler {
	t.Helper()
	h, err := newResultHandler(offsets, dlq, metricnoop.NewMeterProvider(), zap.NewNop())
	require.NoError(t, err)
	return h
}
