package consumer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProcessor(t *testing.T, d fakeDeserializer, h Handler, offsets *fakeOffsets, dlq *fakeDLQ) *processor {
	t.Helper()
	return &processor{
		messages:     make(chan *kafka.Message),
		deserializer: d,
		handler:      h,
		retry:        testPolicy(3),
		results:      newTestResultHandler(t, offsets, dlq),
		tracer:       testTracer(),
		log:          zap.NewNop(),
	}
}

func TestProcessor_Process(t *testing.T) {
	event := &testEvent{Code: "P100"}

	t.Run("handled message stores offset", func(t *testing.T) {
		offsets, dlq := &fakeOffsets{}, &fakeDLQ{}
		var got events.Event
		p := newTestProcessor(t, fakeDeserializer{event: event}, handlerFunc(func(_ context.Context, e events.Event) error {
			got = e
			return nil
		}), offsets, dlq)

		p.process(context.Background(), testMessage("P100", 1))

		assert.Same(t, event, got)
		assert.Equal(t, 1, offsets.count())
		assert.Zero(t, dlq.count())
	})

	t.Run("deserialization failure goes to DLQ without calling handler", func(t *testing.T) {
		offsets, dlq := &fakeOffsets{}, &fakeDLQ{}
		called := false
		p := newTestProcessor(t, fakeDeserializer{err: errors.New("unknown magic byte")}, handlerFunc(func(context.Context, events.Event) error {
			called = true
			return nil
		}), offsets, dlq)

		p.process(context.Background(), testMessage("P100", 1))

		assert.False(t, called)
		require.Equal(t, 1, dlq.count())
		assert.ErrorIs(t, dlq.causes[0], ErrPermanent)
		assert.Equal(t, 1, offsets.count())
	})

	t.Run("transient failures are retried then sent to DLQ", func(t *testing.T) {
		offsets, dlq := &fakeOffsets{}, &fakeDLQ{}
		var calls atomic.Int32
		p := newTestProcessor(t, fakeDeserializer{event: event}, handlerFunc(func(context.Context, events.Event) error {
			calls.Add(1)
			return errors.New("connection refused")
		}), offsets, dlq)

		p.process(context.Background(), testMessage("P100", 1))

		assert.Equal(t, int32(3), calls.Load())
		require.Equal(t, 1, dlq.count())
		assert.ErrorIs(t, dlq.causes[0], ErrRetriesExhausted)
		assert.Equal(t, 1, offsets.count())
	})

	t.Run("shutdown mid-message leaves offset unstored", func(t *testing.T) {
		offsets, dlq := &fakeOffsets{}, &fakeDLQ{}
		ctx, cancel := context.WithCancel(context.Background())
		p := newTestProcessor(t, fakeDeserializer{event: event}, handlerFunc(func(context.Context, events.Event) error {
			cancel()
			return errors.New("interrupted")
		}), offsets, dlq)

		p.process(ctx, testMessage("P100", 1))

		assert.Zero(t, offsets.count())
		assert.Zero(t, dlq.count())
	})
}

func TestProcessor_Run(t *testing.T) {
	offsets, dlq := &fakeOffsets{}, &fakeDLQ{}
	ch := make(chan *kafka.Message)
	p := newTestProcessor(t, fakeDeserializer{event: &testEvent{}}, handlerFunc(func(context.Context, events.Event) error {
		return nil
	}), offsets, dlq)
	p.messages = ch

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.run(ctx) }()

	ch <- testMessage("P1", 1)
	ch <- testMessage("P1", 2)
	assert.Eventually(t, func() bool { return offsets.count() == 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("processor did not stop")
	}
}
