package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/headers"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProducer struct {
	produced   []*kafka.Message
	produceErr error
	report     func(m *kafka.Message) kafka.Event
}

func (f *fakeProducer) Produce(m *kafka.Message, delivery chan kafka.Event) error {
	if f.produceErr != nil {
		return f.produceErr
	}
	f.produced = append(f.produced, m)
	if f.report != nil {
		if e := f.report(m); e != nil {
			delivery <- e
		}
	}
	return nil
}

func (f *fakeProducer) Flush(int) int { return 0 }
func (f *fakeProducer) Close()        {}

func TestDLQHandler_SendToDLQ(t *testing.T) {
	t.Run("copies message with failure headers", func(t *testing.T) {
		p := &fakeProducer{report: func(m *kafka.Message) kafka.Event { return m }}
		h := newDLQHandler(p, "product-price-changes.dlq", time.Second, testTracer(), zap.NewNop())

		original := testMessage("P100", 42)
		original.Headers = []kafka.Header{{Key: headers.EventType, Value: []byte("ProductPriceChanged")}}

		err := h.SendToDLQ(context.Background(), original, errors.New("invalid price"))
		require.NoError(t, err)

		require.Len(t, p.produced, 1)
		sent := p.produced[0]
		assert.Equal(t, "product-price-changes.dlq", *sent.TopicPartition.Topic)
		assert.Equal(t, original.Key, sent.Key)
		assert.Equal(t, original.Value, sent.Value)
		assert.Equal(t, "ProductPriceChanged", headers.Get(sent.Headers, headers.EventType))
		assert.Equal(t, "product-price-changes", headers.Get(sent.Headers, HeaderDLQOriginalTopic))
		assert.Equal(t, "0", headers.Get(sent.Headers, HeaderDLQOriginalPartition))
		assert.Equal(t, "42", headers.Get(sent.Headers, HeaderDLQOriginalOffset))
		assert.Equal(t, "invalid price", headers.Get(sent.Headers, HeaderDLQError))
		assert.NotEmpty(t, headers.Get(sent.Headers, HeaderDLQTimestamp))

		assert.Len(t, original.Headers, 1, "original headers must not change")
	})

	t.Run("produce error", func(t *testing.T) {
		p := &fakeProducer{produceErr: errors.New("queue full")}
		h := newDLQHandler(p, "t.dlq", time.Second, testTracer(), zap.NewNop())

		err := h.SendToDLQ(context.Background(), testMessage("k", 1), errors.New("x"))
		assert.EqualError(t, err, "queue full")
	})

	t.Run("delivery failure", func(t *testing.T) {
		p := &fakeProducer{report: func(m *kafka.Message) kafka.Event {
			failed := *m
			failed.TopicPartition.Error = kafka.NewError(kafka.ErrMsgTimedOut, "timed out", false)
			return &failed
		}}
		h := newDLQHandler(p, "t.dlq", time.Second, testTracer(), zap.NewNop())

		err := h.SendToDLQ(context.Background(), testMessage("k", 1), errors.New("x"))
		assert.ErrorContains(t, err, "delivery to t.dlq failed")
	})

	t.Run("delivery timeout", func(t *testing.T) {
		p := &fakeProducer{}
		h := newDLQHandler(p, "t.dlq", 10*time.Millisecond, testTracer(), zap.NewNop())

		err := h.SendToDLQ(context.Background(), testMessage("k", 1), errors.New("x"))
		assert.ErrorContains(t, err, "not confirmed")
	})
}

func TestNoopDLQHandler(t *testing.T) {
	h := noopDLQHandler{log: zap.NewNop()}
	assert.NoError(t, h.SendToDLQ(context.Background(), testMessage("k", 1), errors.New("x")))
}
