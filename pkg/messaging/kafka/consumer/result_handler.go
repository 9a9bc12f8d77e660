package consumer

import (
	"context"
	"errors"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type offsetStorer interface {
	StoreMessage(m *kafka.Message) ([]kafka.TopicPartition, error)
}

const (
	outcomeProcessed = "processed"
	outcomeSkipped   = "skipped"
	outcomeFailed    = "failed"
)

// resultHandler applies the outcome of one message: DLQ on failure, then
// the offset is stored so the message is not redelivered.
type resultHandler struct {
	offsets  offsetStorer
	dlq      DLQHandler
	messages metric.Int64Counter
	log      *zap.Logger
}

func newResultHandler(offsets offsetStorer, dlq DLQHandler, mp metric.MeterProvider, log *zap.Logger) (*resultHandler, error) {
	counter, err := mp.Meter("kafka-consumer").Int64Counter("messaging.consumer.messages",
		metric.WithDescription("Consumed messages by outcome"),
	)
	if err != nil {
		return nil, err
	}
	return &resultHandler{offsets: offsets, dlq: dlq, messages: counter, log: log}, nil
}

func (h *resultHandler) handle(ctx context.Context, err error, message *kafka.Message, span trace.Span) {
	defer h.storeOffset(message)

	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
		h.count(ctx, message, outcomeProcessed)

	case errors.Is(err, ErrSkipMessage):
		span.SetStatus(codes.Ok, "message skipped")
		h.log.Info("skipping message", append(messageFields(message), zap.Error(err))...)
		h.count(ctx, message, outcomeSkipped)

	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "message processing failed")
		h.log.Error("message processing failed, sending to DLQ", append(messageFields(message), zap.Error(err))...)
		h.count(ctx, message, outcomeFailed)
		if dlqErr := h.dlq.SendToDLQ(ctx, message, err); dlqErr != nil {
			h.log.Error("failed to send message to DLQ", append(messageFields(message), zap.Error(dlqErr))...)
		}
	}
}

func (h *resultHandler) storeOffset(message *kafka.Message) {
	if _, err := h.offsets.StoreMessage(message); err != nil {
		h.log.Error("failed to store offset", append(messageFields(message), zap.Error(err))...)
	}
}

func (h *resultHandler) count(ctx context.Context, message *kafka.Message, outcome string) {
	h.messages.Add(ctx, 1, metric.WithAttributes(
		attribute.String("messaging.destination", topicOf(message)),
		attribute.String("outcome", outcome),
	))
}

func messageFields(message *kafka.Message) []zap.Field {
	return []zap.Field{
		zap.String("key", string(message.Key)),
		zap.Int32("partition", message.TopicPartition.Partition),
		zap.Int64("offset", int64(message.TopicPartition.Offset)),
	}
}
