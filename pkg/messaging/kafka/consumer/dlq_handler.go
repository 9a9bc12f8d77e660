package consumer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/headers"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/producer"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	HeaderDLQOriginalTopic     = "dlq.original.topic"
	HeaderDLQOriginalPartition = "dlq.original.partition"
	HeaderDLQOriginalOffset    = "dlq.original.offset"
	HeaderDLQError             = "dlq.error"
	HeaderDLQTimestamp         = "dlq.timestamp"
)

// DLQHandler forwards messages that could not be processed.
type DLQHandler interface {
	SendToDLQ(ctx context.Context, message *kafka.Message, cause error) error
}

type dlqHandler struct {
	producer        producer.Producer
	topic           string
	deliveryTimeout time.Duration
	tracer          *messageTracer
	log             *zap.Logger
}

func newDLQHandler(p producer.Producer, topic string, deliveryTimeout time.Duration, tracer *messageTracer, log *zap.Logger) DLQHandler {
	return &dlqHandler{
		producer:        p,
		topic:           topic,
		deliveryTimeout: deliveryTimeout,
		tracer:          tracer,
		log:             log.With(zap.String("dlq_topic", topic)),
	}
}

func (h *dlqHandler) SendToDLQ(ctx context.Context, message *kafka.Message, cause error) (err error) {
	ctx, span := h.tracer.startDLQ(ctx, message, h.topic)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to send message to DLQ")
		}
		span.End()
	}()

	dlqMessage := h.buildMessage(message, cause)
	h.tracer.inject(ctx, dlqMessage)

	delivery := make(chan kafka.Event, 1)
	if err = h.producer.Produce(dlqMessage, delivery); err != nil {
		return err
	}

	timer := time.NewTimer(h.deliveryTimeout)
	defer timer.Stop()

	select {
	case e := <-delivery:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %T", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery to %s failed: %w", h.topic, m.TopicPartition.Error)
		}
	case <-timer.C:
		return fmt.Errorf("delivery to %s not confirmed within %v", h.topic, h.deliveryTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	h.log.Info("message sent to DLQ",
		zap.String("key", string(message.Key)),
		zap.Int32("original_partition", message.TopicPartition.Partition),
		zap.Int64("original_offset", int64(message.TopicPartition.Offset)),
	)
	return nil
}

func (h *dlqHandler) buildMessage(message *kafka.Message, cause error) *kafka.Message {
	hs := make([]kafka.Header, 0, len(message.Headers)+5)
	hs = append(hs, message.Headers...)
	hs = headers.Set(hs, HeaderDLQOriginalTopic, topicOf(message))
	hs = headers.Set(hs, HeaderDLQOriginalPartition, strconv.FormatInt(int64(message.TopicPartition.Partition), 10))
	hs = headers.Set(hs, HeaderDLQOriginalOffset, strconv.FormatInt(int64(message.TopicPartition.Offset), 10))
	hs = headers.Set(hs, HeaderDLQError, cause.Error())
	hs = headers.Set(hs, HeaderDLQTimestamp, time.Now().UTC().Format(time.RFC3339))

	topic := h.topic
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            message.Key,
		Value:          message.Value,
		Headers:        hs,
	}
}

type noopDLQHandler struct {
	log *zap.Logger
}

func (h noopDLQHandler) SendToDLQ(_ context.Context, message *kafka.Message, cause error) error {
	h.log.Warn("DLQ is disabled, dropping failed message",
		zap.String("key", string(message.Key)),
		zap.Int32("partition", message.TopicPartition.Partition),
		zap.Int64("offset", int64(message.TopicPartition.Offset)),
		zap.Error(cause),
	)
	return nil
}
