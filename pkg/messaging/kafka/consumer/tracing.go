package consumer

import (
	"context"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/headers"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type messageTracer struct {
	tracer trace.Tracer
}

func newMessageTracer(tp trace.TracerProvider) *messageTracer {
	return &messageTracer{tracer: tp.Tracer("kafka-consumer")}
}

// extract continues the producer's trace when the message carries one.
func (t *messageTracer) extract(ctx context.Context, m *kafka.Message) context.Context {
	if len(m.Headers) == 0 {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, headers.Carrier{Message: m})
}

func (t *messageTracer) inject(ctx context.Context, m *kafka.Message) {
	otel.GetTextMapPropagator().Inject(ctx, headers.Carrier{Message: m})
}

func (t *messageTracer) startConsume(ctx context.Context, m *kafka.Message) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "kafka.consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topicOf(m)),
			attribute.Int("messaging.partition", int(m.TopicPartition.Partition)),
			attribute.Int64("messaging.offset", int64(m.TopicPartition.Offset)),
			attribute.String("messaging.message.key", string(m.Key)),
		),
	)
}

func (t *messageTracer) startDLQ(ctx context.Context, m *kafka.Message, dlqTopic string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "kafka.send_to_dlq",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", dlqTopic),
			attribute.String("messaging.source.topic", topicOf(m)),
			attribute.Int64("messaging.source.offset", int64(m.TopicPartition.Offset)),
		),
	)
}

func topicOf(m *kafka.Message) string {
	if m.TopicPartition.Topic == nil {
		return ""
	}
	return *m.TopicPartition.Topic
}
