package producer

import (
	"context"
	"fmt"
	"time"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/avro"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/headers"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Publisher sends events to their topic and waits for the broker ack.
type Publisher interface {
	Publish(ctx context.Context, key string, event events.Event) error
}

type publisher struct {
	producer        Producer
	serializer      avro.Serializer
	metadata        events.MetadataPopulator
	tracer          trace.Tracer
	deliveryTimeout time.Duration
	log             *zap.Logger
}

func newPublisher(
	producer Producer,
	serializer avro.Serializer,
	metadata events.MetadataPopulator,
	tp trace.TracerProvider,
	deliveryTimeout time.Duration,
	log *zap.Logger,
) Publisher {
	return &publisher{
		producer:        producer,
		serializer:      serializer,
		metadata:        metadata,
		tracer:          tp.Tracer("kafka-producer"),
		deliveryTimeout: deliveryTimeout,
		log:             log,
	}
}

func (p *publisher) Publish(ctx context.Context, key string, event events.Event) (err error) {
	topic := event.GetTopic()

	ctx, span := p.tracer.Start(ctx, "kafka.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("messaging.message.key", key),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	eventID := p.metadata.Populate(ctx, event)
	value, err := p.serializer.Serialize(event)
	if err != nil {
		return err
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          value,
		Headers: []kafka.Header{
			{Key: headers.EventType, Value: []byte(event.GetMetadata().EventType)},
			{Key: headers.EventID, Value: []byte(eventID)},
		},
	}
	otel.GetTextMapPropagator().Inject(ctx, headers.Carrier{Message: msg})

	delivery := make(chan kafka.Event, 1)
	if err = p.producer.Produce(msg, delivery); err != nil {
		return err
	}

	if err = p.awaitDelivery(ctx, delivery); err != nil {
		return fmt.Errorf("event %s to %s: %w", eventID, topic, err)
	}

	p.log.Debug("event published",
		zap.String("topic", topic),
		zap.String("key", key),
		zap.String("event_id", eventID),
	)
	return nil
}

func (p *publisher) awaitDelivery(ctx context.Context, delivery <-chan kafka.Event) error {
	timer := time.NewTimer(p.deliveryTimeout)
	defer timer.Stop()

	select {
	case e := <-delivery:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %T", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("delivery not confirmed within %v", p.deliveryTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
