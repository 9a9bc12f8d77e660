package consumer

import (
	"context"
	"fmt"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/avro"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

type processor struct {
	messages     <-chan *kafka.Message
	deserializer avro.Deserializer
	handler      Handler
	retry        retryPolicy
	results      *resultHandler
	tracer       *messageTracer
	log          *zap.Logger
}

func (p *processor) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-p.messages:
			p.process(ctx, msg)
		}
	}
}

func (p *processor) process(ctx context.Context, message *kafka.Message) {
	ctx = p.tracer.extract(ctx, message)
	ctx, span := p.tracer.startConsume(ctx, message)
	defer span.End()

	err := p.handle(ctx, message)
	if err != nil && ctx.Err() != nil {
		// Shutting down mid-message: leave the offset unstored so it is redelivered.
		p.log.Info("processing interrupted by shutdown", messageFields(message)...)
		return
	}
	p.results.handle(ctx, err, message, span)
}

func (p *processor) handle(ctx context.Context, message *kafka.Message) error {
	event, err := p.deserializer.Deserialize(message.Value)
	if err != nil {
		return fmt.Errorf("%w: deserialization failed: %w", ErrPermanent, err)
	}

	return p.retry.execute(ctx, func(ctx context.Context) error {
		return p.handler.Process(ctx, event)
	})
}
