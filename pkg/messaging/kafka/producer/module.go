package producer

import (
	"context"
	"time"

	"github.com/Sokol111/ecommerce-price-sync/pkg/core/config"
	"github.com/Sokol111/ecommerce-price-sync/pkg/core/health"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/avro"
	kafkaconfig "github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/config"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewProducerModule provides Producer and Publisher.
func NewProducerModule() fx.Option {
	return fx.Module("kafka-producer",
		fx.Decorate(func(log *zap.Logger) *zap.Logger {
			return log.With(zap.String("component", "producer"))
		}),
		fx.Provide(
			provideProducer,
			providePublisher,
		),
	)
}

func provideProducer(lc fx.Lifecycle, log *zap.Logger, conf kafkaconfig.Config, cm health.ComponentManager) (Producer, error) {
	p, err := newProducer(conf, log)
	if err != nil {
		return nil, err
	}

	markReady := cm.AddComponent("kafka_producer")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := waitForBrokers(ctx, p, log, conf.Producer.ReadinessTimeout, conf.Producer.FailOnBrokerError); err != nil {
				return err
			}
			markReady()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if remaining := p.Flush(flushTimeoutMs(ctx)); remaining > 0 {
				log.Warn("producer closed with undelivered messages", zap.Int("remaining", remaining))
			}
			p.Close()
			return nil
		},
	})

	return p, nil
}

func providePublisher(
	p Producer,
	serializer avro.Serializer,
	app config.AppConfig,
	tp trace.TracerProvider,
	conf kafkaconfig.Config,
	log *zap.Logger,
) Publisher {
	return newPublisher(p, serializer, events.NewMetadataPopulator(app.ServiceName), tp, conf.Producer.DeliveryTimeout, log)
}

func flushTimeoutMs(ctx context.Context) int {
	const fallback = 5000
	deadline, ok := ctx.Deadline()
	if !ok {
		return fallback
	}
	ms := int(time.Until(deadline).Milliseconds())
	if ms <= 0 {
		return 0
	}
	return min(ms, fallback)
}
