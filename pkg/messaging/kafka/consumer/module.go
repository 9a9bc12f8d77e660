package consumer

import (
	"fmt"

	"github.com/Sokol111/ecommerce-price-sync/pkg/core/health"
	"github.com/Sokol111/ecommerce-price-sync/pkg/core/worker"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/avro"
	kafkaconfig "github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/config"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/producer"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegisterHandlerAndConsumer wires a consumer for the "kafka.consumers.items"
// entry called consumerName. handlerConstructor is an fx constructor whose
// result implements Handler.
func RegisterHandlerAndConsumer(consumerName string, handlerConstructor any) fx.Option {
	return fx.Module(consumerName,
		fx.Provide(
			fx.Private,
			func(conf kafkaconfig.Config) (kafkaconfig.ConsumerConfig, error) {
				c, ok := conf.Consumer(consumerName)
				if !ok {
					return kafkaconfig.ConsumerConfig{}, fmt.Errorf("no consumer config found for consumer name: %s", consumerName)
				}
				return c, nil
			},
			fx.Annotate(handlerConstructor, fx.As(new(Handler))),
			provideKafkaConsumer,
			provideMessageChannel,
			newMessageTracer,
			provideDLQHandler,
			provideResultHandler,
			provideReader,
			provideProcessor,
		),
		fx.Decorate(func(log *zap.Logger, c kafkaconfig.ConsumerConfig) *zap.Logger {
			return log.With(
				zap.String("component", "consumer"),
				zap.String("consumer_name", c.Name),
				zap.String("topic", c.Topic),
				zap.String("group_id", c.GroupID),
			)
		}),
		fx.Invoke(bindWorkers),
	)
}

func provideMessageChannel(c kafkaconfig.ConsumerConfig) chan *kafka.Message {
	return make(chan *kafka.Message, c.ChannelBufferSize)
}

type dlqParams struct {
	fx.In

	Producer producer.Producer `optional:"true"`
	Conf     kafkaconfig.Config
	Consumer kafkaconfig.ConsumerConfig
	Tracer   *messageTracer
	Log      *zap.Logger
}

func provideDLQHandler(p dlqParams) DLQHandler {
	if !p.Consumer.EnableDLQ || p.Producer == nil {
		return noopDLQHandler{log: p.Log}
	}
	return newDLQHandler(p.Producer, p.Consumer.DLQTopic, p.Conf.Producer.DeliveryTimeout, p.Tracer, p.Log)
}

func provideResultHandler(c *kafka.Consumer, dlq DLQHandler, mp metric.MeterProvider, log *zap.Logger) (*resultHandler, error) {
	return newResultHandler(c, dlq, mp, log)
}

func provideReader(c *kafka.Consumer, ch chan *kafka.Message, log *zap.Logger) *reader {
	return newReader(c, ch, log)
}

func provideProcessor(
	ch chan *kafka.Message,
	deserializer avro.Deserializer,
	handler Handler,
	results *resultHandler,
	tracer *messageTracer,
	c kafkaconfig.ConsumerConfig,
	log *zap.Logger,
) *processor {
	return &processor{
		messages:     ch,
		deserializer: deserializer,
		handler:      handler,
		retry: retryPolicy{
			maxAttempts:    c.MaxRetryAttempts,
			initialBackoff: c.InitialBackoff,
			maxBackoff:     c.MaxBackoff,
			attemptTimeout: c.ProcessingTimeout,
			log:            log,
		},
		results: results,
		tracer:  tracer,
		log:     log,
	}
}

// bindWorkers runs after provideKafkaConsumer, so on stop the workers exit
// before the consumer is committed and closed.
func bindWorkers(
	lc fx.Lifecycle,
	r *reader,
	p *processor,
	c kafkaconfig.ConsumerConfig,
	readiness health.ReadinessWaiter,
	shutdowner fx.Shutdowner,
	log *zap.Logger,
) {
	worker.Bind(lc, worker.New("reader-"+c.Name, r.run, log, readiness, shutdowner, worker.WithReady(), worker.WithShutdown()))
	worker.Bind(lc, worker.New("processor-"+c.Name, p.run, log, readiness, shutdowner))
}
