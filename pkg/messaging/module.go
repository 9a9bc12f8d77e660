// Package messaging bundles the Kafka configuration, Avro serde and producer.
// Consumers are added per handler with consumer.RegisterHandlerAndConsumer.
package messaging

import (
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/avro"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/config"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/producer"
	"go.uber.org/fx"
)

type messagingOptions struct {
	kafkaConfig *config.Config
}

type MessagingOption func(*messagingOptions)

// WithKafkaConfig provides a static Kafka config instead of the "kafka"
// viper section.
func WithKafkaConfig(cfg config.Config) MessagingOption {
	return func(opts *messagingOptions) {
		opts.kafkaConfig = &cfg
	}
}

// NewMessagingModule provides config.Config, the Avro serde and the producer.
//
//	messaging.NewMessagingModule()
//	messaging.NewMessagingModule(messaging.WithKafkaConfig(config.Config{...}))
func NewMessagingModule(opts ...MessagingOption) fx.Option {
	cfg := &messagingOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	return fx.Options(
		kafkaConfigModule(cfg),
		avro.NewAvroModule(),
		producer.NewProducerModule(),
	)
}

func kafkaConfigModule(cfg *messagingOptions) fx.Option {
	if cfg.kafkaConfig != nil {
		return config.NewKafkaConfigModule(config.WithKafkaConfig(*cfg.kafkaConfig))
	}
	return config.NewKafkaConfigModule()
}
