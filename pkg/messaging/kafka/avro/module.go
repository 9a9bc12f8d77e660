package avro

import (
	"context"

	"github.com/Sokol111/ecommerce-price-sync/pkg/core/health"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/config"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	"github.com/confluentinc/confluent-kafka-go/v2/schemaregistry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewAvroModule provides the schema registry client, serializer,
// deserializer and event registry.
func NewAvroModule() fx.Option {
	return fx.Module("avro",
		fx.Provide(
			provideSchemaRegistryClient,
			func(client schemaregistry.Client, conf config.Config) SchemaRegistry {
				return NewSchemaRegistry(client, conf.SchemaRegistry.AutoRegisterSchemas)
			},
			events.NewEventRegistry,
			NewSerializer,
			NewDeserializer,
		),
	)
}

func provideSchemaRegistryClient(lc fx.Lifecycle, conf config.Config, log *zap.Logger, cm health.ComponentManager) (schemaregistry.Client, error) {
	srConf := schemaregistry.NewConfig(conf.SchemaRegistry.URL)
	srConf.RequestTimeoutMs = int(conf.SchemaRegistry.RequestTimeout.Milliseconds())

	client, err := schemaregistry.NewClient(srConf)
	if err != nil {
		return nil, err
	}

	markReady := cm.AddComponent("schema_registry")
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("schema registry client ready", zap.String("url", conf.SchemaRegistry.URL))
			markReady()
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
