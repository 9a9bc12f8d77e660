package avro

import (
	"context"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/config"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegisterEvents makes the events built by factories decodable. With
// auto-register-schemas their schemas are also registered on start, so
// consumers can decode before anything is published.
func RegisterEvents(factories ...events.EventFactory) fx.Option {
	return fx.Invoke(func(lc fx.Lifecycle, reg events.EventRegistry, sr SchemaRegistry, conf config.Config, log *zap.Logger) {
		for _, f := range factories {
			reg.Register(f)
		}
		if !conf.SchemaRegistry.AutoRegisterSchemas {
			return
		}

		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				return registerSchemas(sr, factories, log)
			},
		})
	})
}

func registerSchemas(sr SchemaRegistry, factories []events.EventFactory, log *zap.Logger) error {
	for _, f := range factories {
		e := f()
		subject := ValueSubject(e.GetTopic())
		id, err := sr.SchemaID(subject, string(e.GetSchema()))
		if err != nil {
			return err
		}
		log.Info("schema registered", zap.String("subject", subject), zap.String("schema", e.GetSchemaName()), zap.Int("id", id))
	}
	return nil
}
