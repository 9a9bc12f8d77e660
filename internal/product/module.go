package product

import (
	"embed"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/avro"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/consumer"
	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence/postgres"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConsumerName is the "kafka.consumers.items" entry for price changes.
const ConsumerName = "product-price-changes"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations is the products schema.
func Migrations() postgres.MigrationSource {
	return postgres.MigrationSource{FS: migrationsFS, Dir: "migrations"}
}

type moduleOptions struct {
	static *Config
}

type Option func(*moduleOptions)

// WithPricingConfig supplies a static Config instead of the "pricing" section.
func WithPricingConfig(cfg Config) Option {
	return func(o *moduleOptions) { o.static = &cfg }
}

// NewProductModule provides Repository, PricePublisher, the pricing Config and
// the schema migrations, and registers ProductPriceChanged for decoding.
func NewProductModule(opts ...Option) fx.Option {
	o := &moduleOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configOption := fx.Provide(newConfig)
	if o.static != nil {
		configOption = fx.Provide(func(log *zap.Logger) (Config, error) {
			return finalizeConfig(*o.static, log)
		})
	}

	return fx.Module("product",
		configOption,
		fx.Supply(Migrations()),
		fx.Provide(
			newRepository,
			newPricePublisher,
		),
		avro.RegisterEvents(newPriceChangedEvent),
	)
}

// NewConsumerModule consumes PriceChangesTopic and applies each change.
func NewConsumerModule() fx.Option {
	return consumer.RegisterHandlerAndConsumer(ConsumerName, newPriceChangedHandler)
}
