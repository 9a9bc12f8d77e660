// Package app assembles the price sync fx graphs used by cmd/pricesync and
// the integration tests.
package app

import (
	"github.com/Sokol111/ecommerce-price-sync/internal/product"
	"github.com/Sokol111/ecommerce-price-sync/pkg/core"
	"github.com/Sokol111/ecommerce-price-sync/pkg/http/health"
	"github.com/Sokol111/ecommerce-price-sync/pkg/http/server"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging"
	"github.com/Sokol111/ecommerce-price-sync/pkg/observability"
	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence/postgres"
	"go.uber.org/fx"
)

type options struct {
	core          []core.Option
	observability []observability.Option
	postgres      []postgres.Option
	messaging     []messaging.MessagingOption
	product       []product.Option
	server        []server.Option
	extra         []fx.Option
}

type Option func(*options)

func WithCoreOptions(opts ...core.Option) Option {
	return func(o *options) { o.core = append(o.core, opts...) }
}

func WithObservabilityOptions(opts ...observability.Option) Option {
	return func(o *options) { o.observability = append(o.observability, opts...) }
}

func WithPostgresOptions(opts ...postgres.Option) Option {
	return func(o *options) { o.postgres = append(o.postgres, opts...) }
}

func WithMessagingOptions(opts ...messaging.MessagingOption) Option {
	return func(o *options) { o.messaging = append(o.messaging, opts...) }
}

func WithProductOptions(opts ...product.Option) Option {
	return func(o *options) { o.product = append(o.product, opts...) }
}

// WithServerOptions configures the probe server started by Service.
func WithServerOptions(opts ...server.Option) Option {
	return func(o *options) { o.server = append(o.server, opts...) }
}

// With appends arbitrary fx options, e.g. fx.Populate in tests.
func With(opts ...fx.Option) Option {
	return func(o *options) { o.extra = append(o.extra, opts...) }
}

func build(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Service is the long-running consumer: store, schema, Kafka, the price
// change handler and the health probes.
func Service(opts ...Option) fx.Option {
	o := build(opts)
	return fx.Options(
		core.NewCoreModule(o.core...),
		observability.NewObservabilityModule(o.observability...),
		postgres.NewPostgresModule(o.postgres...),
		messaging.NewMessagingModule(o.messaging...),
		product.NewProductModule(o.product...),
		product.NewConsumerModule(),
		server.NewHTTPServerModule(o.server...),
		health.NewHealthRoutesModule(),
		fx.Options(o.extra...),
	)
}

// Migrations provides postgres.Migrator over the products schema only.
func Migrations(opts ...Option) fx.Option {
	o := build(opts)
	return fx.Options(
		core.NewCoreModule(o.core...),
		postgres.NewPostgresModule(o.postgres...),
		fx.Supply(product.Migrations()),
		fx.Options(o.extra...),
	)
}

// Publishing provides product.PricePublisher without starting consumers.
func Publishing(opts ...Option) fx.Option {
	o := build(opts)
	return fx.Options(
		core.NewCoreModule(o.core...),
		observability.NewObservabilityModule(o.observability...),
		messaging.NewMessagingModule(o.messaging...),
		product.NewProductModule(o.product...),
		fx.Options(o.extra...),
	)
}
