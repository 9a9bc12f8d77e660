package config

import "time"

const (
	defaultSchemaRegistryTimeout = 5 * time.Second
	defaultGroupID               = "demo"
	defaultAutoOffsetReset       = "latest"
	defaultMaxRetryAttempts      = 3
	defaultInitialBackoff        = time.Second
	defaultMaxBackoff            = 30 * time.Second
	defaultProcessingTimeout     = 30 * time.Second
	defaultChannelBufferSize     = 100
	defaultConsumerReadiness     = time.Minute
	defaultProducerReadiness     = 30 * time.Second
	defaultDeliveryTimeout       = 10 * time.Second
)

const (
	minMaxRetryAttempts  = 1
	maxMaxRetryAttempts  = 100
	minInitialBackoff    = 10 * time.Millisecond
	maxInitialBackoff    = 30 * time.Second
	minMaxBackoff        = 100 * time.Millisecond
	maxMaxBackoff        = 5 * time.Minute
	minProcessingTimeout = 100 * time.Millisecond
	maxProcessingTimeout = 10 * time.Minute
	minChannelBufferSize = 1
	maxChannelBufferSize = 10000
	maxReadinessTimeout  = 10 * time.Minute
)

func applyDefaults(cfg *Config) {
	if cfg.SchemaRegistry.RequestTimeout == 0 {
		cfg.SchemaRegistry.RequestTimeout = defaultSchemaRegistryTimeout
	}

	c := &cfg.Consumers
	c.DefaultGroupID = orDefault(c.DefaultGroupID, defaultGroupID)
	c.DefaultAutoOffsetReset = orDefault(c.DefaultAutoOffsetReset, defaultAutoOffsetReset)
	c.DefaultMaxRetryAttempts = orDefault(c.DefaultMaxRetryAttempts, defaultMaxRetryAttempts)
	c.DefaultInitialBackoff = orDefault(c.DefaultInitialBackoff, defaultInitialBackoff)
	c.DefaultMaxBackoff = orDefault(c.DefaultMaxBackoff, defaultMaxBackoff)
	c.DefaultProcessingTimeout = orDefault(c.DefaultProcessingTimeout, defaultProcessingTimeout)
	c.DefaultChannelBufferSize = orDefault(c.DefaultChannelBufferSize, defaultChannelBufferSize)

	for i := range c.Items {
		item := &c.Items[i]
		item.GroupID = orDefault(item.GroupID, c.DefaultGroupID)
		item.AutoOffsetReset = orDefault(item.AutoOffsetReset, c.DefaultAutoOffsetReset)
		item.MaxRetryAttempts = orDefault(item.MaxRetryAttempts, c.DefaultMaxRetryAttempts)
		item.InitialBackoff = orDefault(item.InitialBackoff, c.DefaultInitialBackoff)
		item.MaxBackoff = orDefault(item.MaxBackoff, c.DefaultMaxBackoff)
		item.ProcessingTimeout = orDefault(item.ProcessingTimeout, c.DefaultProcessingTimeout)
		item.ChannelBufferSize = orDefault(item.ChannelBufferSize, c.DefaultChannelBufferSize)
		item.ReadinessTimeout = orDefault(item.ReadinessTimeout, defaultConsumerReadiness)
		if item.EnableDLQ {
			item.DLQTopic = orDefault(item.DLQTopic, item.Topic+".dlq")
		}
	}

	cfg.Producer.ReadinessTimeout = orDefault(cfg.Producer.ReadinessTimeout, defaultProducerReadiness)
	cfg.Producer.DeliveryTimeout = orDefault(cfg.Producer.DeliveryTimeout, defaultDeliveryTimeout)
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
