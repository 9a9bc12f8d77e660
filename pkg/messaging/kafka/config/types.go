package config

import "time"

// Config is the "kafka" section.
type Config struct {
	// Brokers is a comma separated bootstrap list.
	Brokers        string               `mapstructure:"brokers"`
	SchemaRegistry SchemaRegistryConfig `mapstructure:"schema-registry"`
	Consumers      ConsumersConfig      `mapstructure:"consumers"`
	Producer       ProducerConfig       `mapstructure:"producer"`
}

type SchemaRegistryConfig struct {
	URL            string        `mapstructure:"url"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	// AutoRegisterSchemas registers writer schemas under {topic}-value on first use.
	AutoRegisterSchemas bool `mapstructure:"auto-register-schemas"`
}

// ConsumersConfig carries defaults applied to every entry of Items.
type ConsumersConfig struct {
	DefaultGroupID           string           `mapstructure:"default-group-id"`
	DefaultAutoOffsetReset   string           `mapstructure:"default-auto-offset-reset"`
	DefaultMaxRetryAttempts  int              `mapstructure:"default-max-retry-attempts"`
	DefaultInitialBackoff    time.Duration    `mapstructure:"default-initial-backoff"`
	DefaultMaxBackoff        time.Duration    `mapstructure:"default-max-backoff"`
	DefaultProcessingTimeout time.Duration    `mapstructure:"default-processing-timeout"`
	DefaultChannelBufferSize int              `mapstructure:"default-channel-buffer-size"`
	Items                    []ConsumerConfig `mapstructure:"items"`
}

type ConsumerConfig struct {
	Name            string `mapstructure:"name"`
	Topic           string `mapstructure:"topic"`
	GroupID         string `mapstructure:"group-id"`
	AutoOffsetReset string `mapstructure:"auto-offset-reset"`

	EnableDLQ bool `mapstructure:"enable-dlq"`
	// DLQTopic defaults to {topic}.dlq.
	DLQTopic string `mapstructure:"dlq-topic"`

	// ReadinessTimeout bounds the wait for the topic to appear in metadata.
	ReadinessTimeout time.Duration `mapstructure:"readiness-timeout"`
	FailOnTopicError bool          `mapstructure:"fail-on-topic-error"`

	// MaxRetryAttempts counts every attempt including the first.
	MaxRetryAttempts  int           `mapstructure:"max-retry-attempts"`
	InitialBackoff    time.Duration `mapstructure:"initial-backoff"`
	MaxBackoff        time.Duration `mapstructure:"max-backoff"`
	ProcessingTimeout time.Duration `mapstructure:"processing-timeout"`
	ChannelBufferSize int           `mapstructure:"channel-buffer-size"`
}

type ProducerConfig struct {
	// ReadinessTimeout bounds the wait for broker metadata on start.
	ReadinessTimeout  time.Duration `mapstructure:"readiness-timeout"`
	FailOnBrokerError bool          `mapstructure:"fail-on-broker-error"`
	DeliveryTimeout   time.Duration `mapstructure:"delivery-timeout"`
}

// Consumer returns the consumer entry with the given name.
func (c Config) Consumer(name string) (ConsumerConfig, bool) {
	for _, item := range c.Consumers.Items {
		if item.Name == name {
			return item, true
		}
	}
	return ConsumerConfig{}, false
}
