package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConsumer() ConsumerConfig {
	return ConsumerConfig{
		Name:              "price",
		Topic:             "product-price-changes",
		GroupID:           "demo",
		AutoOffsetReset:   "earliest",
		MaxRetryAttempts:  3,
		InitialBackoff:    time.Second,
		MaxBackoff:        10 * time.Second,
		ProcessingTimeout: 30 * time.Second,
		ChannelBufferSize: 100,
		ReadinessTimeout:  time.Minute,
	}
}

func TestValidateConsumer(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ConsumerConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*ConsumerConfig) {}},
		{name: "empty name", mutate: func(c *ConsumerConfig) { c.Name = " " }, wantErr: "name cannot be empty"},
		{name: "empty topic", mutate: func(c *ConsumerConfig) { c.Topic = "" }, wantErr: "topic cannot be empty"},
		{name: "bad offset reset", mutate: func(c *ConsumerConfig) { c.AutoOffsetReset = "none" }, wantErr: "auto offset reset"},
		{
			name:    "dlq equals topic",
			mutate:  func(c *ConsumerConfig) { c.EnableDLQ = true; c.DLQTopic = c.Topic },
			wantErr: "dlq topic cannot be the same",
		},
		{
			name:    "initial above max backoff",
			mutate:  func(c *ConsumerConfig) { c.InitialBackoff = 20 * time.Second },
			wantErr: "cannot be greater than max backoff",
		},
		{name: "too many retries", mutate: func(c *ConsumerConfig) { c.MaxRetryAttempts = 101 }, wantErr: "max retry attempts"},
		{name: "zero retries", mutate: func(c *ConsumerConfig) { c.MaxRetryAttempts = 0 }, wantErr: "max retry attempts"},
		{name: "tiny buffer", mutate: func(c *ConsumerConfig) { c.ChannelBufferSize = 0 }, wantErr: "channel buffer size"},
		{
			name:    "readiness too long",
			mutate:  func(c *ConsumerConfig) { c.ReadinessTimeout = time.Hour },
			wantErr: "readiness timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConsumer()
			tt.mutate(&c)

			err := validateConsumer(&c)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	base := func() Config {
		return Config{
			Brokers:        "localhost:9092",
			SchemaRegistry: SchemaRegistryConfig{URL: "http://localhost:8081"},
			Consumers:      ConsumersConfig{Items: []ConsumerConfig{validConsumer()}},
			Producer:       ProducerConfig{ReadinessTimeout: time.Second},
		}
	}

	t.Run("valid", func(t *testing.T) {
		cfg := base()
		assert.NoError(t, validateConfig(&cfg))
	})

	t.Run("duplicate consumer names", func(t *testing.T) {
		cfg := base()
		cfg.Consumers.Items = append(cfg.Consumers.Items, validConsumer())

		err := validateConfig(&cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate name")
	})

	t.Run("consumer error carries index and name", func(t *testing.T) {
		cfg := base()
		cfg.Consumers.Items[0].Topic = ""

		err := validateConfig(&cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "consumer[0] (price)")
	})

	t.Run("producer readiness bound", func(t *testing.T) {
		cfg := base()
		cfg.Producer.ReadinessTimeout = time.Hour

		err := validateConfig(&cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "producer readiness timeout")
	})
}
