package config

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Brokers) == "" {
		return errors.New("kafka brokers cannot be empty")
	}
	if strings.TrimSpace(cfg.SchemaRegistry.URL) == "" {
		return errors.New("schema registry url cannot be empty")
	}

	seen := make(map[string]struct{}, len(cfg.Consumers.Items))
	for i := range cfg.Consumers.Items {
		item := &cfg.Consumers.Items[i]
		if err := validateConsumer(item); err != nil {
			return fmt.Errorf("consumer[%d] (%s): %w", i, item.Name, err)
		}
		if _, dup := seen[item.Name]; dup {
			return fmt.Errorf("consumer[%d] (%s): duplicate name", i, item.Name)
		}
		seen[item.Name] = struct{}{}
	}

	if cfg.Producer.ReadinessTimeout > maxReadinessTimeout {
		return fmt.Errorf("producer readiness timeout cannot exceed %v, got: %v", maxReadinessTimeout, cfg.Producer.ReadinessTimeout)
	}
	return nil
}

func validateConsumer(c *ConsumerConfig) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if strings.TrimSpace(c.Topic) == "" {
		return errors.New("topic cannot be empty")
	}
	if c.AutoOffsetReset != "earliest" && c.AutoOffsetReset != "latest" {
		return fmt.Errorf("auto offset reset must be 'earliest' or 'latest', got: %s", c.AutoOffsetReset)
	}
	if c.EnableDLQ && c.DLQTopic == c.Topic {
		return errors.New("dlq topic cannot be the same as the consumed topic")
	}
	if c.InitialBackoff > c.MaxBackoff {
		return fmt.Errorf("initial backoff (%v) cannot be greater than max backoff (%v)", c.InitialBackoff, c.MaxBackoff)
	}

	return errors.Join(
		inRange("max retry attempts", c.MaxRetryAttempts, minMaxRetryAttempts, maxMaxRetryAttempts),
		inRange("initial backoff", c.InitialBackoff, minInitialBackoff, maxInitialBackoff),
		inRange("max backoff", c.MaxBackoff, minMaxBackoff, maxMaxBackoff),
		inRange("processing timeout", c.ProcessingTimeout, minProcessingTimeout, maxProcessingTimeout),
		inRange("channel buffer size", c.ChannelBufferSize, minChannelBufferSize, maxChannelBufferSize),
		inRange("readiness timeout", c.ReadinessTimeout, 0, maxReadinessTimeout),
	)
}

func inRange[T cmp.Ordered](field string, v, lo, hi T) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s must be between %v and %v, got: %v", field, lo, hi, v)
	}
	return nil
}
