package consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sokol111/ecommerce-price-sync/pkg/core/health"
	kafkaconfig "github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/config"
	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const topicPollInterval = time.Second

type metadataProvider interface {
	GetMetadata(topic *string, allTopics bool, timeoutMs int) (*kafka.Metadata, error)
}

func provideKafkaConsumer(
	lc fx.Lifecycle,
	conf kafkaconfig.Config,
	consumerConf kafkaconfig.ConsumerConfig,
	log *zap.Logger,
	cm health.ComponentManager,
) (*kafka.Consumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":        conf.Brokers,
		"group.id":                 consumerConf.GroupID,
		"enable.auto.commit":       true,
		"enable.auto.offset.store": false,
		"auto.commit.interval.ms":  3000,
		"auto.offset.reset":        consumerConf.AutoOffsetReset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer %s: %w", consumerConf.Name, err)
	}

	markReady := cm.AddComponent("kafka_consumer_" + consumerConf.Name)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("subscribing to topic")
			if err := c.SubscribeTopics([]string{consumerConf.Topic}, rebalanceLogger(log)); err != nil {
				return fmt.Errorf("failed to subscribe to %s: %w", consumerConf.Topic, err)
			}

			if err := waitForTopic(ctx, c, consumerConf.Topic, log, consumerConf.ReadinessTimeout, consumerConf.FailOnTopicError); err != nil {
				return err
			}
			markReady()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if _, err := c.Commit(); err != nil {
				var kafkaErr kafka.Error
				if !errors.As(err, &kafkaErr) || kafkaErr.Code() != kafka.ErrNoOffset {
					log.Warn("failed to commit offsets on shutdown", zap.Error(err))
				}
			}
			log.Info("closing kafka consumer")
			return c.Close()
		},
	})

	return c, nil
}

func rebalanceLogger(log *zap.Logger) kafka.RebalanceCb {
	return func(_ *kafka.Consumer, event kafka.Event) error {
		switch ev := event.(type) {
		case kafka.AssignedPartitions:
			log.Info("partitions assigned", zap.Int32s("partitions", partitionIDs(ev.Partitions)))
		case kafka.RevokedPartitions:
			log.Info("partitions revoked", zap.Int32s("partitions", partitionIDs(ev.Partitions)))
		}
		return nil
	}
}

func partitionIDs(tps []kafka.TopicPartition) []int32 {
	return lo.Map(tps, func(tp kafka.TopicPartition, _ int) int32 { return tp.Partition })
}

// waitForTopic polls metadata until topic has at least one partition. When
// failOnError is false a timeout is logged and ignored.
func waitForTopic(ctx context.Context, md metadataProvider, topic string, log *zap.Logger, timeout time.Duration, failOnError bool) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	check := func() error {
		meta, err := md.GetMetadata(&topic, false, int(topicPollInterval.Milliseconds()))
		if err != nil {
			return err
		}
		tm, ok := meta.Topics[topic]
		if !ok {
			return fmt.Errorf("topic %s not found in metadata", topic)
		}
		if tm.Error.Code() != kafka.ErrNoError {
			return fmt.Errorf("topic %s: %w", topic, tm.Error)
		}
		if len(tm.Partitions) == 0 {
			return fmt.Errorf("topic %s has no partitions", topic)
		}
		log.Info("topic is ready", zap.Int("partitions", len(tm.Partitions)))
		return nil
	}

	err := backoff.Retry(check, backoff.WithContext(backoff.NewConstantBackOff(topicPollInterval), ctx))
	if err == nil {
		return nil
	}
	if failOnError {
		return fmt.Errorf("topic %s is not available: %w", topic, err)
	}
	log.Warn("topic is not available, continuing anyway", zap.Error(err))
	return nil
}
