package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
)

// RedpandaContainer provides a Kafka API and a Schema Registry in one container.
type RedpandaContainer struct {
	Container         *redpanda.Container
	Brokers           string
	SchemaRegistryURL string
}

const redpandaImage = "docker.redpanda.com/redpandadata/redpanda:v24.1.1"

// StartRedpandaContainer starts Redpanda with topic auto-creation enabled
func StartRedpandaContainer(ctx context.Context) (*RedpandaContainer, error) {
	rp, err := redpanda.Run(ctx, redpandaImage, redpanda.WithAutoCreateTopics())
	if err != nil {
		return nil, fmt.Errorf("failed to start redpanda container: %w", err)
	}

	brokers, err := rp.KafkaSeedBroker(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(rp)
		return nil, fmt.Errorf("failed to get kafka broker: %w", err)
	}

	registryURL, err := rp.SchemaRegistryAddress(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(rp)
		return nil, fmt.Errorf("failed to get schema registry address: %w", err)
	}

	return &RedpandaContainer{
		Container:         rp,
		Brokers:           brokers,
		SchemaRegistryURL: registryURL,
	}, nil
}

// CreateTopics creates single-partition topics, ignoring ones that exist.
func (r *RedpandaContainer) CreateTopics(ctx context.Context, topics ...string) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{"bootstrap.servers": r.Brokers})
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	specs := make([]kafka.TopicSpecification, 0, len(topics))
	for _, topic := range topics {
		specs = append(specs, kafka.TopicSpecification{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	}

	results, err := admin.CreateTopics(ctx, specs)
	if err != nil {
		return fmt.Errorf("failed to create topics: %w", err)
	}

	var errs []error
	for _, res := range results {
		if code := res.Error.Code(); code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
			errs = append(errs, fmt.Errorf("topic %s: %w", res.Topic, res.Error))
		}
	}
	return errors.Join(errs...)
}

func (r *RedpandaContainer) Terminate(ctx context.Context) error {
	if r.Container != nil {
		if err := testcontainers.TerminateContainer(r.Container); err != nil {
			return fmt.Errorf("failed to terminate redpanda container: %w", err)
		}
	}
	return nil
}
