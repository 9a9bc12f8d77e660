package producer

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

const brokerPollInterval = 500 * time.Millisecond

type metadataProvider interface {
	GetMetadata(topic *string, allTopics bool, timeoutMs int) (*kafka.Metadata, error)
}

// waitForBrokers polls cluster metadata until a broker answers. When
// failOnError is false an unreachable cluster is logged and tolerated.
func waitForBrokers(ctx context.Context, p metadataProvider, log *zap.Logger, timeout time.Duration, failOnError bool) error {
	log.Info("waiting for kafka brokers", zap.Duration("timeout", timeout))

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := backoff.Retry(func() error {
		meta, err := p.GetMetadata(nil, false, int(brokerPollInterval.Milliseconds()))
		if err != nil {
			return err
		}
		if len(meta.Brokers) == 0 {
			return errors.New("metadata lists no brokers")
		}
		return nil
	}, backoff.WithContext(backoff.NewConstantBackOff(brokerPollInterval), ctx))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		if failOnError {
			return err
		}
		log.Warn("kafka brokers not reachable, continuing", zap.Error(err))
		return nil
	}

	log.Info("kafka brokers reachable")
	return nil
}
