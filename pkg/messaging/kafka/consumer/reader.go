package consumer

import (
	"context"
	"time"

	"github.com/Sokol111/ecommerce-price-sync/pkg/core/logger"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

const readTimeout = time.Second

type messageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
}

// reader polls the consumer and hands messages to the processor channel.
type reader struct {
	consumer  messageReader
	out       chan<- *kafka.Message
	throttler *logger.LogThrottler
	log       *zap.Logger
}

func newReader(consumer messageReader, out chan<- *kafka.Message, log *zap.Logger) *reader {
	return &reader{
		consumer:  consumer,
		out:       out,
		throttler: logger.NewLogThrottler(log, 0),
		log:       log,
	}
}

// run returns nil on cancellation and an error only when the consumer is
// no longer usable.
func (r *reader) run(ctx context.Context) error {
	for ctx.Err() == nil {
		msg, err := r.consumer.ReadMessage(readTimeout)
		if err != nil {
			rerr := classifyReaderError(err)
			switch {
			case rerr.isTimeout():
			case rerr.isFatal():
				return rerr
			default:
				r.throttler.Warn(rerr.key, rerr.description, zap.Error(err))
				pause(ctx, rerr.pause)
			}
			continue
		}

		select {
		case r.out <- msg:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
