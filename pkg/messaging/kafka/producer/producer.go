package producer

import (
	"fmt"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/config"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

// Producer is the subset of *kafka.Producer used by this package.
type Producer interface {
	Produce(message *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

type producer struct {
	*kafka.Producer
	log *zap.Logger
}

func newProducer(conf config.Config, log *zap.Logger) (*producer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  conf.Brokers,
		"enable.idempotence": true,
		"acks":               "all",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	pr := &producer{Producer: p, log: log}
	go pr.drainEvents()
	return pr, nil
}

// drainEvents logs client-level events; per-message reports go to the
// delivery channel passed to Produce.
func (p *producer) drainEvents() {
	for e := range p.Events() {
		switch ev := e.(type) {
		case kafka.Error:
			p.log.Warn("kafka producer error", zap.Error(ev), zap.Bool("fatal", ev.IsFatal()))
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				p.log.Error("undelivered message", zap.Stringer("partition", ev.TopicPartition), zap.Error(ev.TopicPartition.Error))
			}
		}
	}
}

func (p *producer) Produce(message *kafka.Message, deliveryChan chan kafka.Event) error {
	if err := p.Producer.Produce(message, deliveryChan); err != nil {
		return fmt.Errorf("failed to enqueue message for %s: %w", topicOf(message), err)
	}
	return nil
}

func topicOf(m *kafka.Message) string {
	if m.TopicPartition.Topic == nil {
		return ""
	}
	return *m.TopicPartition.Topic
}
