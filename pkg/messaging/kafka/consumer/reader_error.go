package consumer

import (
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

type readerErrorKind int

const (
	kindTimeout readerErrorKind = iota
	kindFatal
	kindTopicNotFound
	kindBrokerConnection
	kindLeaderElection
	kindRetriable
	kindUnknown
)

// readerError is a classified ReadMessage failure.
type readerError struct {
	err         error
	kind        readerErrorKind
	key         string
	description string
	// pause before the next read attempt
	pause time.Duration
}

func (e *readerError) Error() string {
	if e.description == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %v", e.description, e.err)
}

func (e *readerError) Unwrap() error { return e.err }

func (e *readerError) isTimeout() bool { return e.kind == kindTimeout }

func (e *readerError) isFatal() bool { return e.kind == kindFatal }

func classifyReaderError(err error) *readerError {
	if err == nil {
		return nil
	}

	var kafkaErr kafka.Error
	if !errors.As(err, &kafkaErr) {
		return &readerError{err: err, kind: kindUnknown, key: "non_kafka_error", description: "non-kafka error occurred", pause: time.Second}
	}

	if kafkaErr.IsTimeout() || kafkaErr.Code() == kafka.ErrTimedOut {
		return &readerError{err: err, kind: kindTimeout}
	}
	if kafkaErr.IsFatal() {
		return &readerError{err: err, kind: kindFatal, description: "fatal kafka error, consumer is no longer operable"}
	}

	switch kafkaErr.Code() {
	case kafka.ErrUnknownTopicOrPart, kafka.ErrUnknownTopic:
		return &readerError{err: err, kind: kindTopicNotFound, key: "topic_not_found", description: "topic not available, waiting for topic creation", pause: 5 * time.Second}
	case kafka.ErrTransport, kafka.ErrAllBrokersDown, kafka.ErrNetworkException:
		return &readerError{err: err, kind: kindBrokerConnection, key: "broker_connection", description: "broker connection issue, retrying", pause: 2 * time.Second}
	case kafka.ErrLeaderNotAvailable, kafka.ErrNotLeaderForPartition:
		return &readerError{err: err, kind: kindLeaderElection, key: "leader_election", description: "partition leader changing, retrying", pause: time.Second}
	}

	if kafkaErr.IsRetriable() {
		return &readerError{err: err, kind: kindRetriable, key: "retriable_error", description: "retriable kafka error, retrying", pause: time.Second}
	}
	return &readerError{err: err, kind: kindUnknown, key: "unknown_error", description: "unknown kafka error", pause: time.Second}
}
