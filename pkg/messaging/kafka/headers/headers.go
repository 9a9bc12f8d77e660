// Package headers reads and writes Kafka message headers, including the
// OpenTelemetry trace context.
package headers

import (
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/propagation"
)

const (
	EventType = "event-type"
	EventID   = "event-id"
)

// Get returns the last value for key, or "".
func Get(hs []kafka.Header, key string) string {
	for i := len(hs) - 1; i >= 0; i-- {
		if hs[i].Key == key {
			return string(hs[i].Value)
		}
	}
	return ""
}

// Set replaces every header named key with a single value.
func Set(hs []kafka.Header, key, value string) []kafka.Header {
	out := hs[:0]
	for _, h := range hs {
		if h.Key != key {
			out = append(out, h)
		}
	}
	return append(out, kafka.Header{Key: key, Value: []byte(value)})
}

// Carrier adapts message headers to propagation.TextMapCarrier.
type Carrier struct {
	Message *kafka.Message
}

var _ propagation.TextMapCarrier = Carrier{}

func (c Carrier) Get(key string) string {
	return Get(c.Message.Headers, key)
}

func (c Carrier) Set(key, value string) {
	c.Message.Headers = Set(c.Message.Headers, key, value)
}

func (c Carrier) Keys() []string {
	keys := make([]string, 0, len(c.Message.Headers))
	for _, h := range c.Message.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}
