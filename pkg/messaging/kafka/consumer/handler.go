package consumer

import (
	"context"
	"errors"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
)

var (
	// ErrSkipMessage marks a message as intentionally ignored. The offset is
	// stored and nothing is retried.
	ErrSkipMessage = errors.New("skip message processing")

	// ErrPermanent marks a failure that retrying cannot fix. The message goes
	// to the DLQ when one is configured.
	ErrPermanent = errors.New("permanent error")

	// ErrRetriesExhausted wraps the last error after every attempt failed.
	ErrRetriesExhausted = errors.New("max retry attempts reached")
)

// Handler processes a decoded event. Returning an error wrapping
// ErrSkipMessage or ErrPermanent stops retries.
type Handler interface {
	Process(ctx context.Context, event events.Event) error
}
