package consumer

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// PanicError is a recovered handler panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

type retryPolicy struct {
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	attemptTimeout time.Duration
	log            *zap.Logger
}

// execute runs fn until it succeeds, returns a skip or permanent error, or
// maxAttempts is reached. Each attempt gets its own attemptTimeout.
func (r retryPolicy) execute(ctx context.Context, fn func(ctx context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialBackoff
	b.MaxInterval = r.maxBackoff
	b.MaxElapsedTime = 0

	attempt := 0
	op := func() error {
		attempt++
		err := r.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrSkipMessage) || errors.Is(err, ErrPermanent) {
			return backoff.Permanent(err)
		}
		r.logFailure(err, attempt)
		return err
	}

	retries := uint64(max(r.maxAttempts-1, 0))
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSkipMessage), errors.Is(err, ErrPermanent):
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, err)
}

func (r retryPolicy) attempt(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if r.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.attemptTimeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %w", ErrPermanent, &PanicError{Value: rec, Stack: debug.Stack()})
		}
	}()

	return fn(ctx)
}

func (r retryPolicy) logFailure(err error, attempt int) {
	r.log.Warn("failed to process message",
		zap.Int("attempt", attempt),
		zap.Int("max_attempts", r.maxAttempts),
		zap.Error(err),
	)
}
