// Package await polls a condition until it holds.
package await

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrTimeout is returned when the condition did not hold within the timeout.
var ErrTimeout = errors.New("condition not met before timeout")

// Condition reports success with a nil error. The returned error explains
// why the condition does not hold yet.
type Condition func(ctx context.Context) error

// PollUntil evaluates condition immediately and then every interval until it
// returns nil. On expiry the error wraps ErrTimeout and the last condition
// error. Cancelling ctx stops polling with ctx.Err().
func PollUntil(ctx context.Context, interval, timeout time.Duration, condition Condition) error {
	if interval <= 0 {
		return fmt.Errorf("await: interval must be positive, got %v", interval)
	}

	deadline, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last error
	op := func() error {
		last = condition(deadline)
		return last
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(interval), deadline))
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case last == nil:
		return fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}
	return fmt.Errorf("%w after %v: %w", ErrTimeout, timeout, last)
}
