// Package retrier wraps an operation with classified retry and backoff.
package retrier

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/log"
)

// Backoff selects how the delay between attempts grows.
type Backoff string

const (
	BackoffExponential Backoff = "exponential"
	BackoffLinear      Backoff = "linear"
	BackoffFixed       Backoff = "fixed"
)

// maxDelay caps the exponential backoff.
const maxDelay = 30 * time.Second

// Options configures one retried operation.
type Options struct {
	// Context labels the operation in log entries.
	Context string
	// MaxAttempts is the total attempt budget, minimum 1.
	MaxAttempts int
	Backoff     Backoff
	// InitialDelay seeds the backoff computation.
	InitialDelay time.Duration
	// Classify, when set, decides after each failure whether the error is
	// worth retrying. A false verdict stops immediately and returns that
	// error. When nil, every failure is retried until the budget runs out.
	Classify func(error) bool
	// Clock defaults to the real clock; tests inject a fake one.
	Clock clockwork.Clock
}

// Do runs op until it succeeds, the error is classified non-retryable or
// MaxAttempts is exhausted. The error from the final attempt is returned
// as-is. Between attempts it suspends on the clock without blocking
// other goroutines.
func Do[T any](ctx context.Context, opts Options, op func(context.Context) (T, error)) (T, error) {
	logger := log.NewFieldedLogger(&log.Fields{
		"component": "retrier",
	})

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := Delay(opts.Backoff, opts.InitialDelay, attempt-1)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-clock.After(delay):
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if opts.Classify != nil && !opts.Classify(err) {
			logger.Debug("error is not retryable", "context", opts.Context, "attempt", attempt, "err", err.Error())
			return zero, err
		}

		if attempt < attempts {
			logger.Warn("operation failed, retrying", "context", opts.Context, "attempt", attempt, "maxAttempts", attempts, "err", err.Error())
		} else {
			logger.Error("operation failed, retries exhausted", "context", opts.Context, "attempt", attempt, "err", fmt.Sprintf("%+v", err))
		}
	}

	return zero, lastErr
}

// Delay computes the pause after the given number of failed attempts.
// Exponential doubles from InitialDelay and is capped at 30s, linear
// grows by InitialDelay per failure and fixed stays constant.
func Delay(kind Backoff, initial time.Duration, failures int) time.Duration {
	if failures < 1 {
		failures = 1
	}
	switch kind {
	case BackoffLinear:
		return initial * time.Duration(failures)
	case BackoffFixed:
		return initial
	default:
		delay := initial
		for i := 1; i < failures; i++ {
			delay *= 2
			if delay >= maxDelay {
				return maxDelay
			}
		}
		if delay > maxDelay {
			delay = maxDelay
		}
		return delay
	}
}
