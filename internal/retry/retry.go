// Package retry runs an operation with exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

const (
	defaultMaxAttempts  = 3
	defaultBaseDelay    = 50 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errors.New("base delay must not be negative")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
	ErrNilPredicate        = errors.New("retry predicate must not be nil")
)

// Func is a retryable operation.
type Func func(ctx context.Context) error

type config struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	retryIf      func(error) bool
	logger       *slog.Logger
}

// Option configures Do.
type Option func(*config) error

// Do calls fn until it succeeds, returns a non-retryable error, the context
// is done or the attempts run out. Attempt n waits baseDelay*2^(n-1) plus up
// to jitterFactor of that delay. The last error is returned.
func Do(ctx context.Context, fn Func, options ...Option) error {
	cfg := &config{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
		retryIf:      func(error) bool { return true },
	}
	for _, option := range options {
		if err := option(cfg); err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := cfg.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * cfg.jitterFactor //nolint:gosec // jitter only
			backoff := delay + time.Duration(jitter)

			if cfg.logger != nil {
				cfg.logger.Debug("retrying", "attempt", attempt+1, "delay", backoff, "error", lastErr)
			}

			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || !cfg.retryIf(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func WithMaxAttempts(attempts int) Option {
	return func(c *config) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = attempts
		return nil
	}
}

// WithBaseDelay sets the first backoff; later ones double.
func WithBaseDelay(delay time.Duration) Option {
	return func(c *config) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}
		c.baseDelay = delay
		return nil
	}
}

func WithJitterFactor(factor float64) Option {
	return func(c *config) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}
		c.jitterFactor = factor
		return nil
	}
}

// WithRetryIf limits retries to errors for which pred returns true.
func WithRetryIf(pred func(error) bool) Option {
	return func(c *config) error {
		if pred == nil {
			return ErrNilPredicate
		}
		c.retryIf = pred
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
