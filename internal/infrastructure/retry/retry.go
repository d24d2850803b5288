package retry

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Policy holds the backoff configuration for retried operations. The
// zero value is not usable; start from DefaultPolicy.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64

	// Sleep waits between attempts. Tests inject a fake to keep runs
	// instant and deterministic. Nil falls back to a context-aware
	// time.After wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy returns the backoff used for outbound service calls.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2.0,
	}
}

// PermanentError marks a failure that must not be retried. Do unwraps
// it and returns the inner error immediately.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so Do stops retrying and surfaces it as-is.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Do executes fn with exponential backoff until it succeeds, fails
// permanently, or the attempt budget runs out. It returns the number of
// attempts actually made together with the last error.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) (int, error) {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = waitCtx
	}

	var lastErr error
	delay := p.InitialBackoff

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			return attempt, perm.Err
		}
		// Only the caller's context stops the loop. A deadline on a
		// per-attempt child context is an ordinary retryable failure.
		if ctx.Err() != nil {
			return attempt, err
		}
		if attempt == p.MaxAttempts {
			return attempt, lastErr
		}

		if err := sleep(ctx, delay); err != nil {
			return attempt, err
		}

		delay = time.Duration(float64(delay) * p.Multiplier)
		if p.MaxBackoff > 0 && delay > p.MaxBackoff {
			delay = p.MaxBackoff
		}
	}

	return p.MaxAttempts, lastErr
}

func waitCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// IsRetryableStatus reports whether an HTTP status from an upstream
// service is worth another attempt.
func IsRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= 500
}
