package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures to reach a remote cache such as Redis.
var ErrNetwork = errors.New("network error")

// RetryableError marks an error that [Backoff.Do] may retry.
type RetryableError struct{ Err error }

// Retryable wraps err so that it is retried. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries a cache operation with doubling delays.
type Backoff struct {
	Attempts int           // total calls, including the first
	Delay    time.Duration // wait before the first retry
	MaxDelay time.Duration // cap on any single wait; zero means no cap
}

// DefaultBackoff is used by [RetryWithBackoff] and by RedisCache. A cache
// lookup should never stall a render for long, so it gives up after about a
// second.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 200 * time.Millisecond, MaxDelay: time.Second}

// Do calls fn until it succeeds, returns an error that is not retryable, or
// the attempts run out. It returns ctx.Err() if ctx ends while waiting.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if b.MaxDelay > 0 && delay > b.MaxDelay {
			delay = b.MaxDelay
		}
	}
	return err
}

// RetryWithBackoff runs fn under [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}
