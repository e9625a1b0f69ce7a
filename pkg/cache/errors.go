package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrUnavailable is returned when a remote backend cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrCacheMiss is returned by helpers that treat a miss as an error.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts and retryBaseDelay shape RetryWithBackoff.
const (
	retryAttempts  = 3
	retryBaseDelay = 100 * time.Millisecond
)

// RetryWithBackoff calls fn up to three times, doubling a 100ms delay between
// attempts. Only errors wrapped with Retryable trigger a retry.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryBaseDelay
	var lastErr error

	for i := range retryAttempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < retryAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
