package translate

import (
	"context"
	"net/http"
	"strings"
	"time"

	"pdf-translator/internal/logger"
)

// DefaultMaxRetries is the default maximum number of retry attempts for API errors
const DefaultMaxRetries = 3

// BaseRetryDelay is the base delay between retries (exponential backoff)
const BaseRetryDelay = 2 * time.Second

// maxRetryDelay caps the exponential backoff
const maxRetryDelay = 30 * time.Second

// StatusError is an HTTP-level provider failure carrying the status code so
// retry classification does not depend on message text alone.
type StatusError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface for StatusError
func (e *StatusError) Error() string {
	return e.Message
}

// withRetry runs fn up to maxRetries times with exponential backoff, stopping
// early on success, a non-retryable error, or context cancellation.
func withRetry(ctx context.Context, maxRetries int, fn func() error) error {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		logger.Warn("translation attempt failed",
			logger.Int("attempt", attempt),
			logger.Int("maxRetries", maxRetries),
			logger.Err(lastErr))

		if !isRetryableError(lastErr) {
			logger.Debug("non-retryable error, giving up")
			return lastErr
		}

		if attempt < maxRetries {
			delay := calculateBackoffDelay(attempt)
			logger.Debug("retrying after delay",
				logger.String("delay", delay.String()),
				logger.Int("nextAttempt", attempt+1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return lastErr
}

// isRetryableError determines if an error should trigger a retry.
// Retryable errors include:
// - Network errors
// - Rate limit errors (429)
// - Server errors (5xx)
// Non-retryable errors include:
// - Authentication failures (401)
// - Invalid requests (400)
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if statusErr, ok := err.(*StatusError); ok {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized,
			statusErr.StatusCode == http.StatusForbidden,
			statusErr.StatusCode == http.StatusBadRequest:
			return false
		case statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= 500:
			return true
		}
	}

	errStr := err.Error()
	if strings.Contains(errStr, "authentication") ||
		strings.Contains(errStr, "invalid API key") ||
		strings.Contains(errStr, "unauthorized") {
		return false
	}
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "server error") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "reset by peer") {
		return true
	}

	return false
}

// calculateBackoffDelay calculates the delay for exponential backoff.
// The delay doubles with each attempt: 2s, 4s, 8s, etc., capped at 30s.
func calculateBackoffDelay(attempt int) time.Duration {
	delay := BaseRetryDelay * time.Duration(1<<uint(attempt-1))
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
