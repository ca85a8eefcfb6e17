// internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Backoff selects how the wait between attempts grows
type Backoff int

const (
	// BackoffLinear waits InitialBackoff × attempt number
	BackoffLinear Backoff = iota
	// BackoffExponential waits InitialBackoff × Multiplier^(attempt-1)
	BackoffExponential
)

// Config defines retry behavior
type Config struct {
	MaxAttempts    int           // Total attempts including the first one
	InitialBackoff time.Duration // Base delay
	MaxBackoff     time.Duration // Upper bound for a single wait (0 = unbounded)
	Multiplier     float64       // Exponential growth factor
	Strategy       Backoff
	// RetryableStatusCodes limits which HTTP failures are retried.
	// Empty means every HTTP failure is retried.
	RetryableStatusCodes []int
}

// DefaultConfig matches the page fetcher: 3 attempts, 1s × attempt
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		Strategy:       BackoffLinear,
	}
}

// ServerErrorsOnly returns cfg restricted to throttling and 5xx responses
func ServerErrorsOnly(cfg Config) Config {
	cfg.RetryableStatusCodes = []int{
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	}
	return cfg
}

// WithRetry executes fn until it succeeds, returns a non-retryable error,
// the attempts run out or ctx is done.
func WithRetry(ctx context.Context, cfg Config, fn func(attempt int) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(attempt)
		if err == nil {
			if attempt > 1 {
				log.Debug().
					Int("attempts", attempt).
					Msg("Retry succeeded")
			}
			return nil
		}

		lastErr = err

		if !shouldRetry(err, cfg) {
			log.Debug().
				Err(err).
				Msg("Error is not retryable")
			return err
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		backoff := Delay(attempt, cfg)
		log.Debug().
			Int("attempt", attempt).
			Int("max_attempts", cfg.MaxAttempts).
			Dur("backoff", backoff).
			Err(err).
			Msg("Retrying after backoff")

		if err := Sleep(ctx, backoff); err != nil {
			return err
		}
	}

	log.Warn().
		Int("attempts", cfg.MaxAttempts).
		Err(lastErr).
		Msg("Max retry attempts exceeded")

	return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// Delay returns the wait after the given (1-based) failed attempt
func Delay(attempt int, cfg Config) time.Duration {
	var backoff float64
	switch cfg.Strategy {
	case BackoffExponential:
		mult := cfg.Multiplier
		if mult <= 0 {
			mult = 2.0
		}
		backoff = float64(cfg.InitialBackoff) * math.Pow(mult, float64(attempt-1))
	default:
		backoff = float64(cfg.InitialBackoff) * float64(attempt)
	}

	if cfg.MaxBackoff > 0 && backoff > float64(cfg.MaxBackoff) {
		backoff = float64(cfg.MaxBackoff)
	}
	return time.Duration(backoff)
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func shouldRetry(err error, cfg Config) bool {
	if err == nil {
		return false
	}

	// Cancellation is never worth another attempt
	if errors.Is(err, context.Canceled) {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		if len(cfg.RetryableStatusCodes) == 0 {
			return true
		}
		statusCode := sc.GetStatusCode()
		for _, code := range cfg.RetryableStatusCodes {
			if statusCode == code {
				return true
			}
		}
		return false
	}

	var permanent *PermanentError
	if errors.As(err, &permanent) {
		return false
	}

	// Network, timeout and parse failures are retried
	return true
}

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

// StatusCoder is implemented by errors that carry an HTTP status code
type StatusCoder interface {
	GetStatusCode() int
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

func (e HTTPError) GetStatusCode() int {
	return e.StatusCode
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, status string, message string) HTTPError {
	return HTTPError{
		StatusCode: statusCode,
		Status:     status,
		Message:    message,
	}
}

// PermanentError marks a failure that must not be retried
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so WithRetry returns it immediately
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}
