// internal/engine/errors.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/law-makers/reviews/internal/engine/dynamic"
	"github.com/law-makers/reviews/internal/retry"
)

// Common engine errors
var (
	ErrBrowserUnavailable = dynamic.ErrBrowserUnavailable
	ErrNoDocument         = errors.New("no document")
)

// ErrorCode classifies a fetch failure
type ErrorCode string

const (
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeCanceled           ErrorCode = "CANCELED"
	ErrCodeHTTPStatus         ErrorCode = "HTTP_STATUS"
	ErrCodeNetworkError       ErrorCode = "NETWORK_ERROR"
	ErrCodeBrowserUnavailable ErrorCode = "BROWSER_UNAVAILABLE"
	ErrCodeBrowserCrash       ErrorCode = "BROWSER_CRASH"
)

// EngineError wraps a fetch failure with its classification
type EngineError struct {
	Code       ErrorCode
	URL        string
	Underlying error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: fetch %s: %v", e.Code, e.URL, e.Underlying)
	}
	return fmt.Sprintf("%s: fetch %s", e.Code, e.URL)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is matches another EngineError by code, or the underlying error
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// NewEngineError creates an EngineError
func NewEngineError(code ErrorCode, url string, err error) *EngineError {
	return &EngineError{Code: code, URL: url, Underlying: err}
}

// Classify wraps err in an EngineError with the best matching code
func Classify(mode, url string, err error) *EngineError {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee
	}

	var sc retry.StatusCoder
	switch {
	case errors.Is(err, context.Canceled):
		return NewEngineError(ErrCodeCanceled, url, err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewEngineError(ErrCodeTimeout, url, err)
	case errors.Is(err, dynamic.ErrBrowserUnavailable):
		return NewEngineError(ErrCodeBrowserUnavailable, url, err)
	case errors.As(err, &sc):
		return NewEngineError(ErrCodeHTTPStatus, url, err)
	case mode == "dynamic":
		return NewEngineError(ErrCodeBrowserCrash, url, err)
	default:
		var te interface{ Timeout() bool }
		if errors.As(err, &te) && te.Timeout() {
			return NewEngineError(ErrCodeTimeout, url, err)
		}
		return NewEngineError(ErrCodeNetworkError, url, err)
	}
}
