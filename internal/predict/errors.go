package predict

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrRateLimit indicates the service returned 429 Too Many Requests.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the response body is not JSON or does not
// carry a numeric predicted_yield.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid prediction response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrServiceUnavailable indicates the service is down, unreachable, or
// answered with a 5xx status.
type ErrServiceUnavailable struct {
	StatusCode int
	Err        error
}

func (e *ErrServiceUnavailable) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("prediction service unavailable: HTTP %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("prediction service unavailable: %v", e.Err)
	}
	return "prediction service unavailable"
}

func (e *ErrServiceUnavailable) Unwrap() error { return e.Err }

// ErrServiceStatus indicates the service rejected the request with a
// non-retryable status.
type ErrServiceStatus struct {
	StatusCode int
	Body       string
}

func (e *ErrServiceStatus) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("prediction service returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("prediction service returned HTTP %d: %s", e.StatusCode, e.Body)
}
