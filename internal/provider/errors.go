package provider

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrUnavailable wraps transport failures and non-2xx responses.
	ErrUnavailable = errors.New("tax rate provider unavailable")
	// ErrMalformedResponse is returned when the payload has no usable rate.
	ErrMalformedResponse = errors.New("malformed tax rate response")
	// ErrThrottled is returned without any I/O when the outbound limiter is exhausted.
	ErrThrottled = errors.New("tax rate provider throttled")
)

// RateLimitError indicates a provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// maxRetryAfterSecs caps a provider's Retry-After at one day.
const maxRetryAfterSecs = 24 * 60 * 60

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults
// to 60s; values above one day are capped at one day.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	if retryAfterSecs > maxRetryAfterSecs {
		retryAfterSecs = maxRetryAfterSecs
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}
