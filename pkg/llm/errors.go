package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies a provider failure
type ErrorKind int

// provider error kinds
const (
	KindUnknown ErrorKind = iota
	KindTimeout
	KindRateLimited
	KindAuth
	KindTransientNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindRateLimited:
		return "rate_limited"
	case KindAuth:
		return "auth"
	case KindTransientNetwork:
		return "transient_network"
	default:
		return "unknown"
	}
}

// ProviderError is a failed provider call. Kind decides whether the call is retried.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retriable reports whether the call may succeed on retry
func (e *ProviderError) Retriable() bool {
	switch e.Kind {
	case KindTimeout, KindRateLimited, KindTransientNetwork:
		return true
	default:
		return false
	}
}

// IsRetriable returns true if err is a retriable *ProviderError
func IsRetriable(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retriable()
}

// kindFromStatus maps an HTTP status code to error kind
func kindFromStatus(code int) ErrorKind {
	switch {
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusRequestTimeout || code >= 500:
		return KindTransientNetwork
	default:
		return KindUnknown
	}
}

// kindFromError handles the transport-level failures shared by all providers.
// Returns false if err carries nothing it recognizes.
func kindFromError(err error) (ErrorKind, bool) {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout, true
		}
		return KindTransientNetwork, true
	}
	return KindUnknown, false
}
