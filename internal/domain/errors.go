package domain

import (
	"errors"
	"fmt"
)

// Standard sentinel errors shared across the gateway.
var (
	// ErrToolNotFound is returned when an invocation names a tool that was
	// never registered in the catalog.
	ErrToolNotFound = errors.New("tool not found")

	// ErrNoCredentials is returned when a tool requires authentication but
	// no credential pair was supplied at startup.
	ErrNoCredentials = errors.New("missing API credentials: set COMPOSER_API_KEY and COMPOSER_SECRET_KEY")
)

// ValidationError reports a caller-supplied argument that violates a tool's
// declared input schema. It is always produced before any network activity.
type ValidationError struct {
	Tool   string
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("invalid argument %q for %s: %s", e.Param, e.Tool, e.Reason)
}

// TransportError wraps a network-level failure (connection refused, timeout,
// TLS failure) reaching the upstream platform. The request may or may not have
// been received upstream; the gateway never retries.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TradingAPIError reports an upstream rejection. Status and Message carry the
// platform's response verbatim so the caller can decide how to proceed.
type TradingAPIError struct {
	Status  int
	Message string
	Body    string
}

func (e *TradingAPIError) Error() string {
	return fmt.Sprintf("upstream rejected request (HTTP %d): %s", e.Status, e.Message)
}

// UpstreamContractError indicates the upstream response did not match the
// shape this gateway was built against (e.g. a required field went missing).
type UpstreamContractError struct {
	Tool   string
	Reason string
}

func (e *UpstreamContractError) Error() string {
	return fmt.Sprintf("unexpected upstream response for %s: %s", e.Tool, e.Reason)
}
