package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/deskhound/itglue-go/pkg/retry"
)

// Kind classifies an API failure. Every error returned by this package and
// the packages built on it carries exactly one Kind.
type Kind string

const (
	// KindRateLimited is an HTTP 429 response.
	KindRateLimited Kind = "rate_limited"

	// KindTimeout is a server-reported processing timeout or a transport
	// timeout.
	KindTimeout Kind = "timeout"

	// KindNotFound is an HTTP 404 or an empty result where the caller's
	// contract requires at least one record.
	KindNotFound Kind = "not_found"

	// KindInconsistent means the retrieved record count disagrees with the
	// server-reported total. Never auto-corrected; see pkg/pagination.
	KindInconsistent Kind = "inconsistent"

	// KindAuthFailed is a failure of the login or token exchange flow.
	KindAuthFailed Kind = "auth_failed"

	// KindUnexpected is any other transport, HTTP, or decode failure.
	KindUnexpected Kind = "unexpected"
)

// timeoutDetail is the phrase IT Glue puts in error bodies when a request
// exceeded its server-side processing window.
const timeoutDetail = "took too long to process and timed out"

// APIError is the failure value for every IT Glue API error. Success values
// and failures are never mixed; an operation returns either data or an
// *APIError (possibly wrapped).
type APIError struct {
	Kind       Kind
	StatusCode int

	// Title and Detail carry the upstream error body when present.
	Title  string
	Detail string

	Err error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("itglue %s error", e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Title != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Title)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from err, or KindUnexpected when err carries no
// APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnexpected
}

// IsNotFound reports whether err is a KindNotFound failure.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// RetryClassOf maps an error to the retry policy's failure class.
func RetryClassOf(err error) retry.Class {
	switch KindOf(err) {
	case KindRateLimited:
		return retry.ClassRateLimit
	case KindTimeout:
		return retry.ClassTimeout
	default:
		return retry.ClassFatal
	}
}

// isTimeoutShaped reports whether an upstream error body describes the
// server-side processing timeout.
func isTimeoutShaped(title, detail string) bool {
	return strings.Contains(strings.ToLower(title), timeoutDetail) ||
		strings.Contains(strings.ToLower(detail), timeoutDetail)
}

// classifyTransportError maps a transport-level failure to a Kind. Timeouts
// join the server-reported timeout path so they share the same retry budget;
// everything else is unexpected.
func classifyTransportError(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindUnexpected
}
