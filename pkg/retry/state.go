// Package retry implements the transient-failure policy shared by every
// IT Glue API call path: bounded sleep-and-retry on HTTP 429 rate limiting,
// a timeout retry budget, and adaptive page-size reduction for paginated
// fetches that keep timing out server-side.
package retry

// Default ceilings. These match observed IT Glue behavior; raising them
// mostly trades latency for failures that were going to happen anyway.
const (
	// DefaultMaxRateLimitRetries is the number of consecutive 429 responses
	// tolerated for a single request before the whole operation is aborted.
	DefaultMaxRateLimitRetries = 9

	// DefaultTimeoutRetryBudget is the number of server-side timeouts
	// tolerated at a given page size before the page size is halved.
	// The upstream tooling used both 5 and 6 in different call paths; this
	// implementation uses 5 everywhere.
	DefaultTimeoutRetryBudget = 5

	// DefaultMinPageSize is the floor for adaptive page-size reduction.
	// A timeout at this size is unrecoverable.
	DefaultMinPageSize = 1
)

// Class categorizes a failed attempt for the retry policy.
type Class string

const (
	// ClassRateLimit is an HTTP 429 response.
	ClassRateLimit Class = "rate_limit"

	// ClassTimeout is a server-reported processing timeout (or a transport
	// level timeout).
	ClassTimeout Class = "timeout"

	// ClassFatal is any other failure. Fatal failures are never retried.
	ClassFatal Class = "fatal"
)

// Retryable reports whether the policy will ever retry this class.
func (c Class) Retryable() bool {
	return c == ClassRateLimit || c == ClassTimeout
}

// State carries the retry counters for one top-level operation. It is owned
// by that operation and must not be shared across calls or resource types.
type State struct {
	// RateLimitRetries counts 429 retries consumed so far.
	RateLimitRetries int

	// TimeoutRetries counts timeout retries consumed at the current page
	// size. Reset to zero whenever the page size shrinks.
	TimeoutRetries int

	// PageSize is the page size the next page request should use. Zero for
	// operations that have no pagination (uploads, single GETs); those can
	// never shrink and abort once the timeout budget is spent.
	PageSize int
}

// NewState returns a fresh State for one top-level operation. pageSize is
// the initial page size, or 0 for non-paginated operations.
func NewState(pageSize int) *State {
	return &State{PageSize: pageSize}
}

// CanShrink reports whether the page size can still be reduced under policy p.
func (s *State) CanShrink(p Policy) bool {
	return s.PageSize > p.MinPageSize
}

// Shrink halves the page size (not below the policy floor) and resets the
// timeout counter for the new size.
func (s *State) Shrink(p Policy) {
	s.PageSize /= 2
	if s.PageSize < p.MinPageSize {
		s.PageSize = p.MinPageSize
	}
	s.TimeoutRetries = 0
}
