package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for retry decisions.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itglue_retries_total",
		Help: "Total number of retry attempts by failure class",
	}, []string{"class"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "itglue_retry_backoff_seconds",
		Help:    "Backoff duration for retries by failure class",
		Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120},
	}, []string{"class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itglue_retry_exhausted_total",
		Help: "Total number of times a retry budget was exhausted by failure class",
	}, []string{"class"})

	pageSizeShrinksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itglue_page_size_shrinks_total",
		Help: "Total number of adaptive page-size reductions after timeout budgets",
	})
)

// Common errors returned when a retry budget is spent.
var (
	// ErrRateLimitExceeded is returned when the 429 retry ceiling is hit.
	ErrRateLimitExceeded = errors.New("rate limit retries exhausted")

	// ErrUnrecoverable is returned when timeouts persist and the page size
	// cannot shrink any further (or the operation has no page size).
	ErrUnrecoverable = errors.New("unrecoverable timeout")

	// ErrContextCancelled is returned when the context is cancelled during
	// a backoff sleep.
	ErrContextCancelled = errors.New("context cancelled")
)

// Action tells the caller what to do with the current attempt.
type Action int

const (
	// ActionRetry means repeat the same request unchanged.
	ActionRetry Action = iota

	// ActionShrink means the page size in State was halved; the caller must
	// recompute its page number from the accumulated record count before
	// retrying.
	ActionShrink
)

// Policy holds the retry ceilings and backoff for one client. The zero value
// is not usable; start from DefaultPolicy.
type Policy struct {
	// MaxRateLimitRetries is the 429 retry ceiling.
	MaxRateLimitRetries int

	// TimeoutRetryBudget is the number of timeouts tolerated per page size.
	TimeoutRetryBudget int

	// RateLimitBackoff is slept before each 429 retry.
	RateLimitBackoff time.Duration

	// MinPageSize is the adaptive shrink floor.
	MinPageSize int
}

// DefaultPolicy returns the vendor-observed default ceilings: nine 429
// retries with a 60 second backoff, five timeouts per page size, shrink
// floor of one record per page.
func DefaultPolicy() Policy {
	return Policy{
		MaxRateLimitRetries: DefaultMaxRateLimitRetries,
		TimeoutRetryBudget:  DefaultTimeoutRetryBudget,
		RateLimitBackoff:    60 * time.Second,
		MinPageSize:         DefaultMinPageSize,
	}
}

// Decide consumes one failed attempt of the given class and returns the next
// action, mutating st. A non-nil error means the operation must be aborted:
// ErrRateLimitExceeded, ErrUnrecoverable, or ErrContextCancelled.
//
// Fatal classes are rejected outright; the caller is expected to abort on
// those without consulting the policy.
func (p Policy) Decide(ctx context.Context, st *State, class Class) (Action, error) {
	switch class {
	case ClassRateLimit:
		st.RateLimitRetries++
		if st.RateLimitRetries > p.MaxRateLimitRetries {
			retryExhaustedTotal.WithLabelValues(string(ClassRateLimit)).Inc()
			log.Warn().
				Int("retries", st.RateLimitRetries-1).
				Msg("Rate limit retry ceiling reached, aborting")
			return 0, ErrRateLimitExceeded
		}

		retriesTotal.WithLabelValues(string(ClassRateLimit)).Inc()
		retryBackoffSeconds.WithLabelValues(string(ClassRateLimit)).Observe(p.RateLimitBackoff.Seconds())
		log.Warn().
			Int("attempt", st.RateLimitRetries).
			Int("max", p.MaxRateLimitRetries).
			Dur("backoff", p.RateLimitBackoff).
			Msg("Rate limited, backing off before retry")

		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(p.RateLimitBackoff):
		}
		return ActionRetry, nil

	case ClassTimeout:
		st.TimeoutRetries++
		if st.TimeoutRetries < p.TimeoutRetryBudget {
			retriesTotal.WithLabelValues(string(ClassTimeout)).Inc()
			log.Warn().
				Int("attempt", st.TimeoutRetries).
				Int("budget", p.TimeoutRetryBudget).
				Int("page_size", st.PageSize).
				Msg("Server timeout, retrying")
			return ActionRetry, nil
		}

		// Budget spent at this page size. Shrink if we still can.
		if st.CanShrink(p) {
			old := st.PageSize
			st.Shrink(p)
			pageSizeShrinksTotal.Inc()
			retriesTotal.WithLabelValues(string(ClassTimeout)).Inc()
			log.Warn().
				Int("old_page_size", old).
				Int("new_page_size", st.PageSize).
				Msg("Timeout budget spent, halving page size")
			return ActionShrink, nil
		}

		retryExhaustedTotal.WithLabelValues(string(ClassTimeout)).Inc()
		log.Error().
			Int("page_size", st.PageSize).
			Msg("Timeout budget spent and page size cannot shrink, aborting")
		return 0, ErrUnrecoverable

	default:
		return 0, fmt.Errorf("class %q is not retryable", class)
	}
}
