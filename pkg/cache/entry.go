// Package cache provides an optional Redis-backed cache for GET responses.
// IT Glue sends neither ETag nor Expires headers, so entries carry a fixed
// TTL chosen by the client configuration.
package cache

import (
	"time"
)

// Entry is a cached API response body.
type Entry struct {
	// Body is the raw response body (the JSON:API envelope).
	Body []byte `json:"body"`

	// StatusCode of the cached response.
	StatusCode int `json:"status_code"`

	// CachedAt is when the response was stored.
	CachedAt time.Time `json:"cached_at"`

	// ExpiresAt is when the entry becomes stale.
	ExpiresAt time.Time `json:"expires_at"`
}

// NewEntry builds an entry expiring ttl from now.
func NewEntry(body []byte, statusCode int, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Body:       body,
		StatusCode: statusCode,
		CachedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
}

// IsExpired returns true if the entry is stale.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// TTL returns the time until expiration, or 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.ExpiresAt)
	if ttl < 0 {
		return 0
	}
	return ttl
}
