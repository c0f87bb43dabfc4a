package cache

import (
	"net/http"
	"time"
)

// Entry is a cached upstream response.
type Entry struct {
	// Body is the response body.
	Body []byte `json:"body"`

	// ETag is the entity tag of the cached representation, as received
	// from the origin (possibly quoted and weak-prefixed).
	ETag string `json:"etag"`

	// LastModified is the origin's Last-Modified validator.
	LastModified time.Time `json:"last_modified"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// StatusCode is the HTTP status code of the cached response.
	StatusCode int `json:"status_code"`

	// Headers are the cached response headers.
	Headers http.Header `json:"headers"`

	// CachedAt is when the response was stored.
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired returns true if the entry is past its expiry.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiry, or 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// HasValidators reports whether the entry carries at least one
// validator usable for conditional requests.
func (e *Entry) HasValidators() bool {
	return e.ETag != "" || !e.LastModified.IsZero()
}
