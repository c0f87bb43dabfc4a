package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/condgate/condgate/pkg/httpwire"
)

const (
	// DefaultTTL is the fallback TTL when no Expires header is present.
	DefaultTTL = 5 * time.Minute
)

// ResponseToEntry converts an HTTP response to a cache Entry. It parses
// the Expires, Last-Modified, and ETag headers and reads the response
// body. The response body is restored after reading.
func ResponseToEntry(resp *http.Response) (*Entry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()

	// Restore body for caller
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry := &Entry{
		Body:       body,
		ETag:       resp.Header.Get("ETag"),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		CachedAt:   time.Now(),
	}

	entry.Expires = parseExpires(resp.Header)

	if lastMod, ok := httpwire.ParseDate(resp.Header.Get("Last-Modified")); ok {
		entry.LastModified = lastMod
	}

	return entry, nil
}

// EntryToResponse converts a cache Entry back to an HTTP response, for
// serving a cached body in place of an origin round trip.
func EntryToResponse(entry *Entry) *http.Response {
	return &http.Response{
		StatusCode: entry.StatusCode,
		Status:     http.StatusText(entry.StatusCode),
		Header:     entry.Headers.Clone(),
		Body:       io.NopCloser(bytes.NewReader(entry.Body)),
	}
}

// parseExpires parses the Expires header. Returns the parsed expiration
// time, or current time + DefaultTTL if the header is missing or
// malformed.
func parseExpires(headers http.Header) time.Time {
	expires, ok := httpwire.ParseDate(headers.Get("Expires"))
	if !ok {
		return time.Now().Add(DefaultTTL)
	}

	if expires.Before(time.Now()) {
		// Already expired - use minimal TTL
		return time.Now()
	}

	return expires
}

// ShouldRevalidate determines if a conditional request (If-None-Match
// or If-Modified-Since) can be sent upstream for this entry.
func ShouldRevalidate(entry *Entry) bool {
	if entry == nil {
		return false
	}
	return entry.HasValidators()
}

// AddValidators adds If-None-Match or If-Modified-Since headers to an
// upstream request based on the entry's validators.
func AddValidators(req *http.Request, entry *Entry) {
	if entry == nil || req == nil {
		return
	}

	// Prefer ETag over Last-Modified (more accurate)
	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	} else if !entry.LastModified.IsZero() {
		req.Header.Set("If-Modified-Since", entry.LastModified.UTC().Format(http.TimeFormat))
	}
}
