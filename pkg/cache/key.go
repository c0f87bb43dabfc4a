package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached response by request path and query.
type Key struct {
	// Path is the request path (e.g. "/articles/42").
	Path string

	// Query holds the query parameters.
	Query url.Values
}

// String generates a deterministic cache key string.
// Format: condgate:path:query1=val1:query2=val2
//
// Example:
//
//	condgate:articles/42:lang=en
func (k Key) String() string {
	parts := []string{"condgate"}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	// Sorted query params for determinism.
	if len(k.Query) > 0 {
		queryKeys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
