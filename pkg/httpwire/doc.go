// Package httpwire implements HTTP wire-level validator and cookie semantics.
//
// The package covers two independent, stateless concerns:
//
// - Conditional request evaluation: deciding whether a resource must be
//   considered modified relative to a client's cached copy, per the
//   ETag/Last-Modified precondition rules of RFC 7232 and the If-Range
//   rules of RFC 7233.
//
// - Cookie header parsing: tokenizing a raw Cookie request-header value
//   into an ordered multi-valued mapping, tolerating malformed input and
//   decoding legacy backslash-octal escapes in quoted values.
//
// # Conditional Requests
//
//	modified, err := httpwire.IsResourceModified(httpwire.ConditionalRequest{
//		IfNoneMatch:  r.Header.Get("If-None-Match"),
//		IfMatch:      r.Header.Get("If-Match"),
//		ETag:         `"v1"`,
//		LastModified: lastMod,
//	})
//	if err != nil {
//		// both ETag and Data were supplied
//	}
//	if !modified {
//		w.WriteHeader(http.StatusNotModified)
//	}
//
// Malformed header content (bad dates, bad etag lists) never causes an
// error. The evaluator proceeds with reduced information and biases
// toward "modified", which is always safe: serving fresh content is
// correct, serving a wrong 304 is a cache-correctness bug.
//
// # Cookies
//
//	cookies := httpwire.ParseCookie(r.Header.Get("Cookie"))
//	session, ok := cookies.Get("session")
//	all := cookies.GetList("tracking")
//
// Duplicate cookie names are preserved in header order. Parsing never
// fails; unparseable fragments are skipped.
//
// All functions are pure and safe for concurrent use. Token patterns are
// package-level precompiled RE2 expressions, so per-token scanning is
// linear even on adversarial input.
package httpwire
