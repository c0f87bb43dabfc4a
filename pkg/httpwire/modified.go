package httpwire

import (
	"errors"
	"net/http"
	"time"
)

// ErrAmbiguousValidator is returned by IsResourceModified when both
// ETag and Data are supplied. The validator source must be unambiguous.
var ErrAmbiguousValidator = errors.New("both etag and data given")

// ConditionalRequest holds the inputs for a conditional-request
// evaluation: the precondition headers as received on the wire, and the
// validators known for the current representation.
//
// Exactly one of ETag and Data may be set. When only Data is set, a
// strong etag is derived from it with GenerateETag.
//
// LastModified takes precedence over LastModifiedRaw; the raw string is
// parsed as an HTTP date only when LastModified is the zero time.
type ConditionalRequest struct {
	// Range is the Range request header.
	Range string

	// IfRange is the If-Range request header. It is only consulted
	// when CheckIfRange is set and a Range header is present.
	IfRange string

	// IfModifiedSince is the If-Modified-Since request header.
	IfModifiedSince string

	// IfNoneMatch is the If-None-Match request header.
	IfNoneMatch string

	// IfMatch is the If-Match request header.
	IfMatch string

	// ETag is the entity tag of the current representation, possibly
	// quoted and weak-prefixed.
	ETag string

	// Data is the body of the current representation, used to derive
	// an etag when ETag is empty. Mutually exclusive with ETag.
	Data []byte

	// LastModified is the modification time of the representation.
	LastModified time.Time

	// LastModifiedRaw is the modification time as a raw header value,
	// for callers that only have the serialized form.
	LastModifiedRaw string

	// CheckIfRange enables If-Range evaluation. The zero value ignores
	// If-Range, which is correct for handlers that do not implement
	// range serving.
	CheckIfRange bool
}

// IsResourceModified evaluates the conditional-request headers against
// the known validators and reports whether the resource must be treated
// as modified, i.e. whether a full response has to be sent. A false
// result means the request preconditions prove the client's copy is
// current and the server may answer 304 Not Modified.
//
// Evaluation order follows the precondition rules of RFC 7232 and the
// If-Range rule of RFC 7233 §3.2:
//
//  1. The time check compares Last-Modified against the If-Range date
//     (when applicable) or If-Modified-Since.
//  2. A single If-Range entity tag, when applicable, is the sole
//     determinant.
//  3. Otherwise If-None-Match is evaluated with the weak comparison,
//     then If-Match with the strong comparison; a present If-Match
//     overrides the earlier checks.
//
// Missing or malformed headers contribute nothing and the result biases
// toward modified. The only error condition is supplying both ETag and
// Data.
func IsResourceModified(in ConditionalRequest) (bool, error) {
	etag := in.ETag
	if in.Data != nil {
		if etag != "" {
			return false, ErrAmbiguousValidator
		}
		etag = GenerateETag(in.Data)
	}

	unmodified := false

	lastModified := in.LastModified
	if lastModified.IsZero() && in.LastModifiedRaw != "" {
		lastModified, _ = ParseDate(in.LastModifiedRaw)
	}
	if !lastModified.IsZero() {
		// HTTP timestamps carry no sub-second resolution. Truncate
		// and normalize to UTC so equal seconds compare equal.
		lastModified = lastModified.Truncate(time.Second).UTC()
	}

	// A server MUST ignore If-Range when the request carries no Range
	// header (RFC 7233 §3.2).
	var ifRange IfRange
	ifRangeGiven := false
	if in.CheckIfRange && in.Range != "" && in.IfRange != "" {
		ifRange = ParseIfRangeHeader(in.IfRange)
		ifRangeGiven = true
	}

	var modifiedSince time.Time
	if ifRangeGiven && !ifRange.Date.IsZero() {
		modifiedSince = ifRange.Date
	} else {
		modifiedSince, _ = ParseDate(in.IfModifiedSince)
	}

	if !modifiedSince.IsZero() && !lastModified.IsZero() && !lastModified.After(modifiedSince) {
		unmodified = true
	}

	if etag != "" {
		tag, weak := UnquoteETag(etag)

		if ifRangeGiven && ifRange.Date.IsZero() {
			unmodified = ParseETags(ifRange.ETag).Contains(tag)
		} else {
			ifNoneMatch := ParseETags(in.IfNoneMatch)
			if !ifNoneMatch.IsEmpty() {
				// A recipient MUST use the weak comparison function
				// for If-None-Match (RFC 7232 §3.2).
				unmodified = ifNoneMatch.ContainsWeak(tag)
			}

			// An origin server MUST use the strong comparison
			// function for If-Match (RFC 7232 §3.1). A weak
			// representation tag can never strongly match, so the
			// precondition fails and the resource counts as modified.
			ifMatch := ParseETags(in.IfMatch)
			if !ifMatch.IsEmpty() {
				unmodified = !weak && ifMatch.IsStrongMatch(tag)
			}
		}
	}

	return !unmodified, nil
}

// RequestModified is a convenience wrapper around IsResourceModified
// for servers holding an *http.Request: it extracts the precondition
// headers and evaluates them against the given validators. If-Range is
// ignored. Either validator may be zero.
func RequestModified(r *http.Request, etag string, lastModified time.Time) bool {
	modified, _ := IsResourceModified(ConditionalRequest{
		Range:           r.Header.Get("Range"),
		IfRange:         r.Header.Get("If-Range"),
		IfModifiedSince: r.Header.Get("If-Modified-Since"),
		IfNoneMatch:     r.Header.Get("If-None-Match"),
		IfMatch:         r.Header.Get("If-Match"),
		ETag:            etag,
		LastModified:    lastModified,
	})
	return modified
}
