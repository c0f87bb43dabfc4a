package httpwire

import (
	"net/http"
	"time"
)

// ParseDate parses an HTTP-date header value in any of the three
// formats RFC 9110 §5.6.7 requires recipients to accept (IMF-fixdate,
// obsolete RFC 850, ANSI C asctime). It never fails loudly: malformed
// input reports ok=false and a zero time.
func ParseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IfRange is the parsed value of an If-Range header: either a single
// entity tag or a date, never both. The zero value means the header was
// absent or empty.
type IfRange struct {
	// ETag is the unquoted entity tag, or "" if the value was a date.
	ETag string

	// Date is the validator timestamp, or the zero time if the value
	// was an entity tag.
	Date time.Time
}

// ParseIfRangeHeader parses an If-Range header value, which carries
// either an entity tag or an HTTP date (RFC 7233 §3.2). A value that
// parses as a date is treated as one; anything else is treated as an
// entity tag and unquoted.
func ParseIfRangeHeader(value string) IfRange {
	if value == "" {
		return IfRange{}
	}
	if date, ok := ParseDate(value); ok {
		return IfRange{Date: date}
	}
	tag, _ := UnquoteETag(value)
	return IfRange{ETag: tag}
}
