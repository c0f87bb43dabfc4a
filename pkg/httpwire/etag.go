package httpwire

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

// etagListRe matches one element of a comma-separated entity-tag list:
// an optional weak prefix, then either a quoted tag or a bare token,
// terminated by a comma separator or end of input.
var etagListRe = regexp.MustCompile(`^([Ww]/)?(?:"(.*?)"|(.*?))(?:\s*,\s*|$)`)

// EntityTag is a single HTTP entity-tag validator. Tag holds the
// unquoted payload; Weak marks a W/-prefixed tag.
type EntityTag struct {
	Tag  string
	Weak bool
}

// WeakEq reports whether the tags match under the weak comparison
// function: the payloads are equal, weakness ignored.
func (e EntityTag) WeakEq(other EntityTag) bool {
	return e.Tag == other.Tag
}

// StrongEq reports whether the tags match under the strong comparison
// function: neither tag is weak and the payloads are equal.
func (e EntityTag) StrongEq(other EntityTag) bool {
	return !e.Weak && !other.Weak && e.Tag == other.Tag
}

// ETags is an immutable set of entity tags parsed from a header value.
// A header value of "*" produces a match-any set that matches every tag
// under every comparison function.
type ETags struct {
	tags     []EntityTag
	matchAny bool
}

// IsEmpty reports whether the set holds no tags and is not match-any.
// An empty or absent header parses to an empty set.
func (e ETags) IsEmpty() bool {
	return !e.matchAny && len(e.tags) == 0
}

// MatchAny reports whether the set originated from a "*" header value.
func (e ETags) MatchAny() bool {
	return e.matchAny
}

// Tags returns the member tags in header order. Nil for match-any sets.
func (e ETags) Tags() []EntityTag {
	out := make([]EntityTag, len(e.tags))
	copy(out, e.tags)
	return out
}

// ContainsWeak reports whether any member weakly matches tag. This is
// the comparison If-None-Match requires (RFC 7232 §3.2).
func (e ETags) ContainsWeak(tag string) bool {
	if e.matchAny {
		return true
	}
	for _, t := range e.tags {
		if t.Tag == tag {
			return true
		}
	}
	return false
}

// Contains reports whether tag is a member of the set regardless of
// weakness. Used when matching a single If-Range entity tag.
func (e ETags) Contains(tag string) bool {
	return e.ContainsWeak(tag)
}

// IsStrongMatch reports whether any non-weak member strongly matches
// tag. This is the comparison If-Match requires (RFC 7232 §3.1).
func (e ETags) IsStrongMatch(tag string) bool {
	if e.matchAny {
		return true
	}
	for _, t := range e.tags {
		if !t.Weak && t.Tag == tag {
			return true
		}
	}
	return false
}

// ParseETags parses a comma-separated entity-tag list header value such
// as If-None-Match or If-Match. Tags may carry a W/ weak prefix and may
// be quoted or bare. A literal "*" yields a match-any set. Malformed
// input never fails; unparseable trailing content is dropped.
func ParseETags(value string) ETags {
	var set ETags
	pos := 0
	for pos < len(value) {
		m := etagListRe.FindStringSubmatchIndex(value[pos:])
		if m == nil || m[1] == 0 {
			break
		}
		weak := m[2] >= 0
		var tag string
		quoted := m[4] >= 0
		if quoted {
			tag = value[pos+m[4] : pos+m[5]]
		} else {
			tag = value[pos+m[6] : pos+m[7]]
			if tag == "*" {
				return ETags{matchAny: true}
			}
		}
		set.tags = append(set.tags, EntityTag{Tag: tag, Weak: weak})
		pos += m[1]
	}
	return set
}

// UnquoteETag strips the surrounding quotes and any leading weak
// indicator from a single etag header value, returning the bare tag and
// whether the tag was weak.
func UnquoteETag(etag string) (string, bool) {
	if etag == "" {
		return "", false
	}
	etag = strings.TrimSpace(etag)
	weak := false
	if strings.HasPrefix(etag, "W/") || strings.HasPrefix(etag, "w/") {
		weak = true
		etag = etag[2:]
	}
	if len(etag) >= 2 && etag[0] == '"' && etag[len(etag)-1] == '"' {
		etag = etag[1 : len(etag)-1]
	}
	return etag, weak
}

// QuoteETag wraps a bare tag in quotes, adding the weak prefix when
// requested. The inverse of UnquoteETag.
func QuoteETag(tag string, weak bool) string {
	if weak {
		return `W/"` + tag + `"`
	}
	return `"` + tag + `"`
}

// GenerateETag produces a strong entity-tag payload for a byte slice,
// as the hex digest of its SHA-1 content hash. The result is a bare tag;
// use QuoteETag before placing it in a header.
func GenerateETag(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
