package httpwire

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/condgate/condgate/pkg/multidict"
)

// cookieTokenRe matches one name=value token terminated by ";". The
// value is either a quoted string allowing backslash escapes, or a bare
// non-greedy run. The parser appends a trailing ";" so the last token
// needs no special casing. RE2 guarantees linear scanning, so hostile
// headers (long runs of unmatched quotes) cannot trigger backtracking
// blowups.
var cookieTokenRe = regexp.MustCompile(`([^=;]*)(?:\s*=\s*("(?:[^\\"]|\\.)*"|.*?))?\s*;\s*`)

// cookieUnslashRe matches one legacy escape inside a quoted cookie
// value: a 3-digit octal byte code, or a backslash-escaped literal.
// It operates on raw bytes, before any charset decoding, so multi-byte
// sequences survive intact.
var cookieUnslashRe = regexp.MustCompile(`\\([0-3][0-7]{2}|.)`)

// ParseCookie parses a raw Cookie request-header value into an ordered
// multi-valued mapping. The same name can appear multiple times; values
// are stored in header order and all of them are retrievable with
// GetList. An empty header yields an empty mapping.
//
// The grammar is deliberately permissive: tokens are name=value pairs
// separated by ";", a missing =value defaults to the empty string,
// whitespace around names and values is trimmed, and malformed
// fragments are skipped rather than reported. Double-quoted values are
// unwrapped and their legacy backslash-octal escapes decoded. Invalid
// UTF-8 after unescaping is repaired with the replacement rune.
func ParseCookie(header string) *multidict.MultiDict {
	return ParseCookieFunc(header, nil)
}

// ParseCookieFunc is ParseCookie with a caller-supplied charset
// decoder, applied to the raw bytes of quoted values after unescaping.
// The decoder must repair rather than fail; a nil decoder means UTF-8
// with replacement-rune substitution.
func ParseCookieFunc(header string, decode func([]byte) string) *multidict.MultiDict {
	out := multidict.New()
	if header == "" {
		return out
	}

	// Normalize the last token's boundary.
	header += ";"

	for _, m := range cookieTokenRe.FindAllStringSubmatch(header, -1) {
		name := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])

		if name == "" {
			continue
		}

		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = unslashCookieValue(value[1:len(value)-1], decode)
		}

		out.Add(name, value)
	}

	return out
}

// RequestCookies parses the Cookie header(s) of an HTTP request. When a
// request carries several Cookie header lines they are joined with
// "; " before parsing, preserving line order.
func RequestCookies(r *http.Request) *multidict.MultiDict {
	return ParseCookie(strings.Join(r.Header["Cookie"], "; "))
}

// unslashCookieValue decodes the legacy escapes of a quoted cookie
// payload as raw bytes, then applies the charset decoder.
func unslashCookieValue(quoted string, decode func([]byte) string) string {
	raw := cookieUnslashRe.ReplaceAllFunc([]byte(quoted), func(m []byte) []byte {
		v := m[1:]
		if len(v) == 1 {
			return v
		}
		n, err := strconv.ParseUint(string(v), 8, 8)
		if err != nil {
			return v
		}
		return []byte{byte(n)}
	})
	if decode != nil {
		return decode(raw)
	}
	return strings.ToValidUTF8(string(raw), "�")
}
