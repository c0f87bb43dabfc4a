package httpwire

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	want := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC)

	tests := []struct {
		name   string
		value  string
		wantOK bool
	}{
		{name: "imf-fixdate", value: "Sun, 06 Nov 1994 08:49:37 GMT", wantOK: true},
		{name: "rfc 850", value: "Sunday, 06-Nov-94 08:49:37 GMT", wantOK: true},
		{name: "asctime", value: "Sun Nov  6 08:49:37 1994", wantOK: true},
		{name: "empty", value: "", wantOK: false},
		{name: "garbage", value: "not a date", wantOK: false},
		{name: "etag value", value: `"abc"`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseDate(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && !parsed.Equal(want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.value, parsed, want)
			}
			if !ok && !parsed.IsZero() {
				t.Errorf("ParseDate(%q) returned non-zero time on failure", tt.value)
			}
		})
	}
}

func TestParseIfRangeHeader(t *testing.T) {
	date := time.Date(2015, time.October, 21, 7, 28, 0, 0, time.UTC)

	tests := []struct {
		name     string
		value    string
		wantETag string
		wantDate time.Time
	}{
		{name: "absent", value: ""},
		{name: "date", value: "Wed, 21 Oct 2015 07:28:00 GMT", wantDate: date},
		{name: "quoted etag", value: `"v1"`, wantETag: "v1"},
		{name: "weak etag", value: `W/"v1"`, wantETag: "v1"},
		{name: "bare token", value: "v1", wantETag: "v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIfRangeHeader(tt.value)
			if got.ETag != tt.wantETag {
				t.Errorf("ETag = %q, want %q", got.ETag, tt.wantETag)
			}
			if !got.Date.Equal(tt.wantDate) {
				t.Errorf("Date = %v, want %v", got.Date, tt.wantDate)
			}
		})
	}
}
