package httpwire

import (
	"reflect"
	"testing"
)

func TestParseETags(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []EntityTag
	}{
		{
			name:  "single quoted tag",
			value: `"v1"`,
			want:  []EntityTag{{Tag: "v1"}},
		},
		{
			name:  "comma separated list",
			value: `"v1", "v2", "v3"`,
			want:  []EntityTag{{Tag: "v1"}, {Tag: "v2"}, {Tag: "v3"}},
		},
		{
			name:  "weak tags",
			value: `W/"v1", "v2"`,
			want:  []EntityTag{{Tag: "v1", Weak: true}, {Tag: "v2"}},
		},
		{
			name:  "lowercase weak prefix",
			value: `w/"v1"`,
			want:  []EntityTag{{Tag: "v1", Weak: true}},
		},
		{
			name:  "bare tokens",
			value: `v1, v2`,
			want:  []EntityTag{{Tag: "v1"}, {Tag: "v2"}},
		},
		{
			name:  "quoted tag containing comma",
			value: `"v,1", "v2"`,
			want:  []EntityTag{{Tag: "v,1"}, {Tag: "v2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ParseETags(tt.value)
			if set.MatchAny() {
				t.Fatal("ParseETags() unexpectedly match-any")
			}
			if got := set.Tags(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseETags(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseETags_Empty(t *testing.T) {
	if set := ParseETags(""); !set.IsEmpty() {
		t.Errorf("ParseETags(\"\") not empty: %v", set.Tags())
	}
}

func TestParseETags_Star(t *testing.T) {
	set := ParseETags("*")
	if !set.MatchAny() {
		t.Fatal("ParseETags(*) did not produce a match-any set")
	}
	if set.IsEmpty() {
		t.Error("match-any set reported empty")
	}
	if !set.ContainsWeak("anything") {
		t.Error("match-any set ContainsWeak = false")
	}
	if !set.IsStrongMatch("anything") {
		t.Error("match-any set IsStrongMatch = false")
	}
}

func TestETagsComparisons(t *testing.T) {
	set := ParseETags(`W/"weak", "strong"`)

	tests := []struct {
		name       string
		tag        string
		weakWant   bool
		strongWant bool
	}{
		{name: "strong member", tag: "strong", weakWant: true, strongWant: true},
		{name: "weak member", tag: "weak", weakWant: true, strongWant: false},
		{name: "non member", tag: "other", weakWant: false, strongWant: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.ContainsWeak(tt.tag); got != tt.weakWant {
				t.Errorf("ContainsWeak(%q) = %v, want %v", tt.tag, got, tt.weakWant)
			}
			if got := set.IsStrongMatch(tt.tag); got != tt.strongWant {
				t.Errorf("IsStrongMatch(%q) = %v, want %v", tt.tag, got, tt.strongWant)
			}
		})
	}
}

func TestEntityTagComparisons(t *testing.T) {
	strong := EntityTag{Tag: "v1"}
	weak := EntityTag{Tag: "v1", Weak: true}
	other := EntityTag{Tag: "v2"}

	if !strong.StrongEq(EntityTag{Tag: "v1"}) {
		t.Error("strong tags with equal payload should strongly match")
	}
	if weak.StrongEq(strong) || strong.StrongEq(weak) {
		t.Error("weak tag must never strongly match")
	}
	if !weak.WeakEq(strong) {
		t.Error("weak comparison ignores weakness")
	}
	if strong.WeakEq(other) {
		t.Error("different payloads must not match")
	}
}

func TestUnquoteETag(t *testing.T) {
	tests := []struct {
		name     string
		etag     string
		wantTag  string
		wantWeak bool
	}{
		{name: "quoted", etag: `"v1"`, wantTag: "v1"},
		{name: "weak quoted", etag: `W/"v1"`, wantTag: "v1", wantWeak: true},
		{name: "lowercase weak", etag: `w/"v1"`, wantTag: "v1", wantWeak: true},
		{name: "bare", etag: "v1", wantTag: "v1"},
		{name: "surrounding space", etag: ` "v1" `, wantTag: "v1"},
		{name: "empty", etag: "", wantTag: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, weak := UnquoteETag(tt.etag)
			if tag != tt.wantTag || weak != tt.wantWeak {
				t.Errorf("UnquoteETag(%q) = %q, %v, want %q, %v",
					tt.etag, tag, weak, tt.wantTag, tt.wantWeak)
			}
		})
	}
}

func TestQuoteETag(t *testing.T) {
	if got := QuoteETag("v1", false); got != `"v1"` {
		t.Errorf("QuoteETag strong = %q", got)
	}
	if got := QuoteETag("v1", true); got != `W/"v1"` {
		t.Errorf("QuoteETag weak = %q", got)
	}

	// Round trip through UnquoteETag.
	tag, weak := UnquoteETag(QuoteETag("v1", true))
	if tag != "v1" || !weak {
		t.Errorf("round trip = %q, %v", tag, weak)
	}
}

func TestGenerateETag(t *testing.T) {
	// SHA-1 of "x".
	const want = "11f6ad8ec52a2984abaafd7c3b516503785c2072"
	if got := GenerateETag([]byte("x")); got != want {
		t.Errorf("GenerateETag(x) = %q, want %q", got, want)
	}

	if GenerateETag([]byte("a")) == GenerateETag([]byte("b")) {
		t.Error("distinct payloads produced identical etags")
	}
}
