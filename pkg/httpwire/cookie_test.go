package httpwire

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/condgate/condgate/pkg/multidict"
)

func TestParseCookie(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []multidict.Pair
	}{
		{
			name:   "empty header",
			header: "",
			want:   []multidict.Pair{},
		},
		{
			name:   "two cookies",
			header: "a=b; c=d",
			want: []multidict.Pair{
				{Key: "a", Value: "b"},
				{Key: "c", Value: "d"},
			},
		},
		{
			name:   "duplicate names preserved in order",
			header: "a=1; a=2",
			want: []multidict.Pair{
				{Key: "a", Value: "1"},
				{Key: "a", Value: "2"},
			},
		},
		{
			name:   "missing value defaults to empty",
			header: "a; b=1",
			want: []multidict.Pair{
				{Key: "a", Value: ""},
				{Key: "b", Value: "1"},
			},
		},
		{
			name:   "empty and malformed segments skipped",
			header: " ; a=b; ;",
			want: []multidict.Pair{
				{Key: "a", Value: "b"},
			},
		},
		{
			name:   "whitespace trimmed",
			header: "  a  =  b  ;  c = d ",
			want: []multidict.Pair{
				{Key: "a", Value: "b"},
				{Key: "c", Value: "d"},
			},
		},
		{
			name:   "quoted value unwrapped",
			header: `a="b c"`,
			want: []multidict.Pair{
				{Key: "a", Value: "b c"},
			},
		},
		{
			name:   "quoted value with semicolon",
			header: `a="b;c"; d=e`,
			want: []multidict.Pair{
				{Key: "a", Value: "b;c"},
				{Key: "d", Value: "e"},
			},
		},
		{
			name:   "octal escape decoded",
			header: `a="b\041c"`,
			want: []multidict.Pair{
				{Key: "a", Value: "b!c"},
			},
		},
		{
			name:   "escaped quote and backslash",
			header: `a="b\"c\\d"`,
			want: []multidict.Pair{
				{Key: "a", Value: `b"c\d`},
			},
		},
		{
			name:   "octal escapes forming utf-8 sequence",
			header: `a="\303\244"`,
			want: []multidict.Pair{
				{Key: "a", Value: "ä"},
			},
		},
		{
			name:   "unmatched quote kept verbatim",
			header: `a="b`,
			want: []multidict.Pair{
				{Key: "a", Value: `"b`},
			},
		},
		{
			name:   "value containing equals sign",
			header: "a=b=c",
			want: []multidict.Pair{
				{Key: "a", Value: "b=c"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCookie(tt.header).Pairs()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCookie(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestParseCookie_InvalidUTF8Replaced(t *testing.T) {
	// \377 is 0xFF, never valid in UTF-8.
	got := ParseCookie(`a="\377"`)

	value, ok := got.Get("a")
	if !ok {
		t.Fatal("cookie a missing")
	}
	if value != "�" {
		t.Errorf("value = %q, want replacement rune", value)
	}
}

func TestParseCookieFunc_CustomDecoder(t *testing.T) {
	// A Latin-1 decoder: every byte maps to the rune of the same value.
	latin1 := func(raw []byte) string {
		var b strings.Builder
		for _, c := range raw {
			b.WriteRune(rune(c))
		}
		return b.String()
	}

	got := ParseCookieFunc(`a="\344"`, latin1)

	value, ok := got.Get("a")
	if !ok {
		t.Fatal("cookie a missing")
	}
	if value != "ä" {
		t.Errorf("value = %q, want %q", value, "ä")
	}
}

func TestParseCookie_GetList(t *testing.T) {
	got := ParseCookie("a=1; b=x; a=2")

	want := []string{"1", "2"}
	if list := got.GetList("a"); !reflect.DeepEqual(list, want) {
		t.Errorf("GetList(a) = %v, want %v", list, want)
	}
	if first, _ := got.Get("a"); first != "1" {
		t.Errorf("Get(a) = %q, want first value", first)
	}
}

func TestParseCookie_AdversarialInput(t *testing.T) {
	// Long runs of unmatched quotes and separators must parse in
	// reasonable time and without panicking.
	hostile := strings.Repeat(`a="`, 10000) + strings.Repeat(";", 10000)
	_ = ParseCookie(hostile)
}

func TestRequestCookies(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Add("Cookie", "a=1; b=2")
	r.Header.Add("Cookie", "a=3")

	got := RequestCookies(r)

	want := []string{"1", "3"}
	if list := got.GetList("a"); !reflect.DeepEqual(list, want) {
		t.Errorf("GetList(a) = %v, want %v", list, want)
	}
	if b, _ := got.Get("b"); b != "2" {
		t.Errorf("Get(b) = %q, want 2", b)
	}
}
