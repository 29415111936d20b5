package pathcmd

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        string
		segs      []string
		remainder string
		trailing  bool
	}{
		{
			name:      "plain path",
			in:        "/a/b/c",
			segs:      []string{"a", "b"},
			remainder: "c",
		},
		{
			name:     "trailing slash",
			in:       "/a/b/",
			segs:     []string{"a", "b"},
			trailing: true,
		},
		{
			name:     "empty input",
			in:       "",
			trailing: true,
		},
		{
			name:     "bare slash",
			in:       "/",
			trailing: true,
		},
		{
			name:      "quoted segment with slash",
			in:        `/"foo/bar"/Notes`,
			segs:      []string{"foo/bar"},
			remainder: "Notes",
		},
		{
			name:     "quoted segment complete",
			in:       `/"foo/bar"/`,
			segs:     []string{"foo/bar"},
			trailing: true,
		},
		{
			name:      "escaped quote inside quotes",
			in:        `/"say \"hi\""/x`,
			segs:      []string{`say "hi"`},
			remainder: "x",
		},
		{
			name:      "escaped backslash inside quotes",
			in:        `/"a\\b"/x`,
			segs:      []string{`a\b`},
			remainder: "x",
		},
		{
			name:      "dangling escape is a literal backslash",
			in:        `/"a\b"/x`,
			segs:      []string{`a\b`},
			remainder: "x",
		},
		{
			name:      "unquoted segments trimmed",
			in:        "/ a / b ",
			segs:      []string{"a"},
			remainder: "b",
		},
		{
			name:     "empty unquoted segments dropped",
			in:       "//a//",
			segs:     []string{"a"},
			trailing: true,
		},
		{
			name:      "quoted empty segment kept",
			in:        `/""/a`,
			segs:      []string{""},
			remainder: "a",
		},
		{
			name:      "quoted leading space preserved",
			in:        `/" padded "/x`,
			segs:      []string{" padded "},
			remainder: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if !reflect.DeepEqual(got.Segments, tt.segs) {
				t.Fatalf("segments = %#v, want %#v", got.Segments, tt.segs)
			}
			if got.Remainder != tt.remainder {
				t.Fatalf("remainder = %q, want %q", got.Remainder, tt.remainder)
			}
			if got.TrailingSlash != tt.trailing {
				t.Fatalf("trailingSlash = %v, want %v", got.TrailingSlash, tt.trailing)
			}
		})
	}
}

func TestEncodeSegmentRoundTrip(t *testing.T) {
	t.Parallel()

	names := []string{
		"plain",
		"with space inside",
		"foo/bar",
		`say "hi"`,
		` leading space`,
		`trailing space `,
		"",
		`back\slash`,
		`mix/"of \ everything"`,
	}
	for _, name := range names {
		enc := EncodeSegment(name)
		got := Tokenize("/" + enc + "/")
		if len(got.Segments) != 1 || got.Segments[0] != name {
			t.Fatalf("round trip of %q via %q gave %#v", name, enc, got.Segments)
		}
	}
}

func TestEncodeSegmentPlainNamesUnquoted(t *testing.T) {
	t.Parallel()

	if got := EncodeSegment("Call supplier"); got != "Call supplier" {
		t.Fatalf("got %q", got)
	}
	if got := EncodeSegment("foo/bar"); got != `"foo/bar"` {
		t.Fatalf("got %q", got)
	}
	if got := EncodeSegment(""); got != `""` {
		t.Fatalf("got %q", got)
	}
}
