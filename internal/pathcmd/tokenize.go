// Package pathcmd implements the slash-path command line: a quote-aware
// tokenizer, find-or-create path insertion, canonical path rendering, and
// autocomplete over the live tree.
package pathcmd

import "strings"

// TokenizeResult splits a slash path into its complete segments plus the
// trailing partial segment still being typed.
type TokenizeResult struct {
	// Segments are the slash-terminated segments, decoded. Unquoted segments
	// are whitespace-trimmed and dropped when empty; quoted segments are kept
	// verbatim, empty included.
	Segments []string
	// Remainder is the decoded text after the last segment boundary.
	Remainder string
	// TrailingSlash reports that the input ended exactly on a boundary.
	TrailingSlash bool
}

// Tokenize splits input on unquoted slashes. Double quotes group text so a
// segment may contain slashes; inside quotes a backslash escapes `"` and `\`.
// A backslash before anything else, or outside quotes, or at end of input is
// a literal backslash.
func Tokenize(input string) TokenizeResult {
	var res TokenizeResult
	var buf strings.Builder
	inQuote := false
	quoted := false

	finalize := func(complete bool) {
		seg := buf.String()
		buf.Reset()
		if !quoted {
			seg = strings.TrimSpace(seg)
		}
		if complete {
			if seg != "" || quoted {
				res.Segments = append(res.Segments, seg)
			}
			quoted = false
			return
		}
		res.Remainder = seg
	}

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			inQuote = !inQuote
			quoted = true
		case r == '\\' && inQuote:
			if i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\\') {
				buf.WriteRune(runes[i+1])
				i++
			} else {
				buf.WriteRune(r)
			}
		case r == '/' && !inQuote:
			finalize(true)
		default:
			buf.WriteRune(r)
		}
	}
	res.TrailingSlash = buf.Len() == 0 && !quoted &&
		(len(input) == 0 || strings.HasSuffix(input, "/")) && !inQuote
	finalize(false)
	return res
}

// EncodeSegment renders a node name as a path segment: quoted when it is
// empty, contains a slash or quote, or carries leading/trailing whitespace;
// verbatim otherwise. Quotes and backslashes are escaped inside quotes.
func EncodeSegment(name string) string {
	needsQuote := name == "" ||
		strings.ContainsAny(name, `/"`) ||
		name != strings.TrimSpace(name)
	if !needsQuote {
		return name
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range name {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
