package ghostline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Preview holds the renderings derived from splicing a candidate into a
// document.
type Preview struct {
	// Line is the resolved text of the line after the candidate is applied.
	Line string
	// Suffix is the ghost text to display after the typed line. It is empty
	// unless Line extends the typed line.
	Suffix string
	// Text is the full document with the line replaced by Line.
	Text string
}

// Compose builds the preview of candidate applied to line within text.
func Compose(text string, line Line, candidate string) Preview {
	resolved := resolveCandidate(line.Text, candidate)
	p := Preview{
		Line: resolved,
		Text: splice(text, line.Start, line.End, resolved),
	}
	if strings.HasPrefix(resolved, line.Text) {
		p.Suffix = resolved[len(line.Text):]
	}
	return p
}

// resolveCandidate returns the full line text a candidate stands for. A
// candidate prefixed by the typed line completes the whole line. A candidate
// prefixed by the trailing word of the typed line completes that word. Anything
// else replaces the line.
func resolveCandidate(typed, candidate string) string {
	if strings.HasPrefix(candidate, typed) {
		return candidate
	}
	if frag := trailingWord(typed); frag != "" && strings.HasPrefix(candidate, frag) {
		return typed[:len(typed)-len(frag)] + candidate
	}
	return candidate
}

// trailingWord returns the text following the last whitespace in s.
func trailingWord(s string) string {
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	if i == -1 {
		return s
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[i+size:]
}
