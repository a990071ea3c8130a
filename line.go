package ghostline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Line is a view of a single logical line of a document. Offsets are rune
// offsets into the document. Start is the offset of the first rune of the line
// and End is the offset of the terminating newline (or the end of the
// document), so the line occupies text[Start:End]. A Line is only meaningful
// for the document text it was located in.
type Line struct {
	Index int
	Text  string
	Start int
	End   int
}

// Contains returns true if the cursor position lies on the line. A cursor at
// End sits just before the line's newline and belongs to this line.
func (l Line) Contains(cursor int) bool {
	return cursor >= l.Start && cursor <= l.End
}

// Blank returns true if the line has no non-whitespace content.
func (l Line) Blank() bool {
	return strings.IndexFunc(l.Text, func(r rune) bool {
		return !unicode.IsSpace(r)
	}) == -1
}

// Locate returns the line of text containing the cursor. The cursor is clamped
// to the text: negative positions locate the first line and positions past the
// end of the text locate the last line. A cursor positioned on a newline
// belongs to the line the newline terminates. Locate does not allocate.
func Locate(text string, cursor int) Line {
	var index, start int
	for rest := text; ; index++ {
		i := strings.IndexByte(rest, '\n')
		seg := rest
		if i >= 0 {
			seg = rest[:i]
		}
		end := start + utf8.RuneCountInString(seg)
		if i < 0 || cursor <= end {
			return Line{Index: index, Text: seg, Start: start, End: end}
		}
		rest = rest[i+1:]
		start = end + 1
	}
}

// Lines returns every line in text. Joining the text of the returned lines
// with newlines reproduces text exactly.
func Lines(text string) []Line {
	segs := strings.Split(text, "\n")
	lines := make([]Line, len(segs))
	var start int
	for i, seg := range segs {
		end := start + utf8.RuneCountInString(seg)
		lines[i] = Line{Index: i, Text: seg, Start: start, End: end}
		start = end + 1
	}
	return lines
}

// byteOffset converts a rune offset within s into a byte offset, clamping to
// the length of s.
func byteOffset(s string, pos int) int {
	if pos <= 0 {
		return 0
	}
	for i := range s {
		if pos == 0 {
			return i
		}
		pos--
	}
	return len(s)
}

// splice replaces the runes text[start:end] with repl.
func splice(text string, start, end int, repl string) string {
	b, e := byteOffset(text, start), byteOffset(text, end)
	var buf strings.Builder
	buf.Grow(b + len(repl) + len(text) - e)
	buf.WriteString(text[:b])
	buf.WriteString(repl)
	buf.WriteString(text[e:])
	return buf.String()
}
