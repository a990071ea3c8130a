package ghostline

import "unicode/utf8"

// Document is a snapshot of the text being edited along with the cursor
// position, a rune offset in the range [0, len(Text)]. Documents are values:
// every edit produces a new Document.
type Document struct {
	Text   string
	Cursor int
}

func newDocument(text string, cursor int) Document {
	if n := utf8.RuneCountInString(text); cursor > n {
		cursor = n
	}
	if cursor < 0 {
		cursor = 0
	}
	return Document{Text: text, Cursor: cursor}
}

// Line returns the line containing the cursor.
func (d Document) Line() Line {
	return Locate(d.Text, d.Cursor)
}

// Len returns the length of the document in runes.
func (d Document) Len() int {
	return utf8.RuneCountInString(d.Text)
}

// Insert inserts text at the cursor, advancing the cursor past it.
func (d Document) Insert(text string) Document {
	return Document{
		Text:   splice(d.Text, d.Cursor, d.Cursor, text),
		Cursor: d.Cursor + utf8.RuneCountInString(text),
	}
}

// EraseTo erases the runes between the cursor and pos, leaving the cursor at
// the start of the erased range.
func (d Document) EraseTo(pos int) Document {
	pos = newDocument(d.Text, pos).Cursor
	start, end := d.Cursor, pos
	if start > end {
		start, end = end, start
	}
	return Document{Text: splice(d.Text, start, end, ""), Cursor: start}
}

// MoveTo returns the document with the cursor moved to pos.
func (d Document) MoveTo(pos int) Document {
	return newDocument(d.Text, pos)
}
