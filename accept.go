package ghostline

import "unicode/utf8"

// Accept commits candidate into the document by replacing line with the
// resolved candidate. The cursor is placed at the end of the replaced line.
func Accept(d Document, line Line, candidate string) Document {
	p := Compose(d.Text, line, candidate)
	return Document{
		Text:   p.Text,
		Cursor: line.Start + utf8.RuneCountInString(p.Line),
	}
}

// InsertNewline inserts a literal newline at the cursor.
func InsertNewline(d Document) Document {
	return d.Insert("\n")
}
