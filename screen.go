package ghostline

import (
	"bytes"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// screen renders a View inline, starting at the terminal row on which input
// began. Every render redraws the prompt, the document, the ghost text and the
// suggestion list from the top and then positions the terminal cursor at the
// document cursor. Rendering assumes support for a minimal set of ANSI escape
// sequences: relative cursor movement (ESC[<num>{A,B,C,D}), move to top left
// corner (ESC[H), erase screen (ESC[2J), erase below (ESC[J) and the dim and
// reverse attributes.
type screen struct {
	prompt      []rune
	promptWidth int
	// width and height are the size of the terminal in cells.
	width  int
	height int
	// x and y are the position of the terminal cursor relative to the start of
	// the render. Between renders they are the position of the document cursor.
	x, y int
	// drawn is true once something has been rendered for the current input.
	drawn bool
	// last holds the most recently rendered view, redrawn on resize.
	last View
	// outbuf holds the buffered text to send to the terminal.
	outbuf bytes.Buffer
}

func (s *screen) Init() {
	// These defaults are usually overridden by SetSize().
	s.width = 80
	s.height = 40
}

// Flush writes the buffered drawing commands to the specified writer and clears
// the buffer.
func (s *screen) Flush(w io.Writer) {
	debugPrintf("output: %q\n", s.outbuf.Bytes())
	_, _ = io.Copy(w, &s.outbuf)
	s.outbuf.Reset()
}

// Reset prepares to render a new input on the current terminal row.
func (s *screen) Reset(prompt string) {
	s.prompt = []rune(prompt)
	s.promptWidth = runewidth.StringWidth(prompt)
	s.x, s.y = 0, 0
	s.drawn = false
	s.last = View{Selected: -1}
}

// SetSize sets the width and height of the screen and re-renders the display to
// account for the new size.
func (s *screen) SetSize(width, height int) {
	if width <= 0 {
		width = 1
	}
	oldWidth := s.width
	s.width, s.height = width, height
	if width == oldWidth || !s.drawn {
		return
	}
	// Terminals differ in whether they rewrap rows on a resize, which leaves the
	// cursor somewhere unknown relative to the start of the render. Redraw from
	// the top left of the screen instead.
	eraseScreen(&s.outbuf)
	s.x, s.y = 0, 0
	s.Render(s.last)
}

// Render draws v, replacing the previous render.
func (s *screen) Render(v View) {
	s.last = v
	s.drawn = true
	s.home()
	eraseBelow(&s.outbuf)
	s.put(s.prompt, "")

	var preview []Line
	if v.Preview != "" && v.Ghost == "" {
		preview = Lines(v.Preview)
	}

	var cursorX, cursorY int
	for _, l := range Lines(v.Text) {
		if l.Index > 0 {
			s.newline()
		}
		if l.Index != v.Line.Index {
			s.put([]rune(l.Text), "")
			continue
		}
		text := []rune(l.Text)
		col := v.Cursor - l.Start
		s.put(text[:col], "")
		cursorX, cursorY = s.x, s.y
		s.put(text[col:], "")
		switch {
		case v.Ghost != "":
			s.put([]rune(v.Ghost), attrDim)
		case l.Index < len(preview) && preview[l.Index].Text != l.Text:
			// The selected candidate rewrites the line rather than extending it.
			s.put([]rune(" -> "+preview[l.Index].Text), attrDim)
		}
	}

	s.renderList(v)
	s.moveTo(cursorX, cursorY)
}

// renderList draws the suggestions below the document, one per row, aligned
// with the anchor column.
func (s *screen) renderList(v View) {
	if len(v.Suggestions) == 0 {
		return
	}
	indent := v.Anchor.Column
	if v.Anchor.Line == 0 {
		indent += s.promptWidth
	}
	indent %= s.width
	// Leave the last column unused so that no row wraps.
	avail := s.width - indent - 1
	if avail < 8 {
		indent, avail = 0, s.width-1
	}
	for i, item := range v.Suggestions {
		s.newline()
		s.outbuf.WriteString(strings.Repeat(" ", indent))
		s.x = indent
		attr := ""
		if i == v.Selected {
			attr = attrReverse
		}
		s.put([]rune(runewidth.Truncate(item, avail, "…")), attr)
	}
}

// Commit redraws text without ghost text or suggestions and moves to the start
// of the row below it, leaving the input on screen.
func (s *screen) Commit(text string) {
	end := len([]rune(text))
	s.Render(View{
		Text:     text,
		Cursor:   end,
		Line:     Locate(text, end),
		Selected: -1,
	})
	if s.x != 0 || s.y == 0 {
		s.outbuf.WriteString("\r\n")
	}
	s.x, s.y = 0, 0
	s.drawn = false
}

// home moves the terminal cursor to the start of the render.
func (s *screen) home() {
	cursorMove(&s.outbuf, s.y, 0, 0, 0)
	s.outbuf.WriteByte('\r')
	s.x, s.y = 0, 0
}

func (s *screen) newline() {
	s.outbuf.WriteString("\r\n")
	s.x = 0
	s.y++
}

func (s *screen) moveTo(x, y int) {
	cursorMove(&s.outbuf, s.y-y, y-s.y, s.x-x, x-s.x)
	s.x, s.y = x, y
}

// put renders text at the cursor with the given attribute, wrapping at the
// right edge of the screen.
func (s *screen) put(text []rune, attr string) {
	if len(text) == 0 {
		return
	}
	if attr != "" {
		s.outbuf.WriteString(attr)
		defer s.outbuf.WriteString(attrReset)
	}
	for len(text) > 0 {
		consumed, width := fitGraphemes(text, s.width-s.x)
		if consumed == 0 && s.x == 0 {
			// A rune wider than the screen.
			consumed, width = 1, s.width
		}
		for _, r := range text[:consumed] {
			if r == '\t' {
				r = ' '
			}
			s.outbuf.WriteRune(r)
		}
		text = text[consumed:]
		s.x += width
		if s.x >= s.width || len(text) > 0 {
			// Terminals do not advance past the last column until the next character
			// is written. Wrap explicitly so that the cursor position stays known.
			s.newline()
		}
	}
}

// fitGraphemes returns the number of runes from the start of s that fit within
// avail cells, and the width of those runes.
func fitGraphemes(s []rune, avail int) (consumed, width int) {
	for i, r := range s {
		w := 1
		if r >= 127 {
			w = runewidth.RuneWidth(r)
		}
		if width+w > avail {
			return i, width
		}
		width += w
	}
	return len(s), width
}
