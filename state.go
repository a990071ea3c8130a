package ghostline

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// inputState is the complete state of a controller. It is treated as a value:
// every event computes a new inputState from the previous one and the
// controller swaps it in whole. Everything else displayed (the current line,
// ghost text, previews) is derived from it on demand.
type inputState struct {
	doc         Document
	suggestions SuggestionSet
	// pending is true while the latest request is unresolved and the line under
	// the cursor reads as it did when the request was issued, that is, while a
	// response would still be applied.
	pending bool
	// seq identifies the latest request issued and inflight is the line text it
	// was issued for, or "" once it has resolved. Responses carrying any other
	// sequence number are stale.
	seq      uint64
	inflight string
}

// withDocument returns the state after an edit or cursor movement. The
// suggestions survive only if the line under the cursor still has the text
// they were fetched for.
func (s inputState) withDocument(doc Document) inputState {
	s.doc = doc
	line := doc.Line()
	if line.Text != s.suggestions.Line {
		s.suggestions = SuggestionSet{Selected: -1}
	}
	s.pending = s.inflight != "" && line.Text == s.inflight
	return s
}

// withRequest returns the state after issuing a request for line.
func (s inputState) withRequest(line string) inputState {
	s.seq++
	s.inflight = line
	s.pending = true
	return s
}

// withSuggestions returns the state with a freshly fetched set of candidates.
func (s inputState) withSuggestions(line string, items []string) inputState {
	s.suggestions = newSuggestionSet(line, items)
	s.pending = false
	s.inflight = ""
	return s
}

// cleared returns the state with all suggestion state discarded, including
// the response to any request in flight.
func (s inputState) cleared() inputState {
	s.suggestions = SuggestionSet{Selected: -1}
	s.pending = false
	s.seq++
	s.inflight = ""
	return s
}

// Anchor is the position at which a host should place the suggestion list.
// Column is measured in terminal cells from the start of the line.
type Anchor struct {
	Line   int
	Column int
}

// View is the pure-data description of what a host should render. It is
// derived from the controller's state after every event.
type View struct {
	Text   string
	Cursor int
	Line   Line
	// Ghost is the dimmed text displayed after the current line to complete it
	// with the active candidate.
	Ghost string
	// Preview is the document with the current line replaced by the active
	// candidate. It is set while a candidate is explicitly selected, and for
	// the top candidate when it does not extend the line and so has no ghost.
	Preview     string
	Suggestions []string
	Selected    int
	Pending     bool
	Anchor      Anchor
}

func (s inputState) view() View {
	line := s.doc.Line()
	v := View{
		Text:        s.doc.Text,
		Cursor:      s.doc.Cursor,
		Line:        line,
		Suggestions: s.suggestions.Items,
		Selected:    s.suggestions.Selected,
		Pending:     s.pending,
		Anchor: Anchor{
			Line:   line.Index,
			Column: runewidth.StringWidth(line.Text[:byteOffset(line.Text, s.doc.Cursor-line.Start)]),
		},
	}
	if cand, ok := s.suggestions.Active(); ok {
		p := Compose(s.doc.Text, line, cand)
		v.Ghost = p.Suffix
		if s.suggestions.Selected >= 0 || p.Suffix == "" {
			v.Preview = p.Text
		}
	}
	return v
}

func (v View) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "text=%q cursor=%d\n", v.Text, v.Cursor)
	fmt.Fprintf(&buf, "line=%d [%d,%d] %q\n", v.Line.Index, v.Line.Start, v.Line.End, v.Line.Text)
	fmt.Fprintf(&buf, "ghost=%q preview=%q\n", v.Ghost, v.Preview)
	fmt.Fprintf(&buf, "suggestions=%q selected=%d pending=%t\n", v.Suggestions, v.Selected, v.Pending)
	fmt.Fprintf(&buf, "anchor=%d:%d", v.Anchor.Line, v.Anchor.Column)
	return buf.String()
}
