package ghostline

import (
	"strings"
	"unicode/utf8"
)

const killRingMax = 10

var killCommands = map[command]commandFunc{
	cmdBackwardKillLine: func(c *Controller, key Key) (bool, error) {
		// Erase to the beginning of the current line.
		doc := c.mu.state.doc
		if line := doc.Line(); doc.Cursor > line.Start {
			c.mu.killRing.Prepend(textBetween(doc, line.Start, doc.Cursor))
			c.editLocked(doc.EraseTo(line.Start))
		}
		return false, nil
	},
	cmdKillLine: func(c *Controller, key Key) (bool, error) {
		// Erase to the end of the current line, or join the next line if already
		// at the end.
		doc := c.mu.state.doc
		end := doc.Line().End
		if doc.Cursor == end {
			end++
		}
		if end > doc.Len() {
			return false, nil
		}
		c.mu.killRing.Append(textBetween(doc, doc.Cursor, end))
		c.editLocked(doc.EraseTo(end))
		return false, nil
	},
}

var yankCommands = map[command]commandFunc{
	cmdYank: func(c *Controller, key Key) (bool, error) {
		if text := c.mu.killRing.Yank(); text != "" {
			c.editLocked(c.mu.state.doc.Insert(text))
		}
		return false, nil
	},
	cmdYankPop: func(c *Controller, key Key) (bool, error) {
		r := &c.mu.killRing
		if !r.yanking {
			return false, nil
		}
		doc := c.mu.state.doc
		doc = doc.EraseTo(doc.Cursor - utf8.RuneCountInString(r.Yank()))
		r.Rotate()
		c.editLocked(doc.Insert(r.Yank()))
		return false, nil
	},
}

// textBetween returns the text of the document between two rune offsets.
func textBetween(d Document, start, end int) string {
	return d.Text[byteOffset(d.Text, start):byteOffset(d.Text, end)]
}

// killRing implements a fixed size kill ring. Text erased by a kill command is
// saved for future retrieval. Consecutive kills accumulate in a single entry
// which can be yanked all at once. Commands which do not kill text separate the
// entries on the kill ring. The kill ring outlives the document being edited.
type killRing struct {
	entries []string
	killing bool
	yanking bool
}

// Append appends text to the current kill ring entry. If the previous command
// was not a kill command then a new kill ring entry is created, discarding
// the oldest entry if the max kill ring size has been reached.
func (r *killRing) Append(e string) {
	r.maybeBeginKill()
	head := len(r.entries) - 1
	r.entries[head] += e
}

// Prepend prepends text to the current kill ring entry, creating a new entry
// as Append does.
func (r *killRing) Prepend(e string) {
	r.maybeBeginKill()
	head := len(r.entries) - 1
	r.entries[head] = e + r.entries[head]
}

// Yank returns the current kill ring entry, or "" if the kill ring is empty.
func (r *killRing) Yank() string {
	if len(r.entries) == 0 {
		return ""
	}
	r.yanking = true
	return r.entries[len(r.entries)-1]
}

// Rotate rotates the kill ring so that the current entry becomes the oldest
// and the next newest entry becomes the current entry.
func (r *killRing) Rotate() {
	if len(r.entries) == 0 {
		return
	}
	last := r.entries[len(r.entries)-1]
	copy(r.entries[1:], r.entries)
	r.entries[0] = last
}

// Dispatch performs cmd if it is a kill or yank command, returning true if it
// did. Any other command ends the current run of kills and yanks.
func (r *killRing) Dispatch(c *Controller, cmd command, key Key) (bool, error) {
	if fn, ok := killCommands[cmd]; ok {
		_, err := fn(c, key)
		return true, err
	}
	r.killing = false

	if fn, ok := yankCommands[cmd]; ok {
		_, err := fn(c, key)
		return true, err
	}
	r.yanking = false

	return false, nil
}

// interrupt ends the current run of kills and yanks.
func (r *killRing) interrupt() {
	r.killing = false
	r.yanking = false
}

func (r *killRing) String() string {
	var buf strings.Builder
	buf.WriteString("[")
	for i := range r.entries {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(r.entries[len(r.entries)-i-1])
	}
	buf.WriteString("]")
	return buf.String()
}

func (r *killRing) maybeBeginKill() {
	if r.killing {
		return
	}
	r.killing = true

	if r.entries == nil {
		r.entries = make([]string, 0, killRingMax)
	}
	if len(r.entries) < cap(r.entries) {
		r.entries = append(r.entries, "")
	} else {
		copy(r.entries, r.entries[1:])
		r.entries[len(r.entries)-1] = ""
	}
}
