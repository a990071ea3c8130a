package ghostline

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

type command string

const (
	cmdAcceptSuggestion   command = "accept-suggestion"
	cmdBackwardChar       command = "backward-char"
	cmdBackwardDeleteChar command = "backward-delete-char"
	cmdBackwardKillLine   command = "backward-kill-line"
	cmdBeginningOfLine    command = "beginning-of-line"
	cmdCancel             command = "cancel"
	cmdDeleteChar         command = "delete-char"
	cmdDismissSuggestions command = "dismiss-suggestions"
	cmdEndOfLine          command = "end-of-line"
	cmdFinish             command = "finish"
	cmdForwardChar        command = "forward-char"
	cmdInsertChar         command = "insert-char"
	cmdInsertNewline      command = "insert-newline"
	cmdKillLine           command = "kill-line"
	cmdNextLine           command = "next-line"
	cmdNextSuggestion     command = "next-suggestion"
	cmdPreviousLine       command = "previous-line"
	cmdPreviousSuggestion command = "previous-suggestion"
	cmdYank               command = "yank"
	cmdYankPop            command = "yank-pop"
)

const defaultBindings = string(`
bind Backspace       ` + cmdBackwardDeleteChar + `
bind Delete          ` + cmdDeleteChar + `
bind Down            ` + cmdNextSuggestion + `
bind End             ` + cmdEndOfLine + `
bind Enter           ` + cmdAcceptSuggestion + `
bind Escape          ` + cmdDismissSuggestions + `
bind Home            ` + cmdBeginningOfLine + `
bind Left            ` + cmdBackwardChar + `
bind Right           ` + cmdForwardChar + `
bind Tab             ` + cmdAcceptSuggestion + `
bind Up              ` + cmdPreviousSuggestion + `
bind Control-a       ` + cmdBeginningOfLine + `
bind Control-b       ` + cmdBackwardChar + `
bind Control-c       ` + cmdCancel + `
bind Control-d       ` + cmdFinish + `
bind Control-e       ` + cmdEndOfLine + `
bind Control-f       ` + cmdForwardChar + `
bind Control-g       ` + cmdDismissSuggestions + `
bind Control-h       ` + cmdBackwardDeleteChar + `
bind Control-k       ` + cmdKillLine + `
bind Control-n       ` + cmdNextSuggestion + `
bind Control-p       ` + cmdPreviousSuggestion + `
bind Control-u       ` + cmdBackwardKillLine + `
bind Control-y       ` + cmdYank + `
bind Meta-Enter      ` + cmdInsertNewline + `
bind Meta-y          ` + cmdYankPop + `
bind Shift-Enter     ` + cmdInsertNewline + `
`)

var commandAliases = map[string]command{
	"abort":             cmdDismissSuggestions,
	"unix-line-discard": cmdBackwardKillLine,
}

var namedKeys = map[string]Key{
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"down":      KeyDown,
	"end":       KeyEnd,
	"enter":     KeyEnter,
	"escape":    KeyEscape,
	"home":      KeyHome,
	"left":      KeyLeft,
	"page-down": KeyPageDown,
	"page-up":   KeyPageUp,
	"right":     KeyRight,
	"space":     ' ',
	"tab":       KeyTab,
	"up":        KeyUp,
}

// commandFunc performs a command with the controller's mutex held. The
// returned bool reports whether the key was consumed by the suggestion state
// machine, as opposed to being applied as an ordinary edit.
type commandFunc func(c *Controller, key Key) (bool, error)

var commands = map[command]commandFunc{
	cmdAcceptSuggestion: func(c *Controller, key Key) (bool, error) {
		if cand, ok := c.mu.state.suggestions.Active(); ok {
			c.acceptLocked(cand)
			return true, nil
		}
		// Nothing on offer: the key edits the document like any other.
		return insertChar(c, key)
	},
	cmdBackwardChar: func(c *Controller, key Key) (bool, error) {
		doc := c.mu.state.doc
		c.moveLocked(doc.MoveTo(doc.Cursor - 1))
		return false, nil
	},
	cmdBackwardDeleteChar: func(c *Controller, key Key) (bool, error) {
		doc := c.mu.state.doc
		if doc.Cursor > 0 {
			c.editLocked(doc.EraseTo(doc.Cursor - 1))
		}
		return false, nil
	},
	cmdBeginningOfLine: func(c *Controller, key Key) (bool, error) {
		doc := c.mu.state.doc
		c.moveLocked(doc.MoveTo(doc.Line().Start))
		return false, nil
	},
	cmdCancel: func(c *Controller, key Key) (bool, error) {
		if c.mu.state.doc.Text == "" {
			return true, io.EOF
		}
		return true, ErrCanceled
	},
	cmdDeleteChar: func(c *Controller, key Key) (bool, error) {
		doc := c.mu.state.doc
		if doc.Cursor < doc.Len() {
			c.editLocked(doc.EraseTo(doc.Cursor + 1))
		}
		return false, nil
	},
	cmdDismissSuggestions: func(c *Controller, key Key) (bool, error) {
		s := c.mu.state
		if s.suggestions.Empty() && !s.pending && !c.mu.debounce.armed() {
			return false, nil
		}
		c.mu.debounce.cancel()
		c.setLocked(s.cleared())
		return true, nil
	},
	cmdEndOfLine: func(c *Controller, key Key) (bool, error) {
		doc := c.mu.state.doc
		c.moveLocked(doc.MoveTo(doc.Line().End))
		return false, nil
	},
	cmdFinish: func(c *Controller, key Key) (bool, error) {
		return true, io.EOF
	},
	cmdForwardChar: func(c *Controller, key Key) (bool, error) {
		doc := c.mu.state.doc
		c.moveLocked(doc.MoveTo(doc.Cursor + 1))
		return false, nil
	},
	cmdInsertChar: insertChar,
	cmdInsertNewline: func(c *Controller, key Key) (bool, error) {
		c.newlineLocked()
		return true, nil
	},
	cmdNextLine: func(c *Controller, key Key) (bool, error) {
		moveLine(c, Down)
		return false, nil
	},
	cmdNextSuggestion: func(c *Controller, key Key) (bool, error) {
		return navigate(c, Down)
	},
	cmdPreviousLine: func(c *Controller, key Key) (bool, error) {
		moveLine(c, Up)
		return false, nil
	},
	cmdPreviousSuggestion: func(c *Controller, key Key) (bool, error) {
		return navigate(c, Up)
	},
}

func insertChar(c *Controller, key Key) (bool, error) {
	r := rune(key)
	if key == KeyEnter {
		r = '\n'
	}
	if !isPrintable(r) {
		return false, nil
	}
	c.editLocked(c.mu.state.doc.Insert(string(r)))
	return false, nil
}

// navigate moves the selection through the open suggestions. With no
// suggestions open the key moves the cursor between lines instead.
func navigate(c *Controller, dir Direction) (bool, error) {
	s := c.mu.state
	if s.suggestions.Empty() {
		moveLine(c, dir)
		return false, nil
	}
	s.suggestions = s.suggestions.Next(dir)
	c.setLocked(s)
	return true, nil
}

// moveLine moves the cursor to the same column on the adjacent line, or to the
// end of that line if it is shorter.
func moveLine(c *Controller, dir Direction) {
	doc := c.mu.state.doc
	line := doc.Line()
	var target Line
	switch dir {
	case Up:
		if line.Index == 0 {
			return
		}
		target = Locate(doc.Text, line.Start-1)
	case Down:
		if line.End >= doc.Len() {
			return
		}
		target = Locate(doc.Text, line.End+1)
	}
	pos := target.Start + (doc.Cursor - line.Start)
	if pos > target.End {
		pos = target.End
	}
	c.moveLocked(doc.MoveTo(pos))
}

func isPrintable(r rune) bool {
	if (Key(r) & modMask) != 0 {
		return false
	}
	isInSurrogateArea := r >= 0xd800 && r <= 0xdfff
	return r == '\n' || r == '\t' || r >= 32 && r != rune(KeyBackspace) && !isInSurrogateArea
}

func isValidCommand(cmd command) bool {
	for _, m := range []map[command]commandFunc{commands, killCommands, yankCommands} {
		if _, ok := m[cmd]; ok {
			return true
		}
	}
	return false
}

func parseBinding(binding string) (key Key, cmd command, err error) {
	const (
		controlPrefix = "Control-"
		metaPrefix    = "Meta-"
		shiftPrefix   = "Shift-"
	)

	parts := strings.Fields(binding)
	if len(parts) != 3 || parts[0] != "bind" {
		return utf8.RuneError, "", fmt.Errorf("invalid binding: [%s]", binding)
	}

	cmd = command(parts[2])
	if s, ok := commandAliases[string(cmd)]; ok {
		cmd = s
	}
	if !isValidCommand(cmd) {
		return utf8.RuneError, "", fmt.Errorf("unknown command: %s", cmd)
	}

	origKey := parts[1]
	var mods Key
	for s := parts[1]; len(s) > 0; {
		var prefix string
		var mod Key
		switch {
		case strings.HasPrefix(s, controlPrefix):
			prefix, mod = controlPrefix, ModCtrl
		case strings.HasPrefix(s, metaPrefix):
			prefix, mod = metaPrefix, ModAlt
		case strings.HasPrefix(s, shiftPrefix):
			prefix, mod = shiftPrefix, ModShift
		}
		if prefix != "" {
			if (mods & mod) != 0 {
				return utf8.RuneError, "", fmt.Errorf("invalid key: %q", origKey)
			}
			mods |= mod
			s = s[len(prefix):]
			continue
		}
		if key = namedKeys[strings.ToLower(s)]; key == 0 {
			r, l := utf8.DecodeRuneInString(s)
			if l != len(s) {
				return utf8.RuneError, "", fmt.Errorf("invalid key: %q", origKey)
			}
			key = Key(r)
		}
		break
	}
	if key == 0 {
		return utf8.RuneError, "", fmt.Errorf("invalid key: %q", origKey)
	}

	// Translate C-[a-z] into the corresponding control character.
	if (mods & ModCtrl) != 0 {
		if key >= 'a' && key <= ('a'+31) {
			key -= 0x60
			mods ^= ModCtrl
		}
	}

	return key | mods, cmd, nil
}

func parseBindings(m map[Key]command, data string) error {
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		key, cmd, err := parseBinding(line)
		if err != nil {
			return err
		}
		m[key] = cmd
		if (key & ModAlt) != 0 {
			b := rune(key.Base())
			switch {
			case unicode.IsLower(b):
				b = unicode.ToUpper(b)
			case unicode.IsUpper(b):
				b = unicode.ToLower(b)
			}
			m[Key(b)|(key&modMask)] = cmd
		}
	}
	return nil
}
