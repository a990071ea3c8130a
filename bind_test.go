package ghostline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBinding(t *testing.T) {
	testCases := []struct {
		binding string
		key     Key
		cmd     command
	}{
		{"bind Enter accept-suggestion", KeyEnter, cmdAcceptSuggestion},
		{"bind enter accept-suggestion", KeyEnter, cmdAcceptSuggestion},
		{"bind Tab accept-suggestion", KeyTab, cmdAcceptSuggestion},
		{"bind Meta-Enter insert-newline", KeyEnter | ModAlt, cmdInsertNewline},
		{"bind Shift-Enter insert-newline", KeyEnter | ModShift, cmdInsertNewline},
		{"bind Control-j insert-newline", Key('\n'), cmdInsertNewline},
		{"bind Control-Up previous-line", KeyUp | ModCtrl, cmdPreviousLine},
		{"bind Control-Meta-Down next-line", KeyDown | ModCtrl | ModAlt, cmdNextLine},
		{"bind Escape abort", KeyEscape, cmdDismissSuggestions},
		{"bind Control-u unix-line-discard", keyCtrlU, cmdBackwardKillLine},
		{"bind Meta-y yank-pop", 'y' | ModAlt, cmdYankPop},
		{"bind Space insert-char", ' ', cmdInsertChar},
		{"bind  x   insert-char ", 'x', cmdInsertChar},
	}
	for _, c := range testCases {
		t.Run(c.binding, func(t *testing.T) {
			key, cmd, err := parseBinding(c.binding)
			require.NoError(t, err)
			require.Equal(t, c.key, key, "%s != %s", c.key, key)
			require.Equal(t, c.cmd, cmd)
		})
	}
}

func TestParseBindingErrors(t *testing.T) {
	testCases := []struct {
		binding string
		err     string
	}{
		{"bind", "invalid binding: [bind]"},
		{"unbind Enter finish", "invalid binding: [unbind Enter finish]"},
		{"bind Enter finish now", "invalid binding: [bind Enter finish now]"},
		{"bind Enter self-destruct", "unknown command: self-destruct"},
		{"bind Meta-Meta-x finish", `invalid key: "Meta-Meta-x"`},
		{"bind Meta- finish", `invalid key: "Meta-"`},
		{"bind xy finish", `invalid key: "xy"`},
	}
	for _, c := range testCases {
		t.Run(c.binding, func(t *testing.T) {
			_, _, err := parseBinding(c.binding)
			require.EqualError(t, err, c.err)
		})
	}
}

func TestParseBindings(t *testing.T) {
	m := make(map[Key]command)
	require.NoError(t, parseBindings(m, `
# comments and blank lines are ignored

bind Meta-a finish
bind Control-j insert-newline
`))
	// Meta bindings of letters apply to both cases.
	require.Equal(t, map[Key]command{
		'a' | ModAlt: cmdFinish,
		'A' | ModAlt: cmdFinish,
		'\n':         cmdInsertNewline,
	}, m)

	require.Error(t, parseBindings(m, "bind Enter\n"))
}

func TestDefaultBindings(t *testing.T) {
	m, err := loadBindings("")
	require.NoError(t, err)
	require.Equal(t, cmdAcceptSuggestion, m[KeyEnter])
	require.Equal(t, cmdAcceptSuggestion, m[KeyTab])
	require.Equal(t, cmdInsertNewline, m[KeyEnter|ModAlt])
	require.Equal(t, cmdInsertNewline, m[KeyEnter|ModShift])
	require.Equal(t, cmdNextSuggestion, m[KeyDown])
	require.Equal(t, cmdPreviousSuggestion, m[KeyUp])
	require.Equal(t, cmdDismissSuggestions, m[KeyEscape])

	// User bindings override the defaults.
	m, err = loadBindings("bind Enter insert-newline")
	require.NoError(t, err)
	require.Equal(t, cmdInsertNewline, m[KeyEnter])
	require.Equal(t, cmdAcceptSuggestion, m[KeyTab])
}
