package ghostline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	var sequences = map[string]Key{
		"\x7f":          KeyBackspace,
		"\r":            KeyEnter,
		"\t":            KeyTab,
		"a":             Key('a'),
		"b":             Key('b'),
		"«":             Key('«'),
		"»":             Key('»'),
		"\x1bb":         Key('b') | ModAlt,
		"\x1by":         Key('y') | ModAlt,
		"\x1b«":         Key('«') | ModAlt,
		"\x1b\r":        KeyEnter | ModAlt,
		"\x01":          keyCtrlA,
		"\x02":          keyCtrlB,
		"\x03":          keyCtrlC,
		"\x04":          keyCtrlD,
		"\x05":          keyCtrlE,
		"\x06":          keyCtrlF,
		"\x07":          keyCtrlG,
		"\x08":          keyCtrlH,
		"\x0b":          keyCtrlK,
		"\x0e":          keyCtrlN,
		"\x10":          keyCtrlP,
		"\x15":          keyCtrlU,
		"\x19":          keyCtrlY,
		"\x1bOA":        KeyUp,
		"\x1bOB":        KeyDown,
		"\x1bOC":        KeyRight,
		"\x1bOD":        KeyLeft,
		"\x1bOH":        KeyHome,
		"\x1bOF":        KeyEnd,
		"\x1bOa":        KeyUp | ModCtrl,
		"\x1bOb":        KeyDown | ModCtrl,
		"\x1bOc":        KeyRight | ModCtrl,
		"\x1bOd":        KeyLeft | ModCtrl,
		"\x1b[A":        KeyUp,
		"\x1b[B":        KeyDown,
		"\x1b[C":        KeyRight,
		"\x1b[D":        KeyLeft,
		"\x1b[H":        KeyHome,
		"\x1b[F":        KeyEnd,
		"\x1b[1;3A":     KeyUp | ModAlt,
		"\x1b[1;3B":     KeyDown | ModAlt,
		"\x1b[1;3C":     KeyRight | ModAlt,
		"\x1b[1;3D":     KeyLeft | ModAlt,
		"\x1b[1;9A":     KeyUp | ModAlt,
		"\x1b[1;9B":     KeyDown | ModAlt,
		"\x1b[1;9C":     KeyRight | ModAlt,
		"\x1b[1;9D":     KeyLeft | ModAlt,
		"\x1b[1;5A":     KeyUp | ModCtrl,
		"\x1b[1;5B":     KeyDown | ModCtrl,
		"\x1b[1;5C":     KeyRight | ModCtrl,
		"\x1b[1;5D":     KeyLeft | ModCtrl,
		"\x1b[13;2u":    KeyEnter | ModShift,
		"\x1b[27;2;13~": KeyEnter | ModShift,
		"\x1b[1~":       KeyHome,
		"\x1b[200~":     keyPasteStart,
		"\x1b[201~":     keyPasteEnd,
		"\x1b[3~":       KeyDelete,
		"\x1b[4~":       KeyEnd,
		"\x1b[5~":       KeyPageUp,
		"\x1b[6~":       KeyPageDown,
		"\x1b[7~":       KeyHome,
		"\x1b[8~":       KeyEnd,
	}

	incomplete := map[string]Key{
		"":          utf8.RuneError,
		"\x1b":      utf8.RuneError,
		"\x1b[G":    KeyUnknown,
		"\x1b[10":   utf8.RuneError,
		"\x1b[1;":   utf8.RuneError,
		"\x1b[1;3E": KeyUnknown,
		"\x1b[1;5E": KeyUnknown,
		"\x1b[9":    utf8.RuneError,
		"\x1b[13;2": utf8.RuneError,
		"\xc2":      utf8.RuneError,
	}

	for seq, key := range sequences {
		k, rest := parseKey([]byte(seq))
		require.Equalf(t, key, k, "%q", seq)
		require.Emptyf(t, rest, "%q", seq)

		// An escape prefix on an escape sequence will add the ModAlt modifier.
		seq = "\x1b" + seq
		k, _ = parseKey([]byte(seq))
		if key != keyPasteStart && key != keyPasteEnd {
			key |= ModAlt
		}
		require.Equalf(t, key, k, "%q", seq)
	}

	for seq, key := range incomplete {
		k, _ := parseKey([]byte(seq))
		require.Equal(t, key, k, "%q", seq)
	}
}

func TestDecodeKeys(t *testing.T) {
	keys, rest := DecodeKeys([]byte("ab\x1b[B\r\x1b[1"))
	require.Equal(t, []Key{'a', 'b', KeyDown, KeyEnter}, keys)
	require.Equal(t, []byte("\x1b[1"), rest)

	keys, rest = DecodeKeys([]byte("\x1b[200~x\x1b[201~"))
	require.Equal(t, []Key{keyPasteStart, 'x', keyPasteEnd}, keys)
	require.Empty(t, rest)

	keys, rest = DecodeKeys(nil)
	require.Empty(t, keys)
	require.Empty(t, rest)
}

func TestKeyString(t *testing.T) {
	testCases := []struct {
		key      Key
		expected string
	}{
		{'a', "a"},
		{keyCtrlC, "Control-c"},
		{KeyEnter, "<enter>"},
		{KeyEnter | ModAlt, "Meta-<enter>"},
		{KeyEnter | ModShift, "Shift-<enter>"},
		{KeyEscape, "<escape>"},
		{KeyUp | ModCtrl, "Control-<up>"},
		{'y' | ModAlt, "Meta-y"},
		{KeyPageDown, "<page-down>"},
		{keyPasteStart, "<paste-start>"},
	}
	for _, c := range testCases {
		t.Run(c.expected, func(t *testing.T) {
			require.Equal(t, c.expected, c.key.String())
		})
	}
}

func TestInputSupportedTerms(t *testing.T) {
	t.Skip("not really a test, unskip to recompute the number of supported terminals")

	const termInfoDir = "/usr/share/terminfo"

	// capRE extracts the capabilities from the infocmp output. Note that we only
	// support control sequences that begin with "\E[" (the standard Control
	// Sequence Introducer) or "\EO" (the introducer used by DEC terminals for some
	// keys and then somehow copied to lots of unrelated terminals).
	capRE := regexp.MustCompile(`(\bkey_\w+)=(\\E[\[O][^,]*),`)

	// A map from terminfo capability name to the Go const name we'll output when
	// the key's control sequence is matched.
	capToKey := map[string]Key{
		"key_dc":    KeyDelete,
		"key_down":  KeyDown,
		"key_end":   KeyEnd,
		"key_home":  KeyHome,
		"key_left":  KeyLeft,
		"key_npage": KeyPageDown,
		"key_ppage": KeyPageUp,
		"key_right": KeyRight,
		"key_up":    KeyUp,
	}

	supportedTerms := make(map[string]struct{})
	unsupportedTerms := make(map[string]struct{})

	processLine := func(term string, line []byte) {
		m := capRE.FindSubmatch(line)
		if len(m) == 0 {
			return
		}
		key, seq := string(m[1]), string(m[2])
		seq = strings.ReplaceAll(seq, "\\E", "\x1b")
		if supportedSeqs[seq] == capToKey[key] {
			return
		}
		unsupportedTerms[term] = struct{}{}
	}

	processTermInfo := func(term string) {
		c := exec.Command("infocmp", "-L1", "-A", termInfoDir, term)
		out, err := c.CombinedOutput()
		if err != nil {
			t.Fatalf("infocmp failed: %+v %s\n%s", err, c.Args, out)
		}

		for buf := bytes.NewBuffer(out); ; {
			line, err := buf.ReadBytes('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				t.Fatalf("%s: %+v\n", term, err)
			}

			processLine(term, line)

			if errors.Is(err, io.EOF) {
				break
			}
		}

		if _, ok := unsupportedTerms[term]; !ok {
			supportedTerms[term] = struct{}{}
		}
	}

	err := filepath.WalkDir(termInfoDir, func(path string, d fs.DirEntry, err error) error {
		if d.Type().IsRegular() {
			processTermInfo(filepath.Base(path))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unable to find terminfos: %+v", err)
	}

	fmt.Fprintf(os.Stderr, "%4d supported terms\n", len(supportedTerms))
	fmt.Fprintf(os.Stderr, "%4d unsupported terms\n", len(unsupportedTerms))
}
