package ghostline

import "unicode/utf8"

// Key is a single key press: either a unicode character, a control character,
// or one of the special key codes below, optionally combined with the ModCtrl,
// ModAlt and ModShift modifier bits.
type Key rune

const (
	keyCtrlA     Key = 1
	keyCtrlB     Key = 2
	keyCtrlC     Key = 3
	keyCtrlD     Key = 4
	keyCtrlE     Key = 5
	keyCtrlF     Key = 6
	keyCtrlG     Key = 7
	keyCtrlH     Key = 8
	keyCtrlK     Key = 11
	keyCtrlN     Key = 14
	keyCtrlP     Key = 16
	keyCtrlU     Key = 21
	keyCtrlY     Key = 25
	KeyTab       Key = '\t'
	KeyEnter     Key = '\r'
	KeyEscape    Key = 27
	KeyBackspace Key = 127
)

// Special keys are encoded in the UTF-16 surrogate area which never appears in
// decoded input.
const (
	KeyUnknown Key = 0xd800 + iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	keyPasteStart
	keyPasteEnd
)

// Modifier bits.
const (
	ModShift Key = 0x10000000
	ModCtrl  Key = 0x20000000
	ModAlt   Key = 0x40000000

	modMask = ModShift | ModCtrl | ModAlt
)

// Base returns the key without modifiers.
func (k Key) Base() Key {
	return k &^ modMask
}

func (k Key) String() string {
	var s string
	switch b := k.Base(); b {
	case utf8.RuneError:
		s = "<incomplete>"
	case KeyTab:
		s = "<tab>"
	case KeyEscape:
		s = "<escape>"
	case KeyEnter:
		s = "<enter>"
	case KeyBackspace:
		s = "<backspace>"
	case KeyUnknown:
		s = "<unknown>"
	case KeyUp:
		s = "<up>"
	case KeyDown:
		s = "<down>"
	case KeyLeft:
		s = "<left>"
	case KeyRight:
		s = "<right>"
	case KeyHome:
		s = "<home>"
	case KeyEnd:
		s = "<end>"
	case KeyPageUp:
		s = "<page-up>"
	case KeyPageDown:
		s = "<page-down>"
	case KeyDelete:
		s = "<delete>"
	case keyPasteStart:
		s = "<paste-start>"
	case keyPasteEnd:
		s = "<paste-end>"
	default:
		if b < 32 {
			s = "Control-" + string(rune(b+0x60))
		} else {
			s = string(rune(b))
		}
	}

	if (k & ModShift) != 0 {
		s = "Shift-" + s
	}
	if (k & ModAlt) != 0 {
		s = "Meta-" + s
	}
	if (k & ModCtrl) != 0 {
		s = "Control-" + s
	}
	return s
}

// A map of the supported control sequences to the key they decode to. The
// sequences cover the majority of terminals in the terminfo database, plus the
// CSI-u and modifyOtherKeys encodings of Shift-Enter emitted by terminals which
// can distinguish it from Enter.
var supportedSeqs = map[string]Key{
	"\x1b[3~":       KeyDelete,
	"\x1bOB":        KeyDown,
	"\x1b[B":        KeyDown,
	"\x1bOb":        KeyDown | ModCtrl,
	"\x1b[1;5B":     KeyDown | ModCtrl,
	"\x1b[1;3B":     KeyDown | ModAlt,
	"\x1b[1;9B":     KeyDown | ModAlt,
	"\x1bOF":        KeyEnd,
	"\x1b[F":        KeyEnd,
	"\x1b[4~":       KeyEnd,
	"\x1b[8~":       KeyEnd,
	"\x1bOH":        KeyHome,
	"\x1b[H":        KeyHome,
	"\x1b[1~":       KeyHome,
	"\x1b[7~":       KeyHome,
	"\x1bOD":        KeyLeft,
	"\x1b[D":        KeyLeft,
	"\x1bOd":        KeyLeft | ModCtrl,
	"\x1b[1;5D":     KeyLeft | ModCtrl,
	"\x1b[1;3D":     KeyLeft | ModAlt,
	"\x1b[1;9D":     KeyLeft | ModAlt,
	"\x1b[6~":       KeyPageDown,
	"\x1b[5~":       KeyPageUp,
	"\x1b[200~":     keyPasteStart,
	"\x1b[201~":     keyPasteEnd,
	"\x1bOC":        KeyRight,
	"\x1b[C":        KeyRight,
	"\x1bOc":        KeyRight | ModCtrl,
	"\x1b[1;5C":     KeyRight | ModCtrl,
	"\x1b[1;3C":     KeyRight | ModAlt,
	"\x1b[1;9C":     KeyRight | ModAlt,
	"\x1bOA":        KeyUp,
	"\x1b[A":        KeyUp,
	"\x1bOa":        KeyUp | ModCtrl,
	"\x1b[1;5A":     KeyUp | ModCtrl,
	"\x1b[1;3A":     KeyUp | ModAlt,
	"\x1b[1;9A":     KeyUp | ModAlt,
	"\x1b[13;2u":    KeyEnter | ModShift,
	"\x1b[27;2;13~": KeyEnter | ModShift,
}

type seqTrie struct {
	children []seqTrie
	key      byte
	value    Key
}

func (t *seqTrie) findChild(b byte) *seqTrie {
	for i := range t.children {
		child := &t.children[i]
		if child.key == b {
			return child
		}
	}
	return nil
}

func (t *seqTrie) add(seq []byte, value Key) {
	node := t
	for _, b := range seq {
		child := node.findChild(b)
		if child == nil {
			node.children = append(node.children, seqTrie{key: b})
			child = &node.children[len(node.children)-1]
		}
		node = child
	}
	node.value = value
}

func (t *seqTrie) match(buf, origBuf []byte, mods Key) (Key, []byte) {
	node := t
	for i, b := range buf {
		node = node.findChild(b)
		if node == nil {
			// An unrecognized sequence, or a partial one. Terminal input sequences end
			// with [a-zA-Z~], so skip to the first such byte if there is one.
			for j := i; j < len(buf); j++ {
				b := buf[j]
				if b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '~' {
					return KeyUnknown, buf[j+1:]
				}
			}
			return utf8.RuneError, origBuf
		}
		if len(node.children) == 0 {
			// Bracketed paste markers never carry modifiers.
			if node.value == keyPasteStart || node.value == keyPasteEnd {
				mods = 0
			}
			return node.value | mods, buf[i+1:]
		}
	}
	// Ran out of input part way through a sequence. The caller needs to read
	// more and try again.
	return utf8.RuneError, origBuf
}

var seqMatcher = func() *seqTrie {
	t := &seqTrie{}
	for seq, value := range supportedSeqs {
		t.add([]byte(seq), value)
	}
	return t
}()

// parseKey parses a single key from the prefix of buf. An escape which does not
// introduce a "\x1bO" or "\x1b[" sequence sets ModAlt on the following key.
//
// If the input sequence is not recognized, KeyUnknown is returned. If a prefix
// of a recognized input sequence is matched but there are insufficient bytes in
// the input, utf8.RuneError is returned along with the unconsumed input. On
// success, the remaining bytes in the input are returned.
func parseKey(buf []byte) (Key, []byte) {
	var origBuf = buf
	var mods Key

	for len(buf) >= 2 {
		if buf[0] != byte(KeyEscape) || buf[1] == 'O' || buf[1] == '[' {
			break
		}
		mods |= ModAlt
		buf = buf[1:]
	}

	if len(buf) <= 0 {
		return utf8.RuneError, origBuf
	}

	if buf[0] != byte(KeyEscape) {
		if !utf8.FullRune(buf) {
			return utf8.RuneError, origBuf
		}
		r, l := utf8.DecodeRune(buf)
		return Key(r) | mods, buf[l:]
	}

	return seqMatcher.match(buf, origBuf, mods)
}

// DecodeKeys decodes every complete key in buf. Any trailing partial escape
// sequence or UTF-8 encoding is returned undecoded.
func DecodeKeys(buf []byte) (keys []Key, rest []byte) {
	for len(buf) > 0 {
		key, remaining := parseKey(buf)
		if key == utf8.RuneError {
			break
		}
		keys = append(keys, key)
		buf = remaining
	}
	return keys, buf
}
