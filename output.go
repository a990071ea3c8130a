package ghostline

import (
	"bytes"
	"strconv"
)

// csi is the Control Sequence Introducer.
const csi = "\x1b["

const (
	attrDim     = csi + "2m"
	attrReset   = csi + "0m"
	attrReverse = csi + "7m"
)

// eraseBelow generates the escape sequence to erase from the cursor to the end
// of the screen.
func eraseBelow(buf *bytes.Buffer) {
	_, _ = buf.WriteString(csi + "J")
}

// eraseScreen generates the escape sequence to move the cursor to the top left
// of the screen and to erase the contents of the screen.
func eraseScreen(buf *bytes.Buffer) {
	_, _ = buf.WriteString(csi + "H" + csi + "2J")
}

// cursorMove generates the escape sequences to move the cursor relative to its
// current position. A move of one cell omits the count.
func cursorMove(buf *bytes.Buffer, up, down, left, right int) {
	moves := [...]struct {
		n      int
		suffix byte
	}{
		{up, 'A'},
		{down, 'B'},
		{right, 'C'},
		{left, 'D'},
	}
	for _, m := range moves {
		if m.n <= 0 {
			continue
		}
		_, _ = buf.WriteString(csi)
		if m.n > 1 {
			_, _ = buf.WriteString(strconv.Itoa(m.n))
		}
		_ = buf.WriteByte(m.suffix)
	}
}
