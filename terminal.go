package ghostline

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"unicode/utf8"

	"golang.org/x/term"
)

// Terminal reads multi-line documents from a terminal, offering inline
// suggestions for the line under the cursor as the user types. The top
// suggestion is displayed as dimmed ghost text after the line and the full
// list is displayed below the document. Enter or Tab accepts the previewed
// suggestion, Up and Down move through the list, and Escape dismisses it. When
// nothing is offered Enter inserts a newline. Meta-Enter and Shift-Enter always
// insert a newline. Control-d finishes the document.
//
// Terminal supports the common subset of key input sequences used by most
// terminals in the terminfo database, plus the CSI-u encoding of Shift-Enter.
// It does not use terminfo. Rendering redraws the whole input on every change,
// which for a prompt of a few lines amounts to a few hundred bytes.
type Terminal struct {
	fd  int
	in  io.Reader
	out io.Writer

	ctrl *Controller

	// inBytes and inBuf are used by the reader loop to read data from the input.
	inBytes []byte
	inBuf   [256]byte

	mu struct {
		sync.Mutex
		screen screen
		// active is true while ReadDocument is running. Views published by the
		// controller outside of ReadDocument are not rendered.
		active bool
	}
}

// NewTerminal creates a Terminal using the supplied options. If no input or
// output options are specified, the Terminal uses os.Stdin and os.Stdout. The
// controller options (WithSuggester, WithBindings, WithRequestTimeout) apply to
// the Terminal's controller.
func NewTerminal(options ...Option) (*Terminal, error) {
	cfg := newConfig(options)
	t := &Terminal{
		fd:  cfg.fd,
		in:  cfg.in,
		out: cfg.out,
	}

	type fdGetter interface {
		Fd() uintptr
	}
	if f, ok := t.in.(fdGetter); ok && t.fd == -1 && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
	}

	t.mu.screen.Init()
	if cfg.width > 0 {
		t.mu.screen.SetSize(cfg.width, cfg.height)
	}

	cfg.render = t.render
	ctrl, err := newController(cfg)
	if err != nil {
		return nil, err
	}
	t.ctrl = ctrl
	return t, nil
}

// Close closes the Terminal, cancelling any suggestion request in flight.
func (t *Terminal) Close() error {
	return t.ctrl.Close()
}

// Rebind replaces the user key bindings. See WithBindings.
func (t *Terminal) Rebind(bindings string) error {
	return t.ctrl.Rebind(bindings)
}

// ReadDocument reads a document, displaying prompt before it. The document is
// returned when the user finishes input. If the user cancels input,
// ErrCanceled is returned, or io.EOF if the document was empty.
func (t *Terminal) ReadDocument(prompt string) (string, error) {
	if err := t.updateSize(); err != nil {
		return "", err
	}

	if t.fd != -1 {
		// If we have a file descriptor, set up SIGWINCH handling so we can get notified
		// of changes in the terminal's size.
		winch := make(chan os.Signal, 1)
		signal.Notify(winch, syscall.SIGWINCH)
		go func() {
			for range winch {
				_ = t.updateSize()
			}
		}()
		defer func() {
			signal.Stop(winch)
			close(winch)
		}()

		// Put the terminal into raw mode, restoring the
		// original mode on exit.
		saved, err := term.MakeRaw(t.fd)
		if err != nil {
			return "", err
		}
		defer func() { _ = term.Restore(t.fd, saved) }()
	}

	t.begin(prompt)
	for {
		if err := t.processInput(); err != nil {
			return t.finish(err)
		}

		// Read more input from the tty. This is slightly complicated in that we need to
		// preserve the data in t.inBytes which may be a partial escape sequence.
		if len(t.inBytes) > 0 {
			n := copy(t.inBuf[:], t.inBytes)
			t.inBytes = t.inBuf[:n]
		}
		readBuf := t.inBuf[len(t.inBytes):]
		n, err := t.in.Read(readBuf)
		if err != nil {
			return t.finish(err)
		}
		t.inBytes = t.inBuf[:n+len(t.inBytes)]

		// An escape sequence arrives in a single read. An escape which arrives on
		// its own is the Escape key.
		if n == 1 && len(t.inBytes) == 1 && t.inBytes[0] == byte(KeyEscape) {
			t.inBytes = nil
			if _, err := t.ctrl.Key(KeyEscape); err != nil {
				return t.finish(err)
			}
		}
	}
}

// begin starts reading a new document, drawing the prompt on the current row.
func (t *Terminal) begin(prompt string) {
	t.mu.Lock()
	t.mu.screen.Reset(prompt)
	t.mu.active = true
	t.mu.Unlock()
	t.ctrl.Reset()
	t.inBytes = nil
}

// processInput dispatches every complete key in the input buffer.
func (t *Terminal) processInput() error {
	for {
		origInBytes := t.inBytes
		key, rest := parseKey(t.inBytes)
		if key == utf8.RuneError {
			return nil
		}
		t.inBytes = rest
		debugPrintf(" input: %q -> %s\n", origInBytes[:len(origInBytes)-len(rest)], key)
		if _, err := t.ctrl.Key(key); err != nil {
			return err
		}
	}
}

// finish leaves the document on screen and ends the current read.
func (t *Terminal) finish(err error) (string, error) {
	v := t.ctrl.View()

	t.mu.Lock()
	t.mu.active = false
	t.mu.screen.Commit(v.Text)
	t.mu.screen.Flush(t.out)
	t.mu.Unlock()
	t.ctrl.Reset()

	if errors.Is(err, io.EOF) && v.Text != "" {
		return v.Text, nil
	}
	return "", err
}

// render is the controller's renderer. It is called with the controller's
// mutex held.
func (t *Terminal) render(v View) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.mu.active {
		return
	}
	t.mu.screen.Render(v)
	t.mu.screen.Flush(t.out)
}

func (t *Terminal) updateSize() error {
	if t.fd == -1 {
		return nil
	}

	width, height, err := term.GetSize(t.fd)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.mu.screen.SetSize(width, height)
	t.mu.screen.Flush(t.out)
	return nil
}
