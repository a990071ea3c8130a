package ghostline

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCanceled is returned from Controller.Key when the user cancels a
// non-empty document.
var ErrCanceled = errors.New("ghostline: input canceled")

// Suggester returns candidate completions for a single line of text, best
// first. Implementations may be slow and are always called off the caller's
// goroutine. An error is treated as "no suggestions".
type Suggester interface {
	Suggest(ctx context.Context, input string) ([]string, error)
}

// SuggesterFunc adapts an ordinary function to the Suggester interface.
type SuggesterFunc func(ctx context.Context, input string) ([]string, error)

// Suggest calls f(ctx, input).
func (f SuggesterFunc) Suggest(ctx context.Context, input string) ([]string, error) {
	return f(ctx, input)
}

// Controller is the inline autocomplete state machine. It owns the document
// being edited and the suggestions offered for the line under the cursor. The
// host feeds it change, select, key and click events and renders the View it
// publishes after every event.
//
// Edits are debounced: once the line under the cursor has been left alone for
// 300ms its text is sent to the Suggester. Responses may arrive out of order
// and are applied only if they answer the latest request and the line still
// reads as it did when the request was issued. Everything else is discarded.
//
// All events are serialized through a single mutex, and the renderer is
// invoked with that mutex held. A renderer must not call back into the
// Controller.
type Controller struct {
	suggester Suggester
	render    func(View)
	timeout   time.Duration
	spawn     func(func())

	// ctx is cancelled by Close, aborting any request in flight.
	ctx    context.Context
	cancel context.CancelFunc

	mu struct {
		sync.Mutex
		state    inputState
		debounce debouncer
		// bindings maps keys to the command they perform. Keys which are not
		// bound are inserted at the cursor.
		bindings map[Key]command
		// pasting is set between bracketed paste markers, during which keys are
		// inserted literally.
		pasting  bool
		killRing killRing
	}
}

// NewController creates a Controller configured by the supplied options. An
// error is returned if the bindings supplied by WithBindings cannot be parsed.
func NewController(options ...Option) (*Controller, error) {
	cfg := newConfig(options)
	return newController(cfg)
}

func newController(cfg *config) (*Controller, error) {
	c := &Controller{
		suggester: cfg.suggester,
		render:    cfg.render,
		timeout:   cfg.timeout,
		spawn:     cfg.spawn,
	}
	if c.spawn == nil {
		c.spawn = func(fn func()) { go fn() }
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())

	bindings, err := loadBindings(cfg.bindings)
	if err != nil {
		c.cancel()
		return nil, err
	}
	c.mu.bindings = bindings
	c.mu.state.suggestions.Selected = -1
	c.mu.debounce.init(cfg.afterFunc)
	return c, nil
}

func loadBindings(extra string) (map[Key]command, error) {
	bindings := make(map[Key]command)
	if err := parseBindings(bindings, defaultBindings); err != nil {
		panic(err)
	}
	if err := parseBindings(bindings, extra); err != nil {
		return nil, err
	}
	return bindings, nil
}

// Close cancels any scheduled or in-flight request. Responses arriving after
// Close are discarded.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.mu.debounce.cancel()
	c.mu.Unlock()
	c.cancel()
	return nil
}

// Rebind replaces the user key bindings. The bindings are layered on top of
// the defaults. On error the existing bindings are left in place.
func (c *Controller) Rebind(bindings string) error {
	m, err := loadBindings(bindings)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.bindings = m
	return nil
}

// View returns a snapshot of what should currently be rendered.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mu.state.view()
}

// Reset discards the document and all suggestion state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.debounce.cancel()
	c.mu.pasting = false
	c.mu.killRing.interrupt()
	s := c.mu.state.cleared()
	s.doc = Document{}
	c.setLocked(s)
}

// Change replaces the document with text and places the cursor at the given
// rune offset. It is the event a host delivers when the text was edited
// outside of Key, such as by a native text widget.
func (c *Controller) Change(text string, cursor int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.killRing.interrupt()
	doc := newDocument(text, cursor)
	if text == c.mu.state.doc.Text {
		c.moveLocked(doc)
		return
	}
	c.editLocked(doc)
}

// Select moves the cursor without changing the text. Suggestions are kept
// only if the line under the new cursor has the text they were fetched for.
func (c *Controller) Select(cursor int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.killRing.interrupt()
	c.moveLocked(c.mu.state.doc.MoveTo(cursor))
}

// Choose accepts the candidate at index in the suggestion list, as when the
// user clicks on it. It returns false if there is no such candidate.
func (c *Controller) Choose(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.mu.state.suggestions.Items
	if index < 0 || index >= len(items) {
		return false
	}
	c.mu.killRing.interrupt()
	c.acceptLocked(items[index])
	return true
}

// Key processes a key press. The returned bool reports whether the key was
// consumed by the autocomplete state machine (accepting, navigating or
// dismissing suggestions, or inserting a literal newline) rather than
// applied as an ordinary edit, which lets a host suppress its own default
// handling. Key returns io.EOF when the user finishes input, or cancels an
// empty document, and ErrCanceled when the user cancels a non-empty one.
func (c *Controller) Key(key Key) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch key {
	case keyPasteStart:
		c.mu.pasting = true
		return true, nil
	case keyPasteEnd:
		c.mu.pasting = false
		return true, nil
	}
	if c.mu.pasting {
		return insertChar(c, key)
	}

	cmd := c.mu.bindings[key]
	if cmd == "" {
		cmd = cmdInsertChar
	}
	debugPrintf("key: %s -> %s\n", key, cmd)
	if ok, err := c.mu.killRing.Dispatch(c, cmd, key); ok {
		return false, err
	}
	return commands[cmd](c, key)
}

func (c *Controller) setLocked(s inputState) {
	c.mu.state = s
	if c.render != nil {
		c.render(s.view())
	}
}

// editLocked applies an edit to the document and restarts the debounce window
// for the line under the cursor. A blank line is never sent for suggestions.
func (c *Controller) editLocked(doc Document) {
	s := c.mu.state.withDocument(doc)
	if doc.Line().Blank() {
		c.mu.debounce.cancel()
		s = s.cleared()
	} else {
		c.mu.debounce.schedule(c.fire)
	}
	c.setLocked(s)
}

// moveLocked moves the cursor. Moving to a line with different text abandons
// any scheduled request, and no new request is scheduled until the next edit.
func (c *Controller) moveLocked(doc Document) {
	if doc.Line().Text != c.mu.state.doc.Line().Text {
		c.mu.debounce.cancel()
	}
	c.setLocked(c.mu.state.withDocument(doc))
}

// acceptLocked commits candidate into the current line.
func (c *Controller) acceptLocked(candidate string) {
	s := c.mu.state
	doc := Accept(s.doc, s.doc.Line(), candidate)
	debugPrintf("accept: %q -> cursor %d\n", candidate, doc.Cursor)
	c.mu.debounce.cancel()
	s = s.cleared()
	s.doc = doc
	c.setLocked(s)
}

// newlineLocked inserts a literal newline, discarding all suggestion state.
func (c *Controller) newlineLocked() {
	s := c.mu.state
	doc := InsertNewline(s.doc)
	c.mu.debounce.cancel()
	s = s.cleared()
	s.doc = doc
	c.setLocked(s)
}

// fire is invoked on the timer goroutine when the debounce window closes.
func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if !c.mu.debounce.fired(gen) || c.ctx.Err() != nil || c.suggester == nil {
		c.mu.Unlock()
		return
	}
	line := c.mu.state.doc.Line()
	if line.Blank() {
		c.mu.Unlock()
		return
	}
	s := c.mu.state.withRequest(line.Text)
	c.setLocked(s)
	c.mu.Unlock()

	debugPrintf("request #%d: %q\n", s.seq, line.Text)
	c.spawn(func() { c.fetch(s.seq, line.Text) })
}

func (c *Controller) fetch(seq uint64, input string) {
	ctx := c.ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	items, err := c.suggester.Suggest(ctx, input)
	c.resolve(seq, input, items, err)
}

// resolve applies the outcome of request seq if it is still current.
func (c *Controller) resolve(seq uint64, input string, items []string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ctx.Err() != nil {
		return
	}
	s := c.mu.state
	if seq != s.seq || s.doc.Line().Text != input {
		debugPrintf("request #%d: stale, latest #%d\n", seq, s.seq)
		return
	}
	if err != nil {
		debugPrintf("request #%d: %v\n", seq, err)
		c.setLocked(s.cleared())
		return
	}
	debugPrintf("request #%d: %d suggestions\n", seq, len(items))
	c.setLocked(s.withSuggestions(input, items))
}
