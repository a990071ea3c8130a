package ghostline

import (
	"io"
	"os"
	"time"
)

// defaultRequestTimeout bounds a single call to the Suggester.
const defaultRequestTimeout = 5 * time.Second

// config accumulates the settings applied by options. The controller settings
// are shared by NewController and NewTerminal; the terminal settings are
// ignored by NewController.
type config struct {
	suggester Suggester
	render    func(View)
	bindings  string
	timeout   time.Duration
	afterFunc afterFunc
	spawn     func(func())

	fd            int
	in            io.Reader
	out           io.Writer
	width, height int
}

func newConfig(options []Option) *config {
	cfg := &config{
		timeout: defaultRequestTimeout,
		fd:      -1,
		in:      os.Stdin,
		out:     os.Stdout,
	}
	for _, opt := range options {
		opt.apply(cfg)
	}
	return cfg
}

// Option defines the interface for Controller and Terminal options.
type Option interface {
	apply(cfg *config)
}

type suggesterOption struct {
	s Suggester
}

func (o suggesterOption) apply(cfg *config) {
	cfg.suggester = o.s
}

// WithSuggester configures the source of suggestions. Without a Suggester no
// requests are issued and the controller behaves as a plain editor.
func WithSuggester(s Suggester) Option {
	return suggesterOption{s}
}

type rendererOption struct {
	fn func(View)
}

func (o rendererOption) apply(cfg *config) {
	cfg.render = o.fn
}

// WithRenderer configures a callback invoked with the new View after every
// state change. The callback runs with the controller's mutex held and must not
// call back into the controller. A Terminal installs its own renderer and
// ignores this option.
func WithRenderer(fn func(View)) Option {
	return rendererOption{fn}
}

type bindingsOption struct {
	bindings string
}

func (o bindingsOption) apply(cfg *config) {
	cfg.bindings += o.bindings + "\n"
}

// WithBindings layers additional key bindings on top of the defaults. Each
// line has the form "bind <key> <command>", for example:
//
//	bind Control-j insert-newline
//	bind Meta-Enter accept-suggestion
//
// Blank lines and lines beginning with '#' are ignored.
func WithBindings(bindings string) Option {
	return bindingsOption{bindings}
}

type requestTimeoutOption time.Duration

func (o requestTimeoutOption) apply(cfg *config) {
	cfg.timeout = time.Duration(o)
}

// WithRequestTimeout bounds the time a single suggestion request may take. A
// timeout of zero disables the bound. The default is 5 seconds.
func WithRequestTimeout(d time.Duration) Option {
	return requestTimeoutOption(d)
}

type afterFuncOption struct {
	fn afterFunc
}

func (o afterFuncOption) apply(cfg *config) {
	cfg.afterFunc = o.fn
}

// withAfterFunc replaces the timer used for debouncing. Used by tests.
func withAfterFunc(fn afterFunc) Option {
	return afterFuncOption{fn}
}

type spawnOption struct {
	fn func(func())
}

func (o spawnOption) apply(cfg *config) {
	cfg.spawn = o.fn
}

// withSpawn replaces the function used to run requests off the caller's
// goroutine. Used by tests.
func withSpawn(fn func(func())) Option {
	return spawnOption{fn}
}

type ttyOption struct {
	tty *os.File
}

func (o *ttyOption) apply(cfg *config) {
	cfg.fd = int(o.tty.Fd())
	cfg.in = o.tty
	cfg.out = o.tty
}

// WithTTY allows configuring a Terminal with a different TTY than
// stdin/stdout.
func WithTTY(tty *os.File) Option {
	return &ttyOption{
		tty: tty,
	}
}

type inputOption struct {
	r io.Reader
}

func (o *inputOption) apply(cfg *config) {
	cfg.in = o.r
}

// WithInput allows configuring the input reader for a Terminal. This option is
// primarily useful for tests.
func WithInput(r io.Reader) Option {
	return &inputOption{
		r: r,
	}
}

type outputOption struct {
	w io.Writer
}

func (o *outputOption) apply(cfg *config) {
	cfg.out = o.w
}

// WithOutput allows configuring the output writer for a Terminal. This option
// is primarily useful for tests.
func WithOutput(w io.Writer) Option {
	return &outputOption{
		w: w,
	}
}

type sizeOption struct {
	width, height int
}

func (o *sizeOption) apply(cfg *config) {
	cfg.width, cfg.height = o.width, o.height
}

// WithSize allows configuring the initial width and height of a Terminal.
// Typically the size of the terminal is determined automatically. This option
// is primarily useful for tests in conjunction with WithInput and WithOutput.
func WithSize(width, height int) Option {
	return &sizeOption{
		width:  width,
		height: height,
	}
}
