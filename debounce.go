package ghostline

import "time"

// debounceDelay is the quiet period after the last edit before a suggestion
// request is issued.
const debounceDelay = 300 * time.Millisecond

// timer is the subset of *time.Timer used by the debouncer.
type timer interface {
	Stop() bool
}

// afterFunc arms a timer which calls fn in its own goroutine after d.
type afterFunc func(d time.Duration, fn func()) timer

func realAfterFunc(d time.Duration, fn func()) timer {
	return time.AfterFunc(d, fn)
}

// debouncer coalesces bursts of schedule calls into a single invocation. A
// debouncer is owned by a controller and all methods must be called with the
// controller's mutex held. The callback passed to schedule runs on the timer
// goroutine and receives the generation it was armed with; it must acquire the
// controller's mutex and call fired to claim the invocation. Claiming fails if
// the timer was cancelled or superseded after it fired but before the callback
// acquired the mutex.
type debouncer struct {
	delay     time.Duration
	afterFunc afterFunc
	t         timer
	gen       uint64
}

func (d *debouncer) init(fn afterFunc) {
	d.delay = debounceDelay
	d.afterFunc = fn
	if d.afterFunc == nil {
		d.afterFunc = realAfterFunc
	}
}

// schedule cancels any armed timer and arms a new one.
func (d *debouncer) schedule(fn func(gen uint64)) {
	d.cancel()
	gen := d.gen
	d.t = d.afterFunc(d.delay, func() { fn(gen) })
}

// cancel disarms the timer, if any. A callback from a timer which has already
// fired will fail to claim its invocation.
func (d *debouncer) cancel() {
	if d.t != nil {
		d.t.Stop()
		d.t = nil
	}
	d.gen++
}

// fired claims the invocation for generation gen, disposing of the timer.
func (d *debouncer) fired(gen uint64) bool {
	if d.t == nil || gen != d.gen {
		return false
	}
	d.t = nil
	d.gen++
	return true
}

// armed returns true if a timer is waiting to fire.
func (d *debouncer) armed() bool {
	return d.t != nil
}
