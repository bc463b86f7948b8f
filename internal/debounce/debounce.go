// Package debounce provides a quiescence window around rapidly changing
// input values, typically search boxes. The raw value is always current;
// the committed value trails it by one quiet window, and each commit
// fires exactly once with the value at that moment.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiescence window used by the search inputs.
const DefaultWindow = 300 * time.Millisecond

// Timer is the controllable slice of time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred calls. The real implementation delegates to
// the time package; tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall-clock implementation.
func SystemClock() Clock {
	return systemClock{}
}

// Debouncer holds one debounced string value. Safe for concurrent use;
// the fire callback runs without the internal lock held.
type Debouncer struct {
	mu        sync.Mutex
	clock     Clock
	window    time.Duration
	raw       string
	committed string
	timer     Timer
	fire      func(value string)
	stopped   bool
}

// New creates a debouncer with the given quiescence window. fire is
// invoked once per commit with the committed value.
func New(window time.Duration, fire func(value string)) *Debouncer {
	return NewWithClock(SystemClock(), window, fire)
}

// NewWithClock creates a debouncer on an explicit clock.
func NewWithClock(clock Clock, window time.Duration, fire func(value string)) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		clock:  clock,
		window: window,
		fire:   fire,
	}
}

// Set records a new raw value immediately and restarts the quiescence
// window. The commit, if any, happens only after the window elapses with
// no further Set calls.
func (d *Debouncer) Set(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.raw = value
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.window, d.commitPending)
}

// Submit commits the current raw value immediately, bypassing the
// window. Any pending timer is cancelled. Unlike a window expiry,
// Submit fires even when the value is unchanged, so the user can force
// a re-fetch.
func (d *Debouncer) Submit() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.committed = d.raw
	value := d.committed
	fire := d.fire
	d.mu.Unlock()

	if fire != nil {
		fire(value)
	}
}

// Stop cancels any pending commit. A timer that already expired but has
// not yet run will find the debouncer stopped and do nothing, so no
// late fire can observe a stale value.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Raw returns the immediately updated value.
func (d *Debouncer) Raw() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raw
}

// Committed returns the last committed value.
func (d *Debouncer) Committed() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.committed
}

// commitPending moves raw to committed and fires when the value
// actually changed.
func (d *Debouncer) commitPending() {
	d.mu.Lock()
	if d.stopped || d.raw == d.committed {
		d.mu.Unlock()
		return
	}
	d.committed = d.raw
	value := d.committed
	fire := d.fire
	d.mu.Unlock()

	if fire != nil {
		fire(value)
	}
}
