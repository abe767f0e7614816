package debounce

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Debouncer drives a Controller with a real or mock clock.
//
// Goroutine safety: Push, Clear, Stop and the accessors may be called from
// any goroutine. Timer callbacks run on the clock's goroutine; emit is
// invoked outside the lock so it may call back into the Debouncer.
type Debouncer struct {
	mu       sync.Mutex
	ctl      Controller
	clock    clock.Clock
	interval time.Duration
	timer    *clock.Timer
	emit     func(string)
	stopped  bool
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock replaces the wall clock, typically with clock.NewMock() in tests.
func WithClock(c clock.Clock) Option {
	return func(d *Debouncer) { d.clock = c }
}

// WithInterval overrides DefaultInterval. Non-positive values are ignored.
func WithInterval(interval time.Duration) Option {
	return func(d *Debouncer) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

// New creates a Debouncer that calls emit with each stabilized query.
func New(emit func(string), opts ...Option) *Debouncer {
	d := &Debouncer{
		clock:    clock.New(),
		interval: DefaultInterval,
		emit:     emit,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Push records raw and restarts the settle timer. The previous timer is
// stopped before Push returns, and its ticket is already stale.
func (d *Debouncer) Push(raw string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopTimer()
	t := d.ctl.Push(raw)
	d.timer = d.clock.AfterFunc(d.interval, func() { d.fire(t) })
}

func (d *Debouncer) fire(t Ticket) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	q, ok := d.ctl.Settle(t)
	if ok {
		d.timer = nil
	}
	d.mu.Unlock()

	if ok && d.emit != nil {
		d.emit(q)
	}
}

// Flush settles the outstanding query now instead of waiting for the timer.
// It reports false when nothing was outstanding.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.ctl.Outstanding() {
		d.mu.Unlock()
		return false
	}
	d.stopTimer()
	q, ok := d.ctl.Settle(d.ctl.Latest())
	d.mu.Unlock()

	if ok && d.emit != nil {
		d.emit(q)
	}
	return ok
}

// Clear cancels the pending timer and resets both queries without emitting.
func (d *Debouncer) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopTimer()
	d.ctl.Clear()
}

// Stop cancels the pending timer permanently. Later calls to Push are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopTimer()
	d.ctl.Cancel()
	d.stopped = true
}

// stopTimer must be called with d.mu held.
func (d *Debouncer) stopTimer() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a non-empty query is waiting to settle.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctl.Pending()
}

// Raw returns the most recent raw query.
func (d *Debouncer) Raw() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctl.Raw()
}

// Stable returns the most recent stabilized query.
func (d *Debouncer) Stable() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctl.Stable()
}

// Interval returns the settle interval.
func (d *Debouncer) Interval() time.Duration {
	return d.interval
}
