// Package debounce delays propagation of rapidly changing search text
// until it has been still for a settle interval.
//
// Controller is the timer-free state machine. Every Push issues a Ticket
// and invalidates all earlier tickets; only the newest ticket can settle.
// A host arms its own timer per ticket (tea.Tick in the TUI, Debouncer
// elsewhere) and calls Settle when it fires. A stale timer that fires
// after being superseded is rejected by the ticket check.
package debounce

import "time"

// DefaultInterval is the settle interval used by the search screen.
const DefaultInterval = 500 * time.Millisecond

// Ticket identifies one raw-query update.
type Ticket uint64

// Controller tracks the raw query, the stabilized query and the pending flag.
// The zero value is ready to use. Not safe for concurrent use.
type Controller struct {
	latest  Ticket
	settled bool
	raw     string
	stable  string
	pending bool
}

// Push records a raw query and returns the ticket a timer must present to
// Settle. Pending turns on for non-empty input and off immediately for
// empty input, although the empty value still settles after the interval.
func (c *Controller) Push(raw string) Ticket {
	c.latest++
	c.settled = false
	c.raw = raw
	c.pending = raw != ""
	return c.latest
}

// Settle stabilizes the raw query if t is the newest unsettled ticket.
func (c *Controller) Settle(t Ticket) (string, bool) {
	if t != c.latest || c.settled {
		return "", false
	}
	c.settled = true
	c.pending = false
	c.stable = c.raw
	return c.stable, true
}

// Cancel invalidates the outstanding ticket without settling it.
func (c *Controller) Cancel() {
	c.latest++
	c.settled = true
	c.pending = false
}

// Clear cancels any outstanding ticket and resets both queries to "".
func (c *Controller) Clear() {
	c.Cancel()
	c.raw = ""
	c.stable = ""
}

// Raw returns the last pushed query.
func (c *Controller) Raw() string { return c.raw }

// Stable returns the last settled query.
func (c *Controller) Stable() string { return c.stable }

// Pending reports whether a non-empty raw query is waiting to settle.
func (c *Controller) Pending() bool { return c.pending }

// Latest returns the most recently issued ticket.
func (c *Controller) Latest() Ticket { return c.latest }

// Outstanding reports whether a ticket can still settle.
func (c *Controller) Outstanding() bool { return !c.settled && c.latest > 0 }
