// Package schedule holds cooperative timers advanced by the tick loop.
package schedule

// Delay runs a callback once a fixed amount of simulated time has passed.
// Starting a delay while one is pending replaces the pending one.
type Delay struct {
	remaining float64
	fn        func()
	active    bool
}

// Start schedules fn after seconds, cancelling any pending callback
func (d *Delay) Start(seconds float64, fn func()) {
	d.remaining = seconds
	d.fn = fn
	d.active = true
}

// Cancel drops the pending callback
func (d *Delay) Cancel() {
	d.active = false
	d.fn = nil
}

// Active reports whether a callback is pending
func (d *Delay) Active() bool { return d.active }

// Remaining returns the seconds left, or 0 when idle
func (d *Delay) Remaining() float64 {
	if !d.active {
		return 0
	}
	return d.remaining
}

// Advance counts down and fires the callback when it expires.
// The callback may Start the delay again.
func (d *Delay) Advance(dt float64) bool {
	if !d.active {
		return false
	}
	d.remaining -= dt
	if d.remaining > 0 {
		return false
	}
	fn := d.fn
	d.active = false
	d.fn = nil
	if fn != nil {
		fn()
	}
	return true
}
