package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single call of fn, run on
// the trailing edge of a fixed window. At most one call is ever scheduled;
// triggers arriving while it is pending are absorbed. A scheduled call is
// never cancelled.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	pending bool
	runs    int
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules fn unless a call is already pending. It reports whether
// this trigger scheduled a new call.
func (d *Debouncer) Trigger() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending {
		return false
	}
	d.pending = true
	time.AfterFunc(d.delay, d.fire)
	return true
}

// Pending reports whether a call is scheduled and has not started yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Runs counts how many times fn has been started.
func (d *Debouncer) Runs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runs
}

func (d *Debouncer) fire() {
	// cleared before fn runs, so triggers caused by fn itself schedule again
	d.mu.Lock()
	d.pending = false
	d.runs++
	d.mu.Unlock()

	d.fn()
}
