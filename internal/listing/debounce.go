package listing

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const DefaultDebounce = 300 * time.Millisecond

// Debouncer calls fn with the latest input once no new input has arrived
// for the configured delay.
type Debouncer struct {
	clock clockwork.Clock
	delay time.Duration
	fn    func(term string)

	mu      sync.Mutex
	idle    *sync.Cond
	timer   clockwork.Timer
	seq     uint64
	term    string
	running int
}

func NewDebouncer(clock clockwork.Clock, delay time.Duration, fn func(term string)) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	d := &Debouncer{clock: clock, delay: delay, fn: fn}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Input records term and restarts the quiet period.
func (d *Debouncer) Input(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.term = term
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(seq) })
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq {
		// superseded by a later Input, Stop or Flush
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.run()
	d.mu.Unlock()
}

// run calls fn with the lock released. The caller holds d.mu.
func (d *Debouncer) run() {
	term := d.term
	d.running++
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running--
		d.idle.Broadcast()
	}()
	d.fn(term)
}

// Flush runs a pending call immediately and waits until no call is running.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
		d.seq++
		d.run()
	}
	for d.running > 0 {
		d.idle.Wait()
	}
}

// Stop cancels a pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
