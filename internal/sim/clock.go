package sim

import (
	"sync"
	"time"
)

// Clock is the time source driving series ticks.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock is backed by the time package.
type RealClock struct{}

// Now returns the wall-clock time.
func (RealClock) Now() time.Time { return time.Now() }

// NewTicker wraps time.NewTicker.
func (RealClock) NewTicker(d time.Duration) Ticker { return &realTicker{t: time.NewTicker(d)} }

type realTicker struct{ t *time.Ticker }

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// VirtualClock is a manually advanced clock for deterministic tests.
// Like time.Ticker, its tickers drop ticks when the receiver falls behind.
type VirtualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*virtualTicker
}

type virtualTicker struct {
	clock   *VirtualClock
	c       chan time.Time
	period  time.Duration
	next    time.Time
	stopped bool
}

// NewVirtualClock creates a clock frozen at start.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now returns the virtual time.
func (v *VirtualClock) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// NewTicker registers a ticker firing every d of virtual time.
func (v *VirtualClock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("sim: non-positive interval for VirtualClock.NewTicker")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	t := &virtualTicker{clock: v, c: make(chan time.Time, 1), period: d, next: v.now.Add(d)}
	v.tickers = append(v.tickers, t)
	return t
}

// Advance moves virtual time forward, firing every tick that falls due in order.
func (v *VirtualClock) Advance(d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	target := v.now.Add(d)
	for {
		var due *virtualTicker
		for _, t := range v.tickers {
			if t.stopped || t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			break
		}
		v.now = due.next
		select {
		case due.c <- v.now:
		default:
		}
		due.next = due.next.Add(due.period)
	}
	v.now = target
}

// ActiveTickers returns the number of tickers not yet stopped.
func (v *VirtualClock) ActiveTickers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, t := range v.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *virtualTicker) C() <-chan time.Time { return t.c }

func (t *virtualTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}
