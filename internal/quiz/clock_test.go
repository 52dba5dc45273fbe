package quiz

import (
	"sync"
	"time"
)

// manualClock fires scheduled callbacks only when the test says so.
type manualClock struct {
	mu      sync.Mutex
	pending []*manualTimer
	all     []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, f: f}
	c.pending = append(c.pending, t)
	c.all = append(c.all, t)
	return t
}

// Tick fires every callback scheduled so far that has not been stopped.
func (c *manualClock) Tick() {
	c.mu.Lock()
	due := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, t := range due {
		c.mu.Lock()
		stopped := t.stopped
		t.stopped = true
		c.mu.Unlock()
		if !stopped {
			t.f()
		}
	}
}

func (c *manualClock) Advance(ticks int) {
	for i := 0; i < ticks; i++ {
		c.Tick()
	}
}

// Active counts scheduled callbacks that are still live.
func (c *manualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

// FireStale runs every callback ever scheduled, stopped or not, the way a
// tick that was already in flight when Stop ran would arrive.
func (c *manualClock) FireStale() {
	c.mu.Lock()
	all := append([]*manualTimer(nil), c.all...)
	c.mu.Unlock()
	for _, t := range all {
		t.f()
	}
}
