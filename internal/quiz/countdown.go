package quiz

// Countdown is the per-question timer state. It only counts; scheduling the
// ticks belongs to the Controller.
type Countdown struct {
	duration  int
	remaining int
	running   bool
}

// NewCountdown returns a stopped countdown holding the full duration.
func NewCountdown(duration int) Countdown {
	if duration < 0 {
		duration = 0
	}
	return Countdown{duration: duration, remaining: duration}
}

// Start resumes counting from the current remaining value.
func (c *Countdown) Start() {
	c.running = c.remaining > 0
}

// Tick consumes one time unit. It reports true exactly once, on the tick
// that reaches zero, and stops the countdown. Ticks while stopped are ignored.
func (c *Countdown) Tick() bool {
	if !c.running {
		return false
	}
	c.remaining--
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.running = false
	return true
}

// Stop cancels counting. Safe to call when already stopped.
func (c *Countdown) Stop() {
	c.running = false
}

// Reset returns the countdown to the full duration, stopped.
func (c *Countdown) Reset() {
	c.remaining = c.duration
	c.running = false
}

// Remaining is the number of whole units left.
func (c Countdown) Remaining() int { return c.remaining }

// Running reports whether ticks are being counted.
func (c Countdown) Running() bool { return c.running }
