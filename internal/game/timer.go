package game

import "time"

// Countdown is a polled wall-clock deadline. Nothing fires on expiry; callers
// check Expired on each tick.
type Countdown struct {
	now      func() time.Time
	deadline time.Time
	running  bool
}

func NewCountdown() *Countdown {
	return NewCountdownWithClock(time.Now)
}

// NewCountdownWithClock is used by tests for deterministic expiry.
func NewCountdownWithClock(now func() time.Time) *Countdown {
	return &Countdown{now: now}
}

func (c *Countdown) Start(d time.Duration) {
	c.deadline = c.now().Add(d)
	c.running = true
}

func (c *Countdown) Stop() {
	c.running = false
}

func (c *Countdown) Running() bool {
	return c.running
}

// Expired reports whether a running countdown has passed its deadline.
func (c *Countdown) Expired() bool {
	return c.running && !c.now().Before(c.deadline)
}

// Remaining is zero when stopped or expired.
func (c *Countdown) Remaining() time.Duration {
	if !c.running {
		return 0
	}
	left := c.deadline.Sub(c.now())
	if left < 0 {
		return 0
	}
	return left
}
