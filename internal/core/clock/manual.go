package clock

import (
	"sync"
	"time"
)

// Manual is a virtual clock. Time only moves when Advance, AdvanceTo or
// RunUntilIdle is called, and due callbacks run synchronously on the
// caller's goroutine in deadline order (ties broken by scheduling order).
// Callbacks scheduled while advancing fire in the same call if they fall
// inside the window.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock *Manual
	when  time.Time
	seq   uint64
	fn    func()
	done  bool
}

// NewManual creates a virtual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current virtual time.
func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules fn to run once the clock has advanced by d.
func (c *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{
		clock: c,
		when:  c.now.Add(d),
		seq:   c.seq,
		fn:    fn,
	}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	t.clock.removeLocked(t)
	return true
}

// Advance moves the clock forward by d, firing every callback that comes
// due on the way.
func (c *Manual) Advance(d time.Duration) {
	c.AdvanceTo(c.Now().Add(d))
}

// AdvanceTo moves the clock to target. Moving backwards is a no-op.
func (c *Manual) AdvanceTo(target time.Time) {
	for {
		c.mu.Lock()
		next := c.nextLocked()
		if next == nil || next.when.After(target) {
			if target.After(c.now) {
				c.now = target
			}
			c.mu.Unlock()
			return
		}

		if next.when.After(c.now) {
			c.now = next.when
		}
		next.done = true
		c.removeLocked(next)
		c.mu.Unlock()

		next.fn()
	}
}

// RunUntilIdle fires pending callbacks in order until none remain or limit
// callbacks have run. It returns the number of callbacks fired.
func (c *Manual) RunUntilIdle(limit int) int {
	fired := 0
	for fired < limit {
		c.mu.Lock()
		next := c.nextLocked()
		if next == nil {
			c.mu.Unlock()
			return fired
		}
		if next.when.After(c.now) {
			c.now = next.when
		}
		next.done = true
		c.removeLocked(next)
		c.mu.Unlock()

		next.fn()
		fired++
	}
	return fired
}

// Pending returns the number of scheduled callbacks that have not fired or
// been stopped.
func (c *Manual) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *Manual) nextLocked() *manualTimer {
	var next *manualTimer
	for _, t := range c.timers {
		if next == nil || t.when.Before(next.when) || (t.when.Equal(next.when) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (c *Manual) removeLocked(t *manualTimer) {
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}
