package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_Advance_fires_due_timers_in_order(t *testing.T) {
	c := NewManual(epoch)

	var order []string
	c.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	c.AfterFunc(1*time.Second, func() { order = append(order, "a") })
	c.AfterFunc(2*time.Second, func() { order = append(order, "c") })
	c.AfterFunc(5*time.Second, func() { order = append(order, "late") })

	c.Advance(2 * time.Second)

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, epoch.Add(2*time.Second), c.Now())
	assert.Equal(t, 1, c.Pending())
}

func TestManual_callback_sees_its_deadline(t *testing.T) {
	c := NewManual(epoch)

	var seen time.Time
	c.AfterFunc(1500*time.Millisecond, func() { seen = c.Now() })

	c.Advance(10 * time.Second)

	assert.Equal(t, epoch.Add(1500*time.Millisecond), seen)
	assert.Equal(t, epoch.Add(10*time.Second), c.Now())
}

func TestManual_Stop(t *testing.T) {
	c := NewManual(epoch)

	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports already stopped")

	c.Advance(time.Minute)
	assert.False(t, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestManual_Stop_after_fire(t *testing.T) {
	c := NewManual(epoch)
	timer := c.AfterFunc(time.Second, func() {})

	c.Advance(time.Second)

	assert.False(t, timer.Stop())
}

func TestManual_nested_schedule_within_window(t *testing.T) {
	c := NewManual(epoch)

	var fired []time.Duration
	c.AfterFunc(time.Second, func() {
		fired = append(fired, c.Now().Sub(epoch))
		c.AfterFunc(500*time.Millisecond, func() {
			fired = append(fired, c.Now().Sub(epoch))
		})
	})

	c.Advance(2 * time.Second)

	assert.Equal(t, []time.Duration{time.Second, 1500 * time.Millisecond}, fired)
}

func TestManual_AdvanceTo_backwards_is_noop(t *testing.T) {
	c := NewManual(epoch)
	c.Advance(time.Second)

	c.AdvanceTo(epoch)

	assert.Equal(t, epoch.Add(time.Second), c.Now())
}

func TestManual_RunUntilIdle(t *testing.T) {
	c := NewManual(epoch)

	count := 0
	var reschedule func()
	reschedule = func() {
		count++
		if count < 3 {
			c.AfterFunc(time.Second, reschedule)
		}
	}
	c.AfterFunc(time.Second, reschedule)

	fired := c.RunUntilIdle(100)

	require.Equal(t, 3, fired)
	assert.Equal(t, epoch.Add(3*time.Second), c.Now())
	assert.Equal(t, 0, c.Pending())
}

func TestManual_RunUntilIdle_respects_limit(t *testing.T) {
	c := NewManual(epoch)

	var loop func()
	loop = func() { c.AfterFunc(time.Second, loop) }
	c.AfterFunc(time.Second, loop)

	assert.Equal(t, 10, c.RunUntilIdle(10))
	assert.Equal(t, 1, c.Pending())
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real().AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real timer never fired")
	}
}
