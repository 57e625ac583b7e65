package eventbus

import (
	"sync"

	"github.com/colonyops/toastkit/internal/core/toast"
)

// Tally counts toast events seen on a bus.
type Tally struct {
	mu       sync.Mutex
	enqueued int
	removed  int
	closing  map[toast.Reason]int
}

// TallyCounts is a point-in-time copy of a Tally.
type TallyCounts struct {
	Enqueued int                  `json:"enqueued"`
	Closing  map[toast.Reason]int `json:"closing"`
	Removed  int                  `json:"removed"`
}

// NewTally subscribes a counter to the toast events on bus.
func NewTally(bus *EventBus) *Tally {
	t := &Tally{closing: make(map[toast.Reason]int)}

	bus.SubscribeToastEnqueued(func(ToastEnqueuedPayload) {
		t.mu.Lock()
		t.enqueued++
		t.mu.Unlock()
	})
	bus.SubscribeToastClosing(func(p ToastClosingPayload) {
		t.mu.Lock()
		t.closing[p.Reason]++
		t.mu.Unlock()
	})
	bus.SubscribeToastRemoved(func(ToastRemovedPayload) {
		t.mu.Lock()
		t.removed++
		t.mu.Unlock()
	})

	return t
}

// Counts returns the current totals.
func (t *Tally) Counts() TallyCounts {
	t.mu.Lock()
	defer t.mu.Unlock()

	closing := make(map[toast.Reason]int, len(t.closing))
	for k, v := range t.closing {
		closing[k] = v
	}

	return TallyCounts{
		Enqueued: t.enqueued,
		Closing:  closing,
		Removed:  t.removed,
	}
}
