// Package testbus provides test utilities for the event bus.
// It wraps a real EventBus with event recording and assertion helpers.
package testbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/colonyops/toastkit/internal/core/eventbus"
)

// RecordedEvent holds a captured event name and payload.
type RecordedEvent struct {
	Event   eventbus.Event
	Payload any
}

// Bus wraps a real EventBus with event recording for tests.
type Bus struct {
	*eventbus.EventBus

	mu     sync.Mutex
	events []RecordedEvent
}

// New creates a test bus, starts it in a background goroutine and records
// every event type. The bus is stopped when the test completes.
func New(t *testing.T) *Bus {
	t.Helper()

	bus := eventbus.New(64)
	ctx, cancel := context.WithCancel(context.Background())

	tb := &Bus{EventBus: bus}

	bus.SubscribeToastEnqueued(func(p eventbus.ToastEnqueuedPayload) {
		tb.record(eventbus.EventToastEnqueued, p)
	})
	bus.SubscribeToastClosing(func(p eventbus.ToastClosingPayload) {
		tb.record(eventbus.EventToastClosing, p)
	})
	bus.SubscribeToastRemoved(func(p eventbus.ToastRemovedPayload) {
		tb.record(eventbus.EventToastRemoved, p)
	})
	bus.SubscribeTuiStarted(func(p eventbus.TUIStartedPayload) {
		tb.record(eventbus.EventTuiStarted, p)
	})
	bus.SubscribeTuiStopped(func(p eventbus.TUIStoppedPayload) {
		tb.record(eventbus.EventTuiStopped, p)
	})

	go bus.Start(ctx)
	t.Cleanup(cancel)

	return tb
}

func (tb *Bus) record(event eventbus.Event, payload any) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.events = append(tb.events, RecordedEvent{Event: event, Payload: payload})
}

// Events returns a copy of all recorded events.
func (tb *Bus) Events() []RecordedEvent {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	out := make([]RecordedEvent, len(tb.events))
	copy(out, tb.events)
	return out
}

// Count returns how many events of the given type were recorded.
func (tb *Bus) Count(event eventbus.Event) int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	n := 0
	for _, e := range tb.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// WaitFor blocks until an event of the given type is recorded or the timeout expires.
func (tb *Bus) WaitFor(event eventbus.Event, timeout time.Duration) bool {
	deadline := time.After(timeout)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		if tb.Count(event) > 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}

// AssertPublished asserts that an event of the given type was recorded.
func (tb *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	if !tb.WaitFor(event, 500*time.Millisecond) {
		t.Errorf("expected event %q to be published, but it was not", event)
	}
}

// AssertNotPublished asserts that an event of the given type was NOT recorded
// within the given wait period.
func (tb *Bus) AssertNotPublished(t *testing.T, event eventbus.Event, wait time.Duration) {
	t.Helper()
	time.Sleep(wait)
	if tb.Count(event) > 0 {
		t.Errorf("expected event %q to NOT be published, but it was", event)
	}
}
