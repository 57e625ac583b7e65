package eventbus

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus dispatches events to subscribers on a single goroutine started
// by Start. Publishing never blocks: when the buffer is full the event is
// dropped and OnDrop hooks fire.
type EventBus struct {
	ch      chan envelope
	hooks   hooks
	pending atomic.Int64

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the given channel buffer size.
func New(buffer int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, max(buffer, 1)),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
			bus.pending.Add(-1)
		}
	}
}

// WaitIdle blocks until every queued event has been dispatched or ctx is
// done. Start must be running for the bus to drain.
func (bus *EventBus) WaitIdle(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for bus.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	handlers := make([]func(any), len(bus.subs[env.event]))
	copy(handlers, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()

	bus.runOnSubscribe(event)
}

// PublishToastEnqueued publishes EventToastEnqueued.
func (bus *EventBus) PublishToastEnqueued(p ToastEnqueuedPayload) {
	bus.send(EventToastEnqueued, p)
}

// SubscribeToastEnqueued registers fn for EventToastEnqueued.
func (bus *EventBus) SubscribeToastEnqueued(fn func(ToastEnqueuedPayload)) {
	bus.subscribe(EventToastEnqueued, func(p any) { fn(p.(ToastEnqueuedPayload)) })
}

// PublishToastClosing publishes EventToastClosing.
func (bus *EventBus) PublishToastClosing(p ToastClosingPayload) {
	bus.send(EventToastClosing, p)
}

// SubscribeToastClosing registers fn for EventToastClosing.
func (bus *EventBus) SubscribeToastClosing(fn func(ToastClosingPayload)) {
	bus.subscribe(EventToastClosing, func(p any) { fn(p.(ToastClosingPayload)) })
}

// PublishToastRemoved publishes EventToastRemoved.
func (bus *EventBus) PublishToastRemoved(p ToastRemovedPayload) {
	bus.send(EventToastRemoved, p)
}

// SubscribeToastRemoved registers fn for EventToastRemoved.
func (bus *EventBus) SubscribeToastRemoved(fn func(ToastRemovedPayload)) {
	bus.subscribe(EventToastRemoved, func(p any) { fn(p.(ToastRemovedPayload)) })
}

// PublishTuiStarted publishes EventTuiStarted.
func (bus *EventBus) PublishTuiStarted(p TUIStartedPayload) {
	bus.send(EventTuiStarted, p)
}

// SubscribeTuiStarted registers fn for EventTuiStarted.
func (bus *EventBus) SubscribeTuiStarted(fn func(TUIStartedPayload)) {
	bus.subscribe(EventTuiStarted, func(p any) { fn(p.(TUIStartedPayload)) })
}

// PublishTuiStopped publishes EventTuiStopped.
func (bus *EventBus) PublishTuiStopped(p TUIStoppedPayload) {
	bus.send(EventTuiStopped, p)
}

// SubscribeTuiStopped registers fn for EventTuiStopped.
func (bus *EventBus) SubscribeTuiStopped(fn func(TUIStoppedPayload)) {
	bus.subscribe(EventTuiStopped, func(p any) { fn(p.(TUIStoppedPayload)) })
}
