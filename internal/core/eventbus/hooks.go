package eventbus

import "sync"

// hooks holds lifecycle callbacks registered on an EventBus.
type hooks struct {
	mu          sync.RWMutex
	onPublish   []func(Event, any)
	onDrop      []func(Event, any)
	onSubscribe []func(Event)
	onPanic     []func(Event, any, any)
}

// OnPublish registers a hook that fires after an event is queued for dispatch.
func (bus *EventBus) OnPublish(fn func(Event, any)) {
	addHook(&bus.hooks, &bus.hooks.onPublish, fn)
}

// OnDrop registers a hook that fires when an event is dropped because the
// buffer is full.
func (bus *EventBus) OnDrop(fn func(Event, any)) {
	addHook(&bus.hooks, &bus.hooks.onDrop, fn)
}

// OnSubscribe registers a hook that fires after a subscriber is added.
func (bus *EventBus) OnSubscribe(fn func(Event)) {
	addHook(&bus.hooks, &bus.hooks.onSubscribe, fn)
}

// OnPanic registers a hook that fires when a subscriber panics. The third
// argument is the recovered value.
func (bus *EventBus) OnPanic(fn func(Event, any, any)) {
	addHook(&bus.hooks, &bus.hooks.onPanic, fn)
}

func addHook[T any](h *hooks, list *[]T, fn T) {
	h.mu.Lock()
	*list = append(*list, fn)
	h.mu.Unlock()
}

func copyHooks[T any](h *hooks, list *[]T) []T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]T, len(*list))
	copy(out, *list)
	return out
}

// send queues an event without blocking.
func (bus *EventBus) send(event Event, payload any) {
	bus.pending.Add(1)
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		for _, fn := range copyHooks(&bus.hooks, &bus.hooks.onPublish) {
			fn(event, payload)
		}
	default:
		bus.pending.Add(-1)
		for _, fn := range copyHooks(&bus.hooks, &bus.hooks.onDrop) {
			fn(event, payload)
		}
	}
}

func (bus *EventBus) runOnSubscribe(event Event) {
	for _, fn := range copyHooks(&bus.hooks, &bus.hooks.onSubscribe) {
		fn(event)
	}
}

func (bus *EventBus) runOnPanic(event Event, payload any, recovered any) {
	for _, fn := range copyHooks(&bus.hooks, &bus.hooks.onPanic) {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(event, payload, recovered)
		}()
	}
}
