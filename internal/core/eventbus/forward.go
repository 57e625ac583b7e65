package eventbus

import "github.com/colonyops/toastkit/internal/core/toast"

// TransitionSource is implemented by *toast.Manager.
type TransitionSource interface {
	Subscribe(fn toast.Subscriber) (unsubscribe func())
}

// ForwardToasts republishes every toast transition from src on bus. The
// returned function stops forwarding.
func ForwardToasts(bus *EventBus, src TransitionSource) (stop func()) {
	return src.Subscribe(func(tr toast.Transition) {
		switch tr.Kind {
		case toast.TransitionEnqueued:
			bus.PublishToastEnqueued(ToastEnqueuedPayload{Toast: tr.Record})
		case toast.TransitionClosing:
			bus.PublishToastClosing(ToastClosingPayload{Toast: tr.Record, Reason: tr.Reason})
		case toast.TransitionRemoved:
			bus.PublishToastRemoved(ToastRemovedPayload{Toast: tr.Record})
		}
	})
}
