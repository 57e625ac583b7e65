// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within toastkit.
package eventbus

import (
	"github.com/colonyops/toastkit/internal/core/toast"
)

// Event names a kind of event carried by the bus.
type Event string

// Keep list sorted A-Z.
const (
	EventToastClosing  Event = "toast.closing"
	EventToastEnqueued Event = "toast.enqueued"
	EventToastRemoved  Event = "toast.removed"
	EventTuiStarted    Event = "tui.started"
	EventTuiStopped    Event = "tui.stopped"
)

// ToastEnqueuedPayload is emitted when a toast is added.
type ToastEnqueuedPayload struct {
	Toast toast.Record
}

// ToastClosingPayload is emitted when a toast starts closing.
type ToastClosingPayload struct {
	Toast  toast.Record
	Reason toast.Reason
}

// ToastRemovedPayload is emitted when a toast is deleted.
type ToastRemovedPayload struct {
	Toast toast.Record
}

// TUIStartedPayload is emitted when the TUI starts.
type TUIStartedPayload struct{}

// TUIStoppedPayload is emitted when the TUI stops.
type TUIStoppedPayload struct{}
