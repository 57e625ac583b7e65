package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger logs bus activity: every published event at debug
// level, dropped events as warnings and subscriber panics as errors.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		e := logger.Debug().Str("event", string(event))
		if id := toastID(payload); id != "" {
			e = e.Str("toast_id", id)
		}
		e.Msg("event fired")
	})

	bus.OnDrop(func(event Event, _ any) {
		logger.Warn().Str("event", string(event)).Msg("event dropped: buffer full")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}

func toastID(payload any) string {
	switch p := payload.(type) {
	case ToastEnqueuedPayload:
		return p.Toast.ID
	case ToastClosingPayload:
		return p.Toast.ID
	case ToastRemovedPayload:
		return p.Toast.ID
	default:
		return ""
	}
}
