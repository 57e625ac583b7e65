package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies scenario and toast_id from the event context onto log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if name := GetScenario(ctx); name != "" {
		e.Str("scenario", name)
	}

	if id := GetToastID(ctx); id != "" {
		e.Str("toast_id", id)
	}
}
