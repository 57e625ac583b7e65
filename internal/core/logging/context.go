package logging

import "context"

type contextKey string

const (
	scenarioKey contextKey = "scenario"
	toastIDKey  contextKey = "toast_id"
)

// WithScenario adds a scenario name to the context.
func WithScenario(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, scenarioKey, name)
}

// WithToastID adds a toast ID to the context.
func WithToastID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, toastIDKey, id)
}

// GetScenario retrieves the scenario name from the context.
// Returns empty string if not present.
func GetScenario(ctx context.Context) string {
	if name, ok := ctx.Value(scenarioKey).(string); ok {
		return name
	}
	return ""
}

// GetToastID retrieves the toast ID from the context.
// Returns empty string if not present.
func GetToastID(ctx context.Context) string {
	if id, ok := ctx.Value(toastIDKey).(string); ok {
		return id
	}
	return ""
}
