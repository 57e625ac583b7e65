// Package notify posts user-facing notifications as toasts and keeps a
// history of what was shown.
package notify

import (
	"context"
	"time"

	"github.com/colonyops/toastkit/internal/core/toast"
)

// Notification is a history entry for a posted toast.
type Notification struct {
	ToastID   string
	Variant   toast.Variant
	Title     string
	Message   string
	CreatedAt time.Time
}

// Store records notification history.
type Store interface {
	Save(ctx context.Context, n Notification) error
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
