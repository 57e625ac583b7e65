package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/toastkit/internal/core/toast"
)

// Poster accepts toast requests. *toast.Manager satisfies it.
type Poster interface {
	Enqueue(req toast.Request) string
	Get(id string) (toast.Record, bool)
}

// Subscriber is a callback invoked after a notification is posted.
type Subscriber func(Notification)

// Bus posts notifications to a Poster, records them in a Store and fans
// them out to subscribers inline.
type Bus struct {
	poster      Poster
	store       Store
	subscribers []Subscriber
	mu          sync.Mutex
}

// NewBus creates a bus that posts to poster. If store is nil, notifications
// are posted and dispatched but not recorded.
func NewBus(poster Poster, store Store) *Bus {
	return &Bus{
		poster: poster,
		store:  store,
	}
}

// Subscribe registers a callback that will be invoked on every Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish posts req and returns the resulting toast ID.
func (b *Bus) Publish(req toast.Request) string {
	id := b.poster.Enqueue(req)
	if id == "" {
		// Poster is shut down; nothing was shown.
		return ""
	}

	n := Notification{
		ToastID: id,
		Variant: req.Variant,
		Title:   req.Title,
		Message: req.Description,
	}
	if rec, ok := b.poster.Get(id); ok {
		n.Variant = rec.Variant
		n.CreatedAt = rec.CreatedAt
	}

	if b.store != nil {
		if err := b.store.Save(context.Background(), n); err != nil {
			log.Error().Err(err).Str("toast_id", id).Msg("failed to record notification")
		}
	}

	b.mu.Lock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}

	return id
}

// Infof publishes an info toast.
func (b *Bus) Infof(format string, args ...any) string {
	return b.publishf(toast.VariantInfo, format, args...)
}

// Successf publishes a success toast.
func (b *Bus) Successf(format string, args ...any) string {
	return b.publishf(toast.VariantSuccess, format, args...)
}

// Warnf publishes a warning toast.
func (b *Bus) Warnf(format string, args ...any) string {
	return b.publishf(toast.VariantWarning, format, args...)
}

// Errorf publishes an error toast.
func (b *Bus) Errorf(format string, args ...any) string {
	return b.publishf(toast.VariantError, format, args...)
}

func (b *Bus) publishf(variant toast.Variant, format string, args ...any) string {
	return b.Publish(toast.Request{
		Variant:     variant,
		Description: fmt.Sprintf(format, args...),
	})
}

// History returns recorded notifications, newest first.
// Returns nil if no store is configured.
func (b *Bus) History() ([]Notification, error) {
	if b.store == nil {
		return nil, nil
	}
	return b.store.List(context.Background())
}

// Clear deletes recorded notifications.
func (b *Bus) Clear() error {
	if b.store == nil {
		return nil
	}
	return b.store.Clear(context.Background())
}
