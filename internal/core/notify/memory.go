package notify

import (
	"context"
	"sync"
)

// DefaultHistorySize is the capacity used by NewMemoryStore when a
// non-positive size is given.
const DefaultHistorySize = 100

// MemoryStore is a bounded in-process Store. Once full, the oldest entry is
// dropped for every new one.
type MemoryStore struct {
	mu    sync.Mutex
	items []Notification
	size  int
}

// NewMemoryStore creates a store holding at most size notifications.
func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &MemoryStore{size: size}
}

func (s *MemoryStore) Save(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, n)
	if over := len(s.items) - s.size; over > 0 {
		s.items = append(s.items[:0], s.items[over:]...)
	}
	return nil
}

// List returns the history newest first.
func (s *MemoryStore) List(_ context.Context) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.items))
	for i, n := range s.items {
		out[len(s.items)-1-i] = n
	}
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}
