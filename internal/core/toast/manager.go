package toast

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/toastkit/internal/core/clock"
	"github.com/colonyops/toastkit/internal/core/logging"
	"github.com/colonyops/toastkit/pkg/randid"
)

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	DefaultDuration time.Duration
	GraceInterval   time.Duration
	// MaxVisible caps the number of visible toasts. When exceeded, the
	// oldest visible toasts are dismissed. Zero means unlimited.
	MaxVisible int
	Clock      clock.Clock
	Logger     *zerolog.Logger
}

// Subscriber receives lifecycle transitions.
type Subscriber func(Transition)

type entry struct {
	rec         Record
	autoDismiss clock.Timer
	removal     clock.Timer
}

// Manager owns the ordered collection of toasts. All methods are safe for
// concurrent use; timer callbacks take the same lock as callers, so the
// collection is never mutated concurrently. Subscribers are invoked outside
// the lock and may call back into the Manager.
//
// Transitions are queued in the order they happen and delivered by one
// goroutine at a time, so subscribers always see a toast's enqueued,
// closing and removed transitions in that order. A call that finds
// delivery already running on another goroutine, or a call made from
// inside a subscriber, returns once its transitions are queued; the
// running delivery hands them out.
type Manager struct {
	defaultDuration time.Duration
	grace           time.Duration
	maxVisible      int
	clock           clock.Clock
	logger          zerolog.Logger

	mu      sync.Mutex
	entries []*entry
	index   map[string]*entry
	subs    map[int]Subscriber
	nextSub int
	closed  bool

	pending    []Transition
	delivering bool
}

// New creates an empty Manager.
func New(opts Options) *Manager {
	m := &Manager{
		defaultDuration: opts.DefaultDuration,
		grace:           opts.GraceInterval,
		maxVisible:      max(opts.MaxVisible, 0),
		clock:           opts.Clock,
		index:           make(map[string]*entry),
		subs:            make(map[int]Subscriber),
	}

	if m.defaultDuration <= 0 {
		m.defaultDuration = DefaultDuration
	}
	if m.grace <= 0 {
		m.grace = GraceInterval
	}
	if m.clock == nil {
		m.clock = clock.Real()
	}
	if opts.Logger != nil {
		m.logger = *opts.Logger
	} else {
		m.logger = logging.Component("toast")
	}

	return m
}

// Enqueue appends a visible toast and returns its ID. Unless the request is
// persistent, the toast is dismissed automatically once its duration
// elapses. Enqueue on a closed Manager returns "".
func (m *Manager) Enqueue(req Request) string {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ""
	}

	variant := req.Variant
	if !variant.IsValid() {
		if variant != "" {
			m.logger.Debug().Str("variant", string(variant)).Msg("unknown variant, using info")
		}
		variant = VariantInfo
	}

	duration := req.Duration
	if duration <= 0 {
		duration = m.defaultDuration
	}

	id := m.newIDLocked()
	e := &entry{
		rec: Record{
			ID:          id,
			Variant:     variant,
			Title:       req.Title,
			Description: req.Description,
			Duration:    duration,
			Persistent:  req.Persistent,
			Action:      req.Action,
			State:       StateVisible,
			CreatedAt:   m.clock.Now(),
		},
	}
	m.entries = append(m.entries, e)
	m.index[id] = e

	if !req.Persistent {
		e.autoDismiss = m.clock.AfterFunc(duration, func() {
			m.dismiss(id, ReasonTimeout)
		})
	}

	m.pending = append(m.pending, Transition{Kind: TransitionEnqueued, Record: e.rec, At: e.rec.CreatedAt})
	m.pending = append(m.pending, m.evictLocked()...)
	m.mu.Unlock()

	m.logger.Debug().
		Str("toast_id", id).
		Str("variant", string(variant)).
		Dur("duration", duration).
		Bool("persistent", req.Persistent).
		Msg("toast enqueued")

	m.deliver()
	return id
}

// Dismiss moves a visible toast to the closing state and schedules its
// removal after the grace interval. Unknown IDs and toasts that are
// already closing are ignored.
func (m *Manager) Dismiss(id string) {
	m.dismiss(id, ReasonExplicit)
}

// DismissAll dismisses every visible toast.
func (m *Manager) DismissAll() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	for _, e := range m.entries {
		if tr, ok := m.closeLocked(e, ReasonExplicit); ok {
			m.pending = append(m.pending, tr)
		}
	}
	m.mu.Unlock()

	m.deliver()
}

func (m *Manager) dismiss(id string, reason Reason) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	e, ok := m.index[id]
	if !ok {
		m.mu.Unlock()
		return
	}

	tr, ok := m.closeLocked(e, reason)
	if ok {
		m.pending = append(m.pending, tr)
	}
	m.mu.Unlock()

	if ok {
		m.deliver()
	}
}

// closeLocked performs the visible -> closing transition. It reports false
// when the entry is already closing.
func (m *Manager) closeLocked(e *entry, reason Reason) (Transition, bool) {
	if e.rec.State != StateVisible {
		return Transition{}, false
	}

	now := m.clock.Now()
	e.rec.State = StateClosing
	e.rec.ClosingAt = now

	if e.autoDismiss != nil {
		e.autoDismiss.Stop()
		e.autoDismiss = nil
	}

	id := e.rec.ID
	e.removal = m.clock.AfterFunc(m.grace, func() {
		m.remove(id, e)
	})

	m.logger.Debug().
		Str("toast_id", id).
		Str("reason", string(reason)).
		Msg("toast closing")

	return Transition{Kind: TransitionClosing, Reason: reason, Record: e.rec, At: now}, true
}

func (m *Manager) remove(id string, e *entry) {
	m.mu.Lock()
	// The entry may be gone already if the manager was closed.
	if m.closed || m.index[id] != e {
		m.mu.Unlock()
		return
	}

	delete(m.index, id)
	m.entries = slices.DeleteFunc(m.entries, func(other *entry) bool { return other == e })
	e.removal = nil

	m.pending = append(m.pending, Transition{Kind: TransitionRemoved, Reason: ReasonNone, Record: e.rec, At: m.clock.Now()})
	m.mu.Unlock()

	m.logger.Debug().Str("toast_id", id).Msg("toast removed")

	m.deliver()
}

// evictLocked dismisses the oldest visible toasts until at most maxVisible
// remain visible.
func (m *Manager) evictLocked() []Transition {
	if m.maxVisible == 0 {
		return nil
	}

	visible := 0
	for _, e := range m.entries {
		if e.rec.State == StateVisible {
			visible++
		}
	}

	var out []Transition
	for _, e := range m.entries {
		if visible <= m.maxVisible {
			break
		}
		if tr, ok := m.closeLocked(e, ReasonEvicted); ok {
			out = append(out, tr)
			visible--
		}
	}
	return out
}

func (m *Manager) newIDLocked() string {
	for {
		id := randid.Generate(idLength)
		if _, taken := m.index[id]; !taken {
			return id
		}
	}
}

// Snapshot returns a copy of the held toasts in insertion order.
func (m *Manager) Snapshot() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.rec
	}
	return out
}

// Get returns the toast with the given ID.
func (m *Manager) Get(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.index[id]
	if !ok {
		return Record{}, false
	}
	return e.rec, true
}

// Len returns the number of held toasts, closing ones included.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// DefaultDuration returns the auto-dismiss delay applied to requests
// without a duration.
func (m *Manager) DefaultDuration() time.Duration {
	return m.defaultDuration
}

// Subscribe registers fn for every subsequent transition. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn Subscriber) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return func() {}
	}

	key := m.nextSub
	m.nextSub++
	m.subs[key] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, key)
	}
}

// Close cancels every pending timer, drops all toasts and detaches
// subscribers. It is safe to call more than once.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for _, e := range m.entries {
		if e.autoDismiss != nil {
			e.autoDismiss.Stop()
		}
		if e.removal != nil {
			e.removal.Stop()
		}
	}

	m.entries = nil
	m.pending = nil
	clear(m.index)
	clear(m.subs)
}

func (m *Manager) subscribersLocked() []Subscriber {
	if len(m.subs) == 0 {
		return nil
	}

	keys := make([]int, 0, len(m.subs))
	for k := range m.subs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]Subscriber, len(keys))
	for i, k := range keys {
		out[i] = m.subs[k]
	}
	return out
}

// deliver hands queued transitions to subscribers until the queue is empty.
// Only one goroutine delivers at a time.
func (m *Manager) deliver() {
	m.mu.Lock()
	if m.delivering {
		m.mu.Unlock()
		return
	}
	m.delivering = true

	for len(m.pending) > 0 {
		batch := m.pending
		m.pending = nil
		subs := m.subscribersLocked()
		m.mu.Unlock()

		for _, tr := range batch {
			for _, fn := range subs {
				fn(tr)
			}
		}

		m.mu.Lock()
	}

	m.delivering = false
	m.mu.Unlock()
}
