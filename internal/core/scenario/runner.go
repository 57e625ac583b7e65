package scenario

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/toastkit/internal/core/clock"
	"github.com/colonyops/toastkit/internal/core/eventbus"
	"github.com/colonyops/toastkit/internal/core/logging"
	"github.com/colonyops/toastkit/internal/core/toast"
)

// virtualEpoch is the start time of every virtual-time run.
var virtualEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	// maxVirtualTimers bounds the drain after the last step.
	maxVirtualTimers = 10_000

	settlePollInterval = 25 * time.Millisecond
)

// Options configures a run.
type Options struct {
	// Toasts tunes the manager created for the run. Its Clock is replaced.
	Toasts toast.Options

	// Realtime plays the scenario on the wall clock instead of a virtual
	// clock that jumps straight to each deadline.
	Realtime bool

	// Bus, when set, receives every transition of the run.
	Bus *eventbus.EventBus

	// OnEvent is called for each transition as it happens.
	OnEvent func(Event)
}

// Event is a transition observed during a run.
type Event struct {
	Offset      time.Duration        `json:"-"`
	Kind        toast.TransitionKind `json:"kind"`
	Reason      toast.Reason         `json:"reason,omitempty"`
	ToastID     string               `json:"toast_id"`
	Ref         string               `json:"ref,omitempty"`
	Variant     toast.Variant        `json:"variant"`
	Title       string               `json:"title,omitempty"`
	Description string               `json:"description"`
	Action      string               `json:"action,omitempty"`
}

// Result summarizes a finished run.
type Result struct {
	Scenario string
	Events   []Event
	// Remaining holds the toasts still held once the run settled. Only
	// persistent toasts that were never dismissed end up here.
	Remaining []toast.Record
	Elapsed   time.Duration
}

// Count returns the number of events of the given kind.
func (r *Result) Count(kind toast.TransitionKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// recorder turns manager transitions into events. Real clock timers call
// it from their own goroutines.
type recorder struct {
	mu      sync.Mutex
	start   time.Time
	refs    map[string]string // toast id -> ref
	ids     map[string]string // ref -> toast id
	pending []string          // refs of enqueues not yet observed, in call order
	events  []Event
	onEvent func(Event)
}

func newRecorder(start time.Time, onEvent func(Event)) *recorder {
	return &recorder{
		start:   start,
		refs:    make(map[string]string),
		ids:     make(map[string]string),
		onEvent: onEvent,
	}
}

func (r *recorder) observe(tr toast.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := tr.Record.ID
	if tr.Kind == toast.TransitionEnqueued && len(r.pending) > 0 {
		// The manager delivers enqueued transitions in call order.
		r.bindLocked(r.pending[0], id)
		r.pending = r.pending[1:]
	}

	ev := Event{
		Offset:      tr.At.Sub(r.start),
		Kind:        tr.Kind,
		Reason:      tr.Reason,
		ToastID:     id,
		Ref:         r.refs[id],
		Variant:     tr.Record.Variant,
		Title:       tr.Record.Title,
		Description: tr.Record.Description,
		Action:      tr.Record.ActionLabel(),
	}
	r.events = append(r.events, ev)

	if r.onEvent != nil {
		r.onEvent(ev)
	}
}

// expect queues ref as the name of the next enqueued toast. An empty ref
// keeps the queue aligned with the manager's enqueue order.
func (r *recorder) expect(ref string) {
	r.mu.Lock()
	r.pending = append(r.pending, ref)
	r.mu.Unlock()
}

// bind records the id returned by Enqueue. The enqueued transition may still
// be in flight on another goroutine when Enqueue returns.
func (r *recorder) bind(ref, id string) {
	r.mu.Lock()
	r.bindLocked(ref, id)
	r.mu.Unlock()
}

func (r *recorder) bindLocked(ref, id string) {
	if ref == "" || id == "" {
		return
	}
	r.refs[id] = ref
	r.ids[ref] = id
}

func (r *recorder) lookup(ref string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.ids[ref]
	return id, ok
}

// held returns the number of toasts enqueued but not yet observed as removed.
func (r *recorder) held() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.events {
		switch e.Kind {
		case toast.TransitionEnqueued:
			n++
		case toast.TransitionRemoved:
			n--
		}
	}
	return n
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Run plays sc against a fresh manager and waits until every
// non-persistent toast has been removed.
func Run(ctx context.Context, sc *Scenario, opts Options) (*Result, error) {
	ctx = logging.WithScenario(ctx, sc.Name)
	logger := logging.Component("scenario")

	var (
		manual *clock.Manual
		clk    clock.Clock
	)
	if opts.Realtime {
		clk = clock.Real()
	} else {
		manual = clock.NewManual(virtualEpoch)
		clk = manual
	}

	toastOpts := opts.Toasts
	toastOpts.Clock = clk
	manager := toast.New(toastOpts)
	defer manager.Close()

	start := clk.Now()
	rec := newRecorder(start, opts.OnEvent)
	unsubscribe := manager.Subscribe(rec.observe)
	defer unsubscribe()

	if opts.Bus != nil {
		stop := eventbus.ForwardToasts(opts.Bus, manager)
		defer stop()
	}

	logger.Debug().Ctx(ctx).
		Int("steps", len(sc.Steps)).
		Bool("realtime", opts.Realtime).
		Msg("scenario started")

	for i, step := range sc.Steps {
		if manual != nil {
			manual.AdvanceTo(start.Add(step.At))
		} else if err := sleepUntil(ctx, start.Add(step.At)); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		apply(ctx, logger, manager, rec, step)
	}

	if manual != nil {
		if n := manual.RunUntilIdle(maxVirtualTimers); n == maxVirtualTimers && manual.Pending() > 0 {
			return nil, fmt.Errorf("scenario %s did not settle after %d timers", sc.Name, n)
		}
	} else if err := waitSettled(ctx, manager, rec); err != nil {
		return nil, err
	}

	res := &Result{
		Scenario:  sc.Name,
		Events:    rec.snapshot(),
		Remaining: manager.Snapshot(),
		Elapsed:   clk.Now().Sub(start),
	}

	logger.Debug().Ctx(ctx).
		Int("events", len(res.Events)).
		Int("remaining", len(res.Remaining)).
		Dur("elapsed", res.Elapsed).
		Msg("scenario finished")

	return res, nil
}

func apply(ctx context.Context, logger zerolog.Logger, manager *toast.Manager, rec *recorder, step Step) {
	switch {
	case step.Enqueue != nil:
		rec.expect(step.Enqueue.Ref)
		id := manager.Enqueue(step.Enqueue.Request())
		rec.bind(step.Enqueue.Ref, id)
	case step.Dismiss != "":
		id, ok := rec.lookup(step.Dismiss)
		if !ok {
			logger.Debug().Ctx(ctx).Str("ref", step.Dismiss).Msg("dismiss of unknown ref ignored")
			return
		}
		manager.Dismiss(id)
	case step.DismissAll:
		manager.DismissAll()
	}
}

func sleepUntil(ctx context.Context, deadline time.Time) error {
	d := time.Until(deadline)
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// waitSettled polls until only visible persistent toasts remain and every
// removal has reached the recorder. Persistent toasts have no pending timers.
func waitSettled(ctx context.Context, manager *toast.Manager, rec *recorder) error {
	ticker := time.NewTicker(settlePollInterval)
	defer ticker.Stop()

	for {
		if records := manager.Snapshot(); settled(records) && rec.held() == len(records) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func settled(records []toast.Record) bool {
	for _, r := range records {
		if !r.Persistent || r.Closing() {
			return false
		}
	}
	return true
}
