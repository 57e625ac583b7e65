package toast

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toastkit/internal/core/clock"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T, opts Options) (*Manager, *clock.Manual) {
	t.Helper()

	clk := clock.NewManual(epoch)
	nop := zerolog.Nop()
	opts.Clock = clk
	opts.Logger = &nop

	m := New(opts)
	t.Cleanup(m.Close)
	return m, clk
}

// recorder collects transitions delivered to a subscriber.
type recorder struct {
	mu          sync.Mutex
	transitions []Transition
}

func (r *recorder) record(tr Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, tr)
}

func (r *recorder) kinds(id string) []TransitionKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []TransitionKind
	for _, tr := range r.transitions {
		if tr.Record.ID == id {
			out = append(out, tr.Kind)
		}
	}
	return out
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestManager_Enqueue_appends_visible_record_with_defaults(t *testing.T) {
	m, _ := newTestManager(t, Options{})

	id := m.Enqueue(Request{Description: "hello"})

	snap := m.Snapshot()
	require.Len(t, snap, 1)

	rec := snap[0]
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, VariantInfo, rec.Variant)
	assert.Equal(t, "hello", rec.Description)
	assert.Empty(t, rec.Title)
	assert.Equal(t, DefaultDuration, rec.Duration)
	assert.Equal(t, StateVisible, rec.State)
	assert.Equal(t, epoch, rec.CreatedAt)
	assert.True(t, rec.ClosingAt.IsZero())
}

func TestManager_Enqueue_keeps_request_fields(t *testing.T) {
	m, _ := newTestManager(t, Options{})

	action := map[string]string{"label": "Undo"}
	id := m.Enqueue(Request{
		Variant:     VariantWarning,
		Title:       "Heads up",
		Description: "Disk almost full",
		Duration:    2 * time.Second,
		Action:      action,
	})

	rec, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, VariantWarning, rec.Variant)
	assert.Equal(t, "Heads up", rec.Title)
	assert.Equal(t, "Disk almost full", rec.Description)
	assert.Equal(t, 2*time.Second, rec.Duration)
	assert.Equal(t, action, rec.Action)
}

func TestManager_Enqueue_accepts_empty_description(t *testing.T) {
	m, _ := newTestManager(t, Options{})

	id := m.Enqueue(Request{})

	rec, ok := m.Get(id)
	require.True(t, ok)
	assert.Empty(t, rec.Description)
}

func TestManager_Enqueue_normalizes_duration_and_variant(t *testing.T) {
	tests := []struct {
		name         string
		req          Request
		wantVariant  Variant
		wantDuration time.Duration
	}{
		{"zero duration", Request{Duration: 0}, VariantInfo, DefaultDuration},
		{"negative duration", Request{Duration: -time.Second}, VariantInfo, DefaultDuration},
		{"unknown variant", Request{Variant: "shiny"}, VariantInfo, DefaultDuration},
		{"error variant", Request{Variant: VariantError, Duration: time.Second}, VariantError, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t, Options{})

			rec, ok := m.Get(m.Enqueue(tt.req))
			require.True(t, ok)
			assert.Equal(t, tt.wantVariant, rec.Variant)
			assert.Equal(t, tt.wantDuration, rec.Duration)
		})
	}
}

func TestManager_Enqueue_uses_configured_default_duration(t *testing.T) {
	m, clk := newTestManager(t, Options{DefaultDuration: time.Second})

	id := m.Enqueue(Request{Description: "short"})

	clk.Advance(time.Second)
	rec, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, StateClosing, rec.State)
}

func TestManager_Enqueue_ids_are_distinct(t *testing.T) {
	m, _ := newTestManager(t, Options{})

	pattern := regexp.MustCompile(`^[a-z0-9]{9}$`)
	seen := make(map[string]bool)
	for range 500 {
		id := m.Enqueue(Request{Description: "x", Persistent: true})
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}

	assert.Equal(t, 500, m.Len())
}

func TestManager_Snapshot_preserves_insertion_order(t *testing.T) {
	m, _ := newTestManager(t, Options{})

	a := m.Enqueue(Request{Description: "a"})
	b := m.Enqueue(Request{Description: "b"})
	c := m.Enqueue(Request{Description: "c"})

	m.Dismiss(b)

	assert.Equal(t, []string{a, b, c}, ids(m.Snapshot()), "closing does not reorder")
}

func TestManager_Snapshot_is_a_copy(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	id := m.Enqueue(Request{Description: "original"})

	snap := m.Snapshot()
	snap[0].Description = "mutated"
	snap[0].State = StateClosing

	rec, _ := m.Get(id)
	assert.Equal(t, "original", rec.Description)
	assert.Equal(t, StateVisible, rec.State)
}

func TestManager_Dismiss_is_synchronous_and_removes_after_grace(t *testing.T) {
	m, clk := newTestManager(t, Options{})
	id := m.Enqueue(Request{Description: "bye"})

	clk.Advance(time.Second)
	m.Dismiss(id)

	rec, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, StateClosing, rec.State)
	assert.Equal(t, epoch.Add(time.Second), rec.ClosingAt)

	clk.Advance(GraceInterval - time.Millisecond)
	_, ok = m.Get(id)
	assert.True(t, ok, "still held just before the grace interval")

	clk.Advance(time.Millisecond)
	_, ok = m.Get(id)
	assert.False(t, ok, "removed at the grace interval")
	assert.Equal(t, 0, clk.Pending(), "no timers remain after removal")
}

func TestManager_Dismiss_twice_schedules_one_removal(t *testing.T) {
	m, clk := newTestManager(t, Options{})
	rec := &recorder{}
	m.Subscribe(rec.record)

	id := m.Enqueue(Request{Description: "double"})
	m.Dismiss(id)
	clk.Advance(300 * time.Millisecond)
	m.Dismiss(id)

	assert.Equal(t, 1, clk.Pending(), "second dismiss does not reschedule")

	clk.Advance(200 * time.Millisecond)
	_, ok := m.Get(id)
	assert.False(t, ok, "removal keeps the original schedule")

	clk.Advance(time.Minute)
	assert.Equal(t, []TransitionKind{TransitionEnqueued, TransitionClosing, TransitionRemoved}, rec.kinds(id))
	assert.Empty(t, m.Snapshot())
}

func TestManager_Dismiss_unknown_id_is_noop(t *testing.T) {
	m, clk := newTestManager(t, Options{})
	id := m.Enqueue(Request{Description: "keep"})
	before := m.Snapshot()

	m.Dismiss("does-not-exist")
	m.Dismiss("")

	assert.Equal(t, before, m.Snapshot())
	assert.Equal(t, 1, clk.Pending())

	_, ok := m.Get(id)
	assert.True(t, ok)
}

func TestManager_Dismiss_after_removal_does_not_revive(t *testing.T) {
	m, clk := newTestManager(t, Options{})
	id := m.Enqueue(Request{Description: "gone"})

	m.Dismiss(id)
	clk.Advance(GraceInterval)
	m.Dismiss(id)

	assert.Empty(t, m.Snapshot())
	assert.Equal(t, 0, clk.Pending())
}

func TestManager_auto_dismiss_after_duration(t *testing.T) {
	m, clk := newTestManager(t, Options{})
	rec := &recorder{}
	m.Subscribe(rec.record)

	id := m.Enqueue(Request{Description: "timed", Duration: 2000 * time.Millisecond})

	clk.Advance(1999 * time.Millisecond)
	r, _ := m.Get(id)
	assert.Equal(t, StateVisible, r.State)

	clk.Advance(time.Millisecond)
	r, _ = m.Get(id)
	assert.Equal(t, StateClosing, r.State)
	assert.Equal(t, epoch.Add(2000*time.Millisecond), r.ClosingAt)

	clk.Advance(499 * time.Millisecond)
	_, ok := m.Get(id)
	assert.True(t, ok)

	clk.Advance(time.Millisecond)
	_, ok = m.Get(id)
	assert.False(t, ok, "removed at 2500ms")

	require.Len(t, rec.transitions, 3)
	assert.Equal(t, ReasonTimeout, rec.transitions[1].Reason)
	assert.Equal(t, epoch.Add(2500*time.Millisecond), rec.transitions[2].At)
}

func TestManager_explicit_dismiss_cancels_auto_dismiss(t *testing.T) {
	m, clk := newTestManager(t, Options{})
	rec := &recorder{}
	m.Subscribe(rec.record)

	id := m.Enqueue(Request{Description: "early", Duration: time.Second})
	clk.Advance(100 * time.Millisecond)
	m.Dismiss(id)

	assert.Equal(t, 1, clk.Pending(), "only the removal timer remains")

	clk.Advance(10 * time.Second)
	assert.Equal(t, []TransitionKind{TransitionEnqueued, TransitionClosing, TransitionRemoved}, rec.kinds(id))
	assert.Equal(t, ReasonExplicit, rec.transitions[1].Reason)
}

func TestManager_persistent_never_auto_dismisses(t *testing.T) {
	m, clk := newTestManager(t, Options{})

	id := m.Enqueue(Request{Description: "sticky", Persistent: true})
	assert.Equal(t, 0, clk.Pending())

	clk.Advance(time.Hour)
	rec, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, StateVisible, rec.State)

	m.Dismiss(id)
	clk.Advance(GraceInterval)
	_, ok = m.Get(id)
	assert.False(t, ok)
}

func TestManager_form_submit_scenario(t *testing.T) {
	m, clk := newTestManager(t, Options{})

	x := m.Enqueue(Request{Variant: VariantSuccess, Description: "Form submitted successfully!"})

	snap := m.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, x, snap[0].ID)
	assert.Equal(t, VariantSuccess, snap[0].Variant)
	assert.Equal(t, "Form submitted successfully!", snap[0].Description)
	assert.Equal(t, 5000*time.Millisecond, snap[0].Duration)
	assert.Equal(t, StateVisible, snap[0].State)

	clk.Advance(5000 * time.Millisecond)
	rec, ok := m.Get(x)
	require.True(t, ok)
	assert.Equal(t, StateClosing, rec.State)

	clk.Advance(500 * time.Millisecond)
	assert.Empty(t, m.Snapshot())
}

func TestManager_ordering_after_dismiss(t *testing.T) {
	m, clk := newTestManager(t, Options{})

	a := m.Enqueue(Request{Description: "A"})
	b := m.Enqueue(Request{Description: "B"})
	assert.Equal(t, []string{a, b}, ids(m.Snapshot()))

	m.Dismiss(a)
	clk.Advance(GraceInterval)

	snap := m.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, b, snap[0].ID)
	assert.Equal(t, StateVisible, snap[0].State)
}

func TestManager_DismissAll(t *testing.T) {
	m, clk := newTestManager(t, Options{})

	a := m.Enqueue(Request{Description: "a"})
	b := m.Enqueue(Request{Description: "b", Persistent: true})
	m.Dismiss(a)
	clk.Advance(100 * time.Millisecond)

	m.DismissAll()

	for _, rec := range m.Snapshot() {
		assert.Equal(t, StateClosing, rec.State)
	}

	// a keeps its original removal time.
	clk.Advance(400 * time.Millisecond)
	assert.Equal(t, []string{b}, ids(m.Snapshot()))

	clk.Advance(100 * time.Millisecond)
	assert.Empty(t, m.Snapshot())
}

func TestManager_MaxVisible_evicts_oldest(t *testing.T) {
	m, clk := newTestManager(t, Options{MaxVisible: 2})
	rec := &recorder{}
	m.Subscribe(rec.record)

	a := m.Enqueue(Request{Description: "a"})
	b := m.Enqueue(Request{Description: "b"})
	c := m.Enqueue(Request{Description: "c"})

	ra, _ := m.Get(a)
	rb, _ := m.Get(b)
	rc, _ := m.Get(c)
	assert.Equal(t, StateClosing, ra.State)
	assert.Equal(t, StateVisible, rb.State)
	assert.Equal(t, StateVisible, rc.State)

	assert.Equal(t, []TransitionKind{TransitionEnqueued, TransitionClosing}, rec.kinds(a))
	var evicted Transition
	for _, tr := range rec.transitions {
		if tr.Record.ID == a && tr.Kind == TransitionClosing {
			evicted = tr
		}
	}
	assert.Equal(t, ReasonEvicted, evicted.Reason)

	clk.Advance(GraceInterval)
	assert.Equal(t, []string{b, c}, ids(m.Snapshot()))
}

func TestManager_MaxVisible_ignores_closing_records(t *testing.T) {
	m, _ := newTestManager(t, Options{MaxVisible: 2})

	a := m.Enqueue(Request{Description: "a"})
	m.Dismiss(a)
	b := m.Enqueue(Request{Description: "b"})
	c := m.Enqueue(Request{Description: "c"})

	rb, _ := m.Get(b)
	rc, _ := m.Get(c)
	assert.Equal(t, StateVisible, rb.State)
	assert.Equal(t, StateVisible, rc.State)
	assert.Equal(t, 3, m.Len())
}

func TestManager_Subscribe_receives_transitions_in_order(t *testing.T) {
	m, clk := newTestManager(t, Options{})
	rec := &recorder{}
	m.Subscribe(rec.record)

	id := m.Enqueue(Request{Description: "watch", Duration: time.Second})
	clk.Advance(2 * time.Second)

	require.Len(t, rec.transitions, 3)
	assert.Equal(t, TransitionEnqueued, rec.transitions[0].Kind)
	assert.Equal(t, StateVisible, rec.transitions[0].Record.State)
	assert.Equal(t, TransitionClosing, rec.transitions[1].Kind)
	assert.Equal(t, StateClosing, rec.transitions[1].Record.State)
	assert.Equal(t, TransitionRemoved, rec.transitions[2].Kind)
	assert.Equal(t, id, rec.transitions[2].Record.ID)
}

func TestManager_Subscribe_unsubscribe(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	rec := &recorder{}
	unsubscribe := m.Subscribe(rec.record)

	m.Enqueue(Request{Description: "one"})
	unsubscribe()
	m.Enqueue(Request{Description: "two"})

	assert.Len(t, rec.transitions, 1)
}

func TestManager_Subscriber_may_call_back_into_manager(t *testing.T) {
	m, _ := newTestManager(t, Options{})

	m.Subscribe(func(tr Transition) {
		if tr.Kind == TransitionEnqueued {
			m.Dismiss(tr.Record.ID)
		}
	})

	id := m.Enqueue(Request{Description: "instant"})

	rec, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, StateClosing, rec.State)
}

func TestManager_Close_cancels_timers_and_drops_records(t *testing.T) {
	m, clk := newTestManager(t, Options{})
	rec := &recorder{}
	m.Subscribe(rec.record)

	a := m.Enqueue(Request{Description: "a"})
	m.Enqueue(Request{Description: "b"})
	m.Dismiss(a)
	require.Equal(t, 2, clk.Pending())

	m.Close()
	m.Close()

	assert.Equal(t, 0, clk.Pending())
	assert.Empty(t, m.Snapshot())
	assert.Empty(t, m.Enqueue(Request{Description: "late"}))

	m.Dismiss(a)
	m.DismissAll()
	clk.Advance(time.Hour)
	assert.Len(t, rec.transitions, 3, "no transitions after close")
}

func TestManager_real_clock(t *testing.T) {
	nop := zerolog.Nop()
	m := New(Options{
		DefaultDuration: 20 * time.Millisecond,
		GraceInterval:   20 * time.Millisecond,
		Logger:          &nop,
	})
	defer m.Close()

	removed := make(chan string, 1)
	m.Subscribe(func(tr Transition) {
		if tr.Kind == TransitionRemoved {
			removed <- tr.Record.ID
		}
	})

	id := m.Enqueue(Request{Description: "real"})

	select {
	case got := <-removed:
		assert.Equal(t, id, got)
	case <-time.After(2 * time.Second):
		t.Fatal("toast was never removed")
	}
	assert.Equal(t, 0, m.Len())
}

func TestRecord_ActionLabel(t *testing.T) {
	tests := []struct {
		name   string
		action any
		want   string
	}{
		{name: "none", action: nil, want: ""},
		{name: "string", action: "Undo", want: "Undo"},
		{name: "stringer", action: 3 * time.Second, want: "3s"},
		{name: "opaque", action: struct{ n int }{1}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Record{Action: tt.action}.ActionLabel())
		})
	}
}

func TestManager_transitions_stay_ordered_across_timer_goroutines(t *testing.T) {
	nop := zerolog.Nop()
	m := New(Options{
		DefaultDuration: time.Nanosecond,
		GraceInterval:   time.Nanosecond,
		Logger:          &nop,
	})
	defer m.Close()

	rec := &recorder{}
	removed := make(chan struct{}, 8)
	m.Subscribe(func(tr Transition) {
		if tr.Kind == TransitionEnqueued {
			// Hold delivery open while the auto-dismiss timer fires.
			time.Sleep(5 * time.Millisecond)
		}
		rec.record(tr)
		if tr.Kind == TransitionRemoved {
			removed <- struct{}{}
		}
	})

	const n = 5
	toastIDs := make([]string, 0, n)
	for range n {
		toastIDs = append(toastIDs, m.Enqueue(Request{Description: "blink"}))
	}

	for range n {
		select {
		case <-removed:
		case <-time.After(2 * time.Second):
			t.Fatal("toast was not removed")
		}
	}

	for _, id := range toastIDs {
		assert.Equal(t, []TransitionKind{TransitionEnqueued, TransitionClosing, TransitionRemoved}, rec.kinds(id), "toast %s", id)
	}
}
