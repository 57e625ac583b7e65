// Package toast implements the lifecycle of transient toast notifications.
//
// A Manager owns an ordered collection of records. Each record starts out
// visible, moves to closing when it is dismissed (explicitly, by its
// auto-dismiss timer, or by eviction), and is deleted a fixed grace
// interval later so the presentation layer can play an exit animation.
package toast

import (
	"fmt"
	"time"
)

const (
	// DefaultDuration is how long a toast stays visible when the request
	// does not specify a duration.
	DefaultDuration = 5 * time.Second

	// GraceInterval is the delay between a toast entering the closing state
	// and its removal.
	GraceInterval = 500 * time.Millisecond

	idLength = 9
)

// Variant is the visual category of a toast.
type Variant string

const (
	VariantInfo    Variant = "info"
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantError   Variant = "error"
)

// Variants lists every supported variant in display order.
func Variants() []Variant {
	return []Variant{VariantInfo, VariantSuccess, VariantWarning, VariantError}
}

// IsValid reports whether v is one of the supported variants.
func (v Variant) IsValid() bool {
	switch v {
	case VariantInfo, VariantSuccess, VariantWarning, VariantError:
		return true
	default:
		return false
	}
}

// State is the visibility state of a held record.
type State string

const (
	StateVisible State = "visible"
	StateClosing State = "closing"
)

// Request describes a toast to enqueue.
type Request struct {
	Variant     Variant
	Title       string
	Description string
	// Duration is the time before automatic dismissal. Zero or negative
	// selects the manager's default duration.
	Duration time.Duration
	// Persistent disables automatic dismissal. The toast stays until it is
	// dismissed explicitly or evicted.
	Persistent bool
	// Action is an opaque payload carried through to the presentation layer.
	// Strings and fmt.Stringer values have a display label, see
	// Record.ActionLabel.
	Action any
}

// Record is a snapshot of a toast held by a Manager.
type Record struct {
	ID          string
	Variant     Variant
	Title       string
	Description string
	Duration    time.Duration
	Persistent  bool
	Action      any
	State       State
	CreatedAt   time.Time
	ClosingAt   time.Time
}

// ActionLabel returns the display text of the action payload. It is empty
// when there is no action or the payload is neither a string nor a
// fmt.Stringer.
func (r Record) ActionLabel() string {
	switch a := r.Action.(type) {
	case string:
		return a
	case fmt.Stringer:
		return a.String()
	default:
		return ""
	}
}

// Closing reports whether the record is on its way out.
func (r Record) Closing() bool {
	return r.State == StateClosing
}

// TransitionKind names a lifecycle step.
type TransitionKind string

const (
	TransitionEnqueued TransitionKind = "enqueued"
	TransitionClosing  TransitionKind = "closing"
	TransitionRemoved  TransitionKind = "removed"
)

// Reason records what triggered a closing transition.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonExplicit Reason = "explicit"
	ReasonTimeout  Reason = "timeout"
	ReasonEvicted  Reason = "evicted"
)

// Transition is delivered to subscribers after every lifecycle step.
type Transition struct {
	Kind   TransitionKind
	Reason Reason
	Record Record
	At     time.Time
}
