package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"
)

// toastsChangedMsg tells the update loop to re-read the manager snapshot.
type toastsChangedMsg struct{}

// ChangeSignal coalesces change notifications from arbitrary goroutines into
// a single pending wakeup for the update loop. Timer callbacks only ever
// touch the signal, never model state.
type ChangeSignal struct {
	signal    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewChangeSignal constructs an idle signal.
func NewChangeSignal() *ChangeSignal {
	return &ChangeSignal{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Notify records a pending change without blocking. Multiple calls before
// the next Wait collapse into one wakeup.
func (s *ChangeSignal) Notify() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Wait blocks until a change is pending. It returns nil once the signal is
// closed so the command goroutine does not outlive the program.
func (s *ChangeSignal) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.signal:
			return toastsChangedMsg{}
		case <-s.done:
			return nil
		}
	}
}

// Close releases any pending Wait. It is safe to call more than once.
func (s *ChangeSignal) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}
