package tui

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeSignal_Notify_coalesces(t *testing.T) {
	s := NewChangeSignal()
	defer s.Close()

	s.Notify()
	s.Notify()
	s.Notify()

	msg := s.Wait()()
	assert.Equal(t, toastsChangedMsg{}, msg)

	// A second wait must block until the next Notify.
	got := make(chan tea.Msg, 1)
	go func() { got <- s.Wait()() }()

	select {
	case <-got:
		t.Fatal("coalesced notifications produced a second wakeup")
	case <-time.After(50 * time.Millisecond):
	}

	s.Notify()
	select {
	case msg := <-got:
		assert.Equal(t, toastsChangedMsg{}, msg)
	case <-time.After(time.Second):
		t.Fatal("Wait did not observe Notify")
	}
}

func TestChangeSignal_Close_releasesWait(t *testing.T) {
	s := NewChangeSignal()

	got := make(chan tea.Msg, 1)
	go func() { got <- s.Wait()() }()

	s.Close()
	s.Close()

	select {
	case msg := <-got:
		require.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("Close did not release Wait")
	}
}
