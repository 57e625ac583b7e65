// Package tui implements the Bubble Tea demo app for toastkit.
package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/toastkit/internal/core/eventbus"
	"github.com/colonyops/toastkit/internal/core/notify"
	"github.com/colonyops/toastkit/internal/core/styles"
	"github.com/colonyops/toastkit/internal/core/toast"
	"github.com/colonyops/toastkit/internal/tui/components"
	"github.com/colonyops/toastkit/internal/tui/components/form"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateComposing
	stateShowingHistory
	stateShowingHelp
)

// Options configures the TUI.
type Options struct {
	Manager *toast.Manager     // Toast lifecycle owner (required)
	Notify  *notify.Bus        // Posts toasts and records history (required)
	Bus     *eventbus.EventBus // Receives tui.started/tui.stopped (optional)
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	manager *toast.Manager
	notify  *notify.Bus
	bus     *eventbus.EventBus

	signal      *ChangeSignal
	unsubscribe func()

	keys      KeyMap
	state     UIState
	toastView *ToastView
	compose   *form.Dialog
	history   *HistoryModal
	help      *components.HelpDialog

	width    int
	height   int
	quitting bool
}

// New creates the model and subscribes it to manager transitions.
func New(opts Options) Model {
	signal := NewChangeSignal()
	unsubscribe := opts.Manager.Subscribe(func(toast.Transition) {
		signal.Notify()
	})

	return Model{
		manager:     opts.Manager,
		notify:      opts.Notify,
		bus:         opts.Bus,
		signal:      signal,
		unsubscribe: unsubscribe,
		keys:        DefaultKeyMap(),
		toastView:   NewToastView(),
	}
}

// Close detaches the model from the manager and releases the pending
// change listener. Call it after the program exits.
func (m Model) Close() {
	m.unsubscribe()
	m.signal.Close()
}

func (m Model) Init() tea.Cmd {
	if m.bus != nil {
		m.bus.PublishTuiStarted(eventbus.TUIStartedPayload{})
	}
	return m.signal.Wait()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case toastsChangedMsg:
		m.syncToasts()
		return m, m.signal.Wait()

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.state == stateComposing && m.compose != nil {
		var cmd tea.Cmd
		m.compose, cmd = m.compose.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey routes key presses by UI state.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case stateComposing:
		return m.handleComposeKey(msg)
	case stateShowingHistory:
		return m.handleHistoryKey(msg)
	case stateShowingHelp:
		return m.handleHelpKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m Model) handleNormalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Info):
		m.post(sampleRequest(toast.VariantInfo))
	case key.Matches(msg, m.keys.Success):
		m.post(sampleRequest(toast.VariantSuccess))
	case key.Matches(msg, m.keys.Warning):
		m.post(sampleRequest(toast.VariantWarning))
	case key.Matches(msg, m.keys.Error):
		m.post(sampleRequest(toast.VariantError))
	case key.Matches(msg, m.keys.Persistent):
		m.post(persistentSample())
	case key.Matches(msg, m.keys.Dismiss):
		m.dismissNewest()
	case key.Matches(msg, m.keys.DismissAll):
		m.manager.DismissAll()
	case key.Matches(msg, m.keys.Compose):
		m.compose = newComposeDialog(m.manager.DefaultDuration())
		m.state = stateComposing
		return m, m.compose.Init()
	case key.Matches(msg, m.keys.History):
		m.history = NewHistoryModal(m.notify, m.viewWidth(), m.viewHeight())
		m.state = stateShowingHistory
	case key.Matches(msg, m.keys.Help):
		m.help = components.NewHelpDialog("Keys", m.keys.HelpSections())
		m.state = stateShowingHelp
	}

	m.syncToasts()
	return m, nil
}

func (m Model) handleComposeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.compose, cmd = m.compose.Update(msg)

	switch {
	case m.compose.Cancelled():
		m.clearCompose()
	case m.compose.Submitted():
		req, err := composeRequest(m.compose.FormValues())
		m.clearCompose()
		if err != nil {
			log.Warn().Err(err).Msg("compose dialog rejected input")
			m.notify.Errorf("invalid toast: %v", err)
		} else {
			m.post(req)
		}
		m.syncToasts()
		return m, nil
	}

	return m, cmd
}

func (m *Model) clearCompose() {
	m.compose = nil
	m.state = stateNormal
}

func (m Model) handleHistoryKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "h":
		m.history = nil
		m.state = stateNormal
	case "j", "down":
		m.history.ScrollDown()
	case "k", "up":
		m.history.ScrollUp()
	case "D":
		if err := m.history.Clear(); err != nil {
			m.notify.Errorf("failed to clear history: %v", err)
		}
		m.syncToasts()
	}
	return m, nil
}

func (m Model) handleHelpKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.help = nil
		m.state = stateNormal
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.bus != nil {
		m.bus.PublishTuiStopped(eventbus.TUIStoppedPayload{})
	}
	return m, tea.Quit
}

// post enqueues req through the notification bus so it lands in history.
func (m *Model) post(req toast.Request) {
	if id := m.notify.Publish(req); id == "" {
		log.Warn().Msg("toast manager closed, request dropped")
	}
}

// dismissNewest dismisses the most recently enqueued visible toast.
func (m *Model) dismissNewest() {
	records := m.manager.Snapshot()
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].State == toast.StateVisible {
			m.manager.Dismiss(records[i].ID)
			return
		}
	}
}

// syncToasts copies the manager snapshot into the view. Only the update
// loop calls this.
func (m *Model) syncToasts() {
	m.toastView.SetToasts(m.manager.Snapshot())
}

// Toasts returns the records currently rendered.
func (m Model) Toasts() []toast.Record {
	return m.toastView.toasts
}

func (m Model) viewWidth() int {
	if m.width == 0 {
		return 80
	}
	return m.width
}

func (m Model) viewHeight() int {
	if m.height == 0 {
		return 24
	}
	return m.height
}

func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	w, h := m.viewWidth(), m.viewHeight()
	mainView := m.renderMain(w, h)

	var content string
	switch {
	case m.state == stateComposing && m.compose != nil:
		content = components.Center(mainView, styles.ModalStyle.Render(m.compose.View()), w, h)
	case m.state == stateShowingHistory && m.history != nil:
		content = m.history.Overlay(mainView, w, h)
	case m.state == stateShowingHelp && m.help != nil:
		content = m.help.Overlay(mainView, w, h)
	default:
		content = mainView
	}

	// Toasts stay on top of every modal.
	if m.toastView.HasToasts() {
		content = m.toastView.Overlay(content, w, h)
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// renderMain draws the header, status counters and key hints on a
// full-screen canvas.
func (m Model) renderMain(w, h int) string {
	visible, closing := 0, 0
	for _, r := range m.toastView.toasts {
		if r.Closing() {
			closing++
		} else {
			visible++
		}
	}

	header := styles.HeaderStyle.Render(styles.IconBell + " toastkit")
	status := styles.TextMutedStyle.Render(fmt.Sprintf("visible %d  closing %d", visible, closing))

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints, styles.HelpKeyStyle.Render(b.Help().Key)+" "+styles.HelpStyle.Render(b.Help().Desc))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		status,
		"",
		strings.Join(hints, "  "),
	)

	return lipgloss.NewStyle().Width(w).Height(h).Padding(1, 2).Render(body)
}
