package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/toastkit/internal/core/notify"
	"github.com/colonyops/toastkit/internal/core/styles"
	"github.com/colonyops/toastkit/internal/core/toast"
	"github.com/colonyops/toastkit/internal/tui/components"
)

const (
	historyModalWidthPct  = 65
	historyModalMinWidth  = 60
	historyModalMaxHeight = 30
	historyModalMargin    = 4
	historyModalChrome    = 6 // title + divider + help + spacing
)

// HistorySource lists and clears posted notifications. *notify.Bus
// satisfies it.
type HistorySource interface {
	History() ([]notify.Notification, error)
	Clear() error
}

// HistoryModal displays a scrollable history of posted toasts.
type HistoryModal struct {
	source   HistorySource
	viewport viewport.Model
}

// NewHistoryModal creates a modal sized for a width x height terminal.
func NewHistoryModal(source HistorySource, width, height int) *HistoryModal {
	modalWidth := calcHistoryModalWidth(width)
	contentHeight := max(min(height-historyModalMargin, historyModalMaxHeight)-historyModalChrome, 1)

	vp := viewport.New(
		viewport.WithWidth(modalWidth-4), // account for modal padding
		viewport.WithHeight(contentHeight),
	)

	m := &HistoryModal{
		source:   source,
		viewport: vp,
	}

	m.refreshContent()
	return m
}

func (m *HistoryModal) refreshContent() {
	if m.source == nil {
		m.viewport.SetContent(styles.TextMutedStyle.Render("No notifications"))
		return
	}

	history, err := m.source.History()
	if err != nil {
		log.Error().Err(err).Msg("failed to load notification history")
		m.viewport.SetContent(styles.TextErrorStyle.Render(fmt.Sprintf("failed to load history: %v", err)))
		return
	}

	if len(history) == 0 {
		m.viewport.SetContent(styles.TextMutedStyle.Render("No notifications"))
		return
	}

	lines := make([]string, len(history))
	for i, n := range history {
		lines[i] = formatHistoryEntry(n)
	}

	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func formatHistoryEntry(n notify.Notification) string {
	ts := styles.TextMutedStyle.Render(n.CreatedAt.Format("15:04:05"))
	icon, _ := variantDecor(n.Variant)

	var msgStyle lipgloss.Style
	switch n.Variant {
	case toast.VariantError:
		msgStyle = styles.TextErrorStyle
	case toast.VariantWarning:
		msgStyle = styles.TextWarningStyle
	case toast.VariantSuccess:
		msgStyle = styles.TextSuccessStyle
	default:
		msgStyle = styles.TextPrimaryStyle
	}

	msg := n.Message
	if n.Title != "" {
		msg = n.Title + ": " + msg
	}

	return fmt.Sprintf("%s %s %s %s", ts, icon, msgStyle.Render(msg), styles.TextMutedStyle.Render(n.ToastID))
}

// ScrollUp scrolls the viewport up.
func (m *HistoryModal) ScrollUp() {
	m.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (m *HistoryModal) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// Refresh reloads the history from the source.
func (m *HistoryModal) Refresh() {
	m.refreshContent()
}

// Clear deletes all history and refreshes the view.
func (m *HistoryModal) Clear() error {
	if m.source == nil {
		return nil
	}
	if err := m.source.Clear(); err != nil {
		return err
	}
	m.refreshContent()
	return nil
}

// Overlay renders the modal centered over the background.
func (m *HistoryModal) Overlay(background string, width, height int) string {
	modalWidth := calcHistoryModalWidth(width)
	modalHeight := min(height-historyModalMargin, historyModalMaxHeight)

	scrollInfo := ""
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		scrollInfo = styles.TextMutedStyle.Render(
			fmt.Sprintf(" (%.0f%%)", m.viewport.ScrollPercent()*100),
		)
	}

	divider := styles.TextSurfaceStyle.Render(strings.Repeat("─", max(modalWidth-6, 1)))
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(styles.IconHistory+" History"+scrollInfo),
		divider,
		m.viewport.View(),
		styles.ModalHelpStyle.Render("[j/k] scroll  [D] clear all  [esc] close"),
	)

	modal := styles.ModalStyle.
		Width(modalWidth).
		Height(modalHeight).
		Render(content)

	return components.Center(background, modal, width, height)
}

func calcHistoryModalWidth(termWidth int) int {
	available := max(termWidth-historyModalMargin, 1)
	target := termWidth * historyModalWidthPct / 100
	return min(max(target, historyModalMinWidth), available)
}
