// Package components provides reusable TUI components.
package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/toastkit/internal/core/styles"
)

// HelpDialogSection groups related bindings under a title.
type HelpDialogSection struct {
	Title    string
	Bindings []key.Binding
}

// HelpDialog displays the available keyboard shortcuts.
type HelpDialog struct {
	title    string
	sections []HelpDialogSection
}

// NewHelpDialog creates a help dialog. Disabled bindings are skipped.
func NewHelpDialog(title string, sections []HelpDialogSection) *HelpDialog {
	return &HelpDialog{
		title:    title,
		sections: sections,
	}
}

// View renders the dialog box.
func (h *HelpDialog) View() string {
	keyWidth := 0
	for _, section := range h.sections {
		for _, b := range section.Bindings {
			keyWidth = max(keyWidth, lipgloss.Width(b.Help().Key))
		}
	}
	keyStyle := styles.HelpKeyStyle.Width(keyWidth + 2)

	var lines []string
	for i, section := range h.sections {
		if section.Title != "" {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, styles.HelpSectionStyle.Render(section.Title))
		}

		for _, b := range section.Bindings {
			if !b.Enabled() {
				continue
			}
			help := b.Help()
			lines = append(lines, keyStyle.Render(help.Key)+styles.TextForegroundStyle.Render(help.Desc))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(h.title),
		"",
		strings.Join(lines, "\n"),
		styles.ModalHelpStyle.Render("esc/? close"),
	)

	return styles.ModalStyle.Render(content)
}

// Overlay renders the help dialog centered over background.
func (h *HelpDialog) Overlay(background string, width, height int) string {
	return Center(background, h.View(), width, height)
}

// Center composites fg over the middle of background.
func Center(background, fg string, width, height int) string {
	bgLayer := lipgloss.NewLayer(background)
	fgLayer := lipgloss.NewLayer(fg)

	x := max((width-lipgloss.Width(fg))/2, 0)
	y := max((height-lipgloss.Height(fg))/2, 0)
	fgLayer.X(x).Y(y).Z(1)

	return lipgloss.NewCompositor(bgLayer, fgLayer).Render()
}
