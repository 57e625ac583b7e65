package form

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/toastkit/internal/core/styles"
)

// Dialog is a form container that manages focus cycling, submission, and
// cancellation across a set of form fields. Submission validates every
// field; the first invalid field takes focus and the dialog stays open.
type Dialog struct {
	fields       []Field
	variables    []string // parallel slice: variable name for each field
	focusedField int
	submitted    bool
	cancelled    bool
	Title        string
}

// NewDialog creates a form dialog with the given fields and variable names.
// The first field is focused automatically.
func NewDialog(title string, fields []Field, variables []string) *Dialog {
	d := &Dialog{
		fields:    fields,
		variables: variables,
		Title:     title,
	}
	if len(fields) > 0 {
		fields[0].Focus()
	}
	return d
}

// Init returns the focus command of the focused field, such as a cursor blink.
func (d *Dialog) Init() tea.Cmd {
	if len(d.fields) == 0 {
		return nil
	}
	return d.fields[d.focusedField].Focus()
}

// Update handles key input for the dialog, managing focus cycling and submit/cancel.
func (d *Dialog) Update(msg tea.Msg) (*Dialog, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return d.updateFocusedField(msg)
	}

	switch keyMsg.String() {
	case "tab":
		return d.advanceFocus()
	case "shift+tab":
		return d.retreatFocus()
	case "ctrl+s":
		return d.submit()
	case "enter":
		if d.isTextAreaFocused() {
			return d.updateFocusedField(msg)
		}
		return d.advanceFocus()
	case "esc":
		d.cancelled = true
		return d, nil
	}

	return d.updateFocusedField(msg)
}

// View renders the title and all fields vertically with help text.
func (d *Dialog) View() string {
	parts := []string{styles.ModalTitleStyle.Render(d.Title), ""}
	for i, field := range d.fields {
		if i > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, field.View())
	}

	help := styles.TextMutedStyle.Render("tab: next  shift+tab: prev  ctrl+s: submit  esc: cancel")
	parts = append(parts, "", help)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// FormValues returns a map of variable names to field values.
func (d *Dialog) FormValues() map[string]string {
	result := make(map[string]string, len(d.fields))
	for i, field := range d.fields {
		result[d.variables[i]] = field.Value()
	}
	return result
}

// Submitted returns whether the form was submitted.
func (d *Dialog) Submitted() bool { return d.submitted }

// Cancelled returns whether the form was cancelled.
func (d *Dialog) Cancelled() bool { return d.cancelled }

func (d *Dialog) advanceFocus() (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	next := d.focusedField + 1
	if next >= len(d.fields) {
		return d.submit()
	}

	return d, d.focus(next)
}

func (d *Dialog) retreatFocus() (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 || d.focusedField == 0 {
		return d, nil
	}

	return d, d.focus(d.focusedField - 1)
}

// submit validates every field and marks the dialog submitted when all pass.
func (d *Dialog) submit() (*Dialog, tea.Cmd) {
	invalid := -1
	for i, field := range d.fields {
		v, ok := field.(validator)
		if !ok {
			continue
		}
		if msg := v.Validate(); msg != "" && invalid < 0 {
			invalid = i
		}
	}

	if invalid >= 0 {
		return d, d.focus(invalid)
	}

	d.submitted = true
	return d, nil
}

func (d *Dialog) focus(i int) tea.Cmd {
	if i == d.focusedField && d.fields[i].Focused() {
		return nil
	}
	d.fields[d.focusedField].Blur()
	d.focusedField = i
	return d.fields[i].Focus()
}

func (d *Dialog) updateFocusedField(msg tea.Msg) (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	var cmd tea.Cmd
	d.fields[d.focusedField], cmd = d.fields[d.focusedField].Update(msg)
	return d, cmd
}

func (d *Dialog) isTextAreaFocused() bool {
	if len(d.fields) == 0 {
		return false
	}
	_, ok := d.fields[d.focusedField].(*TextAreaField)
	return ok
}
