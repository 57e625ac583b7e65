// Package form provides focusable form fields and a dialog container for
// building small input forms inside a Bubble Tea program.
package form

import tea "charm.land/bubbletea/v2"

// Field is the interface implemented by all form field types.
type Field interface {
	Update(msg tea.Msg) (Field, tea.Cmd)
	View() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	Value() string
	Label() string
}

// validator is implemented by fields that carry validation rules. Validate
// stores the error message on the field for rendering and returns it.
type validator interface {
	Validate() string
}
