package form

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/toastkit/internal/core/styles"
)

// TextField is a single-line text input form field.
type TextField struct {
	input      textinput.Model
	label      string
	focused    bool
	validation FieldValidation
	err        string
}

// NewTextField creates a new single-line text input field. An optional
// FieldValidation is checked when the owning dialog submits.
func NewTextField(label, placeholder, defaultVal string, validation ...FieldValidation) *TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.SetWidth(40)

	if defaultVal != "" {
		ti.SetValue(defaultVal)
	}

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	inputStyles.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	inputStyles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.SetStyles(inputStyles)

	return &TextField{
		input:      ti,
		label:      label,
		validation: firstValidation(validation),
	}
}

func (f *TextField) Update(msg tea.Msg) (Field, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.err != "" {
		f.err = f.validation.ValidateText(f.input.Value())
	}
	return f, cmd
}

func (f *TextField) View() string {
	return renderField(f.label, f.input.View(), f.err, f.focused)
}

func (f *TextField) Focus() tea.Cmd {
	f.focused = true
	return f.input.Focus()
}

func (f *TextField) Blur() {
	f.focused = false
	f.input.Blur()
}

// Validate checks the current value and remembers the error for View.
func (f *TextField) Validate() string {
	f.err = f.validation.ValidateText(f.input.Value())
	return f.err
}

func (f *TextField) Focused() bool     { return f.focused }
func (f *TextField) Value() string     { return f.input.Value() }
func (f *TextField) Label() string     { return f.label }
func (f *TextField) SetValue(v string) { f.input.SetValue(v) }

// renderField lays out a label, the input and an optional error inside the
// focus-aware left border shared by all fields.
func renderField(label, input, errMsg string, focused bool) string {
	titleStyle := styles.TextMutedStyle
	if focused {
		titleStyle = styles.FormTitleStyle
	}

	parts := []string{titleStyle.Render(label), input}
	if errMsg != "" {
		parts = append(parts, styles.FormErrorStyle.Render(errMsg))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	borderStyle := styles.FormFieldStyle
	if focused {
		borderStyle = styles.FormFieldFocusedStyle
	}

	return borderStyle.Render(content)
}
