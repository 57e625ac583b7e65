package form

import (
	"io"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/toastkit/internal/core/styles"
)

// SelectFormField is a single-select form field wrapping list.Model.
type SelectFormField struct {
	list    list.Model
	options []string
	label   string
	focused bool
}

// selectDelegate renders one option per line with a cursor marker.
type selectDelegate struct{}

func (d selectDelegate) Height() int                             { return 1 }
func (d selectDelegate) Spacing() int                            { return 0 }
func (d selectDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d selectDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(selectItem)
	if !ok {
		return
	}

	style := styles.TextForegroundStyle
	cursor := "  "
	if index == m.Index() {
		style = styles.SelectFieldItemSelectedStyle
		cursor = "> "
	}

	_, _ = io.WriteString(w, cursor)
	_, _ = io.WriteString(w, style.Render(item.label))
}

// NewSelectFormField creates a single-select field from static options.
// defaultVal pre-selects the matching option if found.
func NewSelectFormField(label string, options []string, defaultVal string) *SelectFormField {
	items := make([]list.Item, len(options))
	selected := 0
	for i, opt := range options {
		items[i] = selectItem{label: opt, index: i}
		if opt == defaultVal {
			selected = i
		}
	}

	l := list.New(items, selectDelegate{}, 40, max(len(options), 1))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.Styles.TitleBar = lipgloss.NewStyle()

	if len(options) > 0 {
		l.Select(selected)
	}

	return &SelectFormField{
		list:    l,
		options: options,
		label:   label,
	}
}

func (f *SelectFormField) Update(msg tea.Msg) (Field, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	var cmd tea.Cmd
	f.list, cmd = f.list.Update(msg)
	return f, cmd
}

func (f *SelectFormField) View() string {
	return renderField(f.label, f.list.View(), "", f.focused)
}

func (f *SelectFormField) Focus() tea.Cmd {
	f.focused = true
	return nil
}

func (f *SelectFormField) Blur() {
	f.focused = false
}

func (f *SelectFormField) Focused() bool { return f.focused }
func (f *SelectFormField) Label() string { return f.label }

func (f *SelectFormField) Value() string {
	item, ok := f.list.SelectedItem().(selectItem)
	if !ok || item.index < 0 || item.index >= len(f.options) {
		return ""
	}
	return f.options[item.index]
}
