package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/colonyops/toastkit/internal/tui/components"
)

// KeyMap holds the bindings of the main screen.
type KeyMap struct {
	Info       key.Binding
	Success    key.Binding
	Warning    key.Binding
	Error      key.Binding
	Persistent key.Binding
	Compose    key.Binding
	Dismiss    key.Binding
	DismissAll key.Binding
	History    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Info:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info toast")),
		Success:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "success toast")),
		Warning:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "warning toast")),
		Error:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "error toast")),
		Persistent: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "persistent toast")),
		Compose:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "compose toast")),
		Dismiss:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss newest")),
		DismissAll: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "dismiss all")),
		History:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Info, k.Success, k.Warning, k.Error, k.Compose, k.Dismiss, k.History, k.Help, k.Quit}
}

// HelpSections groups every binding for the help dialog.
func (k KeyMap) HelpSections() []components.HelpDialogSection {
	return []components.HelpDialogSection{
		{Title: "Create", Bindings: []key.Binding{k.Info, k.Success, k.Warning, k.Error, k.Persistent, k.Compose}},
		{Title: "Dismiss", Bindings: []key.Binding{k.Dismiss, k.DismissAll}},
		{Title: "General", Bindings: []key.Binding{k.History, k.Help, k.Quit}},
	}
}
