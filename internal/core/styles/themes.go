package styles

import (
	"image/color"
	"maps"
	"slices"

	lipgloss "charm.land/lipgloss/v2"
)

// Palette holds the semantic colors toasts and modals are drawn with. Each
// toast variant borrows its border color from Primary, Success, Warning or
// Error; closing toasts fade to Surface and Muted.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in palettes selectable with tui.theme.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
	// For light terminal backgrounds.
	"paper": {
		Primary:    lipgloss.Color("#1d4ed8"),
		Secondary:  lipgloss.Color("#0e7490"),
		Foreground: lipgloss.Color("#1f2937"),
		Muted:      lipgloss.Color("#9ca3af"),
		Background: lipgloss.Color("#fafaf9"),
		Surface:    lipgloss.Color("#e5e7eb"),
		Success:    lipgloss.Color("#15803d"),
		Warning:    lipgloss.Color("#b45309"),
		Error:      lipgloss.Color("#b91c1c"),
	},
}

// ThemeNames returns the sorted names accepted by tui.theme.
func ThemeNames() []string {
	return slices.Sorted(maps.Keys(themes))
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}
