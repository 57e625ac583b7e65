// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style

	TextPrimaryStyle    lipgloss.Style
	TextForegroundStyle lipgloss.Style
	TextMutedStyle      lipgloss.Style
	TextSuccessStyle    lipgloss.Style
	TextWarningStyle    lipgloss.Style
	TextErrorStyle      lipgloss.Style
	TextSurfaceStyle    lipgloss.Style

	// TUI shared styles.
	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style

	HeaderStyle      lipgloss.Style
	HelpStyle        lipgloss.Style
	HelpKeyStyle     lipgloss.Style
	HelpSectionStyle lipgloss.Style

	FormTitleStyle        lipgloss.Style
	FormTitleBlurredStyle lipgloss.Style
	FormFieldStyle        lipgloss.Style
	FormFieldFocusedStyle lipgloss.Style
	FormErrorStyle        lipgloss.Style
	FormHelpStyle         lipgloss.Style

	SelectFieldItemSelectedStyle lipgloss.Style

	// Toast styles, one per variant plus the closing state.
	ToastInfoStyle    lipgloss.Style
	ToastSuccessStyle lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
	ToastClosingStyle lipgloss.Style
	ToastTitleStyle   lipgloss.Style
	ToastActionStyle  lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TextPrimaryStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	TextForegroundStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	TextSurfaceStyle = lipgloss.NewStyle().Foreground(ColorSurface)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		MarginBottom(1)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	HelpSectionStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	FormTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	FormTitleBlurredStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	FormFieldStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	FormFieldFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorPrimary).
		PaddingLeft(1)
	FormErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	FormHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	SelectFieldItemSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	toastBase := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Foreground(ColorForeground).
		Padding(0, 1)
	ToastInfoStyle = toastBase.BorderForeground(ColorPrimary)
	ToastSuccessStyle = toastBase.BorderForeground(ColorSuccess)
	ToastWarningStyle = toastBase.BorderForeground(ColorWarning)
	ToastErrorStyle = toastBase.BorderForeground(ColorError)
	ToastClosingStyle = toastBase.
		BorderForeground(ColorSurface).
		Foreground(ColorMuted).
		Faint(true)
	ToastTitleStyle = lipgloss.NewStyle().Bold(true)
	ToastActionStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
