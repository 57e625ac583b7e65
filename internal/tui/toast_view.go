package tui

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/toastkit/internal/core/styles"
	"github.com/colonyops/toastkit/internal/core/toast"
)

const toastWidth = 44

// ToastView renders the toast stack and composites it as an overlay.
type ToastView struct {
	toasts []toast.Record
}

func NewToastView() *ToastView {
	return &ToastView{}
}

// SetToasts replaces the rendered records, oldest first.
func (v *ToastView) SetToasts(records []toast.Record) {
	v.toasts = records
}

// HasToasts reports whether anything would be drawn.
func (v *ToastView) HasToasts() bool {
	return len(v.toasts) > 0
}

// View renders the toast stack as a single string with toasts stacked
// vertically (oldest at top, newest at bottom).
func (v *ToastView) View() string {
	if len(v.toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(v.toasts))
	for _, t := range v.toasts {
		rendered = append(rendered, renderToast(t))
	}

	return strings.Join(rendered, "\n")
}

func renderToast(r toast.Record) string {
	icon, style := variantDecor(r.Variant)
	if r.Closing() {
		style = styles.ToastClosingStyle
	}

	var b strings.Builder
	b.WriteString(icon)
	b.WriteByte(' ')
	if r.Title != "" {
		b.WriteString(styles.ToastTitleStyle.Render(r.Title))
		b.WriteByte('\n')
	}
	b.WriteString(r.Description)
	if r.Persistent {
		b.WriteByte(' ')
		b.WriteString(styles.IconPin)
	}
	if label := r.ActionLabel(); label != "" {
		b.WriteByte('\n')
		b.WriteString(styles.ToastActionStyle.Render(styles.IconAction + " " + label))
	}

	return style.Width(toastWidth).Render(b.String())
}

func variantDecor(v toast.Variant) (string, lipgloss.Style) {
	switch v {
	case toast.VariantSuccess:
		return styles.IconNotifySuccess, styles.ToastSuccessStyle
	case toast.VariantWarning:
		return styles.IconNotifyWarning, styles.ToastWarningStyle
	case toast.VariantError:
		return styles.IconNotifyError, styles.ToastErrorStyle
	default:
		return styles.IconNotifyInfo, styles.ToastInfoStyle
	}
}

// Overlay composites the toast stack over background in the lower-right corner.
func (v *ToastView) Overlay(background string, width, height int) string {
	toastContent := v.View()
	if toastContent == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(toastContent)

	toastW := lipgloss.Width(toastContent)
	toastH := lipgloss.Height(toastContent)

	rightX := max(width-toastW-1, 0)
	bottomY := max(height-toastH, 0)

	toastLayer.X(rightX).Y(bottomY).Z(2)

	compositor := lipgloss.NewCompositor(bgLayer, toastLayer)
	return compositor.Render()
}
