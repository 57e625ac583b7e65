package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames_sorted_and_includes_default(t *testing.T) {
	names := ThemeNames()

	assert.Equal(t, []string{"gruvbox", "paper", "tokyo-night"}, names)
	assert.Contains(t, names, DefaultTheme)
}

func TestGetPalette(t *testing.T) {
	p, ok := GetPalette("gruvbox")
	require.True(t, ok)
	assert.NotNil(t, p.Primary)

	_, ok = GetPalette("does-not-exist")
	assert.False(t, ok)
}

func TestSetTheme_rebuilds_styles(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, _ := GetPalette("paper")
	SetTheme(p)

	assert.Equal(t, p, CurrentPalette)
	assert.Equal(t, p.Success, ColorSuccess)
	assert.Equal(t, p.Error, ToastErrorStyle.GetBorderTopForeground())
	assert.Equal(t, p.Muted, ToastClosingStyle.GetForeground())
}
