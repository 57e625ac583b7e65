package tuitest

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[1mbold\x1b[0m   \nnext  \n\n"
	assert.Equal(t, "bold\nnext", StripANSI(in))
}

func TestKeyStrings(t *testing.T) {
	assert.Equal(t, "D", KeyPress('D').String())
	assert.Equal(t, "ctrl+s", KeyCtrl('s').String())
	assert.Equal(t, "esc", KeyEsc().String())
	assert.Equal(t, "tab", KeyTab().String())
	assert.Equal(t, "enter", KeyEnter().String())
}

func TestType(t *testing.T) {
	msgs := Type("hi")
	require.Len(t, msgs, 2)

	first, ok := msgs[0].(tea.KeyPressMsg)
	require.True(t, ok)
	assert.Equal(t, "h", first.String())
}
