package form

import (
	"regexp"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestFieldValidation_ValidateText(t *testing.T) {
	tests := []struct {
		name  string
		v     FieldValidation
		value string
		want  string
	}{
		{"no rules, empty", FieldValidation{}, "", ""},
		{"no rules, non-empty", FieldValidation{}, "hello", ""},
		{"required, empty", FieldValidation{Required: true}, "", "required"},
		{"required, whitespace", FieldValidation{Required: true}, "  \n", "required"},
		{"required, non-empty", FieldValidation{Required: true}, "hello", ""},
		{"min_length, too short", FieldValidation{MinLength: 5}, "hi", "minimum 5 characters"},
		{"min_length, empty skips", FieldValidation{MinLength: 5}, "", ""},
		{"max_length, too long", FieldValidation{MaxLength: 3}, "hello", "maximum 3 characters"},
		{"max_length, counts runes", FieldValidation{MaxLength: 3}, "héé", ""},
		{"pattern, matches", FieldValidation{Pattern: regexp.MustCompile(`^\d+$`)}, "123", ""},
		{"pattern, no match", FieldValidation{Pattern: regexp.MustCompile(`^\d+$`)}, "abc", "must match pattern: ^\\d+$"},
		{"duration, valid", FieldValidation{Duration: true}, "1m30s", ""},
		{"duration, zero", FieldValidation{Duration: true}, "0s", "must be greater than zero"},
		{"duration, empty skips", FieldValidation{Duration: true}, "", ""},
		{"duration, garbage", FieldValidation{Duration: true}, "soon", "must be a duration like 3s or 1m30s"},
		{"duration, bare number", FieldValidation{Duration: true}, "5000", "must be a duration like 3s or 1m30s"},
		{"duration, negative", FieldValidation{Duration: true}, "-2s", "must be greater than zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.ValidateText(tt.value))
		})
	}
}

func TestDialog_ValidationBlocksSubmit(t *testing.T) {
	t.Run("required field blocks submit", func(t *testing.T) {
		f := NewTextAreaField("Description", "", "", FieldValidation{Required: true})
		d := NewDialog("Test", []Field{f}, []string{"description"})

		d.Update(key(tea.KeyTab))
		assert.False(t, d.Submitted())
		assert.True(t, f.Focused())
		assert.Contains(t, d.View(), "required")
	})

	t.Run("valid fields allow submit", func(t *testing.T) {
		f := NewTextField("Duration", "", "2s", FieldValidation{Duration: true})
		d := NewDialog("Test", []Field{f}, []string{"duration"})

		d.Update(key(tea.KeyTab))
		assert.True(t, d.Submitted())
	})

	t.Run("focuses first invalid field", func(t *testing.T) {
		title := NewTextField("Title", "", "ok")
		body := NewTextField("Description", "", "", FieldValidation{Required: true})
		dur := NewTextField("Duration", "", "later", FieldValidation{Duration: true})
		d := NewDialog("Test", []Field{title, body, dur}, []string{"title", "description", "duration"})

		d.Update(key(tea.KeyTab))
		d.Update(key(tea.KeyTab))
		assert.True(t, dur.Focused())

		d.Update(key(tea.KeyTab))
		assert.False(t, d.Submitted())
		assert.True(t, body.Focused())
		assert.False(t, dur.Focused())

		view := d.View()
		assert.Contains(t, view, "required")
		assert.Contains(t, view, "must be a duration")
	})
}
