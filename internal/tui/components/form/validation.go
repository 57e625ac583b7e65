package form

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// FieldValidation holds runtime validation rules for a form field.
type FieldValidation struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	// Duration requires a value that parses with time.ParseDuration and is
	// greater than zero.
	Duration bool
}

// ValidateText checks a text value against the validation rules. Leading
// and trailing whitespace is ignored.
func (v FieldValidation) ValidateText(value string) string {
	value = strings.TrimSpace(value)

	if v.Required && value == "" {
		return "required"
	}
	if value == "" {
		return ""
	}

	n := utf8.RuneCountInString(value)
	if v.MinLength > 0 && n < v.MinLength {
		return fmt.Sprintf("minimum %d characters", v.MinLength)
	}
	if v.MaxLength > 0 && n > v.MaxLength {
		return fmt.Sprintf("maximum %d characters", v.MaxLength)
	}
	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return fmt.Sprintf("must match pattern: %s", v.Pattern.String())
	}
	if v.Duration {
		d, err := time.ParseDuration(value)
		if err != nil {
			return "must be a duration like 3s or 1m30s"
		}
		if d <= 0 {
			return "must be greater than zero"
		}
	}
	return ""
}

func firstValidation(vs []FieldValidation) FieldValidation {
	if len(vs) == 0 {
		return FieldValidation{}
	}
	return vs[0]
}
