package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/toastkit/internal/core/toast"
	"github.com/colonyops/toastkit/internal/tui/components/form"
)

const (
	fieldVariant     = "variant"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldDuration    = "duration"
	fieldAction      = "action"
	fieldPersistent  = "persistent"

	persistentNo  = "no"
	persistentYes = "yes"
)

// newComposeDialog builds the form used to enqueue a custom toast. The
// description is required and the duration, when given, must be positive.
func newComposeDialog(defaultDuration time.Duration) *form.Dialog {
	variants := make([]string, 0, len(toast.Variants()))
	for _, v := range toast.Variants() {
		variants = append(variants, string(v))
	}

	fields := []form.Field{
		form.NewSelectFormField("Variant", variants, string(toast.VariantInfo)),
		form.NewTextField("Title", "optional", "", form.FieldValidation{MaxLength: 40}),
		form.NewTextAreaField("Description", "what happened?", "", form.FieldValidation{Required: true}),
		form.NewTextField("Duration", defaultDuration.String(), "", form.FieldValidation{Duration: true}),
		form.NewTextField("Action", "optional label, e.g. Undo", "", form.FieldValidation{MaxLength: 20}),
		form.NewSelectFormField("Persistent", []string{persistentNo, persistentYes}, persistentNo),
	}

	return form.NewDialog("New toast", fields, []string{
		fieldVariant,
		fieldTitle,
		fieldDescription,
		fieldDuration,
		fieldAction,
		fieldPersistent,
	})
}

// composeRequest converts submitted form values into a toast request. An
// empty duration leaves the manager default in place.
func composeRequest(values map[string]string) (toast.Request, error) {
	req := toast.Request{
		Variant:     toast.Variant(values[fieldVariant]),
		Title:       strings.TrimSpace(values[fieldTitle]),
		Description: strings.TrimSpace(values[fieldDescription]),
		Persistent:  values[fieldPersistent] == persistentYes,
	}

	if action := strings.TrimSpace(values[fieldAction]); action != "" {
		req.Action = action
	}

	if req.Description == "" {
		return toast.Request{}, fmt.Errorf("description is required")
	}

	if raw := strings.TrimSpace(values[fieldDuration]); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return toast.Request{}, fmt.Errorf("parse duration: %w", err)
		}
		if d <= 0 {
			return toast.Request{}, errors.New("duration must be greater than zero, leave it empty for the default")
		}
		req.Duration = d
	}

	return req, nil
}
