package logging

import (
	"context"
	"testing"
)

func TestWithScenario(t *testing.T) {
	ctx := WithScenario(context.Background(), "form-submit")

	if got := GetScenario(ctx); got != "form-submit" {
		t.Errorf("GetScenario() = %q, want %q", got, "form-submit")
	}
}

func TestWithToastID(t *testing.T) {
	ctx := WithToastID(context.Background(), "k3j9x0a1b")

	if got := GetToastID(ctx); got != "k3j9x0a1b" {
		t.Errorf("GetToastID() = %q, want %q", got, "k3j9x0a1b")
	}
}

func TestGetters_NotPresent(t *testing.T) {
	ctx := context.Background()

	if got := GetScenario(ctx); got != "" {
		t.Errorf("GetScenario() = %q, want empty string", got)
	}
	if got := GetToastID(ctx); got != "" {
		t.Errorf("GetToastID() = %q, want empty string", got)
	}
}
