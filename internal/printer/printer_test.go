package printer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/toastkit/internal/core/styles"
	"github.com/colonyops/toastkit/pkg/tuitest"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("saved %d", 3)
	p.Infof("info")
	p.Warnf("careful")
	p.Errorf("broken: %s", "disk")
	p.Printf("  plain")

	lines := strings.Split(tuitest.StripANSI(buf.String()), "\n")
	assert.Equal(t, []string{
		styles.IconNotifySuccess + " saved 3",
		styles.IconNotifyInfo + " info",
		styles.IconNotifyWarning + " careful",
		styles.IconNotifyError + " broken: disk",
		"  plain",
	}, lines)
}

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Section("Summary")

	assert.Equal(t, "\nSummary", tuitest.StripANSI(buf.String()))
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	ctx := WithPrinter(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))

	assert.NotNil(t, Ctx(context.Background()), "falls back to stdout")
}
