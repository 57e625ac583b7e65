// Package printer writes styled status lines for CLI commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/toastkit/internal/core/styles"
)

type ctxKey struct{}

// Printer writes human-readable command output.
type Printer struct {
	w io.Writer
}

// New creates a printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter attaches p to ctx.
func WithPrinter(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer attached to ctx, or one writing to stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) line(prefix, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if prefix != "" {
		msg = prefix + " " + msg
	}
	_, _ = fmt.Fprintln(p.w, msg)
}

// Printf prints an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	p.line("", format, args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.TextSuccessStyle.Render(styles.IconNotifySuccess), format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.TextPrimaryStyle.Render(styles.IconNotifyInfo), format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.TextWarningStyle.Render(styles.IconNotifyWarning), format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.TextErrorStyle.Render(styles.IconNotifyError), format, args...)
}

// Section prints a bold heading preceded by a blank line.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.w)
	_, _ = fmt.Fprintln(p.w, styles.CommandHeaderStyle.Render(title))
}
