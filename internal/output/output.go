// Package output writes the primary results of a repops command: tables,
// field lists and JSON documents. Diagnostics go to stderr through the log
// package instead, so stdout stays machine-readable with --json.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"

	"github.com/repops/repops/internal/ui/static"
)

type ctxKey struct{}

// Stdout returns os.Stdout wrapped so ANSI styles are downsampled to what
// the terminal supports and stripped when output is piped.
func Stdout() io.Writer {
	return colorprofile.NewWriter(os.Stdout, os.Environ())
}

// Printer writes command results to a single writer.
type Printer struct {
	w io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter attaches a Printer writing to w to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, New(w))
}

// FromContext returns the context's Printer, or one writing to os.Stdout.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// JSON writes v as indented JSON followed by a newline.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes an aligned table. Nothing is written when rows is empty.
func (p *Printer) Table(headers []string, rows [][]string) {
	fmt.Fprint(p.w, static.RenderTable(headers, rows))
}

// Fields writes aligned "Label: value" lines.
func (p *Printer) Fields(fields ...static.Field) {
	fmt.Fprint(p.w, static.RenderFields(fields...))
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}
