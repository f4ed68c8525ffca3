// Package log provides context-aware logging for repops.
//
// Diagnostics go to stderr through a [Logger] carried in the context.
// Debug events are routed through a zap console core that is only
// enabled in verbose mode.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	errorPrefix = color.New(color.FgRed, color.Bold).Sprint("error:")
	warnPrefix  = color.New(color.FgYellow).Sprint("warning:")
)

// Logger provides output and verbose command logging.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
	debug   *zap.Logger
}

// New creates a new logger. Quiet suppresses everything except errors
// and takes precedence over verbose.
func New(out io.Writer, verbose, quiet bool) *Logger {
	l := &Logger{out: out, verbose: verbose, quiet: quiet, debug: zap.NewNop()}
	if verbose && !quiet {
		enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey: "msg",
			LineEnding: zapcore.DefaultLineEnding,
		})
		l.debug = zap.New(zapcore.NewCore(enc, zapcore.AddSync(out), zapcore.DebugLevel))
	}
	return l
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return New(io.Discard, false, false)
}

// Printf writes formatted output.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Errorf writes an error line. Errors are printed even when quiet.
func (l *Logger) Errorf(format string, args ...any) {
	fmt.Fprintf(l.out, "%s %s\n", errorPrefix, fmt.Sprintf(format, args...))
}

// Warnf writes a warning line.
func (l *Logger) Warnf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "%s %s\n", warnPrefix, fmt.Sprintf(format, args...))
}

// Command logs an external command execution and returns a func that
// prints it together with its duration once the command finished.
// Only prints when verbose mode is enabled.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	if !l.IsVerbose() {
		return func(time.Duration) {}
	}
	line := "$ " + strings.TrimSpace(name+" "+strings.Join(args, " "))
	if dir != "" {
		line = "[" + dir + "] " + line
	}
	return func(d time.Duration) {
		fmt.Fprintf(l.out, "%s (%s)\n", line, d.Round(time.Millisecond))
	}
}

// Debug logs msg followed by key=value pairs. A trailing key without a
// value is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if !l.IsVerbose() {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	l.debug.Debug(b.String())
}

// IsVerbose returns true if verbose mode is enabled and not silenced by quiet.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}
