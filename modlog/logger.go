// Package modlog is a minimal leveled logger in the teacher's style: a thin
// wrapper around an io.Writer, not a structured-logging framework.
package modlog

import (
	"fmt"
	"io"
)

// Logger wraps an io.Writer with a handful of convenience loggers. Verbose
// output is gated behind the Verbose field, mirroring the -v flag threaded
// through golang/dep's CLI.
type Logger struct {
	io.Writer
	Verbose bool
}

// New returns a Logger that writes to w.
func New(w io.Writer) *Logger {
	return &Logger{Writer: w}
}

// Logln logs a line unconditionally.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted string unconditionally.
func (l *Logger) Logf(format string, args ...interface{}) {
	fmt.Fprintf(l, format, args...)
}

// Verbosef logs a formatted line only when Verbose is set. The core uses
// this to explain provider-election and commit decisions without
// cluttering default output.
func (l *Logger) Verbosef(format string, args ...interface{}) {
	if !l.Verbose {
		return
	}
	fmt.Fprintf(l, "modresolve: "+format+"\n", args...)
}
