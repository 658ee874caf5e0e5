// Package diagnostics provides the tagged stdlib logger ERIN's CLI and
// scenario driver write progress and warnings through: plain log.Printf
// calls prefixed by an [INFO]/[WARNING]/[ERROR] level tag, with a
// Logger type scoped to a tag (a component, scenario, or occurrence
// label) instead of a bare package-level function per call site.
package diagnostics

import (
	"fmt"
	"log"
	"os"
)

// Logger writes level-tagged lines to an underlying *log.Logger, all
// of them additionally prefixed with tag (e.g. a scenario or component
// name) so a multi-occurrence run's interleaved output stays readable.
type Logger struct {
	tag string
	out *log.Logger
}

// New returns a Logger writing to stderr with tag prefixing every line.
func New(tag string) *Logger {
	return &Logger{tag: tag, out: log.New(os.Stderr, "", log.LstdFlags)}
}

// WithTag returns a Logger sharing this one's output but scoped to a
// more specific tag, e.g. New("erin").WithTag("occurrence-7").
func (l *Logger) WithTag(tag string) *Logger {
	return &Logger{tag: tag, out: l.out}
}

// Info logs a normal progress message.
func (l *Logger) Info(format string, args ...any) {
	l.logf("INFO", format, args...)
}

// Warning logs a recoverable problem (e.g. a validation issue that
// does not abort the run).
func (l *Logger) Warning(format string, args ...any) {
	l.logf("WARNING", format, args...)
}

// Error logs a failure.
func (l *Logger) Error(format string, args ...any) {
	l.logf("ERROR", format, args...)
}

func (l *Logger) logf(level, format string, args ...any) {
	l.out.Printf("[%s] %s: %s", level, l.tag, fmt.Sprintf(format, args...))
}
