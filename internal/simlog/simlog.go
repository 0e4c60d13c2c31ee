// Package simlog wraps the standard library logger with the three
// severities spec.md §7 defines for the simulation core: fatal setup
// errors, gameplay warnings, and transient tick errors. It follows the
// teacher project's preference for the plain "log" package over a
// structured-logging façade.
package simlog

import (
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
)

// Sink is the logging boundary the core hands its diagnostics to; the
// collaborator (spec.md §6) owns the transport. Sink is intentionally a
// thin interface so tests can substitute a recording fake.
type Sink interface {
	Error(format string, args ...any)
	Warn(format string, args ...any)
	Info(format string, args ...any)
}

// StdSink is the default Sink, built on the standard library *log.Logger.
type StdSink struct {
	l *log.Logger
}

// NewStdSink builds a StdSink writing to os.Stderr with the given prefix.
func NewStdSink(prefix string) *StdSink {
	return &StdSink{l: log.New(os.Stderr, prefix, log.LstdFlags|log.Lmicroseconds)}
}

// NewStdSinkFromLogger wraps an existing *log.Logger, as the teacher's
// components accept a shared *log.Logger from their caller.
func NewStdSinkFromLogger(l *log.Logger) *StdSink {
	if l == nil {
		l = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &StdSink{l: l}
}

// Error logs a fatal setup error: a failed add_*/load_* operation.
func (s *StdSink) Error(format string, args ...any) {
	s.l.Printf("ERROR "+format, args...)
}

// Warn logs a gameplay warning where a documented default was applied.
func (s *StdSink) Warn(format string, args ...any) {
	s.l.Printf("WARN "+format, args...)
}

// Info logs routine progress information.
func (s *StdSink) Info(format string, args ...any) {
	s.l.Printf("INFO "+format, args...)
}

// Nop is a Sink that discards everything; useful in tests that don't care
// about diagnostics.
type Nop struct{}

func (Nop) Error(string, ...any) {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Info(string, ...any)  {}

// Recording is a Sink that keeps every message it receives, for test
// assertions on warning/error content.
type Recording struct {
	Errors []string
	Warns  []string
	Infos  []string
}

func (r *Recording) Error(format string, args ...any) { r.Errors = append(r.Errors, sprintf(format, args...)) }
func (r *Recording) Warn(format string, args ...any)  { r.Warns = append(r.Warns, sprintf(format, args...)) }
func (r *Recording) Info(format string, args ...any)  { r.Infos = append(r.Infos, sprintf(format, args...)) }

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// HumanCount formats a large integer quantity for warning/info log lines
// (workforce sizes, hired counts, treasury totals), matching the teacher
// pack's use of go-humanize for readable numeric logging.
func HumanCount(n int64) string {
	return humanize.Comma(n)
}

// HumanBytes formats a byte count for telemetry log lines (e.g. JSONL
// trail rotation sizes).
func HumanBytes(n uint64) string {
	return humanize.Bytes(n)
}
