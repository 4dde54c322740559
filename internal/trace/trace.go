// Package trace provides the tracing hook injected into pipeline
// components at construction. The default implementation discards
// everything, so tests and quiet runs pay nothing.
package trace

import (
	"io"
	"log"
)

// Tracer receives diagnostic events from pipeline components.
type Tracer interface {
	Tracef(format string, args ...any)
}

type nopTracer struct{}

func (nopTracer) Tracef(string, ...any) {}

// Nop returns a Tracer that discards all events.
func Nop() Tracer { return nopTracer{} }

type logTracer struct {
	logger *log.Logger
}

func (t *logTracer) Tracef(format string, args ...any) {
	t.logger.Printf(format, args...)
}

// NewLogTracer returns a Tracer that writes one line per event to w.
func NewLogTracer(w io.Writer) Tracer {
	return &logTracer{logger: log.New(w, "trace: ", log.Ltime)}
}
