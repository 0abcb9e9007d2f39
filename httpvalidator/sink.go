package httpvalidator

import "time"

// Outcome is the observability record for one Validate call.
type Outcome struct {
	Method string
	// Path is the matched template, or the concrete path when nothing matched.
	Path     string
	Success  bool
	Duration time.Duration
	// Error summarizes Errors as "location: message" joined by "; ".
	// It is empty on success.
	Error     string
	Errors    []ValidationError
	Timestamp time.Time
}

// Sink receives one Outcome per validated request. Record is called
// synchronously on the validating goroutine and should return quickly.
type Sink interface {
	Record(Outcome)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Outcome)

// Record calls f(o).
func (f SinkFunc) Record(o Outcome) { f(o) }

// NopSink discards every outcome.
type NopSink struct{}

// Record does nothing.
func (NopSink) Record(Outcome) {}
