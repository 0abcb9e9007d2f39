package observability

import (
	"context"
	"log/slog"

	"github.com/baerwang/openapi-rs/httpvalidator"
)

// EventName is the message of every validation record.
const EventName = "openapi_validation"

// LogSink writes each validation outcome as one slog record: INFO on
// success, WARN on failure.
type LogSink struct {
	logger *slog.Logger
}

var _ httpvalidator.Sink = (*LogSink)(nil)

// NewLogSink creates a sink writing to logger, or slog.Default() when nil.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Record implements httpvalidator.Sink.
func (s *LogSink) Record(o httpvalidator.Outcome) {
	level := slog.LevelInfo
	attrs := make([]slog.Attr, 0, 6)
	attrs = append(attrs,
		slog.String("method", o.Method),
		slog.String("path", o.Path),
		slog.Bool("success", o.Success),
		slog.Int64("duration_ms", o.Duration.Milliseconds()),
	)
	if !o.Success {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", o.Error))
	}
	attrs = append(attrs, slog.Int64("timestamp", o.Timestamp.UnixMilli()))

	s.logger.LogAttrs(context.Background(), level, EventName, attrs...)
}
