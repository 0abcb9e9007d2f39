package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// TimestampLayout is the prefix written when timestamps are enabled.
const TimestampLayout = "2006-01-02 15:04:05.000"

// LineHandlerOptions configures a LineHandler.
type LineHandlerOptions struct {
	// Level is the minimum level written. Nil means slog.LevelInfo.
	Level slog.Leveler
	// ShowTimestamp prefixes each line with the record time in UTC.
	ShowTimestamp bool
}

// LineHandler is a slog.Handler that writes one line per record:
//
//	LEVEL message key=value key="string value"
//
// String values are quoted with Go escaping; numbers and booleans are not.
type LineHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   LineHandlerOptions
	prefix []byte // pre-rendered WithAttrs output
	group  string
}

// NewLineHandler creates a LineHandler writing to w.
func NewLineHandler(w io.Writer, opts *LineHandlerOptions) *LineHandler {
	h := &LineHandler{mu: &sync.Mutex{}, w: w}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (h *LineHandler) Handle(_ context.Context, record slog.Record) error {
	buf := make([]byte, 0, 256)
	if h.opts.ShowTimestamp && !record.Time.IsZero() {
		buf = record.Time.UTC().AppendFormat(buf, TimestampLayout)
		buf = append(buf, ' ')
	}
	buf = append(buf, record.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, record.Message...)
	buf = append(buf, h.prefix...)
	record.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, h.group, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.prefix = append([]byte(nil), h.prefix...)
	for _, a := range attrs {
		clone.prefix = appendAttr(clone.prefix, h.group, a)
	}
	return &clone
}

func (h *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = joinKey(h.group, name)
	return &clone
}

func joinKey(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

func appendAttr(buf []byte, group string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		g := group
		if a.Key != "" {
			g = joinKey(group, a.Key)
		}
		for _, member := range a.Value.Group() {
			buf = appendAttr(buf, g, member)
		}
		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, joinKey(group, a.Key)...)
	buf = append(buf, '=')
	return appendValue(buf, a.Value)
}

func appendValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		return strconv.AppendQuote(buf, v.String())
	case slog.KindInt64:
		return strconv.AppendInt(buf, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(buf, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(buf, v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		return strconv.AppendBool(buf, v.Bool())
	case slog.KindDuration:
		return strconv.AppendQuote(buf, v.Duration().String())
	case slog.KindTime:
		return strconv.AppendQuote(buf, v.Time().Format(time.RFC3339Nano))
	}
	if err, ok := v.Any().(error); ok {
		return strconv.AppendQuote(buf, err.Error())
	}
	return strconv.AppendQuote(buf, fmt.Sprint(v.Any()))
}
