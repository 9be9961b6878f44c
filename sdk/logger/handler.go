package logger

import (
	"context"
	"log/slog"
	"time"
)

// Record is the flattened view of a log record handed to Events.
type Record struct {
	Time       time.Time
	Message    string
	Level      slog.Level
	Attributes map[string]any
}

// EventFn is called with every record written at the matching level.
type EventFn func(ctx context.Context, r Record)

// Events lets the application react to records, e.g. raise an alert on errors.
type Events struct {
	Debug EventFn
	Info  EventFn
	Warn  EventFn
	Error EventFn
}

func (e Events) any() bool {
	return e.Debug != nil || e.Info != nil || e.Warn != nil || e.Error != nil
}

func (e Events) forLevel(level slog.Level) EventFn {
	switch {
	case level >= slog.LevelError:
		return e.Error
	case level >= slog.LevelWarn:
		return e.Warn
	case level >= slog.LevelInfo:
		return e.Info
	default:
		return e.Debug
	}
}

// logHandler decorates a slog.Handler with trace ids and events.
type logHandler struct {
	handler   slog.Handler
	traceIDFn TraceIDFn
	events    Events
}

func (h *logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logHandler{handler: h.handler.WithAttrs(attrs), traceIDFn: h.traceIDFn, events: h.events}
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	return &logHandler{handler: h.handler.WithGroup(name), traceIDFn: h.traceIDFn, events: h.events}
}

func (h *logHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.traceIDFn != nil && ctx != nil {
		r.AddAttrs(slog.String("trace_id", h.traceIDFn(ctx)))
	}

	if fn := h.events.forLevel(r.Level); fn != nil {
		rec := Record{
			Time:       r.Time,
			Message:    r.Message,
			Level:      r.Level,
			Attributes: make(map[string]any, r.NumAttrs()),
		}
		r.Attrs(func(a slog.Attr) bool {
			rec.Attributes[a.Key] = a.Value.Any()
			return true
		})
		fn(ctx, rec)
	}

	return h.handler.Handle(ctx, r)
}
