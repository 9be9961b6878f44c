package postgresdb

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// MultiQueryTracer fans query trace callbacks out to several tracers.
type MultiQueryTracer struct {
	Tracers []pgx.QueryTracer
}

func NewMultiQueryTracer(tracers ...pgx.QueryTracer) *MultiQueryTracer {
	return &MultiQueryTracer{Tracers: tracers}
}

func (m *MultiQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, t := range m.Tracers {
		ctx = t.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (m *MultiQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, t := range m.Tracers {
		t.TraceQueryEnd(ctx, conn, data)
	}
}

// LoggingQueryTracer logs each statement with its duration at debug level,
// and failures at error level.
type LoggingQueryTracer struct {
	logger *slog.Logger
}

func NewLoggingQueryTracer(logger *slog.Logger) *LoggingQueryTracer {
	return &LoggingQueryTracer{logger: logger}
}

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

var (
	collapseSpaces   = regexp.MustCompile(`\s+`)
	spaceAroundOpen  = regexp.MustCompile(`\s*\(\s*`)
	spaceAroundClose = regexp.MustCompile(`\s*\)`)
)

// compactSQL folds a multi-line statement onto one line.
func compactSQL(sql string) string {
	out := collapseSpaces.ReplaceAllString(sql, " ")
	out = spaceAroundOpen.ReplaceAllString(out, "(")
	out = spaceAroundClose.ReplaceAllString(out, ")")
	return strings.TrimSpace(out)
}

func (l *LoggingQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: compactSQL(data.SQL), at: time.Now()})
}

func (l *LoggingQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	start, _ := ctx.Value(queryStartKey{}).(queryStart)

	attrs := []any{
		slog.String("sql", start.sql),
		slog.String("command_tag", data.CommandTag.String()),
	}
	if !start.at.IsZero() {
		attrs = append(attrs, slog.Duration("took", time.Since(start.at)))
	}

	if data.Err != nil {
		l.logger.ErrorContext(ctx, "query failed", append(attrs, slog.String("error", data.Err.Error()))...)
		return
	}

	l.logger.DebugContext(ctx, "query", attrs...)
}
