package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/jrazmi/taskwire/sdk/logger"
)

type ctxKey struct{}

func TestTraceIDAttached(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(
		logger.WithOutput(&buf),
		logger.WithTraceID(func(ctx context.Context) string {
			v, _ := ctx.Value(ctxKey{}).(string)
			return v
		}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "abc123")
	log.InfoContext(ctx, "hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if rec["trace_id"] != "abc123" {
		t.Errorf("trace_id = %v, want abc123", rec["trace_id"])
	}
	if rec["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", rec["msg"])
	}
}

func TestErrorEventFires(t *testing.T) {
	var got []logger.Record
	log := logger.NewDefault(
		logger.WithOutput(&bytes.Buffer{}),
		logger.WithEvents(logger.Events{
			Error: func(ctx context.Context, r logger.Record) {
				got = append(got, r)
			},
		}),
	)

	ctx := context.Background()
	log.InfoContext(ctx, "ignored")
	log.ErrorContext(ctx, "boom", "code", 7)

	if len(got) != 1 {
		t.Fatalf("events fired = %d, want 1", len(got))
	}
	if got[0].Message != "boom" {
		t.Errorf("message = %q, want boom", got[0].Message)
	}
	if got[0].Attributes["code"] != int64(7) {
		t.Errorf("code attr = %v, want 7", got[0].Attributes["code"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf), logger.WithLevel("warn"))

	log.InfoContext(context.Background(), "quiet")
	if buf.Len() != 0 {
		t.Fatalf("info record written at warn level: %s", buf.String())
	}

	log.WarnContext(context.Background(), "loud")
	if buf.Len() == 0 {
		t.Fatal("warn record not written")
	}
}
