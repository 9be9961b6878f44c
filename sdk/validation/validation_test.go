package validation_test

import (
	"testing"
	"time"

	"github.com/jrazmi/taskwire/sdk/validation"
)

func TestMissingFields(t *testing.T) {
	missing := validation.MissingFields(
		validation.Field{Name: "title", Value: "Write report"},
		validation.Field{Name: "description", Value: "   "},
		validation.Field{Name: "dueDate", Value: ""},
		validation.Field{Name: "priority", Value: "high"},
	)

	if len(missing) != 2 || missing[0] != "description" || missing[1] != "dueDate" {
		t.Fatalf("missing = %v, want [description dueDate]", missing)
	}

	if got := validation.MissingFields(validation.Field{Name: "a", Value: "x"}); got != nil {
		t.Fatalf("missing = %v, want nil", got)
	}
}

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-03-04T10:30:00Z", time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)},
		{"12/31/2025", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := validation.ParseFlexibleDate(tt.in)
		if err != nil {
			t.Errorf("ParseFlexibleDate(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseFlexibleDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := validation.ParseFlexibleDate("next tuesday"); err == nil {
		t.Error("expected error for unparseable date")
	}
}
