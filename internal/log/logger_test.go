package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentTracker, Output: &buf})

	logger.Info("state persisted", FieldSlot, "comida-tracker")
	out := buf.String()
	if !strings.Contains(out, "component=tracker") || !strings.Contains(out, "slot=comida-tracker") {
		t.Fatalf("unexpected log line: %s", out)
	}

	buf.Reset()
	logger.WithComponent(ComponentStorage).Warn("slow write")
	if !strings.Contains(buf.String(), "component=storage") {
		t.Fatalf("component not switched: %s", buf.String())
	}
	if strings.Count(buf.String(), "component=") != 1 {
		t.Fatalf("component duplicated: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseLevel(%q) err=%v, wantErr=%v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFieldsBuilder(t *testing.T) {
	f := NewFields().
		WithOperation(OpToggleGym).
		WithCell(3, 2, -1).
		WithError(errors.New("boom"))

	if f[FieldOperation] != OpToggleGym || f[FieldWeek] != 3 || f[FieldDay] != 2 {
		t.Fatalf("unexpected fields: %v", f)
	}
	if _, ok := f[FieldMeal]; ok {
		t.Fatalf("negative meal index should be omitted: %v", f)
	}
	if f[FieldError] != "boom" {
		t.Fatalf("error field = %v", f[FieldError])
	}
	if got := len(f.ToSlice()); got != 2*len(f) {
		t.Fatalf("ToSlice length = %d", got)
	}
}

func TestContextCarriesLogger(t *testing.T) {
	logger := Discard().WithComponent(ComponentHTTP).With(FieldRequestID, "req_1")

	ctx := NewContext(context.Background(), logger)
	if got := FromContext(ctx); got != logger || got.Component() != ComponentHTTP {
		t.Fatalf("logger not propagated: %+v", got)
	}

	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}
