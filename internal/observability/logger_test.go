package observability

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New("webui", 3, &buf)
	if l == nil {
		t.Fatal("New returned nil")
	}
	if l.Name() != "webui" {
		t.Errorf("Name = %q", l.Name())
	}
}

func TestNew_NilWriter(t *testing.T) {
	l := New("webui", 0, nil)
	if l == nil {
		t.Fatal("New with nil writer returned nil")
	}
	// Should not panic on log call.
	l.Error("test message")
}

func TestLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelError},
		{1, slog.LevelWarn},
		{2, slog.LevelInfo},
		{3, slog.LevelDebug},
		{7, slog.LevelDebug},
		{-1, slog.LevelError},
	}
	for _, tt := range tests {
		if got := Level(tt.verbosity); got != tt.want {
			t.Errorf("Level(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	l := New("transport", 2, &buf)
	l.Info("request sent", "status", 200)

	output := buf.String()
	if !strings.Contains(output, "request sent") {
		t.Errorf("output missing message: %s", output)
	}
	if !strings.Contains(output, "component=transport") {
		t.Errorf("output missing component: %s", output)
	}
	if !strings.Contains(output, "status=200") {
		t.Errorf("output missing attribute: %s", output)
	}
}

func TestLogger_VerbositySuppressesLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New("cli", 1, &buf)

	l.Info("should be hidden")
	l.Debug("also hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output at verbosity 1, got %s", buf.String())
	}

	l.Warn("visible warning")
	if !strings.Contains(buf.String(), "visible warning") {
		t.Error("warning not emitted")
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New("transport", 2, &buf).With("request_id", "abc-123")
	l.Info("done")

	output := buf.String()
	if !strings.Contains(output, "request_id=abc-123") {
		t.Errorf("output missing persistent field: %s", output)
	}
}

func TestNamed_Idempotent(t *testing.T) {
	a := Named("idempotence-check", 2)
	b := Named("idempotence-check", 0)
	if a != b {
		t.Error("Named returned a different handle for the same name")
	}

	c := Named("other-component", 2)
	if c == a {
		t.Error("distinct names must get distinct handles")
	}
}
