package render

import (
	"strings"
	"testing"
	"time"
)

func plain(width int) *Renderer {
	return New(width, false)
}

func TestWrapWidth_Boundary(t *testing.T) {
	if got := WrapWidth(0); got != 76 {
		t.Errorf("WrapWidth(0) = %d, want 76 (80-derived default)", got)
	}
	if got := WrapWidth(80); got != 76 {
		t.Errorf("WrapWidth(80) = %d, want 76", got)
	}
	if got := WrapWidth(300); got != 120 {
		t.Errorf("WrapWidth(300) = %d, want cap of 120", got)
	}
	if got := WrapWidth(40); got != 36 {
		t.Errorf("WrapWidth(40) = %d, want 36", got)
	}
}

func TestWrap_Greedy(t *testing.T) {
	lines := wrap("alpha beta gamma delta", 11)
	want := []string{"alpha beta", "gamma delta"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrap_ShortLineUntouched(t *testing.T) {
	lines := wrap("short", 76)
	if len(lines) != 1 || lines[0] != "short" {
		t.Errorf("lines = %q", lines)
	}
}

func TestRender_MetaLine(t *testing.T) {
	tokens := 1234
	elapsed := 2.3
	now := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)

	lines := plain(80).Render("hi", Meta{
		Model:      "Azion Copilot",
		TokenCount: &tokens,
		Elapsed:    &elapsed,
		Now:        now,
	})
	meta := lines[1]
	want := "[Azion Copilot] 1,234 tokens | 2.3s | 15:04:05"
	if meta != want {
		t.Errorf("meta line = %q, want %q", meta, want)
	}
}

func TestRender_MetaLineOmitsAbsentFields(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	lines := plain(80).Render("hi", Meta{Model: "m", Now: now})
	if lines[1] != "[m] 09:00:00" {
		t.Errorf("meta line = %q", lines[1])
	}
}

func TestRender_CodeBlock(t *testing.T) {
	content := strings.Join([]string{
		"Run this:",
		"```bash",
		"  ls -la  ",
		"",
		"echo done",
		"```",
		"All set.",
	}, "\n")

	lines := plain(80).Render(content, Meta{Model: "m", Now: time.Now()})
	joined := strings.Join(lines, "\n")

	if strings.Contains(joined, "```") {
		t.Error("fence markers must never be printed")
	}
	if !strings.Contains(joined, "Command:") {
		t.Error("entering a code block must emit the label line")
	}
	found := false
	for _, line := range lines {
		if line == "ls -la" {
			found = true
		}
	}
	if !found {
		t.Errorf("code line must be emitted trimmed and verbatim:\n%s", joined)
	}
	if !strings.Contains(joined, "echo done") {
		t.Error("second code line missing")
	}
	if !strings.Contains(joined, "All set.") {
		t.Error("prose after the block missing")
	}
}

func TestRender_BlankProseLinesSuppressed(t *testing.T) {
	content := "first\n\n\nsecond"
	lines := plain(80).Render(content, Meta{Model: "m", Now: time.Now()})

	// lines: "", meta, rule, body..., rule, ""
	body := lines[3 : len(lines)-2]
	if len(body) != 2 {
		t.Fatalf("body = %q, blank lines must be suppressed", body)
	}
	if body[0] != "first" || body[1] != "second" {
		t.Errorf("body = %q", body)
	}
}

func TestRender_LongProseWrapped(t *testing.T) {
	long := strings.Repeat("word ", 40) // 200 chars
	lines := plain(80).Render(strings.TrimSpace(long), Meta{Model: "m", Now: time.Now()})
	body := lines[3 : len(lines)-2]
	for _, line := range body {
		if len(line) > 76 {
			t.Errorf("line exceeds wrap width: %q (%d cols)", line, len(line))
		}
	}
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := groupDigits(tt.in); got != tt.want {
			t.Errorf("groupDigits(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
