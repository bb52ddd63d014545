// Package render formats completion output for a terminal: a metadata line,
// width-aware word wrapping for prose, and verbatim emphasised lines inside
// fenced code blocks so command text survives copy-paste.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// fallbackWidth is assumed when the terminal width cannot be detected.
const fallbackWidth = 80

// maxWrapWidth caps prose wrapping on very wide terminals.
const maxWrapWidth = 120

// Meta carries the fields of the metadata line. Nil pointers are omitted
// from the output rather than rendered as zero.
type Meta struct {
	Model      string
	TokenCount *int
	Elapsed    *float64 // seconds
	Now        time.Time
}

type styles struct {
	meta  lipgloss.Style
	rule  lipgloss.Style
	text  lipgloss.Style
	code  lipgloss.Style
	label lipgloss.Style
	hint  lipgloss.Style
}

// Renderer turns completion content into display lines for a fixed width.
type Renderer struct {
	width  int
	styles styles
}

// New creates a renderer for the given terminal width. Pass colored=false
// for plain output (non-TTY stdout or tests).
func New(width int, colored bool) *Renderer {
	if width <= 0 {
		width = fallbackWidth
	}
	s := styles{
		meta:  lipgloss.NewStyle(),
		rule:  lipgloss.NewStyle(),
		text:  lipgloss.NewStyle(),
		code:  lipgloss.NewStyle(),
		label: lipgloss.NewStyle(),
		hint:  lipgloss.NewStyle(),
	}
	if colored {
		s.meta = lipgloss.NewStyle().Faint(true)
		s.rule = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
		s.text = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		s.code = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		s.label = lipgloss.NewStyle().Bold(true)
		s.hint = lipgloss.NewStyle().Faint(true)
	}
	return &Renderer{width: width, styles: s}
}

// NewAuto creates a renderer sized to the attached terminal, with color
// enabled only when stdout is a TTY.
func NewAuto() *Renderer {
	return New(TerminalWidth(), isatty.IsTerminal(os.Stdout.Fd()))
}

// TerminalWidth detects the terminal width, falling back to 80.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallbackWidth
}

// WrapWidth returns the prose wrapping width for a terminal of width w:
// min(w-4, 120).
func WrapWidth(w int) int {
	if w <= 0 {
		w = fallbackWidth
	}
	return min(w-4, maxWrapWidth)
}

// Render produces the display lines for a completion: metadata line, rule,
// body, rule. It is a pure function of its inputs.
func (r *Renderer) Render(content string, meta Meta) []string {
	rule := r.styles.rule.Render(strings.Repeat("─", min(r.width, 80)))

	lines := []string{"", r.metaLine(meta), rule}
	lines = append(lines, r.body(content)...)
	lines = append(lines, rule, "")
	return lines
}

// Print writes display lines to w.
func (r *Renderer) Print(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

// metaLine builds "[model] N tokens | E.Es | HH:MM:SS", omitting any field
// whose value is unavailable.
func (r *Renderer) metaLine(meta Meta) string {
	model := meta.Model
	if model == "" {
		model = "Unknown"
	}
	now := meta.Now
	if now.IsZero() {
		now = time.Now()
	}

	parts := []string{}
	if meta.TokenCount != nil && *meta.TokenCount > 0 {
		parts = append(parts, fmt.Sprintf("%s tokens", groupDigits(*meta.TokenCount)))
	}
	if meta.Elapsed != nil {
		parts = append(parts, fmt.Sprintf("%.1fs", *meta.Elapsed))
	}
	parts = append(parts, now.Format("15:04:05"))

	return r.styles.meta.Render(fmt.Sprintf("[%s] %s", model, strings.Join(parts, " | ")))
}

// body walks the content line by line, toggling code mode on fenced markers.
// Marker lines are never printed: entering a block emits a one-line label,
// leaving it emits a blank separator.
func (r *Renderer) body(content string) []string {
	var out []string
	wrapWidth := WrapWidth(r.width)
	inCode := false

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			if inCode {
				out = append(out,
					r.styles.label.Render("Command:")+" "+r.styles.hint.Render("(triple-click a line to select it for copying)"),
					"")
			} else {
				out = append(out, "")
			}
			continue
		}

		if inCode {
			clean := strings.TrimSpace(line)
			if clean == "" {
				out = append(out, "")
			} else {
				out = append(out, r.styles.code.Render(clean))
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			// Blank prose lines are suppressed to keep output compact.
			continue
		}
		for _, wrapped := range wrap(line, wrapWidth) {
			out = append(out, r.styles.text.Render(wrapped))
		}
	}
	return out
}

// wrap greedily word-wraps line to at most width columns. Words longer than
// the width are emitted on their own line rather than split.
func wrap(line string, width int) []string {
	if len(line) <= width {
		return []string{line}
	}

	var out []string
	var current strings.Builder
	for _, word := range strings.Fields(line) {
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case current.Len()+1+len(word) <= width:
			current.WriteString(" ")
			current.WriteString(word)
		default:
			out = append(out, current.String())
			current.Reset()
			current.WriteString(word)
		}
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

// groupDigits formats n with thousands separators.
func groupDigits(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
