package selector

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Viewport geometry: at most maxRows visible, keeping lookBehind rows above
// the cursor when possible.
const (
	maxRows    = 10
	lookBehind = 5
)

// Select runs the interactive picker over items and returns the chosen item.
// ok is false when the user cancelled. On a real terminal this is the
// raw-mode search-as-you-type list; without one it degrades to numbered
// line-buffered input.
func Select(items []string, title string, out io.Writer) (choice string, ok bool, err error) {
	fd := int(os.Stdin.Fd())
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return fallbackSelect(items, title, out)
	}

	oldState, rawErr := term.MakeRaw(fd)
	if rawErr != nil {
		return fallbackSelect(items, title, out)
	}
	defer term.Restore(fd, oldState)

	state := NewState(items)
	reader := newRawKeyReader(os.Stdin)
	v := &view{out: out, title: title}
	v.draw(state)

	for {
		key, err := reader.ReadKey()
		if err != nil {
			v.clear()
			return "", false, err
		}
		done := state.Apply(key)
		if done {
			v.clear()
			switch state.Outcome() {
			case Selected:
				return state.Choice(), true, nil
			default:
				return "", false, nil
			}
		}
		v.draw(state)
	}
}

// view redraws the selector block in place: a search line followed by the
// visible window of filtered items. Raw mode needs explicit \r\n line
// endings.
type view struct {
	out   io.Writer
	title string
	rows  int
}

func (v *view) draw(s *State) {
	var b strings.Builder
	if v.rows > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", v.rows)
	}

	lines := []string{fmt.Sprintf("  %s — type to filter, ↑↓ to move, Enter to select: %s▌  (%d/%d)",
		v.title, s.Search(), len(s.Filtered()), s.Total())}

	start, end := s.Window(maxRows, lookBehind)
	filtered := s.Filtered()
	for i := start; i < end; i++ {
		if i == s.Cursor() {
			lines = append(lines, fmt.Sprintf("  \x1b[1;36m→ %s\x1b[0m", filtered[i]))
		} else {
			lines = append(lines, "    "+filtered[i])
		}
	}
	if len(filtered) == 0 {
		lines = append(lines, "    \x1b[90m(no matches)\x1b[0m")
	}

	for _, line := range lines {
		b.WriteString("\r\x1b[K")
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	// Blank out rows left over from a taller previous frame.
	extra := v.rows - len(lines)
	for i := 0; i < max(extra, 0); i++ {
		b.WriteString("\r\x1b[K\r\n")
	}
	if extra > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", extra)
	}

	fmt.Fprint(v.out, b.String())
	v.rows = len(lines)
}

// clear erases the selector block on exit so the surrounding flow resumes on
// a clean line.
func (v *view) clear() {
	if v.rows == 0 {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\x1b[%dA", v.rows)
	for i := 0; i < v.rows; i++ {
		b.WriteString("\r\x1b[K\r\n")
	}
	fmt.Fprintf(&b, "\x1b[%dA", v.rows)
	fmt.Fprint(v.out, b.String())
	v.rows = 0
}

// fallbackSelect is the degraded mode for environments without a raw-mode
// terminal: a numbered list with line-buffered input.
func fallbackSelect(items []string, title string, out io.Writer) (string, bool, error) {
	fmt.Fprintf(out, "  %s:\n", title)
	for i, item := range items {
		fmt.Fprintf(out, "  %3d) %s\n", i+1, item)
	}

	rl, err := readline.New("  Choose a number (empty to cancel): ")
	if err != nil {
		return "", false, err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return "", false, nil
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(items) {
			return items[n-1], true, nil
		}
		fmt.Fprintf(out, "  Enter a number between 1 and %d.\n", len(items))
	}
}
