package selector

import (
	"strings"
	"unicode"
)

// Outcome is the state machine's position: browsing, or one of the two
// terminal states.
type Outcome int

const (
	Browsing Outcome = iota
	Selected
	Cancelled
)

// State holds the selector's full state. The item list is immutable; the
// filtered view is recomputed whenever the search term changes and always
// preserves the original relative order.
type State struct {
	items    []string
	search   string
	filtered []string
	cursor   int
	outcome  Outcome
	choice   string
}

// NewState creates a selector over items, initially unfiltered.
func NewState(items []string) *State {
	s := &State{items: items}
	s.refilter()
	return s
}

// Apply advances the state machine by one keystroke and reports whether a
// terminal state was reached. It performs no I/O.
func (s *State) Apply(k Key) bool {
	if s.outcome != Browsing {
		return true
	}

	switch k.Kind {
	case KeyRune:
		if unicode.IsPrint(k.Rune) {
			s.search += string(k.Rune)
			s.refilter()
		}
	case KeyBackspace:
		if s.search != "" {
			s.search = s.search[:len(s.search)-len(lastRune(s.search))]
			s.refilter()
		}
	case KeyUp:
		if len(s.filtered) > 0 && s.cursor > 0 {
			s.cursor--
		}
	case KeyDown:
		if len(s.filtered) > 0 && s.cursor < len(s.filtered)-1 {
			s.cursor++
		}
	case KeyEnter:
		if len(s.filtered) > 0 && s.cursor >= 0 && s.cursor < len(s.filtered) {
			s.outcome = Selected
			s.choice = s.filtered[s.cursor]
		}
	case KeyEscape, KeyInterrupt:
		s.outcome = Cancelled
	}
	return s.outcome != Browsing
}

// refilter recomputes the filtered view (case-insensitive substring match)
// and clamps the cursor into the new bounds.
func (s *State) refilter() {
	needle := strings.ToLower(s.search)
	s.filtered = s.filtered[:0]
	for _, item := range s.items {
		if needle == "" || strings.Contains(strings.ToLower(item), needle) {
			s.filtered = append(s.filtered, item)
		}
	}
	if s.cursor >= len(s.filtered) {
		s.cursor = len(s.filtered) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// Window returns the half-open row range [start, end) of the filtered view
// to draw: at most max rows, keeping up to lookBehind rows above the cursor
// when possible, always containing the cursor.
func (s *State) Window(max, lookBehind int) (start, end int) {
	n := len(s.filtered)
	if n <= max {
		return 0, n
	}
	start = s.cursor - lookBehind
	if start < 0 {
		start = 0
	}
	if start > n-max {
		start = n - max
	}
	return start, start + max
}

// Search returns the current search term.
func (s *State) Search() string { return s.search }

// Filtered returns the current filtered view.
func (s *State) Filtered() []string { return s.filtered }

// Cursor returns the cursor index into the filtered view.
func (s *State) Cursor() int { return s.cursor }

// Outcome returns the machine's current position.
func (s *State) Outcome() Outcome { return s.outcome }

// Choice returns the selected item; valid only when Outcome is Selected.
func (s *State) Choice() string { return s.choice }

// Total returns the size of the underlying item list.
func (s *State) Total() int { return len(s.items) }

func lastRune(s string) string {
	runes := []rune(s)
	return string(runes[len(runes)-1])
}
