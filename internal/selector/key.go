// Package selector implements the interactive terminal picker: a searchable,
// scrollable list driven one keystroke at a time. The state machine is pure —
// the transition function depends only on (state, key) — so it is tested by
// injecting key sequences; the raw-mode terminal reading lives behind the
// KeyReader interface.
package selector

// KeyKind discriminates the decoded keystrokes the state machine understands.
type KeyKind int

const (
	// KeyNone is an unrecognized sequence; the state machine ignores it.
	KeyNone KeyKind = iota
	KeyRune
	KeyUp
	KeyDown
	KeyEnter
	KeyBackspace
	KeyEscape
	KeyInterrupt
)

// Key is one decoded keystroke. Rune is set only for KeyRune.
type Key struct {
	Kind KeyKind
	Rune rune
}

// KeyReader yields decoded keystrokes from some input source.
type KeyReader interface {
	ReadKey() (Key, error)
}
