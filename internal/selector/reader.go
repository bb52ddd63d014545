package selector

import (
	"os"
	"unicode/utf8"
)

// rawKeyReader decodes keystrokes from a file descriptor already placed in
// raw mode. Arrow keys arrive as ESC [ A/B sequences; a bare ESC (no
// continuation bytes in the same read) means cancel.
type rawKeyReader struct {
	in  *os.File
	buf [8]byte
}

func newRawKeyReader(in *os.File) *rawKeyReader {
	return &rawKeyReader{in: in}
}

func (r *rawKeyReader) ReadKey() (Key, error) {
	n, err := r.in.Read(r.buf[:])
	if err != nil {
		return Key{}, err
	}
	if n == 0 {
		return Key{Kind: KeyNone}, nil
	}

	b := r.buf[:n]
	switch {
	case b[0] == 0x1b:
		if n == 1 {
			return Key{Kind: KeyEscape}, nil
		}
		if n >= 3 && b[1] == '[' {
			switch b[2] {
			case 'A':
				return Key{Kind: KeyUp}, nil
			case 'B':
				return Key{Kind: KeyDown}, nil
			}
		}
		// Unhandled escape sequence (left/right arrows, function keys).
		return Key{Kind: KeyNone}, nil
	case b[0] == '\r' || b[0] == '\n':
		return Key{Kind: KeyEnter}, nil
	case b[0] == 0x7f || b[0] == 0x08:
		return Key{Kind: KeyBackspace}, nil
	case b[0] == 0x03:
		return Key{Kind: KeyInterrupt}, nil
	case b[0] < 0x20:
		// Other control characters are ignored.
		return Key{Kind: KeyNone}, nil
	default:
		ch, size := utf8.DecodeRune(b)
		if ch == utf8.RuneError && size <= 1 {
			return Key{Kind: KeyNone}, nil
		}
		return Key{Kind: KeyRune, Rune: ch}, nil
	}
}

// keySequenceReader replays a fixed key sequence; used in tests.
type keySequenceReader struct {
	keys []Key
	pos  int
}

func (r *keySequenceReader) ReadKey() (Key, error) {
	if r.pos >= len(r.keys) {
		return Key{Kind: KeyInterrupt}, nil
	}
	k := r.keys[r.pos]
	r.pos++
	return k, nil
}

// Runes converts a string into the printable-key sequence that would type it.
func Runes(s string) []Key {
	keys := make([]Key, 0, len(s))
	for _, ch := range s {
		keys = append(keys, Key{Kind: KeyRune, Rune: ch})
	}
	return keys
}
