// Package progress animates a spinner on stderr while a blocking call runs.
// The spinner is purely cosmetic; the scope guarantees its line is cleared on
// every exit path, including panics unwinding through Run.
package progress

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Run executes fn under a spinner labelled msg. Without a TTY on stderr the
// call runs silently.
func Run(msg string, fn func() error) error {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	s.Start()
	defer s.Stop()

	return fn()
}
