package spinner

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Start shows a terminal spinner with the given message and returns a stop
// function. When stderr is not a terminal (cron, CI, piped output) the
// spinner is skipped and the returned function is a no-op, so log output
// stays clean.
func Start(message string) func() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()

	return s.Stop
}
