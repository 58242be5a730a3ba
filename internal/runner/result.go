package runner

import (
	"strings"
	"time"
)

// Result holds the output of a completed Aseprite process.
type Result struct {
	RunID    string        // unique identifier for this run
	ExitCode int           // process exit code, -1 if killed by a signal
	Stdout   string        // captured stdout, invalid UTF-8 replaced
	Stderr   string        // captured stderr, invalid UTF-8 replaced
	Success  bool          // true iff ExitCode is 0
	Duration time.Duration // spawn to exit

	Truncated bool // true if a stream exceeded the capture cap
}

// Messages used by Text when the process produced nothing useful.
const (
	SuccessMessage      = "Operation completed successfully."
	UnknownErrorMessage = "Unknown error occurred"
)

// Text renders the result as a single display string. It does not
// interpret stdout.
func (r *Result) Text() string {
	stdout := strings.TrimSpace(r.Stdout)
	if r.Success {
		if stdout == "" {
			return SuccessMessage
		}
		return stdout
	}

	msg := strings.TrimSpace(r.Stderr)
	if msg == "" {
		msg = stdout
	}
	if msg == "" {
		msg = UnknownErrorMessage
	}
	return "Error: " + msg
}
