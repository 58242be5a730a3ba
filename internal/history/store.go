// Package history retains the full output of recent Aseprite runs so
// callers can drill into a result after the tool call returned.
package history

import (
	"errors"
	"time"

	"github.com/deixis/aseprite-mcp/internal/runner"
)

// ErrNotFound is returned by Load for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Store persists and retrieves run records.
type Store interface {
	Save(rec *Record) error
	Load(runID string) (*Record, error)
}

// Record is the retained form of a runner.Result.
type Record struct {
	ID         string    `json:"id"`
	Tool       string    `json:"tool"`
	File       string    `json:"file,omitempty"` // sprite opened before the script, if any
	ExitCode   int       `json:"exit_code"`
	Success    bool      `json:"success"`
	Stdout     string    `json:"stdout"`
	Stderr     string    `json:"stderr"`
	DurationMS int64     `json:"duration_ms"`
	Truncated  bool      `json:"truncated,omitempty"`
	Finished   time.Time `json:"finished"`
}

// NewRecord converts a completed result.
func NewRecord(tool, file string, res *runner.Result) *Record {
	return &Record{
		ID:         res.RunID,
		Tool:       tool,
		File:       file,
		ExitCode:   res.ExitCode,
		Success:    res.Success,
		Stdout:     res.Stdout,
		Stderr:     res.Stderr,
		DurationMS: res.Duration.Milliseconds(),
		Truncated:  res.Truncated,
		Finished:   time.Now().UTC(),
	}
}
