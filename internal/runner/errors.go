package runner

import (
	"fmt"
	"time"
)

// SpawnError is returned when the executable could not be started.
type SpawnError struct {
	Executable string
	Err        error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn Aseprite process %s: %v", e.Executable, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// TimeoutError is returned when the process outlived its budget and was
// killed. No output is attached.
type TimeoutError struct {
	RunID string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Aseprite process timed out after %d seconds. "+
		"The operation may be too complex or Aseprite may be unresponsive.",
		int(e.After.Round(time.Second)/time.Second))
}
