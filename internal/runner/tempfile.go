package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// allocatePath returns a script path unique within this process. The
// counter guarantees uniqueness when two calls observe the same clock
// reading.
func (r *Runner) allocatePath() string {
	n := r.counter.Add(1) - 1
	name := fmt.Sprintf("mcp_%d_%d.lua", time.Now().UnixNano(), n)
	return filepath.Join(r.TempDir, name)
}

func writeScript(path, script string) error {
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		return fmt.Errorf("writing temporary Lua script: %w", err)
	}
	return nil
}

// removeScript deletes a generated script. Failures are logged and
// counted, never returned: the invocation result takes precedence.
func (r *Runner) removeScript(path string) {
	if err := os.Remove(path); err != nil {
		log.Warn().Err(err).Str("script", path).Msg("failed to clean up temp script")
		if r.Observer != nil {
			r.Observer.ObserveCleanupFailure()
		}
	}
}
