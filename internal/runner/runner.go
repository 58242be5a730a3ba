// Package runner executes Aseprite in batch mode, either with a
// generated Lua script or with raw CLI arguments, under a fixed
// wall-clock timeout.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout is the wall-clock budget of a single Aseprite process.
const DefaultTimeout = 60 * time.Second

// DefaultMaxOutput caps each captured stream.
const DefaultMaxOutput = 32 << 20

// waitDelay bounds how long Wait keeps draining output pipes after the
// process has exited or been killed.
const waitDelay = 2 * time.Second

// Runner launches the Aseprite executable. It is created once at startup
// and shared by all tool calls; the only state it mutates is the temp
// script counter.
type Runner struct {
	Executable string        // resolved once by the locator, never re-checked
	TempDir    string        // holds generated scripts while they run
	Timeout    time.Duration // zero means DefaultTimeout
	MaxOutput  int           // bytes per stream, zero means DefaultMaxOutput
	Observer   Observer      // optional

	counter atomic.Uint64
}

// DefaultTempDir returns the process-wide script directory.
func DefaultTempDir() string {
	return filepath.Join(os.TempDir(), "aseprite_mcp")
}

// New returns a Runner for executable and creates tempDir.
func New(executable, tempDir string) (*Runner, error) {
	if executable == "" {
		return nil, fmt.Errorf("empty executable path")
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp directory for Aseprite scripts: %w", err)
	}
	return &Runner{Executable: executable, TempDir: tempDir}, nil
}

// RunScript runs a Lua script with no sprite opened beforehand.
func (r *Runner) RunScript(ctx context.Context, script string) (*Result, error) {
	return r.runScript(ctx, ModeScript, script, nil)
}

// RunScriptOnFile opens file and then runs the Lua script against it.
func (r *Runner) RunScriptOnFile(ctx context.Context, file, script string) (*Result, error) {
	return r.runScript(ctx, ModeScriptOnFile, script, []string{file})
}

// RunCLI runs Aseprite in batch mode with caller-supplied arguments.
func (r *Runner) RunCLI(ctx context.Context, args []string) (*Result, error) {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, "--batch")
	argv = append(argv, args...)
	log.Debug().Strs("args", args).Msg("running aseprite cli")
	return r.execute(ctx, ModeCLI, argv)
}

func (r *Runner) runScript(ctx context.Context, mode Mode, script string, before []string) (*Result, error) {
	path := r.allocatePath()
	if err := writeScript(path, script); err != nil {
		r.observe(mode, OutcomeWriteError, 0)
		return nil, err
	}
	defer r.removeScript(path)

	argv := make([]string, 0, len(before)+3)
	argv = append(argv, "--batch")
	argv = append(argv, before...)
	argv = append(argv, "--script", path)

	log.Debug().Str("script", path).Strs("open", before).Msg("running lua script")
	return r.execute(ctx, mode, argv)
}

// execute spawns the process and races its exit against the timeout.
// Output is drained into buffers while the process runs and is only
// read once the process has completed.
func (r *Runner) execute(ctx context.Context, mode Mode, argv []string) (*Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxOutput := r.MaxOutput
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}
	runID := uuid.New().String()
	start := time.Now()

	cmd := exec.Command(r.Executable, argv...)
	var stdout, stderr bytes.Buffer
	outW := &limitWriter{buf: &stdout, limit: maxOutput}
	errW := &limitWriter{buf: &stderr, limit: maxOutput}
	cmd.Stdout = outW
	cmd.Stderr = errW
	cmd.WaitDelay = waitDelay
	setProcAttrs(cmd)

	if err := ctx.Err(); err != nil {
		r.observe(mode, OutcomeCanceled, 0)
		return nil, canceledError(err)
	}
	if err := cmd.Start(); err != nil {
		r.observe(mode, OutcomeSpawnError, time.Since(start))
		return nil, &SpawnError{Executable: r.Executable, Err: err}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-timer.C:
		log.Warn().Str("run_id", runID).Dur("timeout", timeout).Msg("aseprite process timed out, killing")
		r.kill(cmd, done)
		r.observe(mode, OutcomeTimeout, time.Since(start))
		return nil, &TimeoutError{RunID: runID, After: timeout}
	case <-ctx.Done():
		log.Warn().Str("run_id", runID).Err(ctx.Err()).Msg("aseprite call canceled, killing")
		r.kill(cmd, done)
		r.observe(mode, OutcomeCanceled, time.Since(start))
		return nil, canceledError(ctx.Err())
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			r.observe(mode, OutcomeFailure, time.Since(start))
			return nil, fmt.Errorf("waiting for aseprite process: %w", waitErr)
		}
		exitCode = exitErr.ExitCode()
	}

	res := &Result{
		RunID:     runID,
		ExitCode:  exitCode,
		Stdout:    strings.ToValidUTF8(stdout.String(), "\uFFFD"),
		Stderr:    strings.ToValidUTF8(stderr.String(), "\uFFFD"),
		Success:   exitCode == 0,
		Duration:  time.Since(start),
		Truncated: outW.dropped || errW.dropped,
	}

	outcome := OutcomeSuccess
	if !res.Success {
		outcome = OutcomeFailure
	}
	r.observe(mode, outcome, res.Duration)

	log.Debug().
		Str("run_id", runID).
		Int("exit", exitCode).
		Int("stdout_len", len(res.Stdout)).
		Int("stderr_len", len(res.Stderr)).
		Msg("aseprite finished")

	return res, nil
}

// kill terminates the process and waits until it has been reaped.
func (r *Runner) kill(cmd *exec.Cmd, done <-chan error) {
	if err := killProcess(cmd); err != nil {
		log.Warn().Err(err).Int("pid", cmd.Process.Pid).Msg("killing aseprite process")
	}
	<-done
}

func (r *Runner) observe(mode Mode, outcome Outcome, d time.Duration) {
	if r.Observer != nil {
		r.Observer.ObserveInvocation(mode, outcome, d)
	}
}

func canceledError(err error) error {
	return fmt.Errorf("aseprite process canceled: %w", err)
}

// limitWriter writes up to limit bytes to buf and discards the rest,
// recording whether anything was dropped.
type limitWriter struct {
	buf     *bytes.Buffer
	limit   int
	dropped bool
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if len(p) > remaining {
		w.dropped = true
		// Report all bytes as consumed to avoid short write errors.
		w.buf.Write(p[:max(remaining, 0)])
		return len(p), nil
	}
	return w.buf.Write(p)
}
