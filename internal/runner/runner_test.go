//go:build unix

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
)

// fakeAseprite is a shell script standing in for Aseprite. It logs its
// argv one per line, sources the file following --script as shell, and
// echoes its arguments otherwise.
const fakeAseprite = `#!/bin/sh
for a in "$@"; do printf '%%s\n' "$a" >> %q; done
script=""
prev=""
for a in "$@"; do
	if [ "$prev" = "--script" ]; then script="$a"; fi
	prev="$a"
done
if [ -n "$script" ]; then
	. "$script"
	exit $?
fi
echo "cli:$*"
`

type fixture struct {
	runner  *Runner
	argsLog string
	dir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	argsLog := filepath.Join(dir, "args.log")
	exe := filepath.Join(dir, "aseprite")
	if err := os.WriteFile(exe, []byte(fmt.Sprintf(fakeAseprite, argsLog)), 0o755); err != nil {
		t.Fatal(err)
	}
	r, err := New(exe, filepath.Join(dir, "scripts"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.Timeout = 10 * time.Second
	return &fixture{runner: r, argsLog: argsLog, dir: dir}
}

// args returns the argv logged by the most recent fake invocations.
func (f *fixture) args(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.argsLog)
	if err != nil {
		t.Fatalf("reading args log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// scriptPath returns the argument that followed --script.
func (f *fixture) scriptPath(t *testing.T) string {
	t.Helper()
	args := f.args(t)
	for i, a := range args {
		if a == "--script" && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("no --script in args %v", args)
	return ""
}

func assertRemoved(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp script %s still exists (stat err: %v)", path, err)
	}
}

func TestRunScript_Success(t *testing.T) {
	f := newFixture(t)
	res, err := f.runner.RunScript(context.Background(), "echo hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.ExitCode != 0 {
		t.Errorf("Success = %v, ExitCode = %d, want true, 0", res.Success, res.ExitCode)
	}
	if got := res.Text(); got != "hello" {
		t.Errorf("Text() = %q, want %q", got, "hello")
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}

	args := f.args(t)
	if len(args) != 3 || args[0] != "--batch" || args[1] != "--script" {
		t.Errorf("args = %v, want [--batch --script <path>]", args)
	}
	assertRemoved(t, f.scriptPath(t))
}

func TestRunScript_EmptyOutput(t *testing.T) {
	f := newFixture(t)
	res, err := f.runner.RunScript(context.Background(), "true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Text(); got != SuccessMessage {
		t.Errorf("Text() = %q, want %q", got, SuccessMessage)
	}
}

func TestRunScript_NonZeroExit(t *testing.T) {
	f := newFixture(t)
	res, err := f.runner.RunScript(context.Background(), "echo 'bad arg' >&2; exit 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if got := res.Text(); got != "Error: bad arg" {
		t.Errorf("Text() = %q, want %q", got, "Error: bad arg")
	}
	assertRemoved(t, f.scriptPath(t))
}

func TestRunScript_SilentFailure(t *testing.T) {
	f := newFixture(t)
	res, err := f.runner.RunScript(context.Background(), "exit 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Text(); got != "Error: Unknown error occurred" {
		t.Errorf("Text() = %q", got)
	}
}

func TestRunScriptOnFile_OpensFileFirst(t *testing.T) {
	f := newFixture(t)
	sprite := filepath.Join(f.dir, "hero.aseprite")
	_, err := f.runner.RunScriptOnFile(context.Background(), sprite, "echo ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	args := f.args(t)
	if len(args) != 4 || args[0] != "--batch" || args[1] != sprite || args[2] != "--script" {
		t.Errorf("args = %v, want [--batch %s --script <path>]", args, sprite)
	}
	assertRemoved(t, f.scriptPath(t))
}

func TestRunCLI_PassesArgs(t *testing.T) {
	f := newFixture(t)
	res, err := f.runner.RunCLI(context.Background(), []string{"in.aseprite", "--save-as", "out file.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"--batch", "in.aseprite", "--save-as", "out file.png"}
	got := f.args(t)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("args = %v, want %v", got, want)
	}
	if !strings.HasPrefix(res.Stdout, "cli:--batch in.aseprite") {
		t.Errorf("Stdout = %q", res.Stdout)
	}
}

func TestRunScript_Timeout(t *testing.T) {
	f := newFixture(t)
	f.runner.Timeout = 200 * time.Millisecond

	pidFile := filepath.Join(f.dir, "pid")
	script := fmt.Sprintf("echo started; echo $$ > %q; sleep 30", pidFile)

	start := time.Now()
	res, err := f.runner.RunScript(context.Background(), script)
	elapsed := time.Since(start)

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TimeoutError", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil on timeout", res)
	}
	if elapsed > 5*time.Second {
		t.Errorf("RunScript took %v, want prompt return after kill", elapsed)
	}

	data, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("reading pid file: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("parsing pid: %v", err)
	}
	if err := syscall.Kill(pid, 0); !errors.Is(err, syscall.ESRCH) {
		t.Errorf("process %d still exists after timeout (kill(0) err: %v)", pid, err)
	}
	assertRemoved(t, f.scriptPath(t))
}

func TestRunScript_TimeoutWithChattyChild(t *testing.T) {
	f := newFixture(t)
	f.runner.Timeout = 300 * time.Millisecond

	start := time.Now()
	_, err := f.runner.RunScript(context.Background(), "while :; do echo spam; echo noise >&2; done")
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TimeoutError", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout detection took %v", elapsed)
	}
}

func TestRunScript_LargeOutput(t *testing.T) {
	f := newFixture(t)
	res, err := f.runner.RunScript(context.Background(), "head -c 300000 /dev/zero | tr '\\000' a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Stdout) != 300000 {
		t.Errorf("len(Stdout) = %d, want 300000", len(res.Stdout))
	}
}

func TestRunScript_InvalidUTF8Replaced(t *testing.T) {
	f := newFixture(t)
	res, err := f.runner.RunScript(context.Background(), `printf '\377ok'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stdout != "\uFFFDok" {
		t.Errorf("Stdout = %q, want replacement char followed by ok", res.Stdout)
	}
}

func TestRunScript_SpawnFailure(t *testing.T) {
	dir := t.TempDir()
	r := &Runner{Executable: filepath.Join(dir, "missing-aseprite"), TempDir: dir}

	_, err := r.RunScript(context.Background(), "echo hi")
	var se *SpawnError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SpawnError", err)
	}
	if !strings.Contains(err.Error(), "missing-aseprite") {
		t.Errorf("error = %q, want to mention the executable", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not empty after spawn failure: %v", entries)
	}
}

func TestRunScript_WriteFailure(t *testing.T) {
	f := newFixture(t)
	f.runner.TempDir = filepath.Join(f.dir, "does", "not", "exist")

	_, err := f.runner.RunScript(context.Background(), "echo hi")
	if err == nil {
		t.Fatal("expected error when temp dir is missing")
	}
	var se *SpawnError
	if errors.As(err, &se) {
		t.Errorf("err = %v, want a write error, not a spawn error", err)
	}
	if _, statErr := os.Stat(f.argsLog); !os.IsNotExist(statErr) {
		t.Error("process was spawned despite the write failure")
	}
}

func TestRunScript_Canceled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	_, err := f.runner.RunScript(ctx, "sleep 30")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	assertRemoved(t, f.scriptPath(t))
}

func TestAllocatePath_Unique(t *testing.T) {
	r := &Runner{TempDir: t.TempDir()}

	const n = 1000
	paths := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			paths <- r.allocatePath()
		}()
	}
	wg.Wait()
	close(paths)

	seen := make(map[string]bool, n)
	for p := range paths {
		if seen[p] {
			t.Fatalf("duplicate temp path %s", p)
		}
		seen[p] = true
		if filepath.Dir(p) != r.TempDir || !strings.HasPrefix(filepath.Base(p), "mcp_") || filepath.Ext(p) != ".lua" {
			t.Errorf("unexpected path shape %s", p)
		}
	}
	if len(seen) != n {
		t.Errorf("got %d distinct paths, want %d", len(seen), n)
	}
}

func TestRunScript_ConcurrentInvocations(t *testing.T) {
	f := newFixture(t)
	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.runner.RunScript(context.Background(), fmt.Sprintf("echo run-%d", i))
			if err != nil {
				errs <- err
				return
			}
			if want := fmt.Sprintf("run-%d", i); res.Text() != want {
				errs <- fmt.Errorf("Text() = %q, want %q", res.Text(), want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	entries, err := os.ReadDir(f.runner.TempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d temp scripts left behind", len(entries))
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []Outcome
	cleanups int
}

func (o *recordingObserver) ObserveInvocation(mode Mode, outcome Outcome, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveCleanupFailure() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleanups++
}

func TestObserver_Outcomes(t *testing.T) {
	f := newFixture(t)
	obs := &recordingObserver{}
	f.runner.Observer = obs

	ctx := context.Background()
	_, _ = f.runner.RunScript(ctx, "echo ok")
	_, _ = f.runner.RunScript(ctx, "exit 3")
	// The script deletes itself, so cleanup fails.
	_, _ = f.runner.RunScript(ctx, `rm -f "$script"`)

	want := []Outcome{OutcomeSuccess, OutcomeFailure, OutcomeSuccess}
	if fmt.Sprint(obs.outcomes) != fmt.Sprint(want) {
		t.Errorf("outcomes = %v, want %v", obs.outcomes, want)
	}
	if obs.cleanups != 1 {
		t.Errorf("cleanup failures = %d, want 1", obs.cleanups)
	}
}

func TestRunScript_OutputTruncation(t *testing.T) {
	f := newFixture(t)
	f.runner.MaxOutput = 100

	res, err := f.runner.RunScript(context.Background(), "head -c 200 /dev/zero | tr '\\000' x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true")
	}
	if len(res.Stdout) != 100 {
		t.Errorf("len(Stdout) = %d, want 100", len(res.Stdout))
	}
}

func TestRunScript_OutputAtLimitNotTruncated(t *testing.T) {
	f := newFixture(t)
	f.runner.MaxOutput = 100

	res, err := f.runner.RunScript(context.Background(), "head -c 100 /dev/zero | tr '\\000' x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Truncated {
		t.Error("Truncated = true for output of exactly the limit")
	}
	if len(res.Stdout) != 100 {
		t.Errorf("len(Stdout) = %d, want 100", len(res.Stdout))
	}
}

func TestLimitWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &limitWriter{buf: &buf, limit: 4}

	n, err := w.Write([]byte("abcd"))
	if n != 4 || err != nil || w.dropped {
		t.Fatalf("Write = %d, %v, dropped=%v", n, err, w.dropped)
	}
	n, err = w.Write(nil)
	if n != 0 || err != nil || w.dropped {
		t.Fatalf("empty Write = %d, %v, dropped=%v", n, err, w.dropped)
	}
	n, err = w.Write([]byte("e"))
	if n != 1 || err != nil || !w.dropped {
		t.Fatalf("Write past limit = %d, %v, dropped=%v", n, err, w.dropped)
	}
	if buf.String() != "abcd" {
		t.Errorf("buf = %q", buf.String())
	}
}

func TestRunScript_AlreadyCanceled(t *testing.T) {
	f := newFixture(t)
	obs := &recordingObserver{}
	f.runner.Observer = obs
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.runner.RunScript(ctx, "echo ran")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(f.argsLog); !os.IsNotExist(statErr) {
		t.Error("process was spawned for a canceled context")
	}
	entries, _ := os.ReadDir(f.runner.TempDir)
	if len(entries) != 0 {
		t.Errorf("temp dir not empty: %v", entries)
	}
	if fmt.Sprint(obs.outcomes) != fmt.Sprint([]Outcome{OutcomeCanceled}) {
		t.Errorf("outcomes = %v", obs.outcomes)
	}
}
