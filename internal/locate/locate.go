// Package locate finds the Aseprite executable on the host.
package locate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// EnvVar names the environment variable holding an explicit executable path.
const EnvVar = "ASEPRITE_PATH"

// ErrNotFound is returned when no search strategy yields an executable.
var ErrNotFound = errors.New("could not find the Aseprite executable; " +
	"set " + EnvVar + " to the full path of the Aseprite executable")

// lookupTimeout bounds the which/where probe.
const lookupTimeout = 5 * time.Second

// Locator searches for the executable. The zero value searches the real
// host; tests replace the function fields.
type Locator struct {
	// Explicit is a configured path. When set it must exist; no search
	// is performed.
	Explicit string

	Getenv func(string) string
	Exists func(string) bool
	// Lookup runs the OS lookup command for name and returns its raw output.
	Lookup func(ctx context.Context, name string) (string, error)
	GOOS   string
	Home   string
}

// Locate returns the executable path using the default Locator.
func Locate(ctx context.Context) (string, error) {
	return (&Locator{}).Locate(ctx)
}

// Locate searches, in order: the explicit path, the environment override,
// well-known install locations, and the OS lookup command. The first
// existing candidate wins.
func (l *Locator) Locate(ctx context.Context) (string, error) {
	exists := l.Exists
	if exists == nil {
		exists = fileExists
	}

	if l.Explicit != "" {
		if exists(l.Explicit) {
			return l.Explicit, nil
		}
		return "", fmt.Errorf("configured executable %q does not exist", l.Explicit)
	}

	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if p := getenv(EnvVar); p != "" {
		if exists(p) {
			return p, nil
		}
		log.Debug().Str("path", p).Msg(EnvVar + " does not exist, searching")
	}

	for _, p := range l.candidates() {
		if exists(p) {
			return p, nil
		}
	}

	lookup := l.Lookup
	if lookup == nil {
		lookup = l.runLookup
	}
	out, err := lookup(ctx, "aseprite")
	if err == nil {
		if p := firstLine(out); p != "" && exists(p) {
			return p, nil
		}
	} else {
		log.Debug().Err(err).Msg("executable lookup command failed")
	}

	return "", ErrNotFound
}

// candidates returns the well-known install paths for the target OS.
func (l *Locator) candidates() []string {
	home := l.Home
	if home == "" {
		home, _ = os.UserHomeDir()
	}

	switch l.goos() {
	case "windows":
		return []string{
			`C:\Program Files\Aseprite\Aseprite.exe`,
			`C:\Program Files (x86)\Steam\steamapps\common\Aseprite\Aseprite.exe`,
			`C:\Program Files\Steam\steamapps\common\Aseprite\Aseprite.exe`,
		}
	case "darwin":
		paths := []string{"/Applications/Aseprite.app/Contents/MacOS/aseprite"}
		if home != "" {
			paths = append(paths,
				filepath.Join(home, "Applications/Aseprite.app/Contents/MacOS/aseprite"),
				filepath.Join(home, "Library/Application Support/Steam/steamapps/common/Aseprite/Aseprite.app/Contents/MacOS/aseprite"),
			)
		}
		return paths
	default:
		if home == "" {
			return nil
		}
		return []string{
			filepath.Join(home, ".steam/debian-installation/steamapps/common/Aseprite/aseprite"),
			filepath.Join(home, ".local/share/Steam/steamapps/common/Aseprite/aseprite"),
		}
	}
}

func (l *Locator) goos() string {
	if l.GOOS != "" {
		return l.GOOS
	}
	return runtime.GOOS
}

// runLookup invokes `where` on Windows and `which` elsewhere.
func (l *Locator) runLookup(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	tool := "which"
	if l.goos() == "windows" {
		tool = "where"
	}
	out, err := exec.CommandContext(ctx, tool, name).Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", tool, name, err)
	}
	return string(out), nil
}

func firstLine(s string) string {
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line
		}
	}
	return ""
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
