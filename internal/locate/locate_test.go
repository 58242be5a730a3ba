package locate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost records which candidate paths exist and how many lookups ran.
type fakeHost struct {
	env     map[string]string
	files   map[string]bool
	lookup  string
	lookErr error
	lookups int
}

func (h *fakeHost) locator(goos string) *Locator {
	return &Locator{
		Getenv: func(k string) string { return h.env[k] },
		Exists: func(p string) bool { return h.files[p] },
		Lookup: func(ctx context.Context, name string) (string, error) {
			h.lookups++
			return h.lookup, h.lookErr
		},
		GOOS: goos,
		Home: "/home/pixel",
	}
}

func TestLocate_EnvOverride(t *testing.T) {
	h := &fakeHost{
		env:   map[string]string{EnvVar: "/opt/aseprite/aseprite"},
		files: map[string]bool{"/opt/aseprite/aseprite": true},
	}
	got, err := h.locator("linux").Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/opt/aseprite/aseprite", got)
	assert.Zero(t, h.lookups)
}

func TestLocate_EnvMissingFallsThrough(t *testing.T) {
	steam := "/home/pixel/.steam/debian-installation/steamapps/common/Aseprite/aseprite"
	h := &fakeHost{
		env:   map[string]string{EnvVar: "/does/not/exist"},
		files: map[string]bool{steam: true},
	}
	got, err := h.locator("linux").Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, steam, got)
}

func TestLocate_EnvMissingFallsThroughToLookup(t *testing.T) {
	h := &fakeHost{
		env:    map[string]string{EnvVar: "/does/not/exist"},
		files:  map[string]bool{"/usr/bin/aseprite": true},
		lookup: "/usr/bin/aseprite\n",
	}
	got, err := h.locator("linux").Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/aseprite", got)
	assert.Equal(t, 1, h.lookups)
}

func TestLocate_WellKnownWindows(t *testing.T) {
	steam := `C:\Program Files (x86)\Steam\steamapps\common\Aseprite\Aseprite.exe`
	h := &fakeHost{files: map[string]bool{steam: true}}
	got, err := h.locator("windows").Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, steam, got)
}

func TestLocate_WellKnownDarwin(t *testing.T) {
	app := "/Applications/Aseprite.app/Contents/MacOS/aseprite"
	h := &fakeHost{files: map[string]bool{app: true}}
	got, err := h.locator("darwin").Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, app, got)
}

func TestLocate_LookupFirstLine(t *testing.T) {
	first := `C:\Tools\aseprite.exe`
	h := &fakeHost{
		files:  map[string]bool{first: true, `D:\other\aseprite.exe`: true},
		lookup: "\r\n" + first + "\r\n" + `D:\other\aseprite.exe` + "\r\n",
	}
	got, err := h.locator("windows").Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestLocate_LookupResultMustExist(t *testing.T) {
	h := &fakeHost{lookup: "/stale/aseprite\n"}
	_, err := h.locator("linux").Locate(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocate_NotFound(t *testing.T) {
	h := &fakeHost{lookErr: errors.New("exit status 1")}
	_, err := h.locator("linux").Locate(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), EnvVar)
}

func TestLocate_ExplicitMustExist(t *testing.T) {
	h := &fakeHost{files: map[string]bool{"/usr/bin/aseprite": true}, lookup: "/usr/bin/aseprite"}
	l := h.locator("linux")
	l.Explicit = "/missing/aseprite"
	_, err := l.Locate(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Zero(t, h.lookups)
}

func TestLocate_RealFilesystem(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "aseprite")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	t.Setenv(EnvVar, exe)

	got, err := Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, exe, got)
}
