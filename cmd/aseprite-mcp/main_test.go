package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	asepritemcp "github.com/deixis/aseprite-mcp"
	"github.com/deixis/aseprite-mcp/internal/config"
	"github.com/deixis/aseprite-mcp/internal/history"
	"github.com/deixis/aseprite-mcp/internal/mcp"
	"github.com/deixis/aseprite-mcp/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, asepritemcp.Version+"\n", out)
}

func TestLocate_ConfiguredExecutable(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "aseprite")
	require.NoError(t, os.WriteFile(exe, nil, 0o755))
	cfg := writeConfig(t, "executable: "+exe+"\n")

	out, _, err := execute(t, "--config", cfg, "locate")
	require.NoError(t, err)
	assert.Equal(t, exe+"\n", out)
}

func TestLocate_ConfiguredExecutableMissing(t *testing.T) {
	cfg := writeConfig(t, "executable: "+filepath.Join(t.TempDir(), "gone")+"\n")
	_, _, err := execute(t, "--config", cfg, "locate")
	assert.Error(t, err)
}

func TestBadConfig(t *testing.T) {
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	assert.ErrorContains(t, err, "loading config")
}

func TestServeInstructions(t *testing.T) {
	out, _, err := execute(t, "serve", "--instructions")
	require.NoError(t, err)
	assert.Equal(t, mcp.Instructions, out)
}

func TestRouter(t *testing.T) {
	collector := metrics.New()
	collector.ObserveCleanupFailure()
	server := mcp.NewServer(&config.Config{}, nil, history.NewLRUStore(1, nil))
	h := newRouter(server, collector)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "aseprite_mcp_script_cleanup_failures_total 1"), rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
