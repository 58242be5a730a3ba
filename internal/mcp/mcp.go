// Package mcp provides the Aseprite MCP server, registering all tools
// and publishing model instructions.
package mcp

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	asepritemcp "github.com/deixis/aseprite-mcp"
	"github.com/deixis/aseprite-mcp/internal/config"
	"github.com/deixis/aseprite-mcp/internal/history"
	"github.com/deixis/aseprite-mcp/internal/runner"
	"github.com/deixis/aseprite-mcp/internal/scripts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

//go:embed instructions.md
var Instructions string

// Executor runs Aseprite. *runner.Runner implements it.
type Executor interface {
	RunScript(ctx context.Context, script string) (*runner.Result, error)
	RunScriptOnFile(ctx context.Context, file, script string) (*runner.Result, error)
	RunCLI(ctx context.Context, args []string) (*runner.Result, error)
}

// handler holds shared dependencies for all tool handlers.
type handler struct {
	exec    Executor
	store   history.Store
	scripts *scripts.Builder

	mu           sync.RWMutex
	outputDir    string // configured, or the client's first root
	rootsChecked bool   // outputDir is final
}

// NewServer creates an MCP server with all Aseprite tools registered.
func NewServer(cfg *config.Config, exec Executor, store history.Store) *mcp.Server {
	h := &handler{
		exec:      exec,
		store:     store,
		outputDir:    cfg.OutputDir,
		rootsChecked: cfg.OutputDir != "",
	}
	h.scripts = &scripts.Builder{Output: h.resolveOutput}

	opts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	if cfg.OutputDir == "" {
		opts.InitializedHandler = func(ctx context.Context, req *mcp.InitializedRequest) {
			h.outputDirFromRoots(ctx, req.Session)
		}
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "aseprite-mcp", Version: asepritemcp.Version}, opts)

	registerScriptingTools(s, h)
	registerSpriteTools(s, h)
	registerLayerTools(s, h)
	registerFrameTools(s, h)
	registerTagTools(s, h)
	registerPaletteTools(s, h)
	registerCelTools(s, h)
	registerSliceTools(s, h)
	registerSelectionTools(s, h)
	registerFilterTools(s, h)
	registerDrawingTools(s, h)
	registerExportTools(s, h)

	mcp.AddTool(s, &mcp.Tool{
		Name: "inspect_run",
		Description: `Show the full stdout, stderr, exit code and duration of a previous Aseprite invocation.

Use the run ID printed at the end of any tool result.`,
	}, h.inspectHandler)

	return s
}

// ensureOutputDir resolves the output directory from the client's
// roots unless that already happened. Tool calls can arrive before the
// lookup started on initialization has finished.
func (h *handler) ensureOutputDir(ctx context.Context, session *mcp.ServerSession) {
	h.mu.RLock()
	checked := h.rootsChecked
	h.mu.RUnlock()
	if checked || session == nil {
		return
	}
	h.outputDirFromRoots(ctx, session)
}

// outputDirFromRoots uses the client's first file root as the base for
// relative output paths. A client without file roots leaves the
// working directory as the base.
func (h *handler) outputDirFromRoots(ctx context.Context, session *mcp.ServerSession) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	dir := ""
	roots, err := session.ListRoots(ctx, &mcp.ListRootsParams{})
	if err == nil && len(roots.Roots) > 0 {
		if u, err := url.Parse(roots.Roots[0].URI); err == nil && u.Scheme == "file" {
			dir = filepath.FromSlash(u.Path)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rootsChecked {
		return
	}
	h.rootsChecked = true
	h.outputDir = dir
	if dir != "" {
		log.Debug().Str("dir", dir).Msg("output directory taken from client root")
	}
}

func (h *handler) resolveOutput(path string) string {
	h.mu.RLock()
	dir := h.outputDir
	h.mu.RUnlock()
	return (&config.Config{OutputDir: dir}).ResolveOutputPath(path)
}

// runScript runs script, against file when it is non-empty, and turns
// the outcome into a tool result.
func (h *handler) runScript(ctx context.Context, tool, file, script string) (*mcp.CallToolResult, any, error) {
	var (
		res *runner.Result
		err error
	)
	if file == "" {
		res, err = h.exec.RunScript(ctx, script)
	} else {
		res, err = h.exec.RunScriptOnFile(ctx, file, script)
	}
	if err != nil {
		return h.failed(tool, file, "Failed to execute script", err)
	}
	return h.finish(tool, file, res, "")
}

// runCLI runs args. file is the sprite recorded in history, empty when
// the caller cannot name one. On success, message replaces the
// normalized output when non-empty.
func (h *handler) runCLI(ctx context.Context, tool, file, prefix string, args []string, message string) (*mcp.CallToolResult, any, error) {
	res, err := h.exec.RunCLI(ctx, args)
	if err != nil {
		return h.failed(tool, file, prefix, err)
	}
	return h.finish(tool, file, res, message)
}

func (h *handler) finish(tool, file string, res *runner.Result, message string) (*mcp.CallToolResult, any, error) {
	if err := h.store.Save(history.NewRecord(tool, file, res)); err != nil {
		log.Warn().Err(err).Str("run_id", res.RunID).Msg("saving run history")
	}

	text := res.Text()
	if res.Success && message != "" {
		text = message
	}
	text = withRunID(text, res.RunID)
	if !res.Success {
		return errorResult(text)
	}
	return textResult(text)
}

// failed reports an invocation that produced no Result. A timed-out
// process still gets a history record so its run ID can be inspected.
func (h *handler) failed(tool, file, prefix string, err error) (*mcp.CallToolResult, any, error) {
	text := fmt.Sprintf("%s: %v", prefix, err)
	var timeout *runner.TimeoutError
	if errors.As(err, &timeout) {
		rec := &history.Record{
			ID:         timeout.RunID,
			Tool:       tool,
			File:       file,
			ExitCode:   -1,
			Stderr:     err.Error(),
			DurationMS: timeout.After.Milliseconds(),
			Finished:   time.Now().UTC(),
		}
		if err := h.store.Save(rec); err != nil {
			log.Warn().Err(err).Str("run_id", rec.ID).Msg("saving run history")
		}
		text = withRunID(text, timeout.RunID)
	}
	return errorResult(text)
}

func withRunID(text, runID string) string {
	return text + "\n\nRun: " + runID
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
