package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type runLuaParams struct {
	Script   string  `json:"script" jsonschema:"Lua source to run. Use print() to return data, e.g. print(json.encode(result))."`
	FilePath *string `json:"file_path,omitempty" jsonschema:"Sprite file to open before the script runs (available as app.sprite)"`
}

type executeCLIParams struct {
	Args []string `json:"args" jsonschema:"Aseprite CLI arguments; --batch is added automatically"`
}

type fileParams interface {
	File() string
}

// addFileTool registers a tool whose script runs against the sprite
// named by its parameters. Build errors are reported before any
// process is started.
func addFileTool[P fileParams](s *mcp.Server, h *handler, tool *mcp.Tool, build func(P) (string, error)) {
	mcp.AddTool(s, tool, func(ctx context.Context, req *mcp.CallToolRequest, p P) (*mcp.CallToolResult, any, error) {
		h.ensureOutputDir(ctx, req.Session)
		script, err := build(p)
		if err != nil {
			return errorResult(err.Error())
		}
		return h.runScript(ctx, tool.Name, p.File(), script)
	})
}

func registerScriptingTools(s *mcp.Server, h *handler) {
	mcp.AddTool(s, &mcp.Tool{
		Name: "run_lua_script",
		Description: `Execute arbitrary Lua code in Aseprite's scripting environment.

The script has full access to the Aseprite API. Use print() to return data.
Optionally specify a sprite file to open first.`,
	}, h.runLuaHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "execute_cli",
		Description: `Run Aseprite in batch mode with custom CLI arguments.

Useful for complex export operations, format conversions, and operations best expressed as CLI commands.`,
	}, h.executeCLIHandler)
}

func (h *handler) runLuaHandler(ctx context.Context, req *mcp.CallToolRequest, params runLuaParams) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.Script) == "" {
		return errorResult("script cannot be empty")
	}
	file := ""
	if params.FilePath != nil {
		file = *params.FilePath
	}
	return h.runScript(ctx, "run_lua_script", file, params.Script)
}

func (h *handler) executeCLIHandler(ctx context.Context, req *mcp.CallToolRequest, params executeCLIParams) (*mcp.CallToolResult, any, error) {
	if len(params.Args) == 0 {
		return errorResult("args cannot be empty")
	}
	return h.runCLI(ctx, "execute_cli", "", "CLI execution failed", params.Args, "")
}
