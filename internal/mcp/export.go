package mcp

import (
	"context"

	"github.com/deixis/aseprite-mcp/internal/scripts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerExportTools(s *mcp.Server, h *handler) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        "export_sprite",
		Description: "Export a sprite to a different format (png, gif, jpg, bmp, webp, etc.) with optional scale factor and layer/tag filtering.",
	}, h.exportSpriteHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "export_spritesheet",
		Description: "Export a sprite as a spritesheet image with optional JSON metadata. Supports horizontal, vertical, rows, columns, and packed layouts.",
	}, h.exportSpritesheetHandler)
}

func (h *handler) exportSpriteHandler(ctx context.Context, req *mcp.CallToolRequest, params scripts.ExportSpriteParams) (*mcp.CallToolResult, any, error) {
	h.ensureOutputDir(ctx, req.Session)
	e, err := h.scripts.ExportSprite(params)
	if err != nil {
		return errorResult(err.Error())
	}
	return h.runCLI(ctx, "export_sprite", params.FilePath, "Export failed", e.Args, e.Message)
}

func (h *handler) exportSpritesheetHandler(ctx context.Context, req *mcp.CallToolRequest, params scripts.ExportSpritesheetParams) (*mcp.CallToolResult, any, error) {
	h.ensureOutputDir(ctx, req.Session)
	e, err := h.scripts.ExportSpritesheet(params)
	if err != nil {
		return errorResult(err.Error())
	}
	return h.runCLI(ctx, "export_spritesheet", params.FilePath, "Export failed", e.Args, e.Message)
}
