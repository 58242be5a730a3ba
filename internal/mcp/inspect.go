package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deixis/aseprite-mcp/internal/history"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type inspectParams struct {
	RunID string `json:"run_id" jsonschema:"the run ID printed at the end of a tool result"`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}

	rec, err := h.store.Load(params.RunID)
	if errors.Is(err, history.ErrNotFound) {
		return errorResult(fmt.Sprintf("Run %s not found. Only recent runs are kept.", params.RunID))
	}
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}
	return textResult(formatRecord(rec))
}

func formatRecord(rec *history.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s (%s)\n", rec.ID, rec.Tool)
	if rec.File != "" {
		fmt.Fprintf(&b, "File: %s\n", rec.File)
	}
	status := "FAIL"
	if rec.Success {
		status = "PASS"
	}
	fmt.Fprintf(&b, "Status: %s (exit %d)\n", status, rec.ExitCode)
	fmt.Fprintf(&b, "Duration: %s\n", (time.Duration(rec.DurationMS) * time.Millisecond).String())
	if rec.Truncated {
		fmt.Fprintln(&b, "Output was truncated.")
	}

	writeStream(&b, "Stdout", rec.Stdout)
	writeStream(&b, "Stderr", rec.Stderr)
	return b.String()
}

func writeStream(b *strings.Builder, name, s string) {
	fmt.Fprintln(b)
	s = strings.TrimRight(s, "\n")
	if s == "" {
		fmt.Fprintf(b, "%s: (empty)\n", name)
		return
	}
	fmt.Fprintf(b, "%s:\n", name)
	for _, line := range strings.Split(s, "\n") {
		fmt.Fprintf(b, "    %s\n", line)
	}
}
