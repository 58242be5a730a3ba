// Package scripts turns validated tool parameters into Lua scripts or
// Aseprite CLI argument lists. Nothing here runs a process.
package scripts

import (
	"errors"
	"strings"

	"github.com/deixis/aseprite-mcp/internal/lua"
)

// Builder generates scripts. Output, when set, maps caller-supplied
// output paths onto the configured output directory.
type Builder struct {
	Output func(string) string
}

func (b *Builder) output(p string) string {
	if b.Output == nil {
		return p
	}
	return b.Output(p)
}

// outputOr resolves the optional output path, defaulting to file.
func (b *Builder) outputOr(out *string, file string) string {
	if out != nil && *out != "" {
		return b.output(*out)
	}
	return b.output(file)
}

// saveCode saves to a copy when out is given and in place otherwise.
func (b *Builder) saveCode(out *string) string {
	if out != nil && *out != "" {
		return "spr:saveCopyAs(" + lua.Path(b.output(*out)) + ")"
	}
	return "spr:saveAs(spr.filename)"
}

func requireFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("file path cannot be empty")
	}
	return nil
}

func requireName(name, what string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(strings.ToLower(what) + " name cannot be empty")
	}
	return nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
