// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init points the global logger at stderr. Stdout is never used: in
// stdio mode it carries the MCP protocol stream.
func Init(level, format string, debug bool) error {
	return InitWriter(os.Stderr, level, format, debug)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level, format string, debug bool) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	if debug {
		lvl = zerolog.DebugLevel
	}

	var out io.Writer
	switch strings.ToLower(format) {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	case "json":
		out = w
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", format)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Str("app", "aseprite-mcp").Logger()
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parsing log level: %w", err)
	}
	return lvl, nil
}
