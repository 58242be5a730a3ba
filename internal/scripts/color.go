package scripts

import (
	"fmt"
	"strconv"
	"strings"
)

// RGBA is a parsed #rrggbb or #rrggbbaa color.
type RGBA struct {
	R, G, B, A uint8
}

// ParseColor parses a hex color with an optional leading '#'. Alpha
// defaults to 255.
func ParseColor(hex string) (RGBA, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 && len(h) != 8 {
		return RGBA{}, fmt.Errorf("expected 6 or 8 hex digits (got %d), format: #rrggbb or #rrggbbaa", len(h))
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("contains non-hex characters")
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Lua renders the color as a Color(r, g, b, a) constructor.
func (c RGBA) Lua() string {
	return fmt.Sprintf("Color(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}

// PixelLua renders the color as an app.pixelColor.rgba call.
func (c RGBA) PixelLua() string {
	return fmt.Sprintf("app.pixelColor.rgba(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}
