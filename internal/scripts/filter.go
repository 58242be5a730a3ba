package scripts

import (
	"fmt"

	"github.com/deixis/aseprite-mcp/internal/lua"
)

// Filters run through app.command with ui = false and apply to the
// active cel, or to the selection when there is one.

type BrightnessContrastParams struct {
	FilePath   string `json:"file_path" jsonschema:"Path to the sprite file"`
	Brightness int    `json:"brightness" jsonschema:"Brightness adjustment (-100 to 100)"`
	Contrast   int    `json:"contrast" jsonschema:"Contrast adjustment (-100 to 100)"`
}

type HueSaturationParams struct {
	FilePath   string `json:"file_path" jsonschema:"Path to the sprite file"`
	Hue        int    `json:"hue" jsonschema:"Hue shift in degrees (-180 to 180)"`
	Saturation int    `json:"saturation" jsonschema:"Saturation adjustment (-100 to 100)"`
	Lightness  *int   `json:"lightness,omitempty" jsonschema:"Lightness adjustment (-100 to 100, default: 0)"`
}

type DespeckleParams struct {
	FilePath string `json:"file_path" jsonschema:"Path to the sprite file"`
	Width    *uint  `json:"width,omitempty" jsonschema:"Width of the median filter matrix (default: 3)"`
	Height   *uint  `json:"height,omitempty" jsonschema:"Height of the median filter matrix (default: 3)"`
}

type ReplaceColorParams struct {
	FilePath  string `json:"file_path" jsonschema:"Path to the sprite file"`
	FromColor string `json:"from_color" jsonschema:"Source color as hex string"`
	ToColor   string `json:"to_color" jsonschema:"Target color as hex string"`
	Tolerance *uint  `json:"tolerance,omitempty" jsonschema:"Tolerance (0-255, default: 0)"`
}

type OutlineParams struct {
	FilePath string  `json:"file_path" jsonschema:"Path to the sprite file"`
	Color    string  `json:"color" jsonschema:"Outline color as hex string (e.g. #000000)"`
	Layer    *string `json:"layer,omitempty" jsonschema:"Target layer name (if omitted, uses the active layer)"`
	Frame    *uint   `json:"frame,omitempty" jsonschema:"Target frame number, 1-based (default: 1)"`
}

const InvertColor = `local spr = app.sprite
app.command.InvertColor {
    ui = false
}
spr:saveAs(spr.filename)
print(json.encode({status = "applied", filter = "invert_color"}))`

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func (b *Builder) BrightnessContrast(p BrightnessContrastParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
app.command.BrightnessContrast {
    ui = false,
    brightness = %[1]d,
    contrast = %[2]d
}
spr:saveAs(spr.filename)
print(json.encode({status = "applied", filter = "brightness_contrast", brightness = %[1]d, contrast = %[2]d}))`,
		clamp(p.Brightness, -100, 100), clamp(p.Contrast, -100, 100)), nil
}

func (b *Builder) HueSaturation(p HueSaturationParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
app.command.HueSaturation {
    ui = false,
    hue = %[1]d,
    saturation = %[2]d,
    lightness = %[3]d,
    mode = "hsl"
}
spr:saveAs(spr.filename)
print(json.encode({status = "applied", filter = "hue_saturation", hue = %[1]d, saturation = %[2]d, lightness = %[3]d}))`,
		clamp(p.Hue, -180, 180), clamp(p.Saturation, -100, 100), clamp(deref(p.Lightness, 0), -100, 100)), nil
}

func (b *Builder) Despeckle(p DespeckleParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	w := max(deref(p.Width, 3), 1)
	h := max(deref(p.Height, 3), 1)
	return fmt.Sprintf(`local spr = app.sprite
app.command.Despeckle {
    ui = false,
    width = %[1]d,
    height = %[2]d
}
spr:saveAs(spr.filename)
print(json.encode({status = "applied", filter = "despeckle", width = %[1]d, height = %[2]d}))`, w, h), nil
}

func (b *Builder) ReplaceColor(p ReplaceColorParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	from, err := ParseColor(p.FromColor)
	if err != nil {
		return "", fmt.Errorf("invalid from_color %q: %w", p.FromColor, err)
	}
	to, err := ParseColor(p.ToColor)
	if err != nil {
		return "", fmt.Errorf("invalid to_color %q: %w", p.ToColor, err)
	}
	return fmt.Sprintf(`local spr = app.sprite
app.command.ReplaceColor {
    ui = false,
    from = %s,
    to = %s,
    tolerance = %d
}
spr:saveAs(spr.filename)
print(json.encode({status = "replaced", from = %s, to = %s}))`,
		from.Lua(), to.Lua(), min(deref(p.Tolerance, 0), 255), lua.String(p.FromColor), lua.String(p.ToColor)), nil
}

func (b *Builder) Outline(p OutlineParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	c, err := ParseColor(p.Color)
	if err != nil {
		return "", fmt.Errorf("invalid outline color %q: %w", p.Color, err)
	}
	frame, layer, err := target(p.Frame, p.Layer)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
%s
%s
app.command.Outline {
    ui = false,
    color = %s
}
spr:saveAs(spr.filename)
print(json.encode({status = "outlined"}))`, frame, layer, c.Lua()), nil
}
