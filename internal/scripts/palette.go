package scripts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deixis/aseprite-mcp/internal/lua"
)

type GetPaletteParams struct {
	FilePath  string `json:"file_path" jsonschema:"Path to the sprite file"`
	MaxColors *uint  `json:"max_colors,omitempty" jsonschema:"Maximum number of colors to return (default: all)"`
}

type PaletteEntry struct {
	Index uint   `json:"index" jsonschema:"Palette index"`
	Color string `json:"color" jsonschema:"Color as hex string (e.g. #ff0000)"`
}

type SetPaletteColorParams struct {
	FilePath string         `json:"file_path" jsonschema:"Path to the sprite file"`
	Colors   []PaletteEntry `json:"colors" jsonschema:"Palette entries to set"`
}

type ResizePaletteParams struct {
	FilePath string `json:"file_path" jsonschema:"Path to the sprite file"`
	Size     uint   `json:"size" jsonschema:"New palette size (number of colors)"`
}

type LoadPaletteParams struct {
	FilePath    string `json:"file_path" jsonschema:"Path to the sprite file"`
	PalettePath string `json:"palette_path" jsonschema:"Palette file to load (.gpl, .pal, .act, .col, .png, etc.)"`
}

type SavePaletteParams struct {
	FilePath   string `json:"file_path" jsonschema:"Path to the sprite file"`
	OutputPath string `json:"output_path" jsonschema:"Output path for the palette file (e.g. palette.gpl)"`
}

type ColorQuantizationParams struct {
	FilePath  string `json:"file_path" jsonschema:"Path to the sprite file"`
	MaxColors *uint  `json:"max_colors,omitempty" jsonschema:"Maximum number of colors in the quantized palette (2-256, default: 256)"`
	WithAlpha *bool  `json:"with_alpha,omitempty" jsonschema:"Use alpha channel in quantization (default: false)"`
}

func (b *Builder) GetPalette(p GetPaletteParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	limit := "#pal"
	if p.MaxColors != nil {
		limit = fmt.Sprint(*p.MaxColors)
	}
	return fmt.Sprintf(`local spr = app.sprite
local pal = spr.palettes[1]
local maxColors = %s
local colors = {}
local count = math.min(maxColors, #pal)
for i = 0, count - 1 do
    local c = pal:getColor(i)
    table.insert(colors, {
        index = i,
        color = string.format("#%%02x%%02x%%02x%%02x", c.red, c.green, c.blue, c.alpha),
        red = c.red,
        green = c.green,
        blue = c.blue,
        alpha = c.alpha
    })
end
print(json.encode({colors = colors, total = #pal}))`, limit), nil
}

func (b *Builder) SetPaletteColor(p SetPaletteColorParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if len(p.Colors) == 0 {
		return "", errors.New("colors cannot be empty")
	}
	var set strings.Builder
	for i, e := range p.Colors {
		c, err := ParseColor(e.Color)
		if err != nil {
			return "", fmt.Errorf("invalid color at entry %d (%q): %w", i, e.Color, err)
		}
		fmt.Fprintf(&set, "    pal:setColor(%d, %s)\n", e.Index, c.Lua())
	}
	return fmt.Sprintf(`local spr = app.sprite
local pal = spr.palettes[1]
app.transaction("Set Palette Colors", function()
%s
end)
spr:saveAs(spr.filename)
print(json.encode({status = "updated", colorsSet = %d}))`, set.String(), len(p.Colors)), nil
}

func (b *Builder) ResizePalette(p ResizePaletteParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if p.Size == 0 {
		return "", errors.New("palette size must be greater than 0")
	}
	return fmt.Sprintf(`local spr = app.sprite
local oldSize = #spr.palettes[1]
app.command.PaletteSize {
    ui = false,
    size = %d
}
spr:saveAs(spr.filename)
print(json.encode({status = "resized", oldSize = oldSize, newSize = #spr.palettes[1]}))`, p.Size), nil
}

func (b *Builder) LoadPalette(p LoadPaletteParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if strings.TrimSpace(p.PalettePath) == "" {
		return "", errors.New("palette path cannot be empty")
	}
	return fmt.Sprintf(`local spr = app.sprite
spr:loadPalette(%s)
spr:saveAs(spr.filename)
print(json.encode({status = "loaded", paletteSize = #spr.palettes[1]}))`, lua.Path(p.PalettePath)), nil
}

func (b *Builder) SavePalette(p SavePaletteParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if strings.TrimSpace(p.OutputPath) == "" {
		return "", errors.New("output path cannot be empty")
	}
	out := lua.Path(b.output(p.OutputPath))
	return fmt.Sprintf(`local spr = app.sprite
local pal = spr.palettes[1]
pal:saveAs(%[1]s)
print(json.encode({status = "saved", paletteSize = #pal, filename = %[1]s}))`, out), nil
}

func (b *Builder) ColorQuantization(p ColorQuantizationParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	n := min(max(deref(p.MaxColors, 256), 2), 256)
	return fmt.Sprintf(`local spr = app.sprite
app.command.ColorQuantization {
    ui = false,
    withAlpha = %[1]s,
    maxColors = %[2]d
}
spr:saveAs(spr.filename)
print(json.encode({status = "quantized", paletteSize = #spr.palettes[1], maxColors = %[2]d}))`,
		lua.Bool(deref(p.WithAlpha, false)), n), nil
}
