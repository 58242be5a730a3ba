package scripts

import (
	"errors"
	"fmt"
)

type SelectRegionParams struct {
	FilePath string  `json:"file_path" jsonschema:"Path to the sprite file"`
	X        int     `json:"x" jsonschema:"X coordinate"`
	Y        int     `json:"y" jsonschema:"Y coordinate"`
	Width    uint    `json:"width" jsonschema:"Width"`
	Height   uint    `json:"height" jsonschema:"Height"`
	Mode     *string `json:"mode,omitempty" jsonschema:"Selection mode: replace, add, subtract, intersect (default: replace)"`
}

type SelectByColorParams struct {
	FilePath  string `json:"file_path" jsonschema:"Path to the sprite file"`
	Color     string `json:"color" jsonschema:"Color to select as hex string (e.g. #ff0000)"`
	Tolerance *uint  `json:"tolerance,omitempty" jsonschema:"Color matching tolerance (0-255, default: 0)"`
}

// selectionModes maps a mode to the Selection method applying it.
var selectionModes = map[string]string{
	"replace":   "select",
	"add":       "add",
	"subtract":  "subtract",
	"intersect": "intersect",
}

// selectionResult fills a result table from sel, which must be bound
// to spr.selection. The verb is the status string.
const selectionResult = `local result = {}
result.status = %q
result.isEmpty = sel.isEmpty
if not sel.isEmpty then
    result.bounds = {x = sel.bounds.x, y = sel.bounds.y, width = sel.bounds.width, height = sel.bounds.height}
end`

const Deselect = `local spr = app.sprite
spr.selection:deselect()
spr:saveAs(spr.filename)
print(json.encode({status = "deselected"}))`

var SelectAll = `local spr = app.sprite
app.command.MaskAll()
spr:saveAs(spr.filename)
local sel = spr.selection
` + fmt.Sprintf(selectionResult, "selected_all") + `
print(json.encode(result))`

var InvertSelection = `local spr = app.sprite
app.command.InvertMask()
spr:saveAs(spr.filename)
local sel = spr.selection
` + fmt.Sprintf(selectionResult, "inverted") + `
print(json.encode(result))`

func (b *Builder) SelectRegion(p SelectRegionParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if p.Width == 0 || p.Height == 0 {
		return "", errors.New("selection width and height must be greater than 0")
	}
	mode := deref(p.Mode, "replace")
	method, ok := selectionModes[mode]
	if !ok {
		return "", fmt.Errorf("invalid selection mode %q: use replace, add, subtract or intersect", mode)
	}

	return fmt.Sprintf(`local spr = app.sprite
local sel = spr.selection
sel:%s(Rectangle(%d, %d, %d, %d))
spr:saveAs(spr.filename)
%s
print(json.encode(result))`, method, p.X, p.Y, p.Width, p.Height, fmt.Sprintf(selectionResult, "selected")), nil
}

func (b *Builder) SelectByColor(p SelectByColorParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	c, err := ParseColor(p.Color)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", p.Color, err)
	}
	tolerance := min(deref(p.Tolerance, 0), 255)

	return fmt.Sprintf(`local spr = app.sprite
app.fgColor = %s
app.command.MaskByColor {
    ui = false,
    tolerance = %d
}
spr:saveAs(spr.filename)
local sel = spr.selection
%s
result.color = "#%02x%02x%02x"
result.tolerance = %[2]d
print(json.encode(result))`, c.Lua(), tolerance, fmt.Sprintf(selectionResult, "selected_by_color"), c.R, c.G, c.B), nil
}
