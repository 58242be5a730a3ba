package scripts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deixis/aseprite-mcp/internal/lua"
)

type Pixel struct {
	X     int    `json:"x" jsonschema:"X coordinate"`
	Y     int    `json:"y" jsonschema:"Y coordinate"`
	Color string `json:"color" jsonschema:"Color as hex string (e.g. #ff0000 or #ff000080 with alpha)"`
}

type DrawPixelsParams struct {
	FilePath string  `json:"file_path" jsonschema:"Path to the sprite file"`
	Pixels   []Pixel `json:"pixels" jsonschema:"Pixels to draw"`
	Layer    *string `json:"layer,omitempty" jsonschema:"Target layer name (if omitted, uses the active layer)"`
	Frame    *uint   `json:"frame,omitempty" jsonschema:"Target frame number, 1-based (default: 1)"`
}

type Point struct {
	X int `json:"x" jsonschema:"X coordinate"`
	Y int `json:"y" jsonschema:"Y coordinate"`
}

type UseToolParams struct {
	FilePath  string  `json:"file_path" jsonschema:"Path to the sprite file"`
	Tool      string  `json:"tool" jsonschema:"Tool: pencil, line, rectangle, filled_rectangle, ellipse, filled_ellipse, paint_bucket, spray, eraser, contour, polygon"`
	Points    []Point `json:"points" jsonschema:"Points defining the stroke, e.g. two corners for a rectangle"`
	Color     string  `json:"color" jsonschema:"Foreground color as hex string (e.g. #ff0000)"`
	BrushSize *uint   `json:"brush_size,omitempty" jsonschema:"Brush size (default: 1)"`
	Opacity   *uint   `json:"opacity,omitempty" jsonschema:"Opacity 0-255 (default: 255)"`
	Layer     *string `json:"layer,omitempty" jsonschema:"Target layer name (if omitted, uses the active layer)"`
	Frame     *uint   `json:"frame,omitempty" jsonschema:"Target frame number, 1-based (default: 1)"`
}

type GetPixelDataParams struct {
	FilePath string  `json:"file_path" jsonschema:"Path to the sprite file"`
	X        uint    `json:"x" jsonschema:"X coordinate of the region start"`
	Y        uint    `json:"y" jsonschema:"Y coordinate of the region start"`
	Width    uint    `json:"width" jsonschema:"Width of the region to read"`
	Height   uint    `json:"height" jsonschema:"Height of the region to read"`
	Layer    *string `json:"layer,omitempty" jsonschema:"Read a single layer (if omitted, reads the flattened image)"`
	Frame    *uint   `json:"frame,omitempty" jsonschema:"Frame number, 1-based (default: 1)"`
}

// MaxPixelRegion bounds get_pixel_data so a single read stays well
// under the output capture limit.
const MaxPixelRegion = 256 * 256

var drawTools = map[string]bool{
	"pencil":           true,
	"line":             true,
	"rectangle":        true,
	"filled_rectangle": true,
	"ellipse":          true,
	"filled_ellipse":   true,
	"paint_bucket":     true,
	"spray":            true,
	"eraser":           true,
	"contour":          true,
	"polygon":          true,
}

// target returns fragments that make the frame (default 1) and, when
// named, the layer active. Both print a JSON error and return when
// the target does not exist.
func target(frame *uint, layer *string) (frameCode, layerCode string, err error) {
	n := deref(frame, 1)
	if n == 0 {
		return "", "", errors.New("frame is 1-based")
	}
	frameCode = fmt.Sprintf(`local frame = spr.frames[%d]
if not frame then
    print(json.encode({error = "Frame not found"}))
    return
end
app.frame = frame`, n)
	if layer != nil && *layer != "" {
		layerCode = lua.FindLayer + lua.SelectLayer(*layer, true)
	}
	return frameCode, layerCode, nil
}

// DrawPixels writes every pixel inside one transaction, creating a cel
// when the target frame has none.
func (b *Builder) DrawPixels(p DrawPixelsParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if len(p.Pixels) == 0 {
		return "", errors.New("pixels array cannot be empty")
	}
	frame, layer, err := target(p.Frame, p.Layer)
	if err != nil {
		return "", err
	}

	var draw strings.Builder
	for _, px := range p.Pixels {
		c, err := ParseColor(px.Color)
		if err != nil {
			return "", fmt.Errorf("invalid pixel color %q: %w", px.Color, err)
		}
		fmt.Fprintf(&draw, "    img:drawPixel(%d - pos.x, %d - pos.y, %s)\n", px.X, px.Y, c.PixelLua())
	}

	return fmt.Sprintf(`local spr = app.sprite
%s
%s
app.transaction("Draw Pixels", function()
    local cel = app.layer:cel(app.frame)
    if not cel then
        cel = spr:newCel(app.layer, app.frame)
    end
    local img = cel.image
    local pos = cel.position
%s
end)
spr:saveAs(spr.filename)
print(json.encode({status = "drawn", pixelCount = %d}))`, frame, layer, draw.String(), len(p.Pixels)), nil
}

// UseTool drives app.useTool with a single stroke through points.
func (b *Builder) UseTool(p UseToolParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if !drawTools[p.Tool] {
		return "", fmt.Errorf("unknown tool %q", p.Tool)
	}
	if len(p.Points) == 0 {
		return "", errors.New("points array cannot be empty")
	}
	c, err := ParseColor(p.Color)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", p.Color, err)
	}
	frame, layer, err := target(p.Frame, p.Layer)
	if err != nil {
		return "", err
	}

	points := make([]string, len(p.Points))
	for i, pt := range p.Points {
		points[i] = fmt.Sprintf("Point(%d, %d)", pt.X, pt.Y)
	}

	return fmt.Sprintf(`local spr = app.sprite
%s
%s
app.transaction("Use Tool", function()
    app.useTool {
        tool = %[3]s,
        color = %s,
        brush = Brush { size = %d },
        points = { %s },
        opacity = %d,
        cel = app.cel
    }
end)
spr:saveAs(spr.filename)
print(json.encode({status = "drawn", tool = %[3]s}))`,
		frame, layer, lua.String(p.Tool), c.Lua(), max(deref(p.BrushSize, 1), 1),
		strings.Join(points, ", "), min(deref(p.Opacity, 255), 255)), nil
}

// GetPixelData reads a region as #rrggbbaa strings, row by row. Pixels
// outside the image read as transparent.
func (b *Builder) GetPixelData(p GetPixelDataParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if p.Width == 0 || p.Height == 0 {
		return "", errors.New("region width and height must be greater than 0")
	}
	if uint64(p.Width)*uint64(p.Height) > MaxPixelRegion {
		return "", fmt.Errorf("region of %dx%d pixels exceeds the limit of %d pixels; read it in smaller pieces", p.Width, p.Height, MaxPixelRegion)
	}
	frame := deref(p.Frame, 1)
	if frame == 0 {
		return "", errors.New("frame is 1-based")
	}

	source := fmt.Sprintf(`local flat = Image(spr.spec)
flat:drawSprite(spr, %d)
local img = flat
local offX, offY = 0, 0`, frame)
	if p.Layer != nil && *p.Layer != "" {
		source = fmt.Sprintf(`%s
local target_layer = find_layer(spr.layers, %[2]s)
if not target_layer then
    print(json.encode({error = "Layer not found: " .. %[2]s}))
    return
end
local cel = target_layer:cel(%[3]d)
if not cel then
    print(json.encode({error = "No cel at frame %[3]d on layer " .. %[2]s}))
    return
end
local img = cel.image
local offX, offY = cel.position.x, cel.position.y`, lua.FindLayer, lua.String(*p.Layer), frame)
	}

	return fmt.Sprintf(`local spr = app.sprite
if not spr.frames[%d] then
    print(json.encode({error = "Frame not found"}))
    return
end
%s
local pc = app.pixelColor
local pixels = {}
for py = %d, %d do
    for px = %d, %d do
        local ix, iy = px - offX, py - offY
        local color = "#00000000"
        if ix >= 0 and ix < img.width and iy >= 0 and iy < img.height then
            local v = img:getPixel(ix, iy)
            color = string.format("#%%02x%%02x%%02x%%02x", pc.rgbaR(v), pc.rgbaG(v), pc.rgbaB(v), pc.rgbaA(v))
        end
        table.insert(pixels, {x = px, y = py, color = color})
    end
end
print(json.encode({pixels = pixels, width = %d, height = %d}))`,
		frame, source, p.Y, p.Y+p.Height-1, p.X, p.X+p.Width-1, p.Width, p.Height), nil
}
