package scripts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deixis/aseprite-mcp/internal/lua"
)

// FileParams identifies a sprite file.
type FileParams struct {
	FilePath string `json:"file_path" jsonschema:"Path to the sprite file"`
}

type CreateSpriteParams struct {
	Width      int     `json:"width" jsonschema:"Width in pixels"`
	Height     int     `json:"height" jsonschema:"Height in pixels"`
	OutputPath string  `json:"output_path" jsonschema:"Output file path (e.g. my_sprite.aseprite or art/player.png)"`
	ColorMode  *string `json:"color_mode,omitempty" jsonschema:"Color mode: rgb, grayscale, or indexed (default: rgb)"`
}

type ResizeSpriteParams struct {
	FilePath   string  `json:"file_path" jsonschema:"Path to the sprite file"`
	Width      int     `json:"width" jsonschema:"New width in pixels"`
	Height     int     `json:"height" jsonschema:"New height in pixels"`
	OutputPath *string `json:"output_path,omitempty" jsonschema:"Save to a different path (if omitted, overwrites the original)"`
}

type CropSpriteParams struct {
	FilePath   string  `json:"file_path" jsonschema:"Path to the sprite file"`
	X          int     `json:"x" jsonschema:"X coordinate of the crop region"`
	Y          int     `json:"y" jsonschema:"Y coordinate of the crop region"`
	Width      int     `json:"width" jsonschema:"Width of the crop region"`
	Height     int     `json:"height" jsonschema:"Height of the crop region"`
	OutputPath *string `json:"output_path,omitempty" jsonschema:"Save to a different path (if omitted, overwrites the original)"`
}

type FlipSpriteParams struct {
	FilePath   string  `json:"file_path" jsonschema:"Path to the sprite file"`
	Direction  string  `json:"direction" jsonschema:"Flip direction: horizontal or vertical"`
	OutputPath *string `json:"output_path,omitempty" jsonschema:"Save to a different path (if omitted, overwrites the original)"`
}

type RotateSpriteParams struct {
	FilePath   string  `json:"file_path" jsonschema:"Path to the sprite file"`
	Angle      int     `json:"angle" jsonschema:"Rotation angle in degrees (90, 180, or 270)"`
	OutputPath *string `json:"output_path,omitempty" jsonschema:"Save to a different path (if omitted, overwrites the original)"`
}

type CanvasSizeParams struct {
	FilePath string `json:"file_path" jsonschema:"Path to the sprite file"`
	Left     int    `json:"left" jsonschema:"Left padding (positive expands, negative shrinks)"`
	Top      int    `json:"top" jsonschema:"Top padding"`
	Right    int    `json:"right" jsonschema:"Right padding"`
	Bottom   int    `json:"bottom" jsonschema:"Bottom padding"`
}

type DuplicateSpriteParams struct {
	FilePath   string `json:"file_path" jsonschema:"Path to the source sprite file"`
	OutputPath string `json:"output_path" jsonschema:"Path to save the duplicate (e.g. player_copy.aseprite)"`
}

type AutoCropParams struct {
	FilePath   string  `json:"file_path" jsonschema:"Path to the sprite file"`
	OutputPath *string `json:"output_path,omitempty" jsonschema:"Save to a different path (if omitted, overwrites the original)"`
}

type ChangeColorModeParams struct {
	FilePath   string  `json:"file_path" jsonschema:"Path to the sprite file"`
	ColorMode  string  `json:"color_mode" jsonschema:"Target color mode: rgb, grayscale, or indexed"`
	OutputPath *string `json:"output_path,omitempty" jsonschema:"Save to a different path (if omitted, overwrites the original)"`
}

type ReverseFramesParams struct {
	FilePath  string `json:"file_path" jsonschema:"Path to the sprite file"`
	FromFrame *int   `json:"from_frame,omitempty" jsonschema:"First frame number (1-based) of the range to reverse. Defaults to 1."`
	ToFrame   *int   `json:"to_frame,omitempty" jsonschema:"Last frame number (1-based) of the range to reverse. Defaults to the last frame."`
}

func (b *Builder) CreateSprite(p CreateSpriteParams) (string, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return "", errors.New("width and height must be greater than 0")
	}
	if strings.TrimSpace(p.OutputPath) == "" {
		return "", errors.New("output path cannot be empty")
	}
	mode := "ColorMode.RGB"
	switch deref(p.ColorMode, "rgb") {
	case "grayscale":
		mode = "ColorMode.GRAYSCALE"
	case "indexed":
		mode = "ColorMode.INDEXED"
	}

	return fmt.Sprintf(`local spr = Sprite(%d, %d, %s)
spr:saveAs(%s)
local result = {}
result.width = spr.width
result.height = spr.height
result.filename = spr.filename
result.colorMode = tostring(spr.colorMode)
print(json.encode(result))`,
		p.Width, p.Height, mode, lua.Path(b.output(p.OutputPath))), nil
}

// SpriteInfo reports dimensions, layers, frames, tags, slices and palette size.
const SpriteInfo = `local spr = app.sprite
if not spr then
    print(json.encode({error = "No sprite loaded"}))
    return
end

local layers = {}
local function collect_layers(lyrs, depth)
    for i, layer in ipairs(lyrs) do
        local l = {}
        l.name = layer.name
        l.isVisible = layer.isVisible
        l.isEditable = layer.isEditable
        l.isGroup = layer.isGroup
        l.stackIndex = layer.stackIndex
        l.depth = depth
        if layer.opacity then l.opacity = layer.opacity end
        if layer.blendMode then l.blendMode = tostring(layer.blendMode) end
        l.isTilemap = layer.isTilemap or false
        l.isBackground = layer.isBackground or false
        table.insert(layers, l)
        if layer.isGroup and layer.layers then
            collect_layers(layer.layers, depth + 1)
        end
    end
end
collect_layers(spr.layers, 0)

local frames = {}
for i, frame in ipairs(spr.frames) do
    table.insert(frames, {frameNumber = frame.frameNumber, duration = frame.duration})
end

local tags = {}
for i, tag in ipairs(spr.tags) do
    table.insert(tags, {
        name = tag.name,
        fromFrame = tag.fromFrame.frameNumber,
        toFrame = tag.toFrame.frameNumber,
        aniDir = tostring(tag.aniDir),
        repeats = tag.repeats
    })
end

local slices = {}
for i, slice in ipairs(spr.slices) do
    local s = {name = slice.name}
    if slice.bounds then
        s.bounds = {x = slice.bounds.x, y = slice.bounds.y, width = slice.bounds.width, height = slice.bounds.height}
    end
    table.insert(slices, s)
end

local pal = spr.palettes[1]

local result = {}
result.filename = spr.filename
result.width = spr.width
result.height = spr.height
result.colorMode = tostring(spr.colorMode)
result.numFrames = #spr.frames
result.numLayers = #layers
result.numCels = #spr.cels
result.paletteSize = pal and #pal or 0
result.layers = layers
result.frames = frames
result.tags = tags
result.slices = slices
print(json.encode(result))`

func (b *Builder) ResizeSprite(p ResizeSpriteParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if p.Width <= 0 || p.Height <= 0 {
		return "", errors.New("width and height must be greater than 0")
	}
	out := lua.Path(b.outputOr(p.OutputPath, p.FilePath))
	return fmt.Sprintf(`local spr = app.sprite
spr:resize(%d, %d)
spr:saveCopyAs(%s)
local result = {}
result.width = spr.width
result.height = spr.height
result.filename = %s
result.status = "resized"
print(json.encode(result))`, p.Width, p.Height, out, out), nil
}

func (b *Builder) CropSprite(p CropSpriteParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if p.Width <= 0 || p.Height <= 0 {
		return "", errors.New("crop width and height must be greater than 0")
	}
	return fmt.Sprintf(`local spr = app.sprite
spr:crop(%d, %d, %d, %d)
spr:saveCopyAs(%s)
print(json.encode({width = spr.width, height = spr.height, status = "cropped"}))`,
		p.X, p.Y, p.Width, p.Height, lua.Path(b.outputOr(p.OutputPath, p.FilePath))), nil
}

func (b *Builder) FlipSprite(p FlipSpriteParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	dir := strings.ToLower(p.Direction)
	if dir != "horizontal" && dir != "vertical" {
		return "", errors.New("direction must be 'horizontal' or 'vertical'")
	}
	return fmt.Sprintf(`local spr = app.sprite
app.command.Flip {
    ui = false,
    target = "canvas",
    orientation = %[1]s
}
spr:saveCopyAs(%[2]s)
print(json.encode({status = "flipped", direction = %[1]s}))`,
		lua.String(dir), lua.Path(b.outputOr(p.OutputPath, p.FilePath))), nil
}

func (b *Builder) RotateSprite(p RotateSpriteParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if p.Angle != 90 && p.Angle != 180 && p.Angle != 270 {
		return "", errors.New("angle must be 90, 180, or 270")
	}
	return fmt.Sprintf(`local spr = app.sprite
app.command.Rotate {
    ui = false,
    angle = %[1]d,
    rotsprite = false
}
spr:saveCopyAs(%[2]s)
print(json.encode({status = "rotated", angle = %[1]d, width = spr.width, height = spr.height}))`,
		p.Angle, lua.Path(b.outputOr(p.OutputPath, p.FilePath))), nil
}

func (b *Builder) CanvasSize(p CanvasSizeParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
app.command.CanvasSize {
    ui = false,
    left = %d,
    top = %d,
    right = %d,
    bottom = %d
}
spr:saveAs(spr.filename)
print(json.encode({width = spr.width, height = spr.height, status = "canvas_resized"}))`,
		p.Left, p.Top, p.Right, p.Bottom), nil
}

func (b *Builder) DuplicateSprite(p DuplicateSpriteParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if strings.TrimSpace(p.OutputPath) == "" {
		return "", errors.New("output path cannot be empty")
	}
	return fmt.Sprintf(`local spr = app.sprite
local copy = Sprite(spr)
copy:saveAs(%s)
local result = {}
result.width = copy.width
result.height = copy.height
result.filename = copy.filename
result.numLayers = #copy.layers
result.numFrames = #copy.frames
result.status = "duplicated"
print(json.encode(result))`, lua.Path(b.output(p.OutputPath))), nil
}

func (b *Builder) AutoCrop(p AutoCropParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
local oldW, oldH = spr.width, spr.height
app.command.AutocropSprite()
%s
local result = {}
result.oldWidth = oldW
result.oldHeight = oldH
result.width = spr.width
result.height = spr.height
result.status = "auto_cropped"
print(json.encode(result))`, b.saveCode(p.OutputPath)), nil
}

func (b *Builder) ChangeColorMode(p ChangeColorModeParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	var format string
	switch strings.ToLower(p.ColorMode) {
	case "rgb":
		format = "rgb"
	case "grayscale":
		format = "gray"
	case "indexed":
		format = "indexed"
	default:
		return "", errors.New("color_mode must be 'rgb', 'grayscale', or 'indexed'")
	}
	return fmt.Sprintf(`local spr = app.sprite
app.command.ChangePixelFormat {
    ui = false,
    format = %s
}
%s
local result = {}
result.colorMode = tostring(spr.colorMode)
result.width = spr.width
result.height = spr.height
result.status = "color_mode_changed"
print(json.encode(result))`, lua.String(format), b.saveCode(p.OutputPath)), nil
}

func (b *Builder) ReverseFrames(p ReverseFramesParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	from := deref(p.FromFrame, 1)
	if from < 1 {
		return "", errors.New("from_frame must be at least 1")
	}
	to := "#spr.frames"
	if p.ToFrame != nil {
		if *p.ToFrame < from {
			return "", errors.New("to_frame must not be before from_frame")
		}
		to = fmt.Sprint(*p.ToFrame)
	}
	return fmt.Sprintf(`local spr = app.sprite
local fromFrame = %d
local toFrame = %s
if toFrame > #spr.frames then
    print(json.encode({error = "Frame range out of bounds"}))
    return
end
local frames = {}
for i = fromFrame, toFrame do
    table.insert(frames, spr.frames[i])
end
app.range.frames = frames
app.command.ReverseFrames()
spr:saveAs(spr.filename)
print(json.encode({fromFrame = fromFrame, toFrame = toFrame, numFrames = #spr.frames, status = "reversed"}))`,
		from, to), nil
}
