package scripts

import (
	"errors"
	"fmt"

	"github.com/deixis/aseprite-mcp/internal/lua"
)

type ListCelsParams struct {
	FilePath string  `json:"file_path" jsonschema:"Path to the sprite file"`
	Layer    *string `json:"layer,omitempty" jsonschema:"Only list cels on this layer"`
	Frame    *uint   `json:"frame,omitempty" jsonschema:"Only list cels in this frame, 1-based"`
}

// CelParams addresses the cel of a layer at a frame.
type CelParams struct {
	FilePath string `json:"file_path" jsonschema:"Path to the sprite file"`
	Layer    string `json:"layer" jsonschema:"Layer name of the cel"`
	Frame    uint   `json:"frame" jsonschema:"Frame number of the cel, 1-based"`
}

type MoveCelParams struct {
	FilePath string `json:"file_path" jsonschema:"Path to the sprite file"`
	Layer    string `json:"layer" jsonschema:"Layer name of the cel to move"`
	Frame    uint   `json:"frame" jsonschema:"Frame number of the cel to move, 1-based"`
	X        int    `json:"x" jsonschema:"New X position on the canvas"`
	Y        int    `json:"y" jsonschema:"New Y position on the canvas"`
}

type SetCelOpacityParams struct {
	FilePath string `json:"file_path" jsonschema:"Path to the sprite file"`
	Layer    string `json:"layer" jsonschema:"Layer name of the cel"`
	Frame    uint   `json:"frame" jsonschema:"Frame number of the cel, 1-based"`
	Opacity  uint   `json:"opacity" jsonschema:"Opacity (0-255)"`
}

func (b *Builder) ListCels(p ListCelsParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	var filter string
	if p.Layer != nil && *p.Layer != "" {
		filter = lua.FindLayer + fmt.Sprintf(`
local target_layer = find_layer(spr.layers, %[1]s)
if not target_layer then
    print(json.encode({error = "Layer not found: " .. %[1]s}))
    return
end`, lua.String(*p.Layer))
	}
	frame := "nil"
	if p.Frame != nil {
		if *p.Frame == 0 {
			return "", errors.New("frame is 1-based")
		}
		frame = fmt.Sprint(*p.Frame)
	}

	return fmt.Sprintf(`local spr = app.sprite
%s
local target_frame = %s
local cels = {}
for i, cel in ipairs(spr.cels) do
    if (not target_layer or cel.layer == target_layer)
        and (not target_frame or cel.frameNumber == target_frame) then
        local c = {}
        c.layer = cel.layer.name
        c.frame = cel.frameNumber
        c.x = cel.position.x
        c.y = cel.position.y
        c.width = cel.image.width
        c.height = cel.image.height
        c.opacity = cel.opacity
        c.zIndex = cel.zIndex
        if cel.data and cel.data ~= "" then c.data = cel.data end
        table.insert(cels, c)
    end
end
print(json.encode({cels = cels, total = #cels}))`, filter, frame), nil
}

func checkCel(file, layer string, frame uint) error {
	if err := requireFile(file); err != nil {
		return err
	}
	if err := requireName(layer, "Layer"); err != nil {
		return err
	}
	if frame == 0 {
		return errors.New("frame is 1-based")
	}
	return nil
}

// celPrelude returns a fragment that binds layer and cel, or prints a
// JSON error and returns when either is missing.
func celPrelude(file, layer string, frame uint) (string, error) {
	if err := checkCel(file, layer, frame); err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
%s
local layer = find_layer(spr.layers, %[2]s)
if not layer then
    print(json.encode({error = "Layer not found: " .. %[2]s}))
    return
end
local cel = layer:cel(%[3]d)
if not cel then
    print(json.encode({error = "No cel at frame %[3]d on layer " .. %[2]s}))
    return
end`, lua.FindLayer, lua.String(layer), frame), nil
}

func (b *Builder) MoveCel(p MoveCelParams) (string, error) {
	prelude, err := celPrelude(p.FilePath, p.Layer, p.Frame)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`%s
cel.position = Point(%d, %d)
spr:saveAs(spr.filename)
local result = {}
result.layer = cel.layer.name
result.frame = cel.frameNumber
result.x = cel.position.x
result.y = cel.position.y
result.status = "moved"
print(json.encode(result))`, prelude, p.X, p.Y), nil
}

func (b *Builder) SetCelOpacity(p SetCelOpacityParams) (string, error) {
	prelude, err := celPrelude(p.FilePath, p.Layer, p.Frame)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`%s
cel.opacity = %d
spr:saveAs(spr.filename)
local result = {}
result.layer = cel.layer.name
result.frame = cel.frameNumber
result.opacity = cel.opacity
result.status = "updated"
print(json.encode(result))`, prelude, min(p.Opacity, 255)), nil
}

// ClearCel deletes the cel if there is one. Clearing an empty cel is
// not an error.
func (b *Builder) ClearCel(p CelParams) (string, error) {
	if err := checkCel(p.FilePath, p.Layer, p.Frame); err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
%s
local layer = find_layer(spr.layers, %[2]s)
if not layer then
    print(json.encode({error = "Layer not found: " .. %[2]s}))
    return
end
local cel = layer:cel(%[3]d)
if cel then
    spr:deleteCel(cel)
end
spr:saveAs(spr.filename)
print(json.encode({status = "cleared", layer = %[2]s, frame = %[3]d}))`, lua.FindLayer, lua.String(p.Layer), p.Frame), nil
}

func (b *Builder) NewCel(p CelParams) (string, error) {
	if err := checkCel(p.FilePath, p.Layer, p.Frame); err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
%s
local layer = find_layer(spr.layers, %[2]s)
if not layer then
    print(json.encode({error = "Layer not found: " .. %[2]s}))
    return
end
local frame = spr.frames[%[3]d]
if not frame then
    print(json.encode({error = "Frame %[3]d does not exist"}))
    return
end
local cel = spr:newCel(layer, frame)
spr:saveAs(spr.filename)
local result = {}
result.layer = cel.layer.name
result.frame = cel.frameNumber
result.x = cel.position.x
result.y = cel.position.y
result.width = cel.image.width
result.height = cel.image.height
result.opacity = cel.opacity
result.status = "created"
print(json.encode(result))`, lua.FindLayer, lua.String(p.Layer), p.Frame), nil
}
