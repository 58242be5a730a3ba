package scripts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deixis/aseprite-mcp/internal/lua"
)

type AddLayerParams struct {
	FilePath   string  `json:"file_path" jsonschema:"Path to the sprite file"`
	Name       string  `json:"name" jsonschema:"Name for the new layer"`
	IsGroup    *bool   `json:"is_group,omitempty" jsonschema:"Create a group layer instead of a normal layer (default: false)"`
	AfterLayer *string `json:"after_layer,omitempty" jsonschema:"Insert after this layer name (if omitted, adds at top)"`
}

// LayerParams names a layer in a sprite file.
type LayerParams struct {
	FilePath string `json:"file_path" jsonschema:"Path to the sprite file"`
	Name     string `json:"name" jsonschema:"Name of the layer"`
}

type SetLayerPropertyParams struct {
	FilePath  string  `json:"file_path" jsonschema:"Path to the sprite file"`
	Name      string  `json:"name" jsonschema:"Name of the layer to modify"`
	NewName   *string `json:"new_name,omitempty" jsonschema:"New name for the layer"`
	Visible   *bool   `json:"visible,omitempty" jsonschema:"Set visibility (true=visible, false=hidden)"`
	Opacity   *uint   `json:"opacity,omitempty" jsonschema:"Set opacity (0-255)"`
	BlendMode *string `json:"blend_mode,omitempty" jsonschema:"Set blend mode (normal, multiply, screen, overlay, darken, lighten, etc.)"`
}

type DuplicateLayerParams struct {
	FilePath string  `json:"file_path" jsonschema:"Path to the sprite file"`
	Name     string  `json:"name" jsonschema:"Name of the layer to duplicate"`
	NewName  *string `json:"new_name,omitempty" jsonschema:"Name for the duplicated layer (defaults to '<name> Copy')"`
}

type FlattenLayersParams struct {
	FilePath   string  `json:"file_path" jsonschema:"Path to the sprite file"`
	OutputPath *string `json:"output_path,omitempty" jsonschema:"Save to a different path (if omitted, overwrites the original)"`
}

var blendModes = map[string]string{
	"normal":      "BlendMode.NORMAL",
	"multiply":    "BlendMode.MULTIPLY",
	"screen":      "BlendMode.SCREEN",
	"overlay":     "BlendMode.OVERLAY",
	"darken":      "BlendMode.DARKEN",
	"lighten":     "BlendMode.LIGHTEN",
	"color_dodge": "BlendMode.COLOR_DODGE",
	"color_burn":  "BlendMode.COLOR_BURN",
	"hard_light":  "BlendMode.HARD_LIGHT",
	"soft_light":  "BlendMode.SOFT_LIGHT",
	"difference":  "BlendMode.DIFFERENCE",
	"exclusion":   "BlendMode.EXCLUSION",
	"addition":    "BlendMode.ADDITION",
	"subtract":    "BlendMode.SUBTRACT",
	"divide":      "BlendMode.DIVIDE",
}

// ListLayers walks the layer tree depth first, groups included.
const ListLayers = `local spr = app.sprite
local layers = {}
local function collect(lyrs, depth, parent_name)
    for i, layer in ipairs(lyrs) do
        local l = {}
        l.name = layer.name
        l.isVisible = layer.isVisible
        l.isEditable = layer.isEditable
        l.isGroup = layer.isGroup
        l.stackIndex = layer.stackIndex
        l.depth = depth
        l.parent = parent_name
        if layer.opacity then l.opacity = layer.opacity end
        if layer.blendMode then l.blendMode = tostring(layer.blendMode) end
        l.isBackground = layer.isBackground or false
        l.isTilemap = layer.isTilemap or false
        l.numCels = #layer.cels
        table.insert(layers, l)
        if layer.isGroup and layer.layers then
            collect(layer.layers, depth + 1, layer.name)
        end
    end
end
collect(spr.layers, 0, nil)
print(json.encode({layers = layers, total = #layers}))`

func (b *Builder) AddLayer(p AddLayerParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if err := requireName(p.Name, "Layer"); err != nil {
		return "", err
	}
	create := "newLayer"
	if deref(p.IsGroup, false) {
		create = "newGroup"
	}
	var after string
	if p.AfterLayer != nil && *p.AfterLayer != "" {
		after = fmt.Sprintf(`
local target = nil
for i, l in ipairs(spr.layers) do
    if l.name == %s then target = l break end
end
if target then
    new_layer.stackIndex = target.stackIndex + 1
end`, lua.String(*p.AfterLayer))
	}

	return fmt.Sprintf(`local spr = app.sprite
local new_layer = spr:%s()
new_layer.name = %s
%s
spr:saveAs(spr.filename)
local result = {}
result.name = new_layer.name
result.isGroup = new_layer.isGroup
result.stackIndex = new_layer.stackIndex
result.status = "created"
print(json.encode(result))`, create, lua.String(p.Name), after), nil
}

func (b *Builder) RemoveLayer(p LayerParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if err := requireName(p.Name, "Layer"); err != nil {
		return "", err
	}
	name := lua.String(p.Name)
	return fmt.Sprintf(`local spr = app.sprite
%s
local layer = find_layer(spr.layers, %s)
if not layer then
    print(json.encode({error = "Layer not found: " .. %[2]s}))
    return
end
spr:deleteLayer(layer)
spr:saveAs(spr.filename)
print(json.encode({status = "deleted", layer = %[2]s}))`, lua.FindLayer, name), nil
}

func (b *Builder) SetLayerProperty(p SetLayerPropertyParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if err := requireName(p.Name, "Layer"); err != nil {
		return "", err
	}

	var props strings.Builder
	if p.NewName != nil {
		fmt.Fprintf(&props, "    layer.name = %s\n", lua.String(*p.NewName))
	}
	if p.Visible != nil {
		fmt.Fprintf(&props, "    layer.isVisible = %s\n", lua.Bool(*p.Visible))
	}
	if p.Opacity != nil {
		fmt.Fprintf(&props, "    layer.opacity = %d\n", min(*p.Opacity, 255))
	}
	if p.BlendMode != nil {
		bm, ok := blendModes[strings.ToLower(*p.BlendMode)]
		if !ok {
			bm = blendModes["normal"]
		}
		fmt.Fprintf(&props, "    layer.blendMode = %s\n", bm)
	}
	if props.Len() == 0 {
		return "", errors.New("no properties specified to change")
	}

	return fmt.Sprintf(`local spr = app.sprite
%s
local layer = find_layer(spr.layers, %s)
if layer then
%s
    spr:saveAs(spr.filename)
    local result = {}
    result.name = layer.name
    result.isVisible = layer.isVisible
    if layer.opacity then result.opacity = layer.opacity end
    if layer.blendMode then result.blendMode = tostring(layer.blendMode) end
    result.status = "updated"
    print(json.encode(result))
else
    print(json.encode({error = "Layer not found: " .. %[2]s}))
end`, lua.FindLayer, lua.String(p.Name), props.String()), nil
}

func (b *Builder) DuplicateLayer(p DuplicateLayerParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if err := requireName(p.Name, "Layer"); err != nil {
		return "", err
	}
	var rename string
	if p.NewName != nil && *p.NewName != "" {
		rename = "app.layer.name = " + lua.String(*p.NewName)
	}
	return fmt.Sprintf(`local spr = app.sprite
%s
%s
app.command.DuplicateLayer()
%s
spr:saveAs(spr.filename)
local result = {}
result.name = app.layer.name
result.isGroup = app.layer.isGroup
result.stackIndex = app.layer.stackIndex
result.status = "duplicated"
print(json.encode(result))`, lua.FindLayer, lua.SelectLayer(p.Name, true), rename), nil
}

func (b *Builder) MergeDownLayer(p LayerParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if err := requireName(p.Name, "Layer"); err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
%s
%s
app.command.MergeDownLayer()
spr:saveAs(spr.filename)
print(json.encode({name = app.layer.name, status = "merged"}))`,
		lua.FindLayer, lua.SelectLayer(p.Name, true)), nil
}

func (b *Builder) FlattenLayers(p FlattenLayersParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
app.command.FlattenLayers()
%s
print(json.encode({numLayers = #spr.layers, status = "flattened"}))`, b.saveCode(p.OutputPath)), nil
}
