package scripts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deixis/aseprite-mcp/internal/lua"
)

type SliceRect struct {
	X      int  `json:"x" jsonschema:"X offset relative to slice bounds"`
	Y      int  `json:"y" jsonschema:"Y offset relative to slice bounds"`
	Width  uint `json:"width" jsonschema:"Width of the center rectangle"`
	Height uint `json:"height" jsonschema:"Height of the center rectangle"`
}

type SlicePoint struct {
	X int `json:"x" jsonschema:"X coordinate of the pivot"`
	Y int `json:"y" jsonschema:"Y coordinate of the pivot"`
}

type CreateSliceParams struct {
	FilePath string      `json:"file_path" jsonschema:"Path to the sprite file"`
	Name     string      `json:"name" jsonschema:"Name for the new slice"`
	X        int         `json:"x" jsonschema:"X coordinate of slice bounds"`
	Y        int         `json:"y" jsonschema:"Y coordinate of slice bounds"`
	Width    uint        `json:"width" jsonschema:"Width of slice bounds"`
	Height   uint        `json:"height" jsonschema:"Height of slice bounds"`
	Center   *SliceRect  `json:"center,omitempty" jsonschema:"9-slice center rectangle relative to the slice bounds"`
	Pivot    *SlicePoint `json:"pivot,omitempty" jsonschema:"Pivot point relative to the slice bounds"`
	Color    *string     `json:"color,omitempty" jsonschema:"Slice color as hex string (e.g. #ff0000)"`
	Data     *string     `json:"data,omitempty" jsonschema:"User data string, e.g. JSON metadata for a game engine"`
}

type DeleteSliceParams struct {
	FilePath string `json:"file_path" jsonschema:"Path to the sprite file"`
	Name     string `json:"name" jsonschema:"Name of the slice to delete"`
}

const ListSlices = `local spr = app.sprite
local function rect(r)
    return {x = r.x, y = r.y, width = r.width, height = r.height}
end
local slices = {}
for i, slice in ipairs(spr.slices) do
    local s = {}
    s.name = slice.name
    if slice.bounds then s.bounds = rect(slice.bounds) end
    if slice.center then s.center = rect(slice.center) end
    if slice.pivot then s.pivot = {x = slice.pivot.x, y = slice.pivot.y} end
    if slice.color then
        s.color = string.format("#%02x%02x%02x%02x", slice.color.red, slice.color.green, slice.color.blue, slice.color.alpha)
    end
    if slice.data and slice.data ~= "" then s.data = slice.data end
    table.insert(slices, s)
end
print(json.encode({slices = slices, total = #slices}))`

func (b *Builder) CreateSlice(p CreateSliceParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if err := requireName(p.Name, "Slice"); err != nil {
		return "", err
	}
	if p.Width == 0 || p.Height == 0 {
		return "", errors.New("slice width and height must be greater than 0")
	}

	var extra strings.Builder
	if c := p.Center; c != nil {
		if c.Width == 0 || c.Height == 0 {
			return "", errors.New("center width and height must be greater than 0")
		}
		fmt.Fprintf(&extra, "slice.center = Rectangle(%d, %d, %d, %d)\n", c.X, c.Y, c.Width, c.Height)
	}
	if p.Pivot != nil {
		fmt.Fprintf(&extra, "slice.pivot = Point(%d, %d)\n", p.Pivot.X, p.Pivot.Y)
	}
	if p.Color != nil {
		c, err := ParseColor(*p.Color)
		if err != nil {
			return "", fmt.Errorf("invalid slice color %q: %w", *p.Color, err)
		}
		extra.WriteString("slice.color = " + c.Lua() + "\n")
	}
	if p.Data != nil {
		extra.WriteString("slice.data = " + lua.String(*p.Data) + "\n")
	}

	return fmt.Sprintf(`local spr = app.sprite
local slice = spr:newSlice(Rectangle(%d, %d, %d, %d))
slice.name = %s
%s
spr:saveAs(spr.filename)
local function rect(r)
    return {x = r.x, y = r.y, width = r.width, height = r.height}
end
local result = {}
result.name = slice.name
result.bounds = rect(slice.bounds)
if slice.center then result.center = rect(slice.center) end
if slice.pivot then result.pivot = {x = slice.pivot.x, y = slice.pivot.y} end
result.status = "created"
print(json.encode(result))`, p.X, p.Y, p.Width, p.Height, lua.String(p.Name), extra.String()), nil
}

// DeleteSlice removes the first slice with the given name.
func (b *Builder) DeleteSlice(p DeleteSliceParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if err := requireName(p.Name, "Slice"); err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
local target = nil
for i, slice in ipairs(spr.slices) do
    if slice.name == %[1]s then target = slice break end
end
if not target then
    print(json.encode({error = "Slice not found: " .. %[1]s}))
    return
end
spr:deleteSlice(target)
spr:saveAs(spr.filename)
print(json.encode({status = "deleted", slice = %[1]s}))`, lua.String(p.Name)), nil
}
