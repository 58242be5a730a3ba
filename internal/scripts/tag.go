package scripts

import (
	"errors"
	"fmt"

	"github.com/deixis/aseprite-mcp/internal/lua"
)

type CreateTagParams struct {
	FilePath  string  `json:"file_path" jsonschema:"Path to the sprite file"`
	Name      string  `json:"name" jsonschema:"Tag name"`
	FromFrame uint    `json:"from_frame" jsonschema:"First frame number (1-based)"`
	ToFrame   uint    `json:"to_frame" jsonschema:"Last frame number (1-based)"`
	AniDir    *string `json:"ani_dir,omitempty" jsonschema:"Animation direction: forward, reverse, ping_pong, ping_pong_reverse (default: forward)"`
	Color     *string `json:"color,omitempty" jsonschema:"Tag color as hex string (e.g. #ff0000)"`
}

type DeleteTagParams struct {
	FilePath string `json:"file_path" jsonschema:"Path to the sprite file"`
	Name     string `json:"name" jsonschema:"Tag name to delete"`
}

var aniDirs = map[string]string{
	"forward":           "AniDir.FORWARD",
	"reverse":           "AniDir.REVERSE",
	"ping_pong":         "AniDir.PING_PONG",
	"ping_pong_reverse": "AniDir.PING_PONG_REVERSE",
}

const ListTags = `local spr = app.sprite
local tags = {}
for i, tag in ipairs(spr.tags) do
    local t = {}
    t.name = tag.name
    t.fromFrame = tag.fromFrame.frameNumber
    t.toFrame = tag.toFrame.frameNumber
    t.frames = tag.frames
    t.aniDir = tostring(tag.aniDir)
    t.repeats = tag.repeats
    table.insert(tags, t)
end
print(json.encode({tags = tags, total = #tags}))`

func (b *Builder) CreateTag(p CreateTagParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if err := requireName(p.Name, "Tag"); err != nil {
		return "", err
	}
	if p.FromFrame == 0 || p.ToFrame < p.FromFrame {
		return "", errors.New("invalid frame range: from_frame must be at least 1 and not after to_frame")
	}
	dir, ok := aniDirs[deref(p.AniDir, "forward")]
	if !ok {
		dir = aniDirs["forward"]
	}
	var color string
	if p.Color != nil {
		c, err := ParseColor(*p.Color)
		if err != nil {
			return "", fmt.Errorf("invalid tag color %q: %w", *p.Color, err)
		}
		color = "tag.color = " + c.Lua()
	}

	return fmt.Sprintf(`local spr = app.sprite
if %[2]d > #spr.frames then
    print(json.encode({error = "Frame range out of bounds"}))
    return
end
local tag = spr:newTag(%[1]d, %[2]d)
tag.name = %[3]s
tag.aniDir = %[4]s
%[5]s
spr:saveAs(spr.filename)
local result = {}
result.name = tag.name
result.fromFrame = tag.fromFrame.frameNumber
result.toFrame = tag.toFrame.frameNumber
result.aniDir = tostring(tag.aniDir)
result.status = "created"
print(json.encode(result))`, p.FromFrame, p.ToFrame, lua.String(p.Name), dir, color), nil
}

func (b *Builder) DeleteTag(p DeleteTagParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if err := requireName(p.Name, "Tag"); err != nil {
		return "", err
	}
	return fmt.Sprintf(`local spr = app.sprite
local found = false
for i, t in ipairs(spr.tags) do
    if t.name == %[1]s then found = true break end
end
if not found then
    print(json.encode({error = "Tag not found: " .. %[1]s}))
    return
end
spr:deleteTag(%[1]s)
spr:saveAs(spr.filename)
print(json.encode({status = "deleted", tag = %[1]s}))`, lua.String(p.Name)), nil
}
