package scripts

import (
	"errors"
	"fmt"
	"strconv"
)

type AddFrameParams struct {
	FilePath string `json:"file_path" jsonschema:"Path to the sprite file"`
	Count    *uint  `json:"count,omitempty" jsonschema:"Number of frames to add (default: 1)"`
	Empty    *bool  `json:"empty,omitempty" jsonschema:"Add empty frames instead of copying the current frame"`
}

type RemoveFrameParams struct {
	FilePath    string `json:"file_path" jsonschema:"Path to the sprite file"`
	FrameNumber uint   `json:"frame_number" jsonschema:"Frame number to remove (1-based)"`
}

type SetFrameDurationParams struct {
	FilePath    string `json:"file_path" jsonschema:"Path to the sprite file"`
	FrameNumber uint   `json:"frame_number" jsonschema:"Frame number (1-based)"`
	DurationMS  uint   `json:"duration_ms" jsonschema:"Duration in milliseconds"`
}

const ListFrames = `local spr = app.sprite
local frames = {}
for i, frame in ipairs(spr.frames) do
    table.insert(frames, {frameNumber = frame.frameNumber, duration = frame.duration})
end
print(json.encode({frames = frames, total = #frames}))`

func (b *Builder) AddFrame(p AddFrameParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	count := deref(p.Count, 1)
	if count == 0 {
		return "", errors.New("count must be at least 1")
	}
	fn := "newFrame"
	if deref(p.Empty, false) {
		fn = "newEmptyFrame"
	}
	return fmt.Sprintf(`local spr = app.sprite
for i = 1, %[1]d do
    spr:%[2]s(#spr.frames + 1)
end
spr:saveAs(spr.filename)
print(json.encode({status = "added", count = %[1]d, totalFrames = #spr.frames}))`, count, fn), nil
}

func (b *Builder) RemoveFrame(p RemoveFrameParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if p.FrameNumber == 0 {
		return "", errors.New("frame_number is 1-based")
	}
	return fmt.Sprintf(`local spr = app.sprite
if %[1]d > #spr.frames then
    print(json.encode({error = "Frame number out of range"}))
    return
end
if #spr.frames == 1 then
    print(json.encode({error = "Cannot remove the only frame"}))
    return
end
spr:deleteFrame(%[1]d)
spr:saveAs(spr.filename)
print(json.encode({status = "deleted", frameNumber = %[1]d, totalFrames = #spr.frames}))`, p.FrameNumber), nil
}

// SetFrameDuration converts milliseconds to the seconds Aseprite expects.
func (b *Builder) SetFrameDuration(p SetFrameDurationParams) (string, error) {
	if err := requireFile(p.FilePath); err != nil {
		return "", err
	}
	if p.FrameNumber == 0 {
		return "", errors.New("frame_number is 1-based")
	}
	dur := strconv.FormatFloat(float64(p.DurationMS)/1000, 'g', -1, 64)
	return fmt.Sprintf(`local spr = app.sprite
local frame = spr.frames[%[1]d]
if not frame then
    print(json.encode({error = "Frame not found"}))
    return
end
frame.duration = %[2]s
spr:saveAs(spr.filename)
print(json.encode({status = "updated", frameNumber = %[1]d, duration = %[2]s}))`, p.FrameNumber, dur), nil
}
