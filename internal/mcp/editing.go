package mcp

import (
	"context"
	"fmt"

	"github.com/deixis/aseprite-mcp/internal/scripts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerSpriteTools(s *mcp.Server, h *handler) {
	b := h.scripts

	mcp.AddTool(s, &mcp.Tool{
		Name:        "create_sprite",
		Description: "Create a new sprite file with specified dimensions and color mode. Supports .aseprite, .png, .gif and other formats.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, p scripts.CreateSpriteParams) (*mcp.CallToolResult, any, error) {
		h.ensureOutputDir(ctx, req.Session)
		script, err := b.CreateSprite(p)
		if err != nil {
			return errorResult(err.Error())
		}
		return h.runScript(ctx, "create_sprite", "", script)
	})

	addFileTool(s, h, &mcp.Tool{
		Name:        "get_sprite_info",
		Description: "Get comprehensive information about a sprite file: dimensions, color mode, layers, frames, tags, slices, and palette size.",
	}, scripts.Static(scripts.SpriteInfo))

	addFileTool(s, h, &mcp.Tool{
		Name:        "resize_sprite",
		Description: "Resize a sprite to specified width and height in pixels.",
	}, b.ResizeSprite)

	addFileTool(s, h, &mcp.Tool{
		Name:        "crop_sprite",
		Description: "Crop a sprite to a rectangular region defined by x, y, width, and height.",
	}, b.CropSprite)

	addFileTool(s, h, &mcp.Tool{
		Name:        "flip_sprite",
		Description: "Flip a sprite horizontally or vertically.",
	}, b.FlipSprite)

	addFileTool(s, h, &mcp.Tool{
		Name:        "rotate_sprite",
		Description: "Rotate a sprite by 90, 180, or 270 degrees.",
	}, b.RotateSprite)

	addFileTool(s, h, &mcp.Tool{
		Name:        "canvas_size",
		Description: "Change the canvas size by specifying left, top, right, bottom padding. Positive values expand, negative values shrink.",
	}, b.CanvasSize)

	addFileTool(s, h, &mcp.Tool{
		Name:        "duplicate_sprite",
		Description: "Duplicate a sprite to a new file, preserving all layers, frames, tags, and slices.",
	}, b.DuplicateSprite)

	addFileTool(s, h, &mcp.Tool{
		Name:        "auto_crop_sprite",
		Description: "Trim transparent borders so the canvas fits the content tightly.",
	}, b.AutoCrop)

	addFileTool(s, h, &mcp.Tool{
		Name:        "change_color_mode",
		Description: "Change sprite color mode to 'rgb', 'grayscale', or 'indexed'.",
	}, b.ChangeColorMode)

	addFileTool(s, h, &mcp.Tool{
		Name:        "reverse_frames",
		Description: "Reverse the order of frames in a sprite or within a frame range, e.g. to build a backward walk from a forward one.",
	}, b.ReverseFrames)
}

func registerLayerTools(s *mcp.Server, h *handler) {
	b := h.scripts

	addFileTool(s, h, &mcp.Tool{
		Name:        "list_layers",
		Description: "List all layers in a sprite file with name, visibility, opacity, blend mode, and hierarchy information.",
	}, scripts.Static(scripts.ListLayers))

	addFileTool(s, h, &mcp.Tool{
		Name:        "add_layer",
		Description: "Add a new layer or group layer to a sprite. Optionally specify where to insert it.",
	}, b.AddLayer)

	addFileTool(s, h, &mcp.Tool{
		Name:        "remove_layer",
		Description: "Remove a layer from a sprite by its name.",
	}, b.RemoveLayer)

	addFileTool(s, h, &mcp.Tool{
		Name:        "set_layer_property",
		Description: "Modify layer properties: rename, set visibility, opacity (0-255), or blend mode.",
	}, b.SetLayerProperty)

	addFileTool(s, h, &mcp.Tool{
		Name:        "duplicate_layer",
		Description: "Duplicate a layer and all its cels within a sprite. Optionally rename the new layer.",
	}, b.DuplicateLayer)

	addFileTool(s, h, &mcp.Tool{
		Name:        "merge_down_layer",
		Description: "Merge a layer down into the layer below it.",
	}, b.MergeDownLayer)

	addFileTool(s, h, &mcp.Tool{
		Name:        "flatten_layers",
		Description: "Flatten all visible layers into a single layer.",
	}, b.FlattenLayers)
}

func registerFrameTools(s *mcp.Server, h *handler) {
	b := h.scripts

	addFileTool(s, h, &mcp.Tool{
		Name:        "list_frames",
		Description: "List all frames in a sprite with frame numbers and durations in seconds.",
	}, scripts.Static(scripts.ListFrames))

	addFileTool(s, h, &mcp.Tool{
		Name:        "add_frame",
		Description: "Add one or more frames to a sprite, either copies of the current frame or empty frames.",
	}, b.AddFrame)

	addFileTool(s, h, &mcp.Tool{
		Name:        "remove_frame",
		Description: "Remove a specific frame from a sprite by frame number (1-based).",
	}, b.RemoveFrame)

	addFileTool(s, h, &mcp.Tool{
		Name:        "set_frame_duration",
		Description: "Set the duration of a specific frame in milliseconds.",
	}, b.SetFrameDuration)
}

func registerTagTools(s *mcp.Server, h *handler) {
	b := h.scripts

	addFileTool(s, h, &mcp.Tool{
		Name:        "list_tags",
		Description: "List all animation tags in a sprite with name, frame range, direction, and repeat count.",
	}, scripts.Static(scripts.ListTags))

	addFileTool(s, h, &mcp.Tool{
		Name:        "create_tag",
		Description: "Create a new animation tag spanning a range of frames with optional direction and color.",
	}, b.CreateTag)

	addFileTool(s, h, &mcp.Tool{
		Name:        "delete_tag",
		Description: "Delete an animation tag from a sprite by its name.",
	}, b.DeleteTag)
}

func registerPaletteTools(s *mcp.Server, h *handler) {
	b := h.scripts

	addFileTool(s, h, &mcp.Tool{
		Name:        "get_palette",
		Description: "Get the color palette of a sprite as hex color values with their indices.",
	}, b.GetPalette)

	addFileTool(s, h, &mcp.Tool{
		Name:        "set_palette_color",
		Description: "Set one or more colors in the sprite's palette by index. Colors are hex strings like '#ff0000'.",
	}, b.SetPaletteColor)

	addFileTool(s, h, &mcp.Tool{
		Name:        "resize_palette",
		Description: "Resize the color palette to a specific number of colors.",
	}, b.ResizePalette)

	addFileTool(s, h, &mcp.Tool{
		Name:        "load_palette",
		Description: "Load a palette from a file (.gpl, .pal, .act, .col, .png) and apply it to the sprite.",
	}, b.LoadPalette)

	addFileTool(s, h, &mcp.Tool{
		Name:        "save_palette",
		Description: "Save the sprite's current palette to a file (.gpl, .pal, .act, .png).",
	}, b.SavePalette)

	addFileTool(s, h, &mcp.Tool{
		Name:        "color_quantization",
		Description: "Generate an optimized palette from the sprite's colors, reducing it to at most max_colors entries.",
	}, b.ColorQuantization)
}

func registerCelTools(s *mcp.Server, h *handler) {
	b := h.scripts

	addFileTool(s, h, &mcp.Tool{
		Name:        "list_cels",
		Description: "List cels with layer, frame, position, size, opacity and z-index. Optionally filter by layer and frame.",
	}, b.ListCels)

	addFileTool(s, h, &mcp.Tool{
		Name:        "move_cel",
		Description: "Move the cel of a layer at a frame to a new canvas position.",
	}, b.MoveCel)

	addFileTool(s, h, &mcp.Tool{
		Name:        "set_cel_opacity",
		Description: "Set the opacity (0-255) of the cel of a layer at a frame.",
	}, b.SetCelOpacity)

	addFileTool(s, h, &mcp.Tool{
		Name:        "clear_cel",
		Description: "Delete the content of a layer at a frame. Clearing an empty cel succeeds.",
	}, b.ClearCel)

	addFileTool(s, h, &mcp.Tool{
		Name:        "new_cel",
		Description: "Create an empty cel for a layer at a frame.",
	}, b.NewCel)
}

func registerSliceTools(s *mcp.Server, h *handler) {
	b := h.scripts

	addFileTool(s, h, &mcp.Tool{
		Name:        "list_slices",
		Description: "List all slices with bounds, 9-slice center, pivot, color and user data.",
	}, scripts.Static(scripts.ListSlices))

	addFileTool(s, h, &mcp.Tool{
		Name:        "create_slice",
		Description: "Create a named slice with optional 9-slice center, pivot, color and user data for game engines.",
	}, b.CreateSlice)

	addFileTool(s, h, &mcp.Tool{
		Name:        "delete_slice",
		Description: "Delete a slice by name.",
	}, b.DeleteSlice)
}

func registerSelectionTools(s *mcp.Server, h *handler) {
	b := h.scripts

	addFileTool(s, h, &mcp.Tool{
		Name:        "select_region",
		Description: "Select a rectangle, replacing, adding to, subtracting from or intersecting the current selection.",
	}, b.SelectRegion)

	addFileTool(s, h, &mcp.Tool{
		Name:        "deselect",
		Description: "Clear the selection.",
	}, scripts.Static(scripts.Deselect))

	addFileTool(s, h, &mcp.Tool{
		Name:        "select_all",
		Description: "Select the whole canvas.",
	}, scripts.Static(scripts.SelectAll))

	addFileTool(s, h, &mcp.Tool{
		Name:        "invert_selection",
		Description: "Invert the selection.",
	}, scripts.Static(scripts.InvertSelection))

	addFileTool(s, h, &mcp.Tool{
		Name:        "select_by_color",
		Description: "Select all pixels matching a hex color, within an optional tolerance (0-255).",
	}, b.SelectByColor)
}

func registerFilterTools(s *mcp.Server, h *handler) {
	b := h.scripts

	addFileTool(s, h, &mcp.Tool{
		Name:        "brightness_contrast",
		Description: "Adjust brightness and contrast (each -100 to 100) of the active cel or selection.",
	}, b.BrightnessContrast)

	addFileTool(s, h, &mcp.Tool{
		Name:        "hue_saturation",
		Description: "Shift hue (-180 to 180) and adjust saturation and lightness (-100 to 100) in HSL mode.",
	}, b.HueSaturation)

	addFileTool(s, h, &mcp.Tool{
		Name:        "invert_color",
		Description: "Invert the colors of the active cel or selection.",
	}, scripts.Static(scripts.InvertColor))

	addFileTool(s, h, &mcp.Tool{
		Name:        "despeckle",
		Description: "Remove noise with a median filter of the given matrix size (default 3x3).",
	}, b.Despeckle)

	addFileTool(s, h, &mcp.Tool{
		Name:        "replace_color",
		Description: "Replace one hex color with another, within an optional tolerance (0-255).",
	}, b.ReplaceColor)

	addFileTool(s, h, &mcp.Tool{
		Name:        "outline",
		Description: "Draw an outline of the given hex color around the content of a layer at a frame.",
	}, b.Outline)
}

func registerDrawingTools(s *mcp.Server, h *handler) {
	b := h.scripts

	addFileTool(s, h, &mcp.Tool{
		Name:        "draw_pixels",
		Description: "Draw individual pixels at the given coordinates with hex colors like '#ff0000'. Optionally target a specific layer and frame.",
	}, b.DrawPixels)

	addFileTool(s, h, &mcp.Tool{
		Name:        "use_tool",
		Description: "Draw a stroke with an Aseprite tool (pencil, line, rectangle, filled_rectangle, ellipse, filled_ellipse, paint_bucket, spray, eraser, contour, polygon) through the given points.",
	}, b.UseTool)

	addFileTool(s, h, &mcp.Tool{
		Name: "get_pixel_data",
		Description: fmt.Sprintf("Read the colors of a rectangular region as #rrggbbaa strings, from one layer or the flattened image. At most %d pixels per call.",
			scripts.MaxPixelRegion),
	}, b.GetPixelData)
}
