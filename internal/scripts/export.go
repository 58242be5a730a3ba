package scripts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type ExportSpriteParams struct {
	FilePath   string  `json:"file_path" jsonschema:"Path to the input sprite file"`
	OutputPath string  `json:"output_path" jsonschema:"Output file path with desired format extension (e.g. output.png, output.gif)"`
	Scale      *uint   `json:"scale,omitempty" jsonschema:"Scale factor (e.g. 2 for 2x size)"`
	Layer      *string `json:"layer,omitempty" jsonschema:"Specific layer name to export (if omitted, exports all visible layers)"`
	Tag        *string `json:"tag,omitempty" jsonschema:"Specific animation tag to export (if omitted, exports all frames)"`
}

type ExportSpritesheetParams struct {
	FilePath    string  `json:"file_path" jsonschema:"Path to the input sprite file"`
	OutputImage string  `json:"output_image" jsonschema:"Output image path for the spritesheet (e.g. sheet.png)"`
	OutputData  *string `json:"output_data,omitempty" jsonschema:"Output JSON data path (e.g. sheet.json)"`
	SheetType   *string `json:"sheet_type,omitempty" jsonschema:"Sheet type: horizontal, vertical, rows, columns, packed (default: rows)"`
	Columns     *uint   `json:"columns,omitempty" jsonschema:"Number of columns (for rows type)"`
	Trim        *bool   `json:"trim,omitempty" jsonschema:"Trim empty space from each frame"`
}

// Export is a CLI invocation plus the message reported when it succeeds.
type Export struct {
	Args    []string
	Message string
}

var sheetTypes = map[string]bool{
	"horizontal": true,
	"vertical":   true,
	"rows":       true,
	"columns":    true,
	"packed":     true,
}

func (b *Builder) ExportSprite(p ExportSpriteParams) (Export, error) {
	if err := requireFile(p.FilePath); err != nil {
		return Export{}, err
	}
	if strings.TrimSpace(p.OutputPath) == "" {
		return Export{}, errors.New("output path cannot be empty")
	}
	args := []string{p.FilePath}
	if p.Scale != nil {
		if *p.Scale == 0 {
			return Export{}, errors.New("scale must be greater than 0")
		}
		args = append(args, "--scale", strconv.FormatUint(uint64(*p.Scale), 10))
	}
	if p.Layer != nil {
		args = append(args, "--layer", *p.Layer)
	}
	if p.Tag != nil {
		args = append(args, "--tag", *p.Tag)
	}
	out := b.output(p.OutputPath)
	args = append(args, "--save-as", out)
	return Export{
		Args:    args,
		Message: fmt.Sprintf("Exported %s -> %s", p.FilePath, out),
	}, nil
}

func (b *Builder) ExportSpritesheet(p ExportSpritesheetParams) (Export, error) {
	if err := requireFile(p.FilePath); err != nil {
		return Export{}, err
	}
	if strings.TrimSpace(p.OutputImage) == "" {
		return Export{}, errors.New("output image path cannot be empty")
	}
	image := b.output(p.OutputImage)
	args := []string{p.FilePath, "--sheet", image}
	msg := "Spritesheet exported: " + image
	if p.OutputData != nil && *p.OutputData != "" {
		data := b.output(*p.OutputData)
		args = append(args, "--data", data)
		msg += ", data: " + data
	}
	if p.SheetType != nil {
		if !sheetTypes[*p.SheetType] {
			return Export{}, fmt.Errorf("unknown sheet type %q", *p.SheetType)
		}
		args = append(args, "--sheet-type", *p.SheetType)
	}
	if p.Columns != nil {
		args = append(args, "--sheet-columns", strconv.FormatUint(uint64(*p.Columns), 10))
	}
	if deref(p.Trim, false) {
		args = append(args, "--trim")
	}
	return Export{Args: args, Message: msg}, nil
}
