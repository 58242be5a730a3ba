package scripts

// File reports the sprite a script is run against.
func (p FileParams) File() string { return p.FilePath }

// Static returns a builder for a fixed script that only needs the
// sprite path checked.
func Static(script string) func(FileParams) (string, error) {
	return func(p FileParams) (string, error) {
		if err := requireFile(p.FilePath); err != nil {
			return "", err
		}
		return script, nil
	}
}

func (p ResizeSpriteParams) File() string { return p.FilePath }
func (p CropSpriteParams) File() string { return p.FilePath }
func (p FlipSpriteParams) File() string { return p.FilePath }
func (p RotateSpriteParams) File() string { return p.FilePath }
func (p CanvasSizeParams) File() string { return p.FilePath }
func (p DuplicateSpriteParams) File() string { return p.FilePath }
func (p AutoCropParams) File() string { return p.FilePath }
func (p ChangeColorModeParams) File() string { return p.FilePath }
func (p ReverseFramesParams) File() string { return p.FilePath }
func (p AddLayerParams) File() string { return p.FilePath }
func (p LayerParams) File() string { return p.FilePath }
func (p SetLayerPropertyParams) File() string { return p.FilePath }
func (p DuplicateLayerParams) File() string { return p.FilePath }
func (p FlattenLayersParams) File() string { return p.FilePath }
func (p AddFrameParams) File() string { return p.FilePath }
func (p RemoveFrameParams) File() string { return p.FilePath }
func (p SetFrameDurationParams) File() string { return p.FilePath }
func (p CreateTagParams) File() string { return p.FilePath }
func (p DeleteTagParams) File() string { return p.FilePath }
func (p GetPaletteParams) File() string { return p.FilePath }
func (p SetPaletteColorParams) File() string { return p.FilePath }
func (p ResizePaletteParams) File() string { return p.FilePath }
func (p LoadPaletteParams) File() string { return p.FilePath }
func (p SavePaletteParams) File() string { return p.FilePath }
func (p ColorQuantizationParams) File() string { return p.FilePath }
func (p DrawPixelsParams) File() string { return p.FilePath }
func (p ListCelsParams) File() string { return p.FilePath }
func (p CelParams) File() string { return p.FilePath }
func (p MoveCelParams) File() string { return p.FilePath }
func (p SetCelOpacityParams) File() string { return p.FilePath }
func (p CreateSliceParams) File() string { return p.FilePath }
func (p DeleteSliceParams) File() string { return p.FilePath }
func (p SelectRegionParams) File() string { return p.FilePath }
func (p SelectByColorParams) File() string { return p.FilePath }
func (p BrightnessContrastParams) File() string { return p.FilePath }
func (p HueSaturationParams) File() string { return p.FilePath }
func (p DespeckleParams) File() string { return p.FilePath }
func (p ReplaceColorParams) File() string { return p.FilePath }
func (p OutlineParams) File() string { return p.FilePath }
func (p UseToolParams) File() string { return p.FilePath }
func (p GetPixelDataParams) File() string { return p.FilePath }
