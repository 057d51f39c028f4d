package asset

import (
	"io/fs"

	"github.com/gogpu/gfx/font"
)

// FontLoader rasterizes a TrueType or OpenType file into a *font.Atlas.
type FontLoader struct{}

func (FontLoader) Load(fsys fs.FS, path string, opts Options) (any, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	px := opts.PixelHeight
	if px == 0 {
		px = DefaultPixelHeight
	}
	return font.New(data, px)
}

// LoadFont loads a font with the "font" loader.
func (r *Registry) LoadFont(path string, opts Options) (*font.Atlas, error) {
	return load[*font.Atlas](r, KindFont, path, opts)
}
