package asset

import (
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io/fs"

	_ "golang.org/x/image/bmp"  // BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/gogpu/gfx/gpu"
)

// ImageLoader decodes PNG, JPEG, GIF, BMP, TIFF and WebP files into
// *image.NRGBA with the origin at the top-left corner.
type ImageLoader struct{}

func (ImageLoader) Load(fsys fs.FS, path string, opts Options) (any, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("asset: decode %s: %w", path, err)
	}
	img := toNRGBA(src)
	if opts.FlipVertically {
		flipVertical(img)
	}
	if opts.FlipHorizontally {
		flipHorizontal(img)
	}
	return img, nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func flipVertical(img *image.NRGBA) {
	h := img.Rect.Dy()
	row := 4 * img.Rect.Dx()
	tmp := make([]byte, row)
	for y := range h / 2 {
		top := img.Pix[y*img.Stride : y*img.Stride+row]
		bot := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+row]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
}

func flipHorizontal(img *image.NRGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := range h {
		line := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for l, r := 0, w-1; l < r; l, r = l+1, r-1 {
			for c := range 4 {
				line[4*l+c], line[4*r+c] = line[4*r+c], line[4*l+c]
			}
		}
	}
}

// LoadImage loads an image with the "image" loader.
func (r *Registry) LoadImage(path string, opts Options) (*image.NRGBA, error) {
	return load[*image.NRGBA](r, KindImage, path, opts)
}

// LoadTexture loads an image into an unallocated RGBA8 texture labelled
// with path.
func (r *Registry) LoadTexture(dev gpu.Device, path string, opts Options) (*gpu.Texture, error) {
	img, err := r.LoadImage(path, opts)
	if err != nil {
		return nil, err
	}
	return gpu.NewTextureFromImage(dev, path, img), nil
}
