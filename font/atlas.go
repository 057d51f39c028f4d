// Package font builds single-channel glyph atlases from TrueType and
// OpenType fonts and lays out text as textured quads.
//
// Glyph coverage is rasterized with golang.org/x/image/font/sfnt and
// golang.org/x/image/vector. Pen advances come from HarfBuzz shaping
// (github.com/go-text/typesetting), so kerning is honoured.
package font

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/gfx/internal/lru"
)

// ErrInvalidSize is returned for a non-positive pixel height.
var ErrInvalidSize = errors.New("font: pixel height must be positive")

// First and last rune rasterized into an atlas.
const (
	FirstRune = ' '
	LastRune  = '~'
)

// padding between glyphs in the atlas, in pixels.
const padding = 1

// shapedLines is the number of shaped lines kept per atlas. Text drawn
// every frame is usually the same handful of strings.
const shapedLines = 256

// Glyph is the atlas entry of one glyph. Metrics are in pixels at the
// atlas pixel height, with y pointing up from the baseline.
type Glyph struct {
	U0, V0, U1, V1 float32

	Width, Height      float32
	BearingX, BearingY float32
	Advance            float32
}

// Atlas is a rasterized font at one pixel height.
//
// Atlas is safe for concurrent use.
type Atlas struct {
	pixelHeight float64
	ascent      float32
	lineHeight  float32

	width, height int
	pixels        []byte

	glyphs map[sfnt.GlyphIndex]Glyph

	mu     sync.Mutex
	face   *gotext.Face
	shaper shaping.HarfbuzzShaper
	lines  *lru.Cache[string, []shaping.Glyph]
}

// New parses data and rasterizes printable ASCII at pixelHeight.
func New(data []byte, pixelHeight float64) (*Atlas, error) {
	if pixelHeight <= 0 || math.IsNaN(pixelHeight) {
		return nil, ErrInvalidSize
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse: %w", err)
	}
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("font: parse for shaping: %w", err)
	}

	var buf sfnt.Buffer
	ppem := fixed.Int26_6(pixelHeight * 64)
	m, err := f.Metrics(&buf, ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("font: metrics: %w", err)
	}

	a := &Atlas{
		pixelHeight: pixelHeight,
		ascent:      fixedToFloat(m.Ascent),
		lineHeight:  fixedToFloat(m.Height),
		glyphs:      make(map[sfnt.GlyphIndex]Glyph),
		face:        face,
		lines:       lru.New[string, []shaping.Glyph](shapedLines),
	}
	if a.lineHeight <= 0 {
		a.lineHeight = float32(pixelHeight)
	}

	bitmaps, err := a.rasterize(f, &buf, ppem)
	if err != nil {
		return nil, err
	}
	a.pack(bitmaps)
	return a, nil
}

// Default returns an atlas of the Go Regular font.
func Default(pixelHeight float64) (*Atlas, error) {
	return New(goregular.TTF, pixelHeight)
}

type bitmap struct {
	index sfnt.GlyphIndex
	glyph Glyph
	img   *image.Alpha
}

func (a *Atlas) rasterize(f *sfnt.Font, buf *sfnt.Buffer, ppem fixed.Int26_6) ([]bitmap, error) {
	var out []bitmap
	seen := make(map[sfnt.GlyphIndex]bool)
	for r := FirstRune; r <= LastRune; r++ {
		gi, err := f.GlyphIndex(buf, r)
		if err != nil {
			return nil, fmt.Errorf("font: glyph index %q: %w", r, err)
		}
		if gi == 0 || seen[gi] {
			continue
		}
		seen[gi] = true

		bounds, adv, err := f.GlyphBounds(buf, gi, ppem, xfont.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("font: glyph bounds %q: %w", r, err)
		}
		x0, y0 := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
		x1, y1 := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
		g := Glyph{
			Width:    float32(x1 - x0),
			Height:   float32(y1 - y0),
			BearingX: float32(x0),
			BearingY: float32(-y0),
			Advance:  fixedToFloat(adv),
		}
		b := bitmap{index: gi, glyph: g}
		if x1 > x0 && y1 > y0 {
			segs, err := f.LoadGlyph(buf, gi, ppem, nil)
			if err != nil {
				return nil, fmt.Errorf("font: load glyph %q: %w", r, err)
			}
			b.img = fill(segs, x0, y0, x1-x0, y1-y0)
		}
		out = append(out, b)
	}
	return out, nil
}

// fill rasterizes segs translated by (-dx, -dy) into a w×h coverage mask.
func fill(segs sfnt.Segments, dx, dy, w, h int) *image.Alpha {
	z := vector.NewRasterizer(w, h)
	ox, oy := float32(dx), float32(dy)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return fixedToFloat(p.X) - ox, fixedToFloat(p.Y) - oy
	}
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			z.MoveTo(pt(s.Args[0]))
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			ex, ey := pt(s.Args[2])
			z.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	z.ClosePath()
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}

// pack places the bitmaps on shelves, doubling the atlas width until the
// atlas is no taller than it is wide.
func (a *Atlas) pack(bitmaps []bitmap) {
	width := 64
	var height int
	for {
		height = shelfHeight(bitmaps, width)
		if height <= width {
			break
		}
		width *= 2
	}
	if height == 0 {
		height = 1
	}
	a.width, a.height = width, height
	a.pixels = make([]byte, width*height)

	x, y, row := padding, padding, 0
	for _, b := range bitmaps {
		g := b.glyph
		if b.img == nil {
			a.glyphs[b.index] = g
			continue
		}
		w, h := b.img.Rect.Dx(), b.img.Rect.Dy()
		if x+w+padding > width {
			x, y, row = padding, y+row+padding, 0
		}
		for j := range h {
			copy(a.pixels[(y+j)*width+x:], b.img.Pix[j*b.img.Stride:j*b.img.Stride+w])
		}
		g.U0 = float32(x) / float32(width)
		g.U1 = float32(x+w) / float32(width)
		g.V0 = float32(y) / float32(height)
		g.V1 = float32(y+h) / float32(height)
		a.glyphs[b.index] = g

		x += w + padding
		row = max(row, h)
	}
}

func shelfHeight(bitmaps []bitmap, width int) int {
	x, y, row := padding, padding, 0
	for _, b := range bitmaps {
		if b.img == nil {
			continue
		}
		w, h := b.img.Rect.Dx(), b.img.Rect.Dy()
		if x+w+padding > width {
			x, y, row = padding, y+row+padding, 0
		}
		x += w + padding
		row = max(row, h)
	}
	return y + row + padding
}

// Size returns the atlas dimensions in pixels.
func (a *Atlas) Size() (width, height int) { return a.width, a.height }

// Pixels returns the coverage values, one byte per pixel, rows top to
// bottom. The slice must not be modified.
func (a *Atlas) Pixels() []byte { return a.pixels }

// PixelHeight returns the height the atlas was rasterized at.
func (a *Atlas) PixelHeight() float64 { return a.pixelHeight }

// LineHeight returns the baseline-to-baseline distance in pixels.
func (a *Atlas) LineHeight() float32 { return a.lineHeight }

// Ascent returns the baseline-to-top distance in pixels.
func (a *Atlas) Ascent() float32 { return a.ascent }

// Len returns the number of glyphs in the atlas.
func (a *Atlas) Len() int { return len(a.glyphs) }

// Glyph returns the atlas entry for r.
func (a *Atlas) Glyph(r rune) (Glyph, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	gid, ok := a.face.NominalGlyph(r)
	if !ok {
		return Glyph{}, false
	}
	g, ok := a.glyphs[sfnt.GlyphIndex(gid)]
	return g, ok
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
