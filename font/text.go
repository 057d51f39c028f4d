package font

import (
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// FloatsPerVertex is the number of float32 values per text vertex:
// x, y, u, v.
const FloatsPerVertex = 4

// VerticesPerGlyph is the number of vertices emitted per visible glyph.
const VerticesPerGlyph = 6

// Vertices lays out text with its first baseline at (x, y) and returns two
// triangles per visible glyph as {x, y, u, v} vertices. Coordinates are in
// pixels with y up; scale multiplies the atlas pixel height. A newline
// returns the pen to x and moves it down one line. The text is NFC
// normalized first.
func (a *Atlas) Vertices(text string, x, y, scale float32) []float32 {
	if text == "" || scale == 0 {
		return nil
	}
	text = norm.NFC.String(text)

	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]float32, 0, len(text)*VerticesPerGlyph*FloatsPerVertex)
	baseline := y
	for line := range strings.SplitSeq(text, "\n") {
		pen := x
		for _, sg := range a.shape(line) {
			g, ok := a.glyphs[sfnt.GlyphIndex(sg.GlyphID)]
			if ok && g.Width > 0 && g.Height > 0 {
				x0 := pen + (g.BearingX+fixedToFloat(sg.XOffset))*scale
				top := baseline + (g.BearingY+fixedToFloat(sg.YOffset))*scale
				x1 := x0 + g.Width*scale
				bottom := top - g.Height*scale
				out = append(out,
					x0, top, g.U0, g.V0,
					x0, bottom, g.U0, g.V1,
					x1, bottom, g.U1, g.V1,
					x0, top, g.U0, g.V0,
					x1, bottom, g.U1, g.V1,
					x1, top, g.U1, g.V0,
				)
			}
			pen += fixedToFloat(sg.Advance) * scale
		}
		baseline -= a.lineHeight * scale
	}
	return out
}

// Measure returns the width of the widest line and the total height of
// text at scale.
func (a *Atlas) Measure(text string, scale float32) (width, height float32) {
	if text == "" {
		return 0, 0
	}
	text = norm.NFC.String(text)

	a.mu.Lock()
	defer a.mu.Unlock()

	lines := 0
	for line := range strings.SplitSeq(text, "\n") {
		var w float32
		for _, sg := range a.shape(line) {
			w += fixedToFloat(sg.Advance)
		}
		width = max(width, w*scale)
		lines++
	}
	return width, float32(lines) * a.lineHeight * scale
}

// shape runs HarfBuzz over one line, reusing recently shaped lines. The
// caller holds a.mu.
func (a *Atlas) shape(line string) []shaping.Glyph {
	if line == "" {
		return nil
	}
	return a.lines.GetOrCreate(line, func() []shaping.Glyph { return a.shapeLine(line) })
}

func (a *Atlas) shapeLine(line string) []shaping.Glyph {
	runes := []rune(line)
	out := a.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      a.face,
		Size:      fixed.Int26_6(a.pixelHeight * 64),
		Script:    scriptOf(runes),
		Language:  language.NewLanguage("en"),
	})
	return out.Glyphs
}

func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
