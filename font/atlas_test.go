package font

import (
	"errors"
	"slices"
	"testing"
)

func defaultAtlas(t *testing.T) *Atlas {
	t.Helper()
	a, err := Default(16)
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	return a
}

func TestDefault(t *testing.T) {
	a := defaultAtlas(t)

	w, h := a.Size()
	if w <= 0 || h <= 0 {
		t.Fatalf("Size() = %dx%d, want positive", w, h)
	}
	if h > w {
		t.Errorf("Size() = %dx%d, want height <= width", w, h)
	}
	if got := len(a.Pixels()); got != w*h {
		t.Errorf("len(Pixels()) = %d, want %d", got, w*h)
	}
	if a.PixelHeight() != 16 {
		t.Errorf("PixelHeight() = %v, want 16", a.PixelHeight())
	}
	if a.LineHeight() <= 0 || a.Ascent() <= 0 {
		t.Errorf("LineHeight() = %v, Ascent() = %v, want positive", a.LineHeight(), a.Ascent())
	}
	if got := a.Len(); got < 90 || got > int(LastRune-FirstRune+1) {
		t.Errorf("Len() = %d, want printable ASCII coverage", got)
	}

	var ink int
	for _, p := range a.Pixels() {
		if p != 0 {
			ink++
		}
	}
	if ink == 0 {
		t.Error("atlas has no coverage")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := Default(0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Default(0) error = %v, want ErrInvalidSize", err)
	}
	if _, err := Default(-3); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Default(-3) error = %v, want ErrInvalidSize", err)
	}
	if _, err := New([]byte("not a font"), 16); err == nil {
		t.Error("New(garbage) error = nil, want error")
	}
}

func TestGlyph(t *testing.T) {
	a := defaultAtlas(t)

	g, ok := a.Glyph('A')
	if !ok {
		t.Fatal("Glyph('A') not found")
	}
	if g.Width <= 0 || g.Height <= 0 {
		t.Errorf("Glyph('A') size = %vx%v, want positive", g.Width, g.Height)
	}
	if g.Advance <= 0 {
		t.Errorf("Glyph('A').Advance = %v, want positive", g.Advance)
	}
	if !(0 <= g.U0 && g.U0 < g.U1 && g.U1 <= 1) {
		t.Errorf("Glyph('A') U = [%v, %v], want 0 <= U0 < U1 <= 1", g.U0, g.U1)
	}
	if !(0 <= g.V0 && g.V0 < g.V1 && g.V1 <= 1) {
		t.Errorf("Glyph('A') V = [%v, %v], want 0 <= V0 < V1 <= 1", g.V0, g.V1)
	}

	sp, ok := a.Glyph(' ')
	if !ok {
		t.Fatal("Glyph(' ') not found")
	}
	if sp.Width != 0 || sp.Advance <= 0 {
		t.Errorf("Glyph(' ') = %+v, want zero width and positive advance", sp)
	}

	if _, ok := a.Glyph('世'); ok {
		t.Error("Glyph(U+4E16) found, want missing")
	}
}

func TestVertices(t *testing.T) {
	a := defaultAtlas(t)
	perGlyph := VerticesPerGlyph * FloatsPerVertex

	tests := []struct {
		name   string
		text   string
		glyphs int
	}{
		{"empty", "", 0},
		{"single", "A", 1},
		{"space skipped", "A B", 2},
		{"word", "Hello", 5},
		{"newline", "ab\ncd", 4},
		{"only spaces", "   ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Vertices(tt.text, 0, 0, 1)
			if len(got) != tt.glyphs*perGlyph {
				t.Errorf("len(Vertices(%q)) = %d, want %d", tt.text, len(got), tt.glyphs*perGlyph)
			}
		})
	}

	if got := a.Vertices("A", 0, 0, 0); got != nil {
		t.Errorf("Vertices(scale 0) = %v, want nil", got)
	}
}

func TestVerticesPlacement(t *testing.T) {
	a := defaultAtlas(t)

	v := a.Vertices("AA", 10, 100, 1)
	if len(v) != 2*VerticesPerGlyph*FloatsPerVertex {
		t.Fatalf("len(Vertices) = %d", len(v))
	}
	// Vertex 0 is the top-left corner, vertex 1 the bottom-left.
	if v[1] <= v[5] {
		t.Errorf("top y %v <= bottom y %v, want y up", v[1], v[5])
	}
	second := VerticesPerGlyph * FloatsPerVertex
	if v[second] <= v[0] {
		t.Errorf("second glyph x %v <= first glyph x %v", v[second], v[0])
	}

	doubled := a.Vertices("A", 0, 0, 2)
	single := a.Vertices("A", 0, 0, 1)
	w1 := single[8] - single[0]
	w2 := doubled[8] - doubled[0]
	if diff := w2 - 2*w1; diff > 0.001 || diff < -0.001 {
		t.Errorf("scaled width = %v, want %v", w2, 2*w1)
	}

	lines := a.Vertices("A\nA", 0, 100, 1)
	if lines[second+1] >= lines[1] {
		t.Errorf("second line top %v >= first line top %v, want lower", lines[second+1], lines[1])
	}
	if lines[second] != lines[0] {
		t.Errorf("second line x %v, want %v", lines[second], lines[0])
	}
}

func TestMeasure(t *testing.T) {
	a := defaultAtlas(t)

	if w, h := a.Measure("", 1); w != 0 || h != 0 {
		t.Errorf("Measure(\"\") = %v, %v, want 0, 0", w, h)
	}

	w1, h1 := a.Measure("abc", 1)
	if w1 <= 0 || h1 != a.LineHeight() {
		t.Errorf("Measure(abc) = %v, %v, want positive width and height %v", w1, h1, a.LineHeight())
	}

	w2, h2 := a.Measure("abc\na", 1)
	if w2 != w1 {
		t.Errorf("Measure(abc\\na) width = %v, want %v", w2, w1)
	}
	if h2 != 2*a.LineHeight() {
		t.Errorf("Measure(abc\\na) height = %v, want %v", h2, 2*a.LineHeight())
	}
}

func TestShapedLinesReused(t *testing.T) {
	a := defaultAtlas(t)
	first := a.Vertices("frame 1\nstatic", 0, 0, 1)
	again := a.Vertices("frame 1\nstatic", 0, 0, 1)
	if !slices.Equal(first, again) {
		t.Error("Vertices() changed between identical calls")
	}
	a.Vertices("frame 2\nstatic", 0, 0, 1)

	hits, misses := a.lines.Stats()
	if misses != 3 || hits != 3 {
		t.Errorf("shaped line hits, misses = %d, %d, want 3, 3", hits, misses)
	}
}
