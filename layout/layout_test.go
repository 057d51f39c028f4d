package layout

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		in      string
		stride  int
		count   int
		divisor int
	}{
		{"3f", 12, 1, PerVertex},
		{"f", 4, 1, PerVertex},
		{"1f", 4, 1, PerVertex},
		{"2f 3f", 20, 2, PerVertex},
		{"3f 2i/v", 20, 2, PerVertex},
		{"3f 2i/i", 20, 2, PerInstance},
		{"3f 2i/r", 20, 2, PerRender},
		{"3f 2i 4f 10x 4f", 62, 4, PerVertex},
		{"3f1 x", 4, 1, PerVertex},
		{"16f/i", 64, 1, PerInstance},
		{"  3f   2f  ", 20, 2, PerVertex},
		{"2u2 4i1", 8, 2, PerVertex},
		{"2f8", 16, 1, PerVertex},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l := Parse(tt.in)
			if l.IsInvalid() {
				t.Fatalf("Parse(%q) is invalid", tt.in)
			}
			if l.Stride() != tt.stride {
				t.Errorf("Stride() = %d, want %d", l.Stride(), tt.stride)
			}
			if l.Len() != tt.count {
				t.Errorf("Len() = %d, want %d", l.Len(), tt.count)
			}
			if l.Divisor() != tt.divisor {
				t.Errorf("Divisor() = %#x, want %#x", l.Divisor(), tt.divisor)
			}
			if l.String() != tt.in {
				t.Errorf("String() = %q, want %q", l.String(), tt.in)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"3f2i",
		"3z",
		"3fz",
		"3f 2i/invalid",
		"3f 2i/4/invalid",
		"3f/",
		"/i",
		"4x",
		"3",
		"3f3",
		"2u8",
		"2i3",
	} {
		l := Parse(in)
		if !l.IsInvalid() {
			t.Errorf("Parse(%q) is valid, want invalid", in)
			continue
		}
		if l.Stride() != 0 || l.Divisor() != 0 || l.String() != "" || l.Len() != 0 {
			t.Errorf("Parse(%q) = {stride %d, divisor %d, string %q, len %d}, want zero sentinel",
				in, l.Stride(), l.Divisor(), l.String(), l.Len())
		}
	}
}

func TestParseElements(t *testing.T) {
	l := Parse("3f 2i/v")
	want := []Element{
		{Size: 12, Count: 3, Offset: 0, Type: TypeFloat32},
		{Size: 8, Count: 2, Offset: 12, Type: TypeInt32},
	}
	got := l.Elements()
	if len(got) != len(want) {
		t.Fatalf("Elements() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Element(%d) = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParsePaddingOffsets(t *testing.T) {
	l := Parse("3f 2i 4f 10x 4f")
	offsets := []int{0, 12, 20, 46}
	for i, off := range offsets {
		if got := l.Element(i).Offset; got != off {
			t.Errorf("Element(%d).Offset = %d, want %d", i, got, off)
		}
	}
}

func TestParseNormalized(t *testing.T) {
	l := Parse("3f1 x")
	e := l.Element(0)
	if !e.Normalize {
		t.Error("Element(0).Normalize = false, want true")
	}
	if e.Type != TypeUint8 {
		t.Errorf("Element(0).Type = %v, want %v", e.Type, TypeUint8)
	}
	if e.ComponentSize() != 1 {
		t.Errorf("ComponentSize() = %d, want 1", e.ComponentSize())
	}
}

func TestParseStrideIsSumOfSizes(t *testing.T) {
	for _, in := range []string{"3f 3f 2f", "4f1 2i2 1u 3x 2f2"} {
		l := Parse(in)
		sum := 0
		for _, e := range l.Elements() {
			sum += e.Size
		}
		padding := 0
		if in == "4f1 2i2 1u 3x 2f2" {
			padding = 3
		}
		if l.Stride() != sum+padding {
			t.Errorf("Parse(%q).Stride() = %d, want %d", in, l.Stride(), sum+padding)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse(\"3q\") did not panic")
		}
	}()
	MustParse("3q")
}

func TestElementFormat(t *testing.T) {
	tests := []struct {
		in   string
		want gputypes.VertexFormat
	}{
		{"f", gputypes.VertexFormatFloat32},
		{"2f", gputypes.VertexFormatFloat32x2},
		{"3f", gputypes.VertexFormatFloat32x3},
		{"4f", gputypes.VertexFormatFloat32x4},
		{"4f1", gputypes.VertexFormatUnorm8x4},
		{"2f2", gputypes.VertexFormatFloat16x2},
		{"3i", gputypes.VertexFormatSint32x3},
		{"4i1", gputypes.VertexFormatSnorm8x4},
		{"2i2", gputypes.VertexFormatSint16x2},
		{"2u", gputypes.VertexFormatUint32x2},
		{"4u2", gputypes.VertexFormatUint16x4},
		{"2u1", gputypes.VertexFormatUnorm8x2},
		{"3f1", gputypes.VertexFormatUndefined},
		{"2f8", gputypes.VertexFormatUndefined},
		{"16f", gputypes.VertexFormatUndefined},
	}
	for _, tt := range tests {
		if got := Parse(tt.in).Element(0).Format(); got != tt.want {
			t.Errorf("Parse(%q).Element(0).Format() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVertexBufferLayout(t *testing.T) {
	l := Parse("3f 4x 2f/i")
	vbl, err := l.VertexBufferLayout([]uint32{0, 3})
	if err != nil {
		t.Fatalf("VertexBufferLayout() error = %v", err)
	}
	if vbl.ArrayStride != 24 {
		t.Errorf("ArrayStride = %d, want 24", vbl.ArrayStride)
	}
	if vbl.StepMode != gputypes.VertexStepModeInstance {
		t.Errorf("StepMode = %v, want Instance", vbl.StepMode)
	}
	if len(vbl.Attributes) != 2 {
		t.Fatalf("len(Attributes) = %d, want 2", len(vbl.Attributes))
	}
	second := vbl.Attributes[1]
	if second.Offset != 16 || second.ShaderLocation != 3 || second.Format != gputypes.VertexFormatFloat32x2 {
		t.Errorf("Attributes[1] = %+v, want {Float32x2 16 3}", second)
	}
}

func TestVertexBufferLayoutPrefix(t *testing.T) {
	vbl, err := Parse("3f 4f1 2f").VertexBufferLayout([]uint32{0, 1})
	if err != nil {
		t.Fatalf("VertexBufferLayout() error = %v", err)
	}
	if vbl.ArrayStride != 24 || len(vbl.Attributes) != 2 {
		t.Fatalf("ArrayStride = %d, len(Attributes) = %d, want 24, 2", vbl.ArrayStride, len(vbl.Attributes))
	}
	if got := vbl.Attributes[1]; got.Format != gputypes.VertexFormatUnorm8x4 || got.Offset != 12 {
		t.Errorf("Attributes[1] = %+v, want {Unorm8x4 12 1}", got)
	}
}

func TestVertexBufferLayoutErrors(t *testing.T) {
	if _, err := Parse("").VertexBufferLayout(nil); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("invalid layout error = %v, want ErrInvalidLayout", err)
	}
	if _, err := Parse("3f").VertexBufferLayout([]uint32{0, 1}); err == nil {
		t.Error("more locations than elements: error = nil")
	}
	var fe *FormatError
	if _, err := Parse("3f 2f8").VertexBufferLayout([]uint32{0, 1}); !errors.As(err, &fe) || fe.Index != 1 {
		t.Errorf("VertexBufferLayout() error = %v, want *FormatError for element 1", err)
	}
}

func TestStepMode(t *testing.T) {
	if got := Parse("3f").StepMode(); got != gputypes.VertexStepModeVertex {
		t.Errorf("per-vertex StepMode() = %v", got)
	}
	if got := Parse("3f/r").StepMode(); got != gputypes.VertexStepModeInstance {
		t.Errorf("per-render StepMode() = %v", got)
	}
}
