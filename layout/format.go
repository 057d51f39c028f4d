package layout

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// ErrInvalidLayout is returned when converting the invalid layout.
var ErrInvalidLayout = errors.New("layout: invalid layout")

// FormatError reports an element that has no WebGPU vertex format.
type FormatError struct {
	Index   int
	Element Element
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("layout: element %d (%dx%s) has no vertex format", e.Index, e.Element.Count, e.Element.Type)
}

// Format returns the WebGPU vertex format for the element, or
// gputypes.VertexFormatUndefined when WebGPU has no matching format
// (64-bit types, odd-sized 8/16-bit vectors, more than four components).
func (e Element) Format() gputypes.VertexFormat {
	n := e.Count
	switch e.Type {
	case TypeFloat32:
		return pick(n, gputypes.VertexFormatFloat32, gputypes.VertexFormatFloat32x2,
			gputypes.VertexFormatFloat32x3, gputypes.VertexFormatFloat32x4)
	case TypeInt32:
		return pick(n, gputypes.VertexFormatSint32, gputypes.VertexFormatSint32x2,
			gputypes.VertexFormatSint32x3, gputypes.VertexFormatSint32x4)
	case TypeUint32:
		return pick(n, gputypes.VertexFormatUint32, gputypes.VertexFormatUint32x2,
			gputypes.VertexFormatUint32x3, gputypes.VertexFormatUint32x4)
	case TypeFloat16:
		return pick(n, 0, gputypes.VertexFormatFloat16x2, 0, gputypes.VertexFormatFloat16x4)
	case TypeInt16:
		return pick(n, 0, gputypes.VertexFormatSint16x2, 0, gputypes.VertexFormatSint16x4)
	case TypeUint16:
		return pick(n, 0, gputypes.VertexFormatUint16x2, 0, gputypes.VertexFormatUint16x4)
	case TypeInt8:
		if e.Normalize {
			return pick(n, 0, gputypes.VertexFormatSnorm8x2, 0, gputypes.VertexFormatSnorm8x4)
		}
		return pick(n, 0, gputypes.VertexFormatSint8x2, 0, gputypes.VertexFormatSint8x4)
	case TypeUint8:
		if e.Normalize {
			return pick(n, 0, gputypes.VertexFormatUnorm8x2, 0, gputypes.VertexFormatUnorm8x4)
		}
		return pick(n, 0, gputypes.VertexFormatUint8x2, 0, gputypes.VertexFormatUint8x4)
	}
	return gputypes.VertexFormatUndefined
}

func pick(n int, x1, x2, x3, x4 gputypes.VertexFormat) gputypes.VertexFormat {
	switch n {
	case 1:
		return x1
	case 2:
		return x2
	case 3:
		return x3
	case 4:
		return x4
	}
	return gputypes.VertexFormatUndefined
}

// StepMode returns VertexStepModeInstance for per-instance and per-render
// layouts and VertexStepModeVertex otherwise.
func (l Layout) StepMode() gputypes.VertexStepMode {
	if l.divisor >= PerInstance {
		return gputypes.VertexStepModeInstance
	}
	return gputypes.VertexStepModeVertex
}

// VertexBufferLayout builds the WebGPU vertex buffer description, binding
// element i to shader location locations[i]. Elements past the end of
// locations stay in the stride but are not fed to the shader.
func (l Layout) VertexBufferLayout(locations []uint32) (gputypes.VertexBufferLayout, error) {
	if l.IsInvalid() {
		return gputypes.VertexBufferLayout{}, ErrInvalidLayout
	}
	if len(locations) > len(l.elements) {
		return gputypes.VertexBufferLayout{}, fmt.Errorf("layout: %d elements, %d shader locations", len(l.elements), len(locations))
	}

	attrs := make([]gputypes.VertexAttribute, len(locations))
	for i, e := range l.elements[:len(locations)] {
		f := e.Format()
		if f == gputypes.VertexFormatUndefined {
			return gputypes.VertexBufferLayout{}, &FormatError{Index: i, Element: e}
		}
		attrs[i] = gputypes.VertexAttribute{
			Format:         f,
			Offset:         uint64(e.Offset),
			ShaderLocation: locations[i],
		}
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(l.stride),
		StepMode:    l.StepMode(),
		Attributes:  attrs,
	}, nil
}
