// Package shader compiles WGSL with naga and reflects the program interface
// the renderer needs: vertex inputs by location and uniform members by name.
//
// The renderer addresses shader inputs by name ("position", "model",
// "atlas"), the way a GL program is queried after linking. WGSL has no
// link step, so Reflect recovers the same information from the naga IR.
package shader

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// ErrNoEntryPoint is returned when the vertex entry point is missing.
var ErrNoEntryPoint = errors.New("shader: vertex entry point not found")

// CompileError wraps a WGSL parse, lowering or validation failure.
type CompileError struct {
	Phase string // "parse", "lower" or "validate"
	Err   error
}

func (e *CompileError) Error() string {
	return "shader: " + e.Phase + ": " + e.Err.Error()
}

func (e *CompileError) Unwrap() error { return e.Err }

// Attribute is a vertex shader input.
type Attribute struct {
	Name     string
	Location uint32
	Format   gputypes.VertexFormat
}

// Uniform is one addressable value inside a uniform buffer.
type Uniform struct {
	Name    string
	Group   uint32
	Binding uint32
	Offset  uint32
	Size    uint32
}

// Block is a uniform buffer binding.
type Block struct {
	Name    string
	Group   uint32
	Binding uint32
	Size    uint32
}

// ResourceKind distinguishes texture and sampler bindings.
type ResourceKind uint8

const (
	KindTexture ResourceKind = iota
	KindSampler
)

// Resource is a texture or sampler binding.
type Resource struct {
	Name    string
	Kind    ResourceKind
	Group   uint32
	Binding uint32
}

// Reflection is the reflected interface of a program.
type Reflection struct {
	Attributes []Attribute // sorted by location
	Uniforms   []Uniform
	Blocks     []Block
	Resources  []Resource
}

// AttributeNames returns attribute names in location order.
func (r *Reflection) AttributeNames() []string {
	names := make([]string, len(r.Attributes))
	for i, a := range r.Attributes {
		names[i] = a.Name
	}
	return names
}

// UniformNames returns the uniform names in declaration order.
func (r *Reflection) UniformNames() []string {
	names := make([]string, len(r.Uniforms))
	for i, u := range r.Uniforms {
		names[i] = u.Name
	}
	return names
}

// Uniform looks up a uniform by name.
func (r *Reflection) Uniform(name string) (Uniform, bool) {
	for _, u := range r.Uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// Attribute looks up a vertex input by name.
func (r *Reflection) Attribute(name string) (Attribute, bool) {
	for _, a := range r.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Compile parses, lowers and validates WGSL source.
func Compile(src string) (*ir.Module, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, &CompileError{Phase: "parse", Err: err}
	}
	mod, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, &CompileError{Phase: "lower", Err: err}
	}
	verrs, err := naga.Validate(mod)
	if err != nil {
		return nil, &CompileError{Phase: "validate", Err: err}
	}
	if len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, v := range verrs {
			msgs[i] = v.Error()
		}
		return nil, &CompileError{Phase: "validate", Err: errors.New(strings.Join(msgs, "; "))}
	}
	return mod, nil
}

// Reflect compiles src and reflects the interface of the vertex entry point
// named vertexEntry together with every uniform, texture and sampler
// binding of the module.
func Reflect(src, vertexEntry string) (*Reflection, error) {
	mod, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return ReflectModule(mod, vertexEntry)
}

// ReflectModule reflects an already compiled module.
func ReflectModule(mod *ir.Module, vertexEntry string) (*Reflection, error) {
	var ep *ir.EntryPoint
	for i := range mod.EntryPoints {
		e := &mod.EntryPoints[i]
		if e.Stage == ir.StageVertex && e.Name == vertexEntry {
			ep = e
			break
		}
	}
	if ep == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoEntryPoint, vertexEntry)
	}

	r := &Reflection{}
	for _, arg := range ep.Function.Arguments {
		if loc, ok := location(arg.Binding); ok {
			r.Attributes = append(r.Attributes, Attribute{
				Name:     arg.Name,
				Location: loc,
				Format:   vertexFormat(mod, arg.Type),
			})
			continue
		}
		if st, ok := inner(mod, arg.Type).(ir.StructType); ok {
			for _, m := range st.Members {
				if loc, ok := location(m.Binding); ok {
					r.Attributes = append(r.Attributes, Attribute{
						Name:     m.Name,
						Location: loc,
						Format:   vertexFormat(mod, m.Type),
					})
				}
			}
		}
	}
	slices.SortFunc(r.Attributes, func(a, b Attribute) int { return int(a.Location) - int(b.Location) })

	for _, gv := range mod.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		group, binding := gv.Binding.Group, gv.Binding.Binding
		switch gv.Space {
		case ir.SpaceUniform:
			size := typeSize(mod, gv.Type)
			r.Blocks = append(r.Blocks, Block{Name: gv.Name, Group: group, Binding: binding, Size: size})
			if st, ok := inner(mod, gv.Type).(ir.StructType); ok {
				for _, m := range st.Members {
					r.Uniforms = append(r.Uniforms, Uniform{
						Name: m.Name, Group: group, Binding: binding,
						Offset: m.Offset, Size: typeSize(mod, m.Type),
					})
				}
				continue
			}
			r.Uniforms = append(r.Uniforms, Uniform{Name: gv.Name, Group: group, Binding: binding, Size: size})
		case ir.SpaceHandle:
			switch inner(mod, gv.Type).(type) {
			case ir.ImageType:
				r.Resources = append(r.Resources, Resource{Name: gv.Name, Kind: KindTexture, Group: group, Binding: binding})
			case ir.SamplerType:
				r.Resources = append(r.Resources, Resource{Name: gv.Name, Kind: KindSampler, Group: group, Binding: binding})
			}
		}
	}
	return r, nil
}

func inner(mod *ir.Module, h ir.TypeHandle) ir.TypeInner {
	if int(h) >= len(mod.Types) {
		return nil
	}
	return mod.Types[h].Inner
}

func location(b *ir.Binding) (uint32, bool) {
	if b == nil || *b == nil {
		return 0, false
	}
	switch lb := (*b).(type) {
	case ir.LocationBinding:
		return lb.Location, true
	case *ir.LocationBinding:
		return lb.Location, true
	}
	return 0, false
}

func vertexFormat(mod *ir.Module, h ir.TypeHandle) gputypes.VertexFormat {
	var (
		scalar ir.ScalarType
		n      int
	)
	switch t := inner(mod, h).(type) {
	case ir.ScalarType:
		scalar, n = t, 1
	case ir.VectorType:
		scalar, n = t.Scalar, int(t.Size)
	default:
		return gputypes.VertexFormatUndefined
	}
	if scalar.Width != 4 {
		return gputypes.VertexFormatUndefined
	}
	formats := map[ir.ScalarKind][4]gputypes.VertexFormat{
		ir.ScalarFloat: {gputypes.VertexFormatFloat32, gputypes.VertexFormatFloat32x2, gputypes.VertexFormatFloat32x3, gputypes.VertexFormatFloat32x4},
		ir.ScalarSint:  {gputypes.VertexFormatSint32, gputypes.VertexFormatSint32x2, gputypes.VertexFormatSint32x3, gputypes.VertexFormatSint32x4},
		ir.ScalarUint:  {gputypes.VertexFormatUint32, gputypes.VertexFormatUint32x2, gputypes.VertexFormatUint32x3, gputypes.VertexFormatUint32x4},
	}
	f, ok := formats[scalar.Kind]
	if !ok || n < 1 || n > 4 {
		return gputypes.VertexFormatUndefined
	}
	return f[n-1]
}

// typeSize returns the host-shareable size of a type.
func typeSize(mod *ir.Module, h ir.TypeHandle) uint32 {
	switch t := inner(mod, h).(type) {
	case ir.ScalarType:
		return uint32(t.Width)
	case ir.VectorType:
		return uint32(t.Size) * uint32(t.Scalar.Width)
	case ir.MatrixType:
		rows := uint32(t.Rows)
		if rows == 3 {
			rows = 4
		}
		return uint32(t.Columns) * rows * uint32(t.Scalar.Width)
	case ir.ArrayType:
		if t.Size.Constant == nil {
			return 0
		}
		return *t.Size.Constant * t.Stride
	case ir.StructType:
		return t.Span
	}
	return 0
}
