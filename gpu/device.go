// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"github.com/gogpu/gfx/layout"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gputypes"
)

// Device creates and destroys backend resources.
//
// Backend objects are addressed by generation-checked handles; a backend
// must reject a handle whose object has been destroyed with an error
// wrapping resource.ErrStaleHandle.
type Device interface {
	// CreateBuffer creates zero-filled storage of size bytes.
	// Dynamic buffers are rewritten every frame.
	CreateBuffer(size int, dynamic bool) (resource.Handle, error)

	// WriteBuffer copies data into the buffer at offset.
	WriteBuffer(h resource.Handle, offset int, data []byte) error

	// ReadBuffer copies len(dst) bytes starting at offset into dst.
	ReadBuffer(h resource.Handle, offset int, dst []byte) error

	// DestroyBuffer releases the buffer storage.
	DestroyBuffer(h resource.Handle) error

	// CreateTexture creates a 2D texture.
	CreateTexture(desc TextureDescriptor) (resource.Handle, error)

	// WriteTexture uploads the full image. data is tightly packed rows.
	WriteTexture(h resource.Handle, data []byte) error

	// DestroyTexture releases the texture.
	DestroyTexture(h resource.Handle) error

	// CreateProgram compiles and links a shader program.
	CreateProgram(src ShaderSource) (Program, error)
}

// Context owns pipeline state and draw submission.
//
// All drawing happens between Enter and Exit. The renderer brackets every
// flush with them; backends record into a command encoder on Enter and
// submit on Exit.
type Context interface {
	Enter()
	Exit()

	// Clear clears the bound framebuffer to c.
	Clear(c gputypes.Color)
	SetViewport(x, y, width, height int)

	Enable(s State)
	Disable(s State)
	SetBlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha BlendFactor)
	SetBlendEquation(rgb, alpha BlendEquation)

	// BindTexture binds t to the sampler slot. A nil texture unbinds.
	BindTexture(slot int, t *Texture)

	// ClearSamplers unbinds sampler slots in [start, end).
	ClearSamplers(start, end int)

	// BindFramebuffer makes fb the render target; nil selects the screen.
	BindFramebuffer(fb *Framebuffer)

	// NewVertexArray binds the buffers to the program attributes. The
	// index buffer is optional.
	NewVertexArray(p Program, bindings []VertexBinding, ib *IndexBuffer) (VertexArray, error)
}

// Program is a compiled and linked shader program.
type Program interface {
	Bind()
	Unbind()
	Release()

	// Uniform looks up a uniform by name.
	Uniform(name string) (Uniform, bool)

	// Attributes returns the vertex input names in location order.
	Attributes() []string
}

// Uniform is a named shader parameter.
type Uniform interface {
	Name() string

	// Set stores a value for the next draw. Supported types are float32,
	// int32, uint32, bool and the mgl32 vector and matrix types; others
	// panic with a *gfx.ContractError.
	Set(v any)

	// Value returns the last value passed to Set, or nil.
	Value() any
}

// VertexArray binds vertex buffers, an optional index buffer and a program
// for drawing.
type VertexArray interface {
	// Render draws count vertices (or indices) starting at first, repeated
	// for instances instances.
	Render(mode DrawMode, count, first, instances int)
	Release()
}

// VertexBinding feeds one buffer to a program. Attributes names the
// program inputs fed by the layout elements, in element order.
type VertexBinding struct {
	Buffer     *Buffer
	Layout     layout.Layout
	Attributes []string
}

// ShaderSource is WGSL source plus its entry points.
type ShaderSource struct {
	Label    string
	WGSL     string
	Vertex   string // vertex entry point, default "vs_main"
	Fragment string // fragment entry point, default "fs_main"
}

// Entries returns the entry point names with defaults applied.
func (s ShaderSource) Entries() (vertex, fragment string) {
	vertex, fragment = s.Vertex, s.Fragment
	if vertex == "" {
		vertex = "vs_main"
	}
	if fragment == "" {
		fragment = "fs_main"
	}
	return vertex, fragment
}

// TextureDescriptor describes a 2D texture.
type TextureDescriptor struct {
	Label  string
	Width  int
	Height int
	Format gputypes.TextureFormat

	// RenderTarget allows the texture to be used as a framebuffer color
	// attachment.
	RenderTarget bool
}

// Framebuffer is an offscreen render target.
type Framebuffer struct {
	Color *Texture
}

// Size returns the color attachment size.
func (f *Framebuffer) Size() (width, height int) {
	return f.Color.Width(), f.Color.Height()
}
