// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/font"
	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gfx/layout"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gputypes"
)

// Names of the resources registered by Init.
const (
	TextShaderName  = "text_shader"
	TextBufferName  = "text_vb"
	DefaultFontName = "default"
)

// TextLayout is the vertex layout of text quads: x, y, u, v.
const TextLayout = "4f"

// Font is a registered font: a glyph atlas and its texture.
type Font struct {
	Atlas   *font.Atlas
	Texture *gpu.Texture
}

// Renderer owns a GPU context, the render state and the resource
// managers, and executes scripts against them.
//
// Renderer embeds a Script used as the per-frame queue: Begin resets it,
// the embedded recording methods fill it and End executes it.
//
//	r := render.NewRenderer(ctx, dev)
//	if err := r.Init(); err != nil { ... }
//	r.Begin()
//	r.Clear(gputypes.Color{A: 1})
//	r.DrawText("hello", mgl32.Vec2{10, 10}, mgl32.Vec4{1, 1, 1, 1}, 1, render.DefaultFontName)
//	r.End()
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	*Script

	ctx  gpu.Context
	dev  gpu.Device
	opts options

	state   *State
	entered bool

	viewportWidth, viewportHeight int

	shaders  *resource.Manager[*gpu.Shader]
	textures *resource.Manager[*gpu.Texture]
	buffers  *resource.Manager[gpu.Allocator]
	fonts    *resource.Manager[*Font]

	// lastErr carries a hook failure out of Manager.Add.
	lastErr error
}

// NewRenderer creates a renderer over ctx and dev.
func NewRenderer(ctx gpu.Context, dev gpu.Device, opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{
		ctx:            ctx,
		dev:            dev,
		opts:           o,
		viewportWidth:  o.width,
		viewportHeight: o.height,
	}
	r.Script = NewScript(r)
	r.state = newState(r)

	r.shaders = resource.NewManager(resource.Hooks[*gpu.Shader]{
		OnAdd:    func(_ string, s *gpu.Shader) error { return r.track(s.Allocate()) },
		OnRemove: func(_ string, s *gpu.Shader) { s.Free() },
	})
	r.textures = resource.NewManager(resource.Hooks[*gpu.Texture]{
		OnAdd:    func(_ string, t *gpu.Texture) error { return r.track(t.Allocate()) },
		OnRemove: func(_ string, t *gpu.Texture) { t.Free() },
	})
	r.buffers = resource.NewManager(resource.Hooks[gpu.Allocator]{
		OnAdd:    func(_ string, b gpu.Allocator) error { return r.track(b.Allocate()) },
		OnRemove: func(_ string, b gpu.Allocator) { b.Free() },
	})
	r.fonts = resource.NewManager(resource.Hooks[*Font]{
		OnAdd:    func(_ string, f *Font) error { return r.track(f.Texture.Allocate()) },
		OnRemove: func(_ string, f *Font) { f.Texture.Free() },
	})
	return r
}

func (r *Renderer) track(err error) error {
	r.lastErr = err
	return err
}

// Init registers the built-in text shader, the dynamic text vertex buffer
// and the default font.
func (r *Renderer) Init() error {
	if r.RegisterShader(TextShaderName, r.NewShader(TextShaderSource())) == 0 {
		return fmt.Errorf("render: register %s: %w", TextShaderName, r.lastErr)
	}
	vb := r.NewVertexBuffer(r.opts.textGlyphs*6*4*4, layout.MustParse(TextLayout), true)
	if r.RegisterBuffer(TextBufferName, vb) == 0 {
		return fmt.Errorf("render: register %s: %w", TextBufferName, r.lastErr)
	}
	atlas, err := font.Default(r.opts.fontSize)
	if err != nil {
		return fmt.Errorf("render: default font: %w", err)
	}
	if r.RegisterFont(DefaultFontName, atlas) == 0 {
		return fmt.Errorf("render: register font %s: %w", DefaultFontName, r.lastErr)
	}
	gfx.Logger().Info("render: renderer initialized",
		"viewport", fmt.Sprintf("%dx%d", r.viewportWidth, r.viewportHeight),
		"font_size", r.opts.fontSize)
	return nil
}

// Release frees every registered resource.
func (r *Renderer) Release() {
	r.fonts.Clear()
	r.buffers.Clear()
	r.textures.Clear()
	r.shaders.Clear()
}

// Context returns the GPU context.
func (r *Renderer) Context() gpu.Context { return r.ctx }

// Device returns the GPU device.
func (r *Renderer) Device() gpu.Device { return r.dev }

// State returns the render state.
func (r *Renderer) State() *State { return r.state }

// SetViewportSize sets the size used for text projection. It does not
// record a viewport command.
func (r *Renderer) SetViewportSize(width, height int) {
	r.viewportWidth, r.viewportHeight = width, height
}

// ViewportSize returns the size used for text projection.
func (r *Renderer) ViewportSize() (width, height int) {
	return r.viewportWidth, r.viewportHeight
}

// NewScript creates a script bound to r.
func (r *Renderer) NewScript() *Script { return NewScript(r) }

// Begin starts a frame by clearing the queue.
func (r *Renderer) Begin() { r.Script.Reset() }

// End executes the queue.
func (r *Renderer) End() { r.Script.Execute() }

// Scope is an entered context. Close exits it; closing twice is a no-op.
type Scope struct {
	r      *Renderer
	closed bool
}

// Enter binds the context until the returned scope is closed. Entering
// while a scope is open is a contract violation.
//
//	defer r.Enter().Close()
func (r *Renderer) Enter() *Scope {
	gfx.Assert(!r.entered, "render.Renderer.Enter", "context already entered")
	r.entered = true
	r.ctx.Enter()
	return &Scope{r: r}
}

func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.r.entered = false
	s.r.ctx.Exit()
}

// Handle constructors.

func (r *Renderer) NewShader(src gpu.ShaderSource) *gpu.Shader {
	return gpu.NewShader(r.dev, src)
}

func (r *Renderer) NewTexture(desc gpu.TextureDescriptor, pixels []byte) *gpu.Texture {
	return gpu.NewTexture(r.dev, desc, pixels)
}

func (r *Renderer) NewVertexBuffer(size int, l layout.Layout, dynamic bool) *gpu.VertexBuffer {
	return gpu.NewVertexBuffer(r.dev, size, l, dynamic)
}

func (r *Renderer) NewIndexBuffer(count int, format gputypes.IndexFormat, dynamic bool) *gpu.IndexBuffer {
	return gpu.NewIndexBuffer(r.dev, count, format, dynamic)
}

// NewFramebuffer creates and allocates an offscreen RGBA8 render target.
func (r *Renderer) NewFramebuffer(label string, width, height int) (*gpu.Framebuffer, error) {
	t := r.NewTexture(gpu.TextureDescriptor{
		Label:        label,
		Width:        width,
		Height:       height,
		Format:       gputypes.TextureFormatRGBA8Unorm,
		RenderTarget: true,
	}, nil)
	if err := t.Allocate(); err != nil {
		return nil, err
	}
	return &gpu.Framebuffer{Color: t}, nil
}

// Registration.

// RegisterShader compiles s and registers it under name. A compile
// failure is logged with the diagnostic and panics.
func (r *Renderer) RegisterShader(name string, s *gpu.Shader) uint32 {
	r.lastErr = nil
	idx := r.shaders.Add(name, s)
	if idx == 0 {
		gfx.Failf("render.Renderer.RegisterShader", "shader %q: %v", name, r.lastErr)
	}
	return idx
}

// RegisterTexture uploads t and registers it under name. It returns 0 if
// the upload fails.
func (r *Renderer) RegisterTexture(name string, t *gpu.Texture) uint32 {
	r.lastErr = nil
	return r.textures.Add(name, t)
}

// RegisterBuffer allocates b and registers it under name. It returns 0 if
// the allocation fails.
func (r *Renderer) RegisterBuffer(name string, b gpu.Allocator) uint32 {
	r.lastErr = nil
	return r.buffers.Add(name, b)
}

// RegisterFont uploads the atlas texture and registers the font under
// name. It returns 0 if the upload fails.
func (r *Renderer) RegisterFont(name string, a *font.Atlas) uint32 {
	if idx, ok := r.fonts.Index(name); ok {
		return idx
	}
	w, h := a.Size()
	tex := r.NewTexture(gpu.TextureDescriptor{
		Label:  "font:" + name,
		Width:  w,
		Height: h,
		Format: gputypes.TextureFormatR8Unorm,
	}, a.Pixels())
	r.lastErr = nil
	return r.fonts.Add(name, &Font{Atlas: a, Texture: tex})
}

func (r *Renderer) UnregisterShader(name string)  { r.shaders.Remove(name) }
func (r *Renderer) UnregisterTexture(name string) { r.textures.Remove(name) }
func (r *Renderer) UnregisterBuffer(name string)  { r.buffers.Remove(name) }
func (r *Renderer) UnregisterFont(name string)    { r.fonts.Remove(name) }

// Lookup.

func (r *Renderer) Shaders() *resource.Manager[*gpu.Shader]   { return r.shaders }
func (r *Renderer) Textures() *resource.Manager[*gpu.Texture] { return r.textures }
func (r *Renderer) Buffers() *resource.Manager[gpu.Allocator] { return r.buffers }
func (r *Renderer) Fonts() *resource.Manager[*Font]           { return r.fonts }

func (r *Renderer) Shader(name string) (*gpu.Shader, bool)   { return r.shaders.Get(name) }
func (r *Renderer) Texture(name string) (*gpu.Texture, bool) { return r.textures.Get(name) }
func (r *Renderer) Font(name string) (*Font, bool)           { return r.fonts.Get(name) }

// VertexBuffer returns the vertex buffer registered under name.
func (r *Renderer) VertexBuffer(name string) (*gpu.VertexBuffer, bool) {
	b, ok := r.buffers.Get(name)
	if !ok {
		return nil, false
	}
	vb, ok := b.(*gpu.VertexBuffer)
	return vb, ok
}

// IndexBuffer returns the index buffer registered under name.
func (r *Renderer) IndexBuffer(name string) (*gpu.IndexBuffer, bool) {
	b, ok := r.buffers.Get(name)
	if !ok {
		return nil, false
	}
	ib, ok := b.(*gpu.IndexBuffer)
	return ib, ok
}
