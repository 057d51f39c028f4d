// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gfx/shader"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Context records draws into one hal command encoder per Enter/Exit and
// submits it on Exit.
type Context struct {
	dev *Device

	screen        hal.TextureView
	screenTex     *texture // owned offscreen screen, nil with WithScreen
	width, height int
	format        gputypes.TextureFormat

	entered  bool
	encoder  hal.CommandEncoder
	pass     hal.RenderPassEncoder
	target   *gpu.Framebuffer
	uniforms uniformArena
	groups   []hal.BindGroup

	states   gpu.State
	blend    gpu.BlendState
	viewport [4]int
	textures map[int]*gpu.Texture

	frames, draws int
}

func newContext(d *Device, o options) (*Context, error) {
	c := &Context{
		dev:      d,
		screen:   o.screen,
		width:    o.width,
		height:   o.height,
		format:   o.format,
		blend:    gpu.DefaultBlendState(),
		textures: make(map[int]*gpu.Texture),
		uniforms: uniformArena{dev: d, chunkSize: o.uniformChunk},
	}
	if c.screen == nil {
		t, err := d.createTexture(gpu.TextureDescriptor{
			Label: "gfx_screen", Width: o.width, Height: o.height, Format: o.format, RenderTarget: true,
		})
		if err != nil {
			return nil, err
		}
		c.screenTex, c.screen = t, t.view
	}
	return c, nil
}

// SetScreen replaces the screen attachment, typically with the view of the
// surface texture acquired for the frame. It must not be called between
// Enter and Exit.
func (c *Context) SetScreen(view hal.TextureView, width, height int) {
	gfx.Assert(!c.entered, "halgpu.Context.SetScreen", "screen changed inside Enter/Exit")
	c.screen, c.width, c.height = view, width, height
}

// Frames returns the number of submitted command buffers.
func (c *Context) Frames() int { return c.frames }

// Draws returns the number of draw calls recorded since creation.
func (c *Context) Draws() int { return c.draws }

func (c *Context) Enter() {
	gfx.Assert(!c.entered, "halgpu.Context.Enter", "already entered")
	c.entered = true

	enc, err := c.dev.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gfx_frame"})
	if err == nil {
		err = enc.BeginEncoding("gfx_frame")
	}
	if err != nil {
		gfx.Logger().Error("halgpu: begin encoding", "err", err)
		return
	}
	c.encoder = enc
}

func (c *Context) Exit() {
	gfx.Assert(c.entered, "halgpu.Context.Exit", "not entered")
	c.entered = false
	c.endPass()
	defer c.endFrame()

	if c.encoder == nil {
		return
	}
	if err := c.uniforms.upload(c.dev.queue); err != nil {
		gfx.Logger().Error("halgpu: upload uniforms", "err", err)
		c.encoder.DiscardEncoding()
		return
	}
	cb, err := c.encoder.EndEncoding()
	if err != nil {
		gfx.Logger().Error("halgpu: end encoding", "err", err)
		return
	}
	defer c.dev.dev.FreeCommandBuffer(cb)
	if _, err := c.dev.queue.Submit([]hal.CommandBuffer{cb}); err != nil {
		gfx.Logger().Error("halgpu: submit", "err", err)
		return
	}
	// Bind groups and uniform chunks are reused next frame.
	if err := c.dev.dev.WaitIdle(); err != nil {
		gfx.Logger().Warn("halgpu: wait idle", "err", err)
	}
	c.frames++
}

func (c *Context) endFrame() {
	for _, g := range c.groups {
		c.dev.dev.DestroyBindGroup(g)
	}
	c.groups = c.groups[:0]
	c.uniforms.reset()
	c.encoder = nil
}

func (c *Context) targetView() (hal.TextureView, int, int, gputypes.TextureFormat, error) {
	if c.target == nil {
		return c.screen, c.width, c.height, c.format, nil
	}
	t, err := c.dev.lookupTexture(c.target.Color.Handle())
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return t.view, t.desc.Width, t.desc.Height, t.desc.Format, nil
}

func (c *Context) beginPass(load gputypes.LoadOp, clear gputypes.Color) error {
	if c.encoder == nil {
		return fmt.Errorf("halgpu: no command encoder")
	}
	view, _, _, _, err := c.targetView()
	if err != nil {
		return err
	}
	c.pass = c.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "gfx_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})
	return nil
}

func (c *Context) endPass() {
	if c.pass != nil {
		c.pass.End()
		c.pass = nil
	}
}

// Clear starts a new render pass that clears the bound framebuffer.
func (c *Context) Clear(col gputypes.Color) {
	gfx.Assert(c.entered, "halgpu.Context.Clear", "clear outside Enter/Exit")
	c.endPass()
	if err := c.beginPass(gputypes.LoadOpClear, col); err != nil {
		gfx.Logger().Error("halgpu: clear", "err", err)
	}
}

func (c *Context) SetViewport(x, y, w, h int) { c.viewport = [4]int{x, y, w, h} }

func (c *Context) Enable(s gpu.State)  { c.states |= s }
func (c *Context) Disable(s gpu.State) { c.states &^= s }

func (c *Context) SetBlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha gpu.BlendFactor) {
	c.blend.SrcRGB, c.blend.DstRGB = srcRGB, dstRGB
	c.blend.SrcAlpha, c.blend.DstAlpha = srcAlpha, dstAlpha
}

func (c *Context) SetBlendEquation(rgb, alpha gpu.BlendEquation) {
	c.blend.RGB, c.blend.Alpha = rgb, alpha
}

func (c *Context) BindTexture(slot int, t *gpu.Texture) {
	if t == nil {
		delete(c.textures, slot)
		return
	}
	c.textures[slot] = t
}

func (c *Context) ClearSamplers(start, end int) {
	for s := start; s < end; s++ {
		delete(c.textures, s)
	}
}

// BindFramebuffer ends the current pass; the next draw opens one on fb.
func (c *Context) BindFramebuffer(fb *gpu.Framebuffer) {
	c.endPass()
	c.target = fb
}

// viewportRect converts the bottom-left origin viewport to the top-left
// origin WebGPU uses. A zero viewport covers the target.
func (c *Context) viewportRect(tw, th int) (x, y, w, h float32) {
	v := c.viewport
	if v[2] <= 0 || v[3] <= 0 {
		return 0, 0, float32(tw), float32(th)
	}
	return float32(v[0]), float32(th - v[1] - v[3]), float32(v[2]), float32(v[3])
}

func (c *Context) NewVertexArray(p gpu.Program, bindings []gpu.VertexBinding, ib *gpu.IndexBuffer) (gpu.VertexArray, error) {
	prog, ok := p.(*Program)
	if !ok {
		return nil, fmt.Errorf("halgpu: foreign program %T", p)
	}
	va := &VertexArray{ctx: c, prog: prog}
	var key strings.Builder
	for _, b := range bindings {
		if !b.Buffer.Allocated() {
			return nil, gpu.ErrNotAllocated
		}
		buf, err := c.dev.lookupBuffer(b.Buffer.Handle())
		if err != nil {
			return nil, err
		}
		locations := make([]uint32, len(b.Attributes))
		for i, name := range b.Attributes {
			a, ok := prog.refl.Attribute(name)
			if !ok {
				return nil, fmt.Errorf("halgpu: program %q has no attribute %q", prog.label, name)
			}
			locations[i] = a.Location
		}
		vbl, err := b.Layout.VertexBufferLayout(locations)
		if err != nil {
			return nil, fmt.Errorf("halgpu: program %q: %w", prog.label, err)
		}
		va.buffers = append(va.buffers, buf.raw)
		va.layouts = append(va.layouts, vbl)
		fmt.Fprintf(&key, "%s:%s;", b.Layout, strings.Join(b.Attributes, ","))
	}
	if ib != nil {
		if !ib.Allocated() {
			return nil, gpu.ErrNotAllocated
		}
		buf, err := c.dev.lookupBuffer(ib.Handle())
		if err != nil {
			return nil, err
		}
		va.index, va.indexFormat = buf.raw, ib.Format
	}
	va.key = key.String()
	return va, nil
}

// bindGroup creates the per-draw bind group: uniform blocks copied into the
// frame arena, bound textures and the shared sampler.
func (c *Context) bindGroup(p *Program) (hal.BindGroup, error) {
	entries := make([]gputypes.BindGroupEntry, 0, len(p.entries))
	for _, b := range p.blocks {
		raw, off, err := c.uniforms.alloc(b.data)
		if err != nil {
			return nil, err
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  b.binding,
			Resource: gputypes.BufferBinding{Buffer: raw.NativeHandle(), Offset: off, Size: uint64(len(b.data))},
		})
	}
	slot := 0
	for _, r := range p.refl.Resources {
		if r.Kind != shader.KindTexture {
			s, err := c.dev.defaultSampler()
			if err != nil {
				return nil, err
			}
			entries = append(entries, gputypes.BindGroupEntry{
				Binding: r.Binding, Resource: gputypes.SamplerBinding{Sampler: s.NativeHandle()},
			})
			continue
		}
		view, err := c.textureView(slot)
		if err != nil {
			return nil, err
		}
		slot++
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: r.Binding, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()},
		})
	}
	g, err := c.dev.dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   p.label + "_bind_group",
		Layout:  p.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create bind group %q: %w", p.label, err)
	}
	c.groups = append(c.groups, g)
	return g, nil
}

func (c *Context) textureView(slot int) (hal.TextureView, error) {
	t, ok := c.textures[slot]
	if !ok || !t.Allocated() {
		w, err := c.dev.fallbackTexture()
		if err != nil {
			return nil, err
		}
		return w.view, nil
	}
	tex, err := c.dev.lookupTexture(t.Handle())
	if err != nil {
		return nil, err
	}
	return tex.view, nil
}

func (c *Context) draw(va *VertexArray, mode gpu.DrawMode, count, first, instances int) error {
	if c.pass == nil {
		if err := c.beginPass(gputypes.LoadOpLoad, gputypes.Color{}); err != nil {
			return err
		}
	}
	_, tw, th, format, err := c.targetView()
	if err != nil {
		return err
	}
	key := pipelineKey{
		vertex:   va.key,
		topology: mode.Topology(),
		blend:    c.states.Has(gpu.Blend),
		cull:     c.states.Has(gpu.CullFace),
		format:   format,
	}
	if key.blend {
		key.state = c.blend
	}
	pl, err := va.prog.pipeline(key, va.layouts)
	if err != nil {
		return err
	}
	group, err := c.bindGroup(va.prog)
	if err != nil {
		return err
	}

	c.pass.SetPipeline(pl)
	c.pass.SetBindGroup(0, group, nil)
	for i, b := range va.buffers {
		c.pass.SetVertexBuffer(uint32(i), b, 0)
	}
	x, y, w, h := c.viewportRect(tw, th)
	c.pass.SetViewport(x, y, w, h, 0, 1)

	n := uint32(max(instances, 1))
	if va.index != nil {
		c.pass.SetIndexBuffer(va.index, va.indexFormat, 0)
		c.pass.DrawIndexed(uint32(count), n, uint32(first), 0, 0)
	} else {
		c.pass.Draw(uint32(count), n, uint32(first), 0)
	}
	c.draws++
	return nil
}

// Destroy releases the frame resources and the offscreen screen.
func (c *Context) Destroy() {
	c.uniforms.destroy()
	if c.screenTex != nil {
		c.dev.destroyTexture(c.screenTex)
		c.screenTex, c.screen = nil, nil
	}
}

var _ gpu.Context = (*Context)(nil)

// VertexArray is a set of hal buffers and the pipeline vertex layout that
// feeds them to one program.
type VertexArray struct {
	ctx         *Context
	prog        *Program
	buffers     []hal.Buffer
	layouts     []gputypes.VertexBufferLayout
	index       hal.Buffer
	indexFormat gputypes.IndexFormat
	key         string
	released    bool
}

// Layouts returns the vertex buffer layouts the pipeline is built with.
func (v *VertexArray) Layouts() []gputypes.VertexBufferLayout { return v.layouts }

func (v *VertexArray) Render(mode gpu.DrawMode, count, first, instances int) {
	gfx.Assert(!v.released, "halgpu.VertexArray.Render", "released vertex array")
	gfx.Assert(v.ctx.entered, "halgpu.VertexArray.Render", "render outside Enter/Exit")
	if count <= 0 {
		return
	}
	if err := v.ctx.draw(v, mode, count, first, instances); err != nil {
		gfx.Logger().Error("halgpu: draw", "program", v.prog.label, "err", err)
	}
}

func (v *VertexArray) Release() {
	gfx.Assert(!v.released, "halgpu.VertexArray.Release", "double release")
	v.released = true
}
