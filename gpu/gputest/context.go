// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gputest

import (
	"fmt"
	"slices"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gputypes"
)

// Context is a recording gpu.Context. It tracks the state a real backend
// would track so that tests can assert on it.
type Context struct {
	Log *Log

	Entered     bool
	States      gpu.State
	Blend       gpu.BlendState
	Viewport    [4]int
	Textures    map[int]*gpu.Texture
	Framebuffer *gpu.Framebuffer

	// FailVertexArray makes NewVertexArray fail.
	FailVertexArray error
	// FailRender makes VertexArray.Render panic with a contract violation.
	FailRender error
}

// NewContext creates a context recording into log.
func NewContext(log *Log) *Context {
	return &Context{
		Log:      log,
		Blend:    gpu.DefaultBlendState(),
		Textures: make(map[int]*gpu.Texture),
	}
}

func (c *Context) Enter() {
	gfx.Assert(!c.Entered, "gputest.Context.Enter", "already entered")
	c.Entered = true
	c.Log.add("Enter")
}

func (c *Context) Exit() {
	gfx.Assert(c.Entered, "gputest.Context.Exit", "not entered")
	c.Entered = false
	c.Log.add("Exit")
}

func (c *Context) Clear(col gputypes.Color) {
	c.Log.add("Clear", col.R, col.G, col.B, col.A)
}

func (c *Context) SetViewport(x, y, w, h int) {
	c.Viewport = [4]int{x, y, w, h}
	c.Log.add("SetViewport", x, y, w, h)
}

func (c *Context) Enable(s gpu.State) {
	c.States |= s
	c.Log.add("Enable", s)
}

func (c *Context) Disable(s gpu.State) {
	c.States &^= s
	c.Log.add("Disable", s)
}

func (c *Context) SetBlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha gpu.BlendFactor) {
	c.Blend.SrcRGB, c.Blend.DstRGB = srcRGB, dstRGB
	c.Blend.SrcAlpha, c.Blend.DstAlpha = srcAlpha, dstAlpha
	c.Log.add("SetBlendFunc", srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (c *Context) SetBlendEquation(rgb, alpha gpu.BlendEquation) {
	c.Blend.RGB, c.Blend.Alpha = rgb, alpha
	c.Log.add("SetBlendEquation", rgb, alpha)
}

func (c *Context) BindTexture(slot int, t *gpu.Texture) {
	if t == nil {
		delete(c.Textures, slot)
	} else {
		c.Textures[slot] = t
	}
	c.Log.add("BindTexture", slot)
}

func (c *Context) ClearSamplers(start, end int) {
	for s := start; s < end; s++ {
		delete(c.Textures, s)
	}
	c.Log.add("ClearSamplers", start, end)
}

func (c *Context) BindFramebuffer(fb *gpu.Framebuffer) {
	c.Framebuffer = fb
	if fb == nil {
		c.Log.add("BindFramebuffer", "screen")
		return
	}
	c.Log.add("BindFramebuffer", fb.Color.Descriptor().Label)
}

func (c *Context) NewVertexArray(p gpu.Program, bindings []gpu.VertexBinding, ib *gpu.IndexBuffer) (gpu.VertexArray, error) {
	if c.FailVertexArray != nil {
		return nil, c.FailVertexArray
	}
	prog, ok := p.(*Program)
	if !ok {
		return nil, fmt.Errorf("gputest: foreign program %T", p)
	}
	for _, b := range bindings {
		if !b.Buffer.Allocated() {
			return nil, gpu.ErrNotAllocated
		}
		if len(b.Attributes) > b.Layout.Len() {
			return nil, fmt.Errorf("gputest: %d attributes for %d layout elements", len(b.Attributes), b.Layout.Len())
		}
		for _, a := range b.Attributes {
			if !slices.Contains(prog.spec.Attributes, a) {
				return nil, fmt.Errorf("gputest: program %q has no attribute %q", prog.label, a)
			}
		}
	}
	if ib != nil && !ib.Allocated() {
		return nil, gpu.ErrNotAllocated
	}
	c.Log.add("NewVertexArray", prog.label, len(bindings), ib != nil)
	return &VertexArray{log: c.Log, ctx: c, prog: prog, indexed: ib != nil}, nil
}

var _ gpu.Context = (*Context)(nil)

// VertexArray records Render calls.
type VertexArray struct {
	log      *Log
	ctx      *Context
	prog     *Program
	indexed  bool
	released bool
}

func (v *VertexArray) Render(mode gpu.DrawMode, count, first, instances int) {
	gfx.Assert(!v.released, "gputest.VertexArray.Render", "released vertex array")
	gfx.Assert(v.ctx.Entered, "gputest.VertexArray.Render", "render outside Enter/Exit")
	if v.ctx.FailRender != nil {
		gfx.Failf("gputest.VertexArray.Render", "%v", v.ctx.FailRender)
	}
	v.log.add("Render", mode, count, first, instances)
}

func (v *VertexArray) Release() {
	gfx.Assert(!v.released, "gputest.VertexArray.Release", "double release")
	v.released = true
	v.log.add("ReleaseVertexArray")
}
