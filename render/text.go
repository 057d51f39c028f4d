// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
)

// UniformColor is the text color uniform of the text shader.
const UniformColor = "color"

// drawText renders c with the text shader through the shared text vertex
// buffer. The view, the projection and the blend enable bit are restored
// afterwards and no shader is left bound.
func (r *Renderer) drawText(st *State, c DrawTextCommand) {
	gfx.Assert(c.Font != nil, "render.DrawText", "nil font")
	sh, ok := r.shaders.Get(TextShaderName)
	gfx.Assert(ok, "render.DrawText", "%s not registered", TextShaderName)
	vb, ok := r.VertexBuffer(TextBufferName)
	gfx.Assert(ok, "render.DrawText", "%s not registered", TextBufferName)

	verts := c.Font.Atlas.Vertices(c.Text, c.Position.X(), c.Position.Y(), c.Scale)
	if len(verts) == 0 {
		return
	}
	data := gpu.Float32Bytes(verts...)
	if room := vb.Size() - vb.Needle(); len(data) > room {
		gfx.Logger().Warn("render: text buffer full, text truncated",
			"text_len", len(c.Text), "need", len(data), "room", room)
		stride := vb.Layout.Stride() * 6
		data = data[:room/stride*stride]
		if len(data) == 0 {
			return
		}
	}

	// Text is placed in pixels: the scene camera does not apply.
	prevView, prevProjection := st.View, st.Projection
	w, h := r.viewportWidth, r.viewportHeight
	st.View = mgl32.Ident4()
	st.Projection = mgl32.Ortho2D(0, float32(w), 0, float32(h))

	r.enableShader(st, sh)
	sh.SetValue(UniformColor, c.Color)
	r.ctx.BindTexture(0, c.Font.Texture)
	st.Textures[0] = c.Font.Texture

	blendWasOn := st.Enabled.Has(gpu.Blend)
	if !blendWasOn {
		r.ctx.Enable(gpu.Blend)
	}
	r.ctx.SetBlendFunc(gpu.SrcAlpha, gpu.OneMinusSrcAlpha, gpu.SrcAlpha, gpu.OneMinusSrcAlpha)
	r.ctx.SetBlendEquation(gpu.FuncAdd, gpu.FuncAdd)

	off := vb.Append(data)
	stride := vb.Layout.Stride()
	b := NewBatch(vb, nil, gpu.Triangles)
	b.Push(mgl32.Ident4(), len(data)/stride, off/stride, 1)
	b.Commit(st)

	r.disableShader(st)
	r.ctx.ClearSamplers(0, 1)
	delete(st.Textures, 0)
	if !blendWasOn {
		r.ctx.Disable(gpu.Blend)
	}
	st.View, st.Projection = prevView, prevProjection
}
