// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
)

// execute runs cmds against the renderer state inside one context scope.
func (r *Renderer) execute(cmds []Command, target *gpu.Framebuffer) {
	defer r.Enter().Close()

	if vb, ok := r.VertexBuffer(TextBufferName); ok {
		vb.Seek(0)
	}
	r.ctx.BindFramebuffer(target)

	st := r.state
	for _, c := range cmds {
		r.dispatch(st, c)
	}
	st.batch.Commit(st)

	if target != nil {
		r.ctx.BindFramebuffer(nil)
	}
}

func (r *Renderer) dispatch(st *State, c Command) {
	switch c := c.(type) {
	case ClearCommand:
		st.Flush()
		r.ctx.Clear(c.Color)

	case SetViewportCommand:
		st.Flush()
		r.ctx.SetViewport(c.X, c.Y, c.Width, c.Height)

	case SetViewCommand:
		st.Flush()
		st.View = c.Matrix
		if st.ViewUniform != nil {
			st.ViewUniform.Set(c.Matrix)
		}

	case SetProjectionCommand:
		st.Flush()
		st.Projection = c.Matrix
		if st.ProjectionUniform != nil {
			st.ProjectionUniform.Set(c.Matrix)
		}

	case EnableStateCommand:
		st.Flush()
		st.Enabled |= c.State
		r.ctx.Enable(c.State)

	case DisableStateCommand:
		st.Flush()
		st.Enabled &^= c.State
		r.ctx.Disable(c.State)

	case SetBlendEquationCommand:
		st.Flush()
		r.ctx.SetBlendEquation(c.RGB, c.Alpha)

	case SetBlendFuncCommand:
		st.Flush()
		r.ctx.SetBlendFunc(c.SrcRGB, c.DstRGB, c.SrcAlpha, c.DstAlpha)

	case EnableTextureCommand:
		gfx.Assert(c.Texture != nil, "render.EnableTexture", "nil texture at slot %d", c.Slot)
		st.Flush()
		st.Textures[c.Slot] = c.Texture
		r.ctx.BindTexture(c.Slot, c.Texture)

	case DisableTextureCommand:
		st.Flush()
		delete(st.Textures, c.Slot)
		r.ctx.BindTexture(c.Slot, nil)

	case ClearSamplersCommand:
		st.Flush()
		for slot := c.Start; slot < c.End; slot++ {
			delete(st.Textures, slot)
		}
		r.ctx.ClearSamplers(c.Start, c.End)

	case EnableShaderCommand:
		r.enableShader(st, c.Shader)

	case DisableShaderCommand:
		r.disableShader(st)

	case EnableMaterialCommand:
		gfx.Assert(c.Material != nil, "render.EnableMaterial", "nil material")
		r.enableShader(st, c.Material.Shader())
		st.Material = c.Material
		c.Material.Prepare(r.ctx, st.Shader)

	case DisableMaterialCommand:
		r.disableShader(st)
		st.Material = nil

	case SetUniformCommand:
		gfx.Assert(st.Shader != nil, "render.SetUniform", "no shader bound for %q", c.Name)
		st.Flush()
		st.Shader.SetValue(c.Name, c.Value)

	case DrawCommand:
		gfx.Assert(c.VertexBuffer != nil, "render.Draw", "nil vertex buffer")
		gfx.Assert(st.Shader != nil, "render.Draw", "no shader bound")
		st.batch.PushKeyed(st, c.Key(), BatchEntry{
			Transform: c.Transform,
			Count:     c.Count,
			Offset:    c.Offset,
			Instances: c.Instances,
		})

	case DrawBatchCommand:
		gfx.Assert(c.Key.VertexBuffer != nil, "render.DrawBatch", "nil vertex buffer")
		st.Flush()
		b := &Batch{key: c.Key, entries: append([]BatchEntry(nil), c.Entries...)}
		b.Commit(st)

	case DrawTextCommand:
		st.Flush()
		r.drawText(st, c)

	default:
		gfx.Failf("render.Script.Execute", "unknown command %v", c.Kind())
	}
}

// enableShader commits pending draws, binds sh and uploads the stored view
// and projection matrices.
func (r *Renderer) enableShader(st *State, sh *gpu.Shader) {
	gfx.Assert(sh != nil, "render.EnableShader", "nil shader")
	st.Flush()

	st.Shader = sh
	st.ViewUniform = uniformOrNil(sh, UniformView)
	st.ProjectionUniform = uniformOrNil(sh, UniformProjection)
	st.ModelUniform = uniformOrNil(sh, UniformModel)

	if st.ViewUniform != nil {
		st.ViewUniform.Set(st.View)
	}
	if st.ProjectionUniform != nil {
		st.ProjectionUniform.Set(st.Projection)
	}
	sh.Bind()
}

func (r *Renderer) disableShader(st *State) {
	st.Flush()
	if st.Shader != nil {
		st.Shader.Unbind()
	}
	st.Shader = nil
	st.ViewUniform = nil
	st.ProjectionUniform = nil
	st.ModelUniform = nil
}

func uniformOrNil(sh *gpu.Shader, name string) gpu.Uniform {
	u, ok := sh.Uniform(name)
	if !ok {
		return nil
	}
	return u
}
