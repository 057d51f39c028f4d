// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gputypes"
)

// Script records render commands for deferred execution.
//
// Recording methods append exactly one command and never touch the GPU.
// Resources named by string or index are resolved when the command is
// recorded; a failed lookup records a nil resource, which panics when
// executed.
//
// A script is bound to the renderer that created it. A script without a
// renderer records normally and executes as a no-op.
type Script struct {
	renderer *Renderer
	commands []Command
	target   *gpu.Framebuffer
}

// NewScript creates a script bound to r. r may be nil.
func NewScript(r *Renderer) *Script {
	return &Script{renderer: r}
}

// Renderer returns the renderer the script executes on.
func (s *Script) Renderer() *Renderer { return s.renderer }

// SetTarget directs execution to fb; nil renders to the screen.
func (s *Script) SetTarget(fb *gpu.Framebuffer) { s.target = fb }

// Target returns the render target, nil for the screen.
func (s *Script) Target() *gpu.Framebuffer { return s.target }

// Len returns the number of recorded commands.
func (s *Script) Len() int { return len(s.commands) }

// Commands returns the recorded commands. The slice must not be modified.
func (s *Script) Commands() []Command { return s.commands }

// Reset discards the recorded commands.
func (s *Script) Reset() {
	clear(s.commands)
	s.commands = s.commands[:0]
}

// Append records an arbitrary command.
func (s *Script) Append(c Command) {
	s.commands = append(s.commands, c)
}

func (s *Script) Clear(c gputypes.Color) {
	s.Append(ClearCommand{Color: c})
}

func (s *Script) SetViewport(x, y, width, height int) {
	s.Append(SetViewportCommand{X: x, Y: y, Width: width, Height: height})
}

func (s *Script) SetView(m mgl32.Mat4) {
	s.Append(SetViewCommand{Matrix: m})
}

func (s *Script) SetProjection(m mgl32.Mat4) {
	s.Append(SetProjectionCommand{Matrix: m})
}

func (s *Script) EnableState(st gpu.State) {
	s.Append(EnableStateCommand{State: st})
}

func (s *Script) DisableState(st gpu.State) {
	s.Append(DisableStateCommand{State: st})
}

// SetBlendEquation sets separate color and alpha blend operations.
func (s *Script) SetBlendEquation(rgb, alpha gpu.BlendEquation) {
	s.Append(SetBlendEquationCommand{RGB: rgb, Alpha: alpha})
}

// SetBlendEquationAll uses the same operation for color and alpha.
func (s *Script) SetBlendEquationAll(mode gpu.BlendEquation) {
	s.SetBlendEquation(mode, mode)
}

// SetBlendFunc sets separate color and alpha blend factors.
func (s *Script) SetBlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha gpu.BlendFactor) {
	s.Append(SetBlendFuncCommand{SrcRGB: srcRGB, DstRGB: dstRGB, SrcAlpha: srcAlpha, DstAlpha: dstAlpha})
}

// SetBlendFuncAll uses the same factors for color and alpha.
func (s *Script) SetBlendFuncAll(src, dst gpu.BlendFactor) {
	s.SetBlendFunc(src, dst, src, dst)
}

func (s *Script) EnableTexture(slot int, t *gpu.Texture) {
	s.Append(EnableTextureCommand{Slot: slot, Texture: t})
}

func (s *Script) EnableTextureByName(slot int, name string) {
	var t *gpu.Texture
	if s.renderer != nil {
		t = lookup(s.renderer.textures.Get(name))
	}
	if t == nil {
		gfx.Logger().Warn("render: texture not found", "name", name)
	}
	s.EnableTexture(slot, t)
}

func (s *Script) EnableTextureByIndex(slot int, idx uint32) {
	var t *gpu.Texture
	if s.renderer != nil {
		t = lookup(s.renderer.textures.GetIndex(idx))
	}
	if t == nil {
		gfx.Logger().Warn("render: texture not found", "index", idx)
	}
	s.EnableTexture(slot, t)
}

func (s *Script) DisableTexture(slot int) {
	s.Append(DisableTextureCommand{Slot: slot})
}

// ClearSamplers unbinds sampler slots in [start, end).
func (s *Script) ClearSamplers(start, end int) {
	s.Append(ClearSamplersCommand{Start: start, End: end})
}

func (s *Script) EnableShader(sh *gpu.Shader) {
	s.Append(EnableShaderCommand{Shader: sh})
}

func (s *Script) EnableShaderByName(name string) {
	var sh *gpu.Shader
	if s.renderer != nil {
		sh = lookup(s.renderer.shaders.Get(name))
	}
	if sh == nil {
		gfx.Logger().Warn("render: shader not found", "name", name)
	}
	s.EnableShader(sh)
}

func (s *Script) EnableShaderByIndex(idx uint32) {
	var sh *gpu.Shader
	if s.renderer != nil {
		sh = lookup(s.renderer.shaders.GetIndex(idx))
	}
	if sh == nil {
		gfx.Logger().Warn("render: shader not found", "index", idx)
	}
	s.EnableShader(sh)
}

func (s *Script) DisableShader() {
	s.Append(DisableShaderCommand{})
}

func (s *Script) EnableMaterial(m Material) {
	s.Append(EnableMaterialCommand{Material: m})
}

func (s *Script) DisableMaterial() {
	s.Append(DisableMaterialCommand{})
}

// SetUniform sets a uniform on the shader current at execution time.
func (s *Script) SetUniform(name string, v any) {
	s.Append(SetUniformCommand{Name: name, Value: v})
}

// Draw draws count vertices (or indices when ib is non-nil) starting at
// offset with the given model matrix.
func (s *Script) Draw(vb *gpu.VertexBuffer, ib *gpu.IndexBuffer, mode gpu.DrawMode, transform mgl32.Mat4, count, offset int) {
	s.DrawInstanced(vb, ib, mode, transform, count, offset, 1)
}

// DrawInstanced is Draw repeated for instances instances.
func (s *Script) DrawInstanced(vb *gpu.VertexBuffer, ib *gpu.IndexBuffer, mode gpu.DrawMode, transform mgl32.Mat4, count, offset, instances int) {
	s.Append(DrawCommand{
		VertexBuffer: vb,
		IndexBuffer:  ib,
		Mode:         mode,
		Transform:    transform,
		Count:        count,
		Offset:       offset,
		Instances:    instances,
	})
}

// DrawBatch records the current entries of b. Later changes to b do not
// affect the recorded command.
func (s *Script) DrawBatch(b *Batch) {
	gfx.Assert(b != nil, "render.Script.DrawBatch", "nil batch")
	s.Append(DrawBatchCommand{Key: b.Key(), Entries: b.Entries()})
}

// DrawText draws text at pos (pixels, origin bottom-left) with a
// registered font.
func (s *Script) DrawText(text string, pos mgl32.Vec2, color mgl32.Vec4, scale float32, fontName string) {
	var f *Font
	if s.renderer != nil {
		f = lookup(s.renderer.fonts.Get(fontName))
	}
	if f == nil {
		gfx.Logger().Warn("render: font not found", "name", fontName)
	}
	s.Append(DrawTextCommand{Text: text, Position: pos, Color: color, Scale: scale, Font: f})
}

// Execute runs the recorded commands in order inside a context scope.
// The commands are kept: executing again replays the same GPU calls.
func (s *Script) Execute() {
	if s.renderer == nil || s.renderer.ctx == nil {
		gfx.Logger().Debug("render: execute without renderer", "commands", len(s.commands))
		return
	}
	s.renderer.execute(s.commands, s.target)
}

func lookup[T any](v *T, ok bool) *T {
	if !ok {
		return nil
	}
	return v
}
