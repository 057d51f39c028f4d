// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gputypes"
)

// CommandKind identifies the type of a render command.
type CommandKind uint8

const (
	// Context state
	CmdClear CommandKind = iota
	CmdSetViewport
	CmdSetView
	CmdSetProjection
	CmdEnableState
	CmdDisableState
	CmdSetBlendEquation
	CmdSetBlendFunc

	// Samplers
	CmdEnableTexture
	CmdDisableTexture
	CmdClearSamplers

	// Programs
	CmdEnableShader
	CmdDisableShader
	CmdEnableMaterial
	CmdDisableMaterial
	CmdSetUniform

	// Drawing
	CmdDraw
	CmdDrawBatch
	CmdDrawText
)

var commandKindNames = [...]string{
	CmdClear:            "Clear",
	CmdSetViewport:      "SetViewport",
	CmdSetView:          "SetView",
	CmdSetProjection:    "SetProjection",
	CmdEnableState:      "EnableState",
	CmdDisableState:     "DisableState",
	CmdSetBlendEquation: "SetBlendEquation",
	CmdSetBlendFunc:     "SetBlendFunc",
	CmdEnableTexture:    "EnableTexture",
	CmdDisableTexture:   "DisableTexture",
	CmdClearSamplers:    "ClearSamplers",
	CmdEnableShader:     "EnableShader",
	CmdDisableShader:    "DisableShader",
	CmdEnableMaterial:   "EnableMaterial",
	CmdDisableMaterial:  "DisableMaterial",
	CmdSetUniform:       "SetUniform",
	CmdDraw:             "Draw",
	CmdDrawBatch:        "DrawBatch",
	CmdDrawText:         "DrawText",
}

// String returns the command name.
func (k CommandKind) String() string {
	if int(k) < len(commandKindNames) {
		return commandKindNames[k]
	}
	return "Unknown"
}

// Command is a recorded render operation.
type Command interface {
	Kind() CommandKind
}

// ClearCommand clears the bound framebuffer.
type ClearCommand struct {
	Color gputypes.Color
}

func (ClearCommand) Kind() CommandKind { return CmdClear }

// SetViewportCommand sets the viewport rectangle in pixels.
type SetViewportCommand struct {
	X, Y, Width, Height int
}

func (SetViewportCommand) Kind() CommandKind { return CmdSetViewport }

// SetViewCommand sets the view matrix uploaded to every shader with a
// "view" uniform.
type SetViewCommand struct {
	Matrix mgl32.Mat4
}

func (SetViewCommand) Kind() CommandKind { return CmdSetView }

// SetProjectionCommand sets the projection matrix uploaded to every shader
// with a "projection" uniform.
type SetProjectionCommand struct {
	Matrix mgl32.Mat4
}

func (SetProjectionCommand) Kind() CommandKind { return CmdSetProjection }

// EnableStateCommand enables pipeline features.
type EnableStateCommand struct {
	State gpu.State
}

func (EnableStateCommand) Kind() CommandKind { return CmdEnableState }

// DisableStateCommand disables pipeline features.
type DisableStateCommand struct {
	State gpu.State
}

func (DisableStateCommand) Kind() CommandKind { return CmdDisableState }

// SetBlendEquationCommand sets the blend operations.
type SetBlendEquationCommand struct {
	RGB, Alpha gpu.BlendEquation
}

func (SetBlendEquationCommand) Kind() CommandKind { return CmdSetBlendEquation }

// SetBlendFuncCommand sets the blend factors.
type SetBlendFuncCommand struct {
	SrcRGB, DstRGB, SrcAlpha, DstAlpha gpu.BlendFactor
}

func (SetBlendFuncCommand) Kind() CommandKind { return CmdSetBlendFunc }

// EnableTextureCommand binds a texture to a sampler slot. Texture is nil
// when the name or index lookup failed at record time.
type EnableTextureCommand struct {
	Slot    int
	Texture *gpu.Texture
}

func (EnableTextureCommand) Kind() CommandKind { return CmdEnableTexture }

// DisableTextureCommand unbinds a sampler slot.
type DisableTextureCommand struct {
	Slot int
}

func (DisableTextureCommand) Kind() CommandKind { return CmdDisableTexture }

// ClearSamplersCommand unbinds sampler slots in [Start, End).
type ClearSamplersCommand struct {
	Start, End int
}

func (ClearSamplersCommand) Kind() CommandKind { return CmdClearSamplers }

// EnableShaderCommand makes a shader current. Shader is nil when the name
// or index lookup failed at record time.
type EnableShaderCommand struct {
	Shader *gpu.Shader
}

func (EnableShaderCommand) Kind() CommandKind { return CmdEnableShader }

// DisableShaderCommand unbinds the current shader.
type DisableShaderCommand struct{}

func (DisableShaderCommand) Kind() CommandKind { return CmdDisableShader }

// EnableMaterialCommand makes a material's shader current and applies the
// material parameters.
type EnableMaterialCommand struct {
	Material Material
}

func (EnableMaterialCommand) Kind() CommandKind { return CmdEnableMaterial }

// DisableMaterialCommand unbinds the current material and its shader.
type DisableMaterialCommand struct{}

func (DisableMaterialCommand) Kind() CommandKind { return CmdDisableMaterial }

// SetUniformCommand sets a uniform on the current shader.
type SetUniformCommand struct {
	Name  string
	Value any
}

func (SetUniformCommand) Kind() CommandKind { return CmdSetUniform }

// DrawCommand draws Count vertices starting at Offset with the model
// matrix Transform. Consecutive draws with the same vertex buffer, index
// buffer and mode are coalesced into one batch.
type DrawCommand struct {
	VertexBuffer *gpu.VertexBuffer
	IndexBuffer  *gpu.IndexBuffer
	Mode         gpu.DrawMode
	Transform    mgl32.Mat4
	Count        int
	Offset       int
	Instances    int
}

func (DrawCommand) Kind() CommandKind { return CmdDraw }

// Key returns the batch key of the draw.
func (c DrawCommand) Key() BatchKey {
	return BatchKey{VertexBuffer: c.VertexBuffer, IndexBuffer: c.IndexBuffer, Mode: c.Mode}
}

// DrawBatchCommand commits a snapshot of an explicit batch taken at record
// time.
type DrawBatchCommand struct {
	Key     BatchKey
	Entries []BatchEntry
}

func (DrawBatchCommand) Kind() CommandKind { return CmdDrawBatch }

// DrawTextCommand draws a string with a registered font. Font is nil when
// the lookup failed at record time.
type DrawTextCommand struct {
	Text     string
	Position mgl32.Vec2
	Color    mgl32.Vec4
	Scale    float32
	Font     *Font
}

func (DrawTextCommand) Kind() CommandKind { return CmdDrawText }
