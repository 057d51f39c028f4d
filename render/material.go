// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"maps"
	"slices"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
)

// Material is a shader plus the parameters it is drawn with.
type Material interface {
	// Shader returns the program the material draws with.
	Shader() *gpu.Shader

	// Prepare applies the material parameters. It runs after the shader is
	// bound.
	Prepare(ctx gpu.Context, sh *gpu.Shader)
}

// BasicMaterial sets a fixed set of uniforms and textures.
type BasicMaterial struct {
	Program  *gpu.Shader
	Uniforms map[string]any
	Textures map[int]*gpu.Texture
}

// NewBasicMaterial creates a material without parameters.
func NewBasicMaterial(sh *gpu.Shader) *BasicMaterial {
	gfx.Assert(sh != nil, "render.NewBasicMaterial", "nil shader")
	return &BasicMaterial{
		Program:  sh,
		Uniforms: make(map[string]any),
		Textures: make(map[int]*gpu.Texture),
	}
}

// Set stores a uniform value and returns m.
func (m *BasicMaterial) Set(name string, v any) *BasicMaterial {
	m.Uniforms[name] = v
	return m
}

// SetTexture binds t to slot when the material is prepared and returns m.
func (m *BasicMaterial) SetTexture(slot int, t *gpu.Texture) *BasicMaterial {
	m.Textures[slot] = t
	return m
}

func (m *BasicMaterial) Shader() *gpu.Shader { return m.Program }

// Prepare sets uniforms in name order and binds textures in slot order.
func (m *BasicMaterial) Prepare(ctx gpu.Context, sh *gpu.Shader) {
	for _, name := range slices.Sorted(maps.Keys(m.Uniforms)) {
		sh.SetValue(name, m.Uniforms[name])
	}
	for _, slot := range slices.Sorted(maps.Keys(m.Textures)) {
		ctx.BindTexture(slot, m.Textures[slot])
	}
}
