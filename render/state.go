// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx/gpu"
)

// Well-known uniform names. A shader that declares them receives the
// matrices automatically.
const (
	UniformView       = "view"
	UniformProjection = "projection"
	UniformModel      = "model"
)

// State is the render state mutated by command execution. It persists
// across script executions on the same renderer.
type State struct {
	renderer *Renderer
	ctx      gpu.Context

	Shader   *gpu.Shader
	Material Material

	View       mgl32.Mat4
	Projection mgl32.Mat4

	// Uniform handles of the current shader, nil when it lacks them.
	ViewUniform       gpu.Uniform
	ProjectionUniform gpu.Uniform
	ModelUniform      gpu.Uniform

	Textures map[int]*gpu.Texture
	Enabled  gpu.State

	batch *Batch
}

func newState(r *Renderer) *State {
	return &State{
		renderer:   r,
		ctx:        r.ctx,
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
		Textures:   make(map[int]*gpu.Texture),
		batch:      &Batch{},
	}
}

// Batch returns the implicit batch draws are coalesced into.
func (st *State) Batch() *Batch { return st.batch }

// Flush commits the implicit batch.
func (st *State) Flush() { st.batch.Commit(st) }
