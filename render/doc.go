// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render records render commands and executes them in batches.
//
// A Script is a list of commands. Recording never touches the GPU;
// Execute runs the list inside a single context scope and can be called
// any number of times, replaying the same GPU calls.
//
// # Key Principle
//
// Adjacent draws that share a vertex buffer, an index buffer and a draw
// mode are coalesced into one Batch: one vertex array is built and one
// render call is issued per draw, with the draw's transform uploaded to
// the shader's "model" uniform in between. Any command that changes state
// commits the pending batch first, so batching never reorders work.
//
// # Core Types
//
//   - Renderer: owns the GPU context, the render State and the resource
//     managers for shaders, textures, buffers and fonts
//   - Script: the recorded command list
//   - Command: one recorded operation, dispatched by a type switch
//   - Batch: draws sharing one vertex array
//   - Material: a shader plus the uniforms and textures it draws with
//
// # Usage
//
//	dev, ctx, err := gpu.OpenBackend("")
//	if err != nil {
//	    return err
//	}
//	r := render.NewRenderer(ctx, dev, render.WithViewportSize(800, 600))
//	if err := r.Init(); err != nil {
//	    return err
//	}
//	defer r.Release()
//
//	sh := r.NewShader(render.FlatShaderSource())
//	r.RegisterShader("flat", sh)
//	vb := r.NewVertexBuffer(60, layout.MustParse("2f 3f"), false)
//	r.RegisterBuffer("triangle", vb)
//	vb.Upload(gpu.Float32Bytes(vertices...))
//
//	r.Begin()
//	r.Clear(gputypes.Color{A: 1})
//	r.EnableShaderByName("flat")
//	r.Draw(vb, nil, gpu.Triangles, mgl32.Ident4(), 3, 0)
//	r.DisableShader()
//	r.DrawText("hello", mgl32.Vec2{8, 8}, mgl32.Vec4{1, 1, 1, 1}, 1, render.DefaultFontName)
//	r.End()
//
// # Errors
//
// Misuse is a contract violation and panics with a *gfx.ContractError:
// executing a command whose shader, texture, buffer or font was never
// found, drawing without a shader, or entering the context twice.
// Resource registration failures are logged and reported by a zero index,
// except shader compilation, which panics with the compiler diagnostic.
package render
