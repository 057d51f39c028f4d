// Package gfx is a deferred render-command and batching pipeline on top of
// the gogpu WebGPU stack.
//
// # Overview
//
// An application records draw calls and state changes into a render script
// instead of issuing them immediately. When the script executes, the
// renderer binds its GPU context for the duration of the flush, replays the
// commands in order, and coalesces consecutive draws that share the same
// vertex buffer, index buffer and draw mode into a single batch: one vertex
// array, one render call per transform.
//
// # Packages
//
//   - layout: parses compact vertex layout strings such as "3f 2f/v"
//   - resource: named resource managers with add/remove hooks and
//     generation-checked handle arenas
//   - gpu: buffer, texture, shader and vertex array handles over a
//     backend Device and Context
//   - gpu/halgpu: backend over github.com/gogpu/wgpu/hal
//   - gpu/gputest: call-recording backend for tests
//   - shader: WGSL reflection through github.com/gogpu/naga
//   - render: commands, scripts, batches and the Renderer façade
//   - font: glyph atlases and text quad geometry
//   - asset: image, font and shader loaders over fs.FS
//   - app: layers, the layer stack, YAML window config and the frame loop
//
// # Quick Start
//
//	import _ "github.com/gogpu/gfx/gpu/halgpu" // registers the "noop" backend
//
//	dev, ctx, err := gpu.OpenBackend("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	r := render.NewRenderer(ctx, dev)
//	if err := r.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer r.Release()
//
// A windowing host wraps its own hal device and surface view instead:
//
//	dev, ctx, err := halgpu.New(halDevice, halQueue, halgpu.WithScreen(view, w, h))
//
//	r.Begin()
//	r.Clear(gputypes.Color{A: 1})
//	r.EnableShaderByName("flat")
//	r.Draw(vb, nil, gpu.Triangles, mgl32.Ident4(), 3, 0)
//	r.DisableShader()
//	r.End()
//
// # Logging
//
// gfx is silent by default. Call [SetLogger] to route diagnostics from every
// sub-package to a [log/slog] logger.
//
// # Contract violations
//
// Misuse such as writing past the end of a buffer panics with a
// [*ContractError] after logging it at error level.
package gfx
