// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package halgpu implements the gpu interfaces on a wgpu hal device.
//
// Buffers and textures map one to one onto hal objects. Programs are
// compiled with naga for reflection and turned into render pipelines on
// first draw, cached by vertex layout, topology, blend state and target
// format. Uniform values are shadowed on the CPU and copied into a per-frame
// uniform arena on every draw, so consecutive draws in one command buffer
// see their own values.
//
// Importing the package registers the "noop" backend, which runs the full
// path on the hal noop adapter and is what headless tools and tests use.
// Applications with a real device wrap it with New:
//
//	dev, ctx := halgpu.New(halDevice, halQueue, halgpu.WithScreen(view, w, h))
//	r := render.NewRenderer(ctx, dev)
//
// The depth and stencil states are tracked but have no effect: the
// backend renders into color attachments only.
package halgpu
