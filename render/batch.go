// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
)

// BatchKey identifies draws that can share one vertex array.
type BatchKey struct {
	VertexBuffer *gpu.VertexBuffer
	IndexBuffer  *gpu.IndexBuffer
	Mode         gpu.DrawMode
}

// BatchEntry is one draw inside a batch.
type BatchEntry struct {
	Transform mgl32.Mat4
	Count     int
	Offset    int
	Instances int
}

// Batch accumulates draws sharing a vertex buffer, index buffer and mode.
// Commit builds a single vertex array and issues one render call per entry,
// uploading each entry's transform to the shader's "model" uniform.
type Batch struct {
	key     BatchKey
	entries []BatchEntry
}

// NewBatch creates an empty batch for the given key.
func NewBatch(vb *gpu.VertexBuffer, ib *gpu.IndexBuffer, mode gpu.DrawMode) *Batch {
	return &Batch{key: BatchKey{VertexBuffer: vb, IndexBuffer: ib, Mode: mode}}
}

// Key returns the batch key.
func (b *Batch) Key() BatchKey { return b.key }

// Push appends a draw. instances below 1 draws a single instance.
func (b *Batch) Push(transform mgl32.Mat4, count, offset, instances int) {
	if instances < 1 {
		instances = 1
	}
	b.entries = append(b.entries, BatchEntry{Transform: transform, Count: count, Offset: offset, Instances: instances})
}

// Reset clears the entries and rekeys the batch.
func (b *Batch) Reset(vb *gpu.VertexBuffer, ib *gpu.IndexBuffer, mode gpu.DrawMode) {
	b.key = BatchKey{VertexBuffer: vb, IndexBuffer: ib, Mode: mode}
	b.entries = b.entries[:0]
}

// Entries returns a copy of the pending entries.
func (b *Batch) Entries() []BatchEntry {
	out := make([]BatchEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of pending entries.
func (b *Batch) Len() int { return len(b.entries) }

// Empty reports whether the batch has no pending entries.
func (b *Batch) Empty() bool { return len(b.entries) == 0 }

// PushKeyed appends e under key. When the batch holds entries for a
// different key they are committed first and the batch is rekeyed.
func (b *Batch) PushKeyed(st *State, key BatchKey, e BatchEntry) {
	if b.key != key {
		if !b.Empty() {
			b.Commit(st)
		}
		b.Reset(key.VertexBuffer, key.IndexBuffer, key.Mode)
	}
	b.Push(e.Transform, e.Count, e.Offset, e.Instances)
}

// Commit renders the pending entries with the current shader of st and
// clears them. The key is kept. Committing an empty batch is a no-op.
func (b *Batch) Commit(st *State) {
	if b.Empty() {
		return
	}
	sh := st.Shader
	gfx.Assert(sh != nil, "render.Batch.Commit", "no shader bound")
	vb := b.key.VertexBuffer
	gfx.Assert(vb != nil, "render.Batch.Commit", "nil vertex buffer")

	if !st.renderer.entered {
		defer st.renderer.Enter().Close()
	}

	prog := sh.Program()

	attrs := prog.Attributes()
	if len(attrs) > vb.Layout.Len() {
		attrs = attrs[:vb.Layout.Len()]
	}
	bindings := []gpu.VertexBinding{{Buffer: vb.Buffer, Layout: vb.Layout, Attributes: attrs}}
	va, err := st.ctx.NewVertexArray(prog, bindings, b.key.IndexBuffer)
	if err != nil {
		gfx.Failf("render.Batch.Commit", "vertex array for layout %q: %v", vb.Layout, err)
	}
	defer func() {
		va.Release()
		b.entries = b.entries[:0]
	}()

	gfx.Logger().Debug("render: commit batch", "mode", b.key.Mode, "entries", len(b.entries))
	for _, e := range b.entries {
		if st.ModelUniform != nil {
			st.ModelUniform.Set(e.Transform)
		}
		va.Render(b.key.Mode, e.Count, e.Offset, e.Instances)
	}
}
