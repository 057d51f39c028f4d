// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/layout"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gputypes"
)

// Allocator is a GPU handle with an explicit allocate/free lifecycle.
type Allocator interface {
	Allocate() error
	Free()
	Allocated() bool
}

// Buffer is a linear block of GPU memory.
//
// Writes are bounds checked against Size: writing past the end is a
// contract violation. The needle is a write cursor used by Append to pack
// several draws into one dynamic buffer per frame.
type Buffer struct {
	dev     Device
	handle  resource.Handle
	size    int
	dynamic bool
	needle  int
}

// NewBuffer creates an unallocated buffer handle of size bytes.
func NewBuffer(dev Device, size int, dynamic bool) *Buffer {
	return &Buffer{dev: dev, size: size, dynamic: dynamic}
}

// Allocate creates the backend storage.
func (b *Buffer) Allocate() error {
	gfx.Assert(!b.Allocated(), "gpu.Buffer.Allocate", "buffer already allocated")
	if b.dev == nil {
		return ErrNilDevice
	}
	h, err := b.dev.CreateBuffer(b.size, b.dynamic)
	if err != nil {
		return fmt.Errorf("gpu: allocate buffer (%d bytes): %w", b.size, err)
	}
	b.handle = h
	b.needle = 0
	return nil
}

// Free destroys the backend storage. Freeing an unallocated buffer is a
// contract violation.
func (b *Buffer) Free() {
	gfx.Assert(b.Allocated(), "gpu.Buffer.Free", "buffer not allocated")
	if err := b.dev.DestroyBuffer(b.handle); err != nil {
		gfx.Logger().Warn("gpu: destroy buffer", "handle", b.handle, "err", err)
	}
	b.handle = resource.Handle{}
}

// Allocated reports whether backend storage exists.
func (b *Buffer) Allocated() bool { return !b.handle.IsZero() }

// Handle returns the backend handle.
func (b *Buffer) Handle() resource.Handle { return b.handle }

// Size returns the size in bytes.
func (b *Buffer) Size() int { return b.size }

// Dynamic reports whether the buffer is rewritten every frame.
func (b *Buffer) Dynamic() bool { return b.dynamic }

// Needle returns the write cursor.
func (b *Buffer) Needle() int { return b.needle }

// Seek moves the write cursor.
func (b *Buffer) Seek(pos int) {
	gfx.Assert(pos >= 0 && pos <= b.size, "gpu.Buffer.Seek", "position %d outside [0,%d]", pos, b.size)
	b.needle = pos
}

// Upload writes data at offset 0.
func (b *Buffer) Upload(data []byte) {
	b.WriteAt(data, 0)
}

// WriteAt writes data at offset.
func (b *Buffer) WriteAt(data []byte, offset int) {
	gfx.Assert(b.Allocated(), "gpu.Buffer.WriteAt", "buffer not allocated")
	gfx.Assert(offset >= 0 && offset+len(data) <= b.size, "gpu.Buffer.WriteAt",
		"offset %d + %d bytes exceeds size %d", offset, len(data), b.size)
	if len(data) == 0 {
		return
	}
	if err := b.dev.WriteBuffer(b.handle, offset, data); err != nil {
		gfx.Failf("gpu.Buffer.WriteAt", "backend write: %v", err)
	}
}

// Append writes data at the needle, advances it and returns the offset the
// data was written at.
func (b *Buffer) Append(data []byte) int {
	off := b.needle
	b.WriteAt(data, off)
	b.needle += len(data)
	return off
}

// Read copies len(dst) bytes starting at offset into dst.
func (b *Buffer) Read(dst []byte, offset int) error {
	if !b.Allocated() {
		return ErrNotAllocated
	}
	gfx.Assert(offset >= 0 && offset+len(dst) <= b.size, "gpu.Buffer.Read",
		"offset %d + %d bytes exceeds size %d", offset, len(dst), b.size)
	return b.dev.ReadBuffer(b.handle, offset, dst)
}

// Orphan discards the contents and reallocates size bytes of storage,
// keeping the Go handle. The needle is reset.
func (b *Buffer) Orphan(size int) error {
	if b.Allocated() {
		if err := b.dev.DestroyBuffer(b.handle); err != nil {
			gfx.Logger().Warn("gpu: orphan buffer", "handle", b.handle, "err", err)
		}
		b.handle = resource.Handle{}
	}
	b.size = size
	return b.Allocate()
}

// VertexBuffer is a buffer plus the layout of one vertex.
type VertexBuffer struct {
	*Buffer
	Layout layout.Layout
}

// NewVertexBuffer creates an unallocated vertex buffer. It panics if the
// layout is invalid.
func NewVertexBuffer(dev Device, size int, l layout.Layout, dynamic bool) *VertexBuffer {
	gfx.Assert(!l.IsInvalid(), "gpu.NewVertexBuffer", "invalid layout")
	return &VertexBuffer{Buffer: NewBuffer(dev, size, dynamic), Layout: l}
}

// Vertices returns how many whole vertices fit in the buffer.
func (vb *VertexBuffer) Vertices() int {
	return vb.Size() / vb.Layout.Stride()
}

// IndexBuffer is a buffer of 16 or 32 bit indices.
type IndexBuffer struct {
	*Buffer
	Format gputypes.IndexFormat
}

// NewIndexBuffer creates an unallocated index buffer holding count indices.
func NewIndexBuffer(dev Device, count int, format gputypes.IndexFormat, dynamic bool) *IndexBuffer {
	return &IndexBuffer{Buffer: NewBuffer(dev, count*IndexSize(format), dynamic), Format: format}
}

// IndexSize returns the size in bytes of one index.
func IndexSize(f gputypes.IndexFormat) int {
	if f == gputypes.IndexFormatUint16 {
		return 2
	}
	return 4
}

// Float32Bytes encodes v as little-endian bytes.
func Float32Bytes(v ...float32) []byte {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// Uint16Bytes encodes v as little-endian bytes.
func Uint16Bytes(v ...uint16) []byte {
	out := make([]byte, 2*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint16(out[i*2:], x)
	}
	return out
}

// Uint32Bytes encodes v as little-endian bytes.
func Uint32Bytes(v ...uint32) []byte {
	out := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*4:], x)
	}
	return out
}
