// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// uniformOffsetAlign is the default MinUniformBufferOffsetAlignment.
const uniformOffsetAlign = 256

type uniformChunk struct {
	raw  hal.Buffer
	data []byte
	used int
}

// uniformArena is a per-frame bump allocator for uniform data. Every draw
// copies its blocks into a fresh range, and the used ranges are written to
// the GPU in one pass before the frame is submitted.
type uniformArena struct {
	dev       *Device
	chunkSize int
	chunks    []*uniformChunk
	cur       int
}

func (a *uniformArena) alloc(data []byte) (hal.Buffer, uint64, error) {
	for ; a.cur < len(a.chunks); a.cur++ {
		c := a.chunks[a.cur]
		off := (c.used + uniformOffsetAlign - 1) &^ (uniformOffsetAlign - 1)
		if off+len(data) <= len(c.data) {
			copy(c.data[off:], data)
			c.used = off + len(data)
			return c.raw, uint64(off), nil
		}
	}

	size := max(a.chunkSize, len(data))
	raw, err := a.dev.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: fmt.Sprintf("gfx_uniforms_%d", len(a.chunks)),
		Size:  uint64(align4(size)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("halgpu: create uniform chunk: %w", err)
	}
	c := &uniformChunk{raw: raw, data: make([]byte, align4(size))}
	copy(c.data, data)
	c.used = len(data)
	a.chunks = append(a.chunks, c)
	return c.raw, 0, nil
}

func (a *uniformArena) upload(q hal.Queue) error {
	for _, c := range a.chunks {
		if c.used == 0 {
			continue
		}
		if err := q.WriteBuffer(c.raw, 0, c.data[:align4(c.used)]); err != nil {
			return err
		}
	}
	return nil
}

func (a *uniformArena) reset() {
	for _, c := range a.chunks {
		c.used = 0
	}
	a.cur = 0
}

func (a *uniformArena) destroy() {
	for _, c := range a.chunks {
		a.dev.dev.DestroyBuffer(c.raw)
	}
	a.chunks = nil
	a.cur = 0
}
