// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gfx/gpu/gputest"
	"github.com/gogpu/gfx/layout"
	"github.com/gogpu/gputypes"
)

func expectContract(t *testing.T, op string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		ce, ok := r.(*gfx.ContractError)
		if !ok {
			t.Fatalf("%s: panic value = %#v, want *gfx.ContractError", op, r)
		}
		if ce.Op != op {
			t.Errorf("ContractError.Op = %q, want %q", ce.Op, op)
		}
	}()
	fn()
}

func TestBufferLifecycle(t *testing.T) {
	dev, _ := gputest.New()
	b := gpu.NewBuffer(dev, 16, true)

	if err := b.Read(make([]byte, 4), 0); !errors.Is(err, gpu.ErrNotAllocated) {
		t.Errorf("Read() before Allocate error = %v, want ErrNotAllocated", err)
	}
	if err := b.Allocate(); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if dev.LiveBuffers() != 1 {
		t.Errorf("LiveBuffers() = %d, want 1", dev.LiveBuffers())
	}

	b.Upload([]byte{1, 2, 3, 4})
	if off := b.Append([]byte{5, 6}); off != 0 {
		t.Errorf("Append() offset = %d, want 0", off)
	}
	if off := b.Append([]byte{7, 8}); off != 2 {
		t.Errorf("Append() offset = %d, want 2", off)
	}
	if b.Needle() != 4 {
		t.Errorf("Needle() = %d, want 4", b.Needle())
	}
	got := make([]byte, 4)
	if err := b.Read(got, 0); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, []byte{5, 6, 7, 8}) {
		t.Errorf("Read() = %v, want [5 6 7 8]", got)
	}

	if err := b.Orphan(32); err != nil {
		t.Fatalf("Orphan() error = %v", err)
	}
	if b.Size() != 32 || b.Needle() != 0 {
		t.Errorf("after Orphan: Size() = %d, Needle() = %d", b.Size(), b.Needle())
	}
	if dev.LiveBuffers() != 1 {
		t.Errorf("LiveBuffers() after Orphan = %d, want 1", dev.LiveBuffers())
	}

	b.Free()
	if b.Allocated() || dev.LiveBuffers() != 0 {
		t.Errorf("after Free: Allocated() = %v, LiveBuffers() = %d", b.Allocated(), dev.LiveBuffers())
	}
	expectContract(t, "gpu.Buffer.Free", b.Free)
}

func TestBufferOverflowPanics(t *testing.T) {
	dev, _ := gputest.New()
	b := gpu.NewBuffer(dev, 8, false)
	if err := b.Allocate(); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	t.Cleanup(b.Free)

	tests := []struct {
		name   string
		data   []byte
		offset int
	}{
		{"past end", make([]byte, 4), 6},
		{"too large", make([]byte, 9), 0},
		{"negative offset", make([]byte, 1), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectContract(t, "gpu.Buffer.WriteAt", func() { b.WriteAt(tt.data, tt.offset) })
		})
	}

	b.Seek(4)
	expectContract(t, "gpu.Buffer.WriteAt", func() { b.Append(make([]byte, 5)) })
	expectContract(t, "gpu.Buffer.Seek", func() { b.Seek(9) })
}

func TestBufferNilDevice(t *testing.T) {
	b := gpu.NewBuffer(nil, 4, false)
	if err := b.Allocate(); !errors.Is(err, gpu.ErrNilDevice) {
		t.Errorf("Allocate() error = %v, want ErrNilDevice", err)
	}
}

func TestVertexAndIndexBuffers(t *testing.T) {
	dev, _ := gputest.New()
	vb := gpu.NewVertexBuffer(dev, 60, layout.MustParse("2f 3f"), false)
	if vb.Vertices() != 3 {
		t.Errorf("Vertices() = %d, want 3", vb.Vertices())
	}
	ib := gpu.NewIndexBuffer(dev, 6, gputypes.IndexFormatUint16, false)
	if ib.Size() != 12 {
		t.Errorf("IndexBuffer Size() = %d, want 12", ib.Size())
	}
	if got := gpu.IndexSize(gputypes.IndexFormatUint32); got != 4 {
		t.Errorf("IndexSize(Uint32) = %d, want 4", got)
	}
	expectContract(t, "gpu.NewVertexBuffer", func() {
		gpu.NewVertexBuffer(dev, 4, layout.Parse("3z"), false)
	})
}

func TestEncodeUniform(t *testing.T) {
	tests := []struct {
		name string
		v    any
		size int
	}{
		{"float32", float32(1), 4},
		{"float64", 1.0, 4},
		{"int", 7, 4},
		{"bool", true, 4},
		{"vec2", mgl32.Vec2{1, 2}, 8},
		{"vec4", mgl32.Vec4{1, 2, 3, 4}, 16},
		{"mat3", mgl32.Ident3(), 48},
		{"mat4", mgl32.Ident4(), 64},
		{"slice", []float32{1, 2, 3}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gpu.EncodeUniform(tt.v)
			if err != nil {
				t.Fatalf("EncodeUniform() error = %v", err)
			}
			if len(got) != tt.size {
				t.Errorf("len(EncodeUniform()) = %d, want %d", len(got), tt.size)
			}
		})
	}

	// mat3 columns are padded to 16 bytes.
	m, _ := gpu.EncodeUniform(mgl32.Ident3())
	if !bytes.Equal(m[16:32], gpu.Float32Bytes(0, 1, 0, 0)) {
		t.Errorf("mat3 column 1 = %v", m[16:32])
	}
	if !bytes.Equal(gpu.Float32Bytes(1), []byte{0, 0, 0x80, 0x3f}) {
		t.Errorf("Float32Bytes(1) = %v", gpu.Float32Bytes(1))
	}

	if _, err := gpu.EncodeUniform("red"); !errors.Is(err, gpu.ErrUniformType) {
		t.Errorf("EncodeUniform(string) error = %v, want ErrUniformType", err)
	}
}

func TestOpenBackend(t *testing.T) {
	gputest.Register()
	t.Cleanup(func() { gpu.UnregisterBackend("test") })

	dev, ctx, err := gpu.OpenBackend("test")
	if err != nil {
		t.Fatalf("OpenBackend(test) error = %v", err)
	}
	if dev == nil || ctx == nil {
		t.Fatal("OpenBackend(test) returned nil device or context")
	}
	if _, _, err := gpu.OpenBackend("missing"); !errors.Is(err, gpu.ErrNoBackend) {
		t.Errorf("OpenBackend(missing) error = %v, want ErrNoBackend", err)
	}
}
