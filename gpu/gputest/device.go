// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gputest

import (
	"fmt"

	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gfx/shader"
)

// ProgramSpec declares the interface of a fake program.
type ProgramSpec struct {
	Attributes []string
	Uniforms   []string
}

type texture struct {
	desc gpu.TextureDescriptor
	data []byte
}

// Device is an in-memory gpu.Device.
type Device struct {
	Log *Log

	// Programs declares program interfaces by shader label. Sources with
	// no entry are reflected from their WGSL.
	Programs map[string]ProgramSpec

	// FailCompile makes CreateProgram fail for the given labels.
	FailCompile map[string]error

	buffers  resource.Arena[[]byte]
	textures resource.Arena[*texture]
}

// NewDevice creates a device recording into log.
func NewDevice(log *Log) *Device {
	return &Device{
		Log:         log,
		Programs:    make(map[string]ProgramSpec),
		FailCompile: make(map[string]error),
	}
}

// Define declares the attributes and uniforms of the program labelled label.
func (d *Device) Define(label string, attributes []string, uniforms ...string) {
	d.Programs[label] = ProgramSpec{Attributes: attributes, Uniforms: uniforms}
}

func (d *Device) CreateBuffer(size int, dynamic bool) (resource.Handle, error) {
	if size < 0 {
		return resource.Handle{}, fmt.Errorf("gputest: negative buffer size %d", size)
	}
	h := d.buffers.Insert(make([]byte, size))
	d.Log.add("CreateBuffer", size, dynamic)
	return h, nil
}

func (d *Device) WriteBuffer(h resource.Handle, offset int, data []byte) error {
	buf, ok := d.buffers.Get(h)
	if !ok {
		return fmt.Errorf("gputest: write %s: %w", h, resource.ErrStaleHandle)
	}
	if offset < 0 || offset+len(data) > len(buf) {
		return fmt.Errorf("gputest: write [%d,%d) outside buffer of %d bytes", offset, offset+len(data), len(buf))
	}
	copy(buf[offset:], data)
	d.Log.add("WriteBuffer", offset, len(data))
	return nil
}

func (d *Device) ReadBuffer(h resource.Handle, offset int, dst []byte) error {
	buf, ok := d.buffers.Get(h)
	if !ok {
		return fmt.Errorf("gputest: read %s: %w", h, resource.ErrStaleHandle)
	}
	if offset < 0 || offset+len(dst) > len(buf) {
		return fmt.Errorf("gputest: read [%d,%d) outside buffer of %d bytes", offset, offset+len(dst), len(buf))
	}
	copy(dst, buf[offset:])
	return nil
}

func (d *Device) DestroyBuffer(h resource.Handle) error {
	if _, err := d.buffers.Remove(h); err != nil {
		return err
	}
	d.Log.add("DestroyBuffer")
	return nil
}

// BufferData returns the contents of a live buffer.
func (d *Device) BufferData(h resource.Handle) ([]byte, bool) {
	return d.buffers.Get(h)
}

// LiveBuffers returns the number of buffers not yet destroyed.
func (d *Device) LiveBuffers() int { return d.buffers.Len() }

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (resource.Handle, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return resource.Handle{}, fmt.Errorf("gputest: texture %q has size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	h := d.textures.Insert(&texture{desc: desc})
	d.Log.add("CreateTexture", desc.Label, desc.Width, desc.Height)
	return h, nil
}

func (d *Device) WriteTexture(h resource.Handle, data []byte) error {
	tex, ok := d.textures.Get(h)
	if !ok {
		return fmt.Errorf("gputest: write texture %s: %w", h, resource.ErrStaleHandle)
	}
	tex.data = append(tex.data[:0], data...)
	d.Log.add("WriteTexture", tex.desc.Label, len(data))
	return nil
}

func (d *Device) DestroyTexture(h resource.Handle) error {
	tex, err := d.textures.Remove(h)
	if err != nil {
		return err
	}
	d.Log.add("DestroyTexture", tex.desc.Label)
	return nil
}

// TextureData returns the uploaded contents of a live texture.
func (d *Device) TextureData(h resource.Handle) ([]byte, bool) {
	tex, ok := d.textures.Get(h)
	if !ok {
		return nil, false
	}
	return tex.data, true
}

// LiveTextures returns the number of textures not yet destroyed.
func (d *Device) LiveTextures() int { return d.textures.Len() }

func (d *Device) CreateProgram(src gpu.ShaderSource) (gpu.Program, error) {
	if err, ok := d.FailCompile[src.Label]; ok {
		return nil, err
	}
	spec, ok := d.Programs[src.Label]
	if !ok {
		vs, _ := src.Entries()
		refl, err := shader.Reflect(src.WGSL, vs)
		if err != nil {
			return nil, err
		}
		spec.Attributes = refl.AttributeNames()
		spec.Uniforms = refl.UniformNames()
	}
	d.Log.add("CreateProgram", src.Label)
	return newProgram(d.Log, src.Label, spec), nil
}

var _ gpu.Device = (*Device)(nil)
