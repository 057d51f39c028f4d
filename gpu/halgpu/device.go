// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// bufferUsage covers every role a gpu.Buffer can play.
const bufferUsage = gputypes.BufferUsageVertex | gputypes.BufferUsageIndex |
	gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc

type buffer struct {
	raw hal.Buffer

	// shadow holds the last written contents. hal buffers used for
	// vertices are not mappable, so reads are served from here.
	shadow []byte
}

type texture struct {
	desc gpu.TextureDescriptor
	raw  hal.Texture
	view hal.TextureView
}

// Device is a gpu.Device on a hal device.
type Device struct {
	dev   hal.Device
	queue hal.Queue

	mu       sync.Mutex
	buffers  resource.Arena[*buffer]
	textures resource.Arena[*texture]

	sampler hal.Sampler
	white   *texture
}

func newDevice(dev hal.Device, queue hal.Queue) *Device {
	return &Device{dev: dev, queue: queue}
}

// HAL returns the wrapped hal device.
func (d *Device) HAL() hal.Device { return d.dev }

// align4 rounds n up to the copy alignment.
func align4(n int) int { return (n + 3) &^ 3 }

func (d *Device) CreateBuffer(size int, dynamic bool) (resource.Handle, error) {
	if size < 0 {
		return resource.Handle{}, fmt.Errorf("halgpu: negative buffer size %d", size)
	}
	label := "gfx_static"
	if dynamic {
		label = "gfx_dynamic"
	}
	raw, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(max(align4(size), 4)),
		Usage: bufferUsage,
	})
	if err != nil {
		return resource.Handle{}, fmt.Errorf("halgpu: create buffer: %w", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buffers.Insert(&buffer{raw: raw, shadow: make([]byte, size)}), nil
}

func (d *Device) lookupBuffer(h resource.Handle) (*buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buffers.Get(h)
	if !ok {
		return nil, fmt.Errorf("halgpu: buffer %s: %w", h, resource.ErrStaleHandle)
	}
	return b, nil
}

func (d *Device) WriteBuffer(h resource.Handle, offset int, data []byte) error {
	b, err := d.lookupBuffer(h)
	if err != nil {
		return err
	}
	if offset < 0 || offset+len(data) > len(b.shadow) {
		return fmt.Errorf("halgpu: write [%d,%d) outside buffer of %d bytes", offset, offset+len(data), len(b.shadow))
	}
	copy(b.shadow[offset:], data)
	if len(data) == 0 {
		return nil
	}

	// Queue writes must start and end on 4 byte boundaries; widen the
	// range from the shadow.
	start := offset &^ 3
	end := min(align4(offset+len(data)), len(b.shadow))
	chunk := b.shadow[start:end]
	if n := align4(len(chunk)); n != len(chunk) {
		padded := make([]byte, n)
		copy(padded, chunk)
		chunk = padded
	}
	if err := d.queue.WriteBuffer(b.raw, uint64(start), chunk); err != nil {
		return fmt.Errorf("halgpu: write buffer: %w", err)
	}
	return nil
}

func (d *Device) ReadBuffer(h resource.Handle, offset int, dst []byte) error {
	b, err := d.lookupBuffer(h)
	if err != nil {
		return err
	}
	if offset < 0 || offset+len(dst) > len(b.shadow) {
		return fmt.Errorf("halgpu: read [%d,%d) outside buffer of %d bytes", offset, offset+len(dst), len(b.shadow))
	}
	copy(dst, b.shadow[offset:])
	return nil
}

func (d *Device) DestroyBuffer(h resource.Handle) error {
	d.mu.Lock()
	b, err := d.buffers.Remove(h)
	d.mu.Unlock()
	if err != nil {
		return err
	}
	d.dev.DestroyBuffer(b.raw)
	return nil
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (resource.Handle, error) {
	t, err := d.createTexture(desc)
	if err != nil {
		return resource.Handle{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.textures.Insert(t), nil
}

func (d *Device) createTexture(desc gpu.TextureDescriptor) (*texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("halgpu: texture %q has size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	usage := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
	if desc.RenderTarget {
		usage |= gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc
	}
	raw, err := d.dev.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create texture %q: %w", desc.Label, err)
	}
	view, err := d.dev.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:     desc.Label + "_view",
		Format:    desc.Format,
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		d.dev.DestroyTexture(raw)
		return nil, fmt.Errorf("halgpu: create view %q: %w", desc.Label, err)
	}
	return &texture{desc: desc, raw: raw, view: view}, nil
}

func (d *Device) lookupTexture(h resource.Handle) (*texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.textures.Get(h)
	if !ok {
		return nil, fmt.Errorf("halgpu: texture %s: %w", h, resource.ErrStaleHandle)
	}
	return t, nil
}

func (d *Device) WriteTexture(h resource.Handle, data []byte) error {
	t, err := d.lookupTexture(h)
	if err != nil {
		return err
	}
	return d.writeTexture(t, data)
}

func (d *Device) writeTexture(t *texture, data []byte) error {
	bpp := gpu.BytesPerPixel(t.desc.Format)
	if want := t.desc.Width * t.desc.Height * bpp; len(data) != want {
		return fmt.Errorf("halgpu: texture %q: %d bytes, want %d", t.desc.Label, len(data), want)
	}
	err := d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.raw, Aspect: gputypes.TextureAspectAll},
		data,
		&hal.ImageDataLayout{BytesPerRow: uint32(t.desc.Width * bpp), RowsPerImage: uint32(t.desc.Height)},
		&hal.Extent3D{Width: uint32(t.desc.Width), Height: uint32(t.desc.Height), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("halgpu: write texture %q: %w", t.desc.Label, err)
	}
	return nil
}

func (d *Device) DestroyTexture(h resource.Handle) error {
	d.mu.Lock()
	t, err := d.textures.Remove(h)
	d.mu.Unlock()
	if err != nil {
		return err
	}
	d.destroyTexture(t)
	return nil
}

func (d *Device) destroyTexture(t *texture) {
	d.dev.DestroyTextureView(t.view)
	d.dev.DestroyTexture(t.raw)
}

// LiveBuffers returns the number of buffers not yet destroyed.
func (d *Device) LiveBuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buffers.Len()
}

// LiveTextures returns the number of textures not yet destroyed.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.textures.Len()
}

// defaultSampler returns the linear clamp sampler bound to every sampler
// slot.
func (d *Device) defaultSampler() (hal.Sampler, error) {
	if d.sampler != nil {
		return d.sampler, nil
	}
	s, err := d.dev.CreateSampler(&hal.SamplerDescriptor{
		Label:        "gfx_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
		LodMaxClamp:  32,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create sampler: %w", err)
	}
	d.sampler = s
	return s, nil
}

// fallbackTexture returns a 1x1 white texture bound to texture slots the
// context has nothing bound to.
func (d *Device) fallbackTexture() (*texture, error) {
	if d.white != nil {
		return d.white, nil
	}
	t, err := d.createTexture(gpu.TextureDescriptor{
		Label: "gfx_white", Width: 1, Height: 1, Format: gputypes.TextureFormatRGBA8Unorm,
	})
	if err != nil {
		return nil, err
	}
	if err := d.writeTexture(t, []byte{255, 255, 255, 255}); err != nil {
		d.destroyTexture(t)
		return nil, err
	}
	d.white = t
	return t, nil
}

// Destroy releases every remaining object and the hal device.
func (d *Device) Destroy() {
	d.mu.Lock()
	live := d.buffers.Len() + d.textures.Len()
	d.buffers.Each(func(_ resource.Handle, b *buffer) { d.dev.DestroyBuffer(b.raw) })
	d.textures.Each(func(_ resource.Handle, t *texture) { d.destroyTexture(t) })
	d.buffers, d.textures = resource.Arena[*buffer]{}, resource.Arena[*texture]{}
	d.mu.Unlock()

	if live > 0 {
		gfx.Logger().Warn("halgpu: destroying device with live resources", "count", live)
	}
	if d.white != nil {
		d.destroyTexture(d.white)
		d.white = nil
	}
	if d.sampler != nil {
		d.dev.DestroySampler(d.sampler)
		d.sampler = nil
	}
	if err := d.dev.WaitIdle(); err != nil {
		gfx.Logger().Warn("halgpu: wait idle", "err", err)
	}
	d.dev.Destroy()
}

var _ gpu.Device = (*Device)(nil)
