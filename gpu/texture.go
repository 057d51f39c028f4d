// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/resource"
	"github.com/gogpu/gputypes"
)

// Texture is a 2D GPU texture.
//
// The pixel data passed at construction is uploaded by Allocate; the
// texture keeps a reference to it so that it can be re-uploaded after a
// device reset.
type Texture struct {
	dev    Device
	handle resource.Handle
	desc   TextureDescriptor
	pixels []byte
}

// NewTexture creates an unallocated texture. pixels may be nil for a
// render target.
func NewTexture(dev Device, desc TextureDescriptor, pixels []byte) *Texture {
	if want := desc.Width * desc.Height * BytesPerPixel(desc.Format); pixels != nil && len(pixels) != want {
		gfx.Failf("gpu.NewTexture", "%d bytes of pixel data, want %d", len(pixels), want)
	}
	return &Texture{dev: dev, desc: desc, pixels: pixels}
}

// NewTextureFromImage creates an unallocated RGBA8 texture from img.
func NewTextureFromImage(dev Device, label string, img image.Image) *Texture {
	b := img.Bounds()
	rgba, ok := img.(*image.NRGBA)
	if !ok || rgba.Stride != 4*b.Dx() {
		rgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	desc := TextureDescriptor{
		Label:  label,
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: gputypes.TextureFormatRGBA8Unorm,
	}
	return NewTexture(dev, desc, rgba.Pix)
}

// Allocate creates the backend texture and uploads the pixel data.
func (t *Texture) Allocate() error {
	gfx.Assert(!t.Allocated(), "gpu.Texture.Allocate", "texture %q already allocated", t.desc.Label)
	if t.dev == nil {
		return ErrNilDevice
	}
	h, err := t.dev.CreateTexture(t.desc)
	if err != nil {
		return fmt.Errorf("gpu: create texture %q: %w", t.desc.Label, err)
	}
	if t.pixels != nil {
		if err := t.dev.WriteTexture(h, t.pixels); err != nil {
			_ = t.dev.DestroyTexture(h)
			return fmt.Errorf("gpu: upload texture %q: %w", t.desc.Label, err)
		}
	}
	t.handle = h
	return nil
}

// Free destroys the backend texture.
func (t *Texture) Free() {
	gfx.Assert(t.Allocated(), "gpu.Texture.Free", "texture %q not allocated", t.desc.Label)
	if err := t.dev.DestroyTexture(t.handle); err != nil {
		gfx.Logger().Warn("gpu: destroy texture", "label", t.desc.Label, "err", err)
	}
	t.handle = resource.Handle{}
}

// Allocated reports whether the backend texture exists.
func (t *Texture) Allocated() bool { return !t.handle.IsZero() }

// Handle returns the backend handle.
func (t *Texture) Handle() resource.Handle { return t.handle }

// Descriptor returns the creation parameters.
func (t *Texture) Descriptor() TextureDescriptor { return t.desc }

func (t *Texture) Width() int  { return t.desc.Width }
func (t *Texture) Height() int { return t.desc.Height }

// BytesPerPixel returns the texel size for the formats textures are
// created with, or 0 for others.
func BytesPerPixel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	}
	return 0
}
