// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"fmt"

	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// NoopBackend is the registered name of the noop backend.
const NoopBackend = "noop"

func init() {
	gpu.RegisterBackend(NoopBackend, func() gpu.Backend { return noopBackend{} })
}

// Option configures New.
type Option func(*options)

type options struct {
	screen        hal.TextureView
	width, height int
	format        gputypes.TextureFormat
	uniformChunk  int
}

func defaultOptions() options {
	return options{
		width:        800,
		height:       600,
		format:       gputypes.TextureFormatBGRA8Unorm,
		uniformChunk: 64 << 10,
	}
}

// WithScreen renders the screen framebuffer into view. Without it the
// backend allocates an offscreen color texture.
func WithScreen(view hal.TextureView, width, height int) Option {
	return func(o *options) {
		o.screen = view
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithScreenSize sets the size of the offscreen screen texture.
func WithScreenSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithFormat sets the screen color format.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		if f != gputypes.TextureFormatUndefined {
			o.format = f
		}
	}
}

// WithUniformChunkSize sets the size of each per-frame uniform arena chunk.
func WithUniformChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.uniformChunk = n
		}
	}
}

// New wraps an open hal device. The returned device and context share the
// queue; the context submits one command buffer per Enter/Exit.
func New(dev hal.Device, queue hal.Queue, opts ...Option) (*Device, *Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := newDevice(dev, queue)
	c, err := newContext(d, o)
	if err != nil {
		d.Destroy()
		return nil, nil, err
	}
	return d, c, nil
}

// OpenNoop opens a device on the hal noop adapter.
func OpenNoop(opts ...Option) (*Device, *Context, error) {
	od, err := (&noop.Adapter{}).Open(0, gputypes.DefaultLimits())
	if err != nil {
		return nil, nil, fmt.Errorf("halgpu: open noop adapter: %w", err)
	}
	return New(od.Device, od.Queue, opts...)
}

type noopBackend struct{}

func (noopBackend) Name() string { return NoopBackend }

func (noopBackend) Open() (gpu.Device, gpu.Context, error) {
	d, c, err := OpenNoop()
	if err != nil {
		return nil, nil, err
	}
	return d, c, nil
}
