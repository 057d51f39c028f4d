// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Option configures a Renderer during creation.
//
// Example:
//
//	r := render.NewRenderer(ctx, dev,
//		render.WithViewportSize(1280, 720),
//		render.WithFontSize(24))
type Option func(*options)

type options struct {
	width, height int
	fontSize      float64
	textGlyphs    int
}

func defaultOptions() options {
	return options{
		width:      800,
		height:     600,
		fontSize:   16,
		textGlyphs: 4096,
	}
}

// WithViewportSize sets the initial size used for text projection.
func WithViewportSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithFontSize sets the pixel height of the default font atlas.
func WithFontSize(px float64) Option {
	return func(o *options) {
		if px > 0 {
			o.fontSize = px
		}
	}
}

// WithTextBufferSize sets how many glyphs the text vertex buffer holds per
// execution.
func WithTextBufferSize(glyphs int) Option {
	return func(o *options) {
		if glyphs > 0 {
			o.textGlyphs = glyphs
		}
	}
}
