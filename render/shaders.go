// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	_ "embed"

	"github.com/gogpu/gfx/gpu"
)

//go:embed shaders/text.wgsl
var textWGSL string

//go:embed shaders/flat.wgsl
var flatWGSL string

// TextShaderSource returns the built-in text shader. It samples the red
// channel of a single-channel glyph atlas as coverage and tints it with
// the "color" uniform.
func TextShaderSource() gpu.ShaderSource {
	return gpu.ShaderSource{Label: TextShaderName, WGSL: textWGSL}
}

// FlatShaderSource returns a shader for "2f 3f" vertices (position, RGB
// color) transformed by the view, projection and model uniforms.
func FlatShaderSource() gpu.ShaderSource {
	return gpu.ShaderSource{Label: "flat_shader", WGSL: flatWGSL}
}
