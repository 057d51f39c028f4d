// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gfx"
)

// Shader is a named program handle. Allocate compiles the source through
// the device; until then the shader has no uniforms or attributes.
type Shader struct {
	dev  Device
	src  ShaderSource
	prog Program
}

// NewShader creates an uncompiled shader.
func NewShader(dev Device, src ShaderSource) *Shader {
	return &Shader{dev: dev, src: src}
}

// Allocate compiles and links the program. The returned error carries the
// compiler diagnostic.
func (s *Shader) Allocate() error {
	gfx.Assert(!s.Allocated(), "gpu.Shader.Allocate", "shader %q already compiled", s.src.Label)
	if s.dev == nil {
		return ErrNilDevice
	}
	p, err := s.dev.CreateProgram(s.src)
	if err != nil {
		return fmt.Errorf("gpu: compile shader %q: %w", s.src.Label, err)
	}
	s.prog = p
	return nil
}

// Free releases the program.
func (s *Shader) Free() {
	gfx.Assert(s.Allocated(), "gpu.Shader.Free", "shader %q not compiled", s.src.Label)
	s.prog.Release()
	s.prog = nil
}

// Allocated reports whether the program is compiled.
func (s *Shader) Allocated() bool { return s.prog != nil }

// Source returns the shader source.
func (s *Shader) Source() ShaderSource { return s.src }

// Program returns the compiled program. It panics if the shader is not
// compiled.
func (s *Shader) Program() Program {
	gfx.Assert(s.Allocated(), "gpu.Shader.Program", "shader %q not compiled", s.src.Label)
	return s.prog
}

func (s *Shader) Bind()   { s.Program().Bind() }
func (s *Shader) Unbind() { s.Program().Unbind() }

// Uniform looks up a uniform by name.
func (s *Shader) Uniform(name string) (Uniform, bool) {
	return s.Program().Uniform(name)
}

// SetValue sets a uniform if the program has it. Unknown names are ignored.
func (s *Shader) SetValue(name string, v any) {
	u, ok := s.Program().Uniform(name)
	if !ok {
		gfx.Logger().Debug("gpu: uniform not found", "shader", s.src.Label, "uniform", name)
		return
	}
	u.Set(v)
}

// Attributes returns the vertex input names in location order.
func (s *Shader) Attributes() []string { return s.Program().Attributes() }
