// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gputest

import (
	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
)

// Program is a fake gpu.Program.
type Program struct {
	log      *Log
	label    string
	spec     ProgramSpec
	uniforms map[string]*Uniform

	Bound    bool
	Released bool
}

func newProgram(log *Log, label string, spec ProgramSpec) *Program {
	p := &Program{log: log, label: label, spec: spec, uniforms: make(map[string]*Uniform)}
	for _, name := range spec.Uniforms {
		p.uniforms[name] = &Uniform{log: log, program: label, name: name}
	}
	return p
}

// Label returns the shader label the program was compiled from.
func (p *Program) Label() string { return p.label }

func (p *Program) Bind() {
	p.Bound = true
	p.log.add("Bind", p.label)
}

func (p *Program) Unbind() {
	p.Bound = false
	p.log.add("Unbind", p.label)
}

func (p *Program) Release() {
	gfx.Assert(!p.Released, "gputest.Program.Release", "double release of %q", p.label)
	p.Released = true
	p.log.add("ReleaseProgram", p.label)
}

func (p *Program) Uniform(name string) (gpu.Uniform, bool) {
	u, ok := p.uniforms[name]
	if !ok {
		return nil, false
	}
	return u, true
}

func (p *Program) Attributes() []string { return p.spec.Attributes }

// Uniform records Set calls.
type Uniform struct {
	log     *Log
	program string
	name    string
	value   any
}

func (u *Uniform) Name() string { return u.name }

func (u *Uniform) Set(v any) {
	if _, err := gpu.EncodeUniform(v); err != nil {
		gfx.Failf("gputest.Uniform.Set", "%s.%s: %v", u.program, u.name, err)
	}
	u.value = v
	u.log.add("SetUniform", u.program, u.name)
}

func (u *Uniform) Value() any { return u.value }
