// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gfx/shader"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// uniformAlign is the WGSL uniform buffer size granularity.
const uniformAlign = 16

type block struct {
	binding uint32
	data    []byte
}

type pipelineKey struct {
	vertex   string
	topology gputypes.PrimitiveTopology
	blend    bool
	state    gpu.BlendState
	cull     bool
	format   gputypes.TextureFormat
}

// Program is a gpu.Program backed by a hal shader module. Render pipelines
// are created per pipelineKey on first use.
type Program struct {
	dev        *Device
	label      string
	vs, fs     string
	refl       *shader.Reflection
	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	layout     hal.PipelineLayout

	blocks   []*block
	uniforms map[string]*Uniform
	entries  []gputypes.BindGroupLayoutEntry

	pipelines map[pipelineKey]hal.RenderPipeline
	bound     bool
	released  bool
}

// CreateProgram reflects src with naga and creates the shader module and
// bind group layout. Only bind group 0 is supported.
func (d *Device) CreateProgram(src gpu.ShaderSource) (gpu.Program, error) {
	vs, fs := src.Entries()
	refl, err := shader.Reflect(src.WGSL, vs)
	if err != nil {
		return nil, err
	}

	p := &Program{
		dev:       d,
		label:     src.Label,
		vs:        vs,
		fs:        fs,
		refl:      refl,
		uniforms:  make(map[string]*Uniform),
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
	}
	visibility := gputypes.ShaderStageVertex | gputypes.ShaderStageFragment
	for _, b := range refl.Blocks {
		if b.Group != 0 {
			return nil, fmt.Errorf("halgpu: %s: uniform %q in group %d", src.Label, b.Name, b.Group)
		}
		size := (int(b.Size) + uniformAlign - 1) &^ (uniformAlign - 1)
		p.blocks = append(p.blocks, &block{binding: b.Binding, data: make([]byte, size)})
		p.entries = append(p.entries, gputypes.BindGroupLayoutEntry{
			Binding:    b.Binding,
			Visibility: visibility,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
	}
	for _, u := range refl.Uniforms {
		blk := p.block(u.Binding)
		p.uniforms[u.Name] = &Uniform{program: p, name: u.Name, data: blk.data[u.Offset : u.Offset+u.Size]}
	}
	for _, r := range refl.Resources {
		if r.Group != 0 {
			return nil, fmt.Errorf("halgpu: %s: resource %q in group %d", src.Label, r.Name, r.Group)
		}
		e := gputypes.BindGroupLayoutEntry{Binding: r.Binding, Visibility: visibility}
		if r.Kind == shader.KindTexture {
			e.Texture = &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}
		} else {
			e.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
		}
		p.entries = append(p.entries, e)
	}

	if err := p.create(src); err != nil {
		p.destroy()
		return nil, err
	}
	gfx.Logger().Debug("halgpu: program created",
		"label", src.Label, "attributes", len(refl.Attributes), "uniforms", len(refl.Uniforms))
	return p, nil
}

func (p *Program) create(src gpu.ShaderSource) error {
	dev := p.dev.dev
	var err error
	p.module, err = dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  src.Label,
		Source: hal.ShaderSource{WGSL: src.WGSL},
	})
	if err != nil {
		return fmt.Errorf("halgpu: create shader module %q: %w", src.Label, err)
	}
	p.bindLayout, err = dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   src.Label + "_bind_layout",
		Entries: p.entries,
	})
	if err != nil {
		return fmt.Errorf("halgpu: create bind group layout %q: %w", src.Label, err)
	}
	p.layout, err = dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            src.Label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("halgpu: create pipeline layout %q: %w", src.Label, err)
	}
	return nil
}

func (p *Program) block(binding uint32) *block {
	for _, b := range p.blocks {
		if b.binding == binding {
			return b
		}
	}
	return nil
}

// pipeline returns the render pipeline for key, creating it on first use.
func (p *Program) pipeline(key pipelineKey, buffers []gputypes.VertexBufferLayout) (hal.RenderPipeline, error) {
	if pl, ok := p.pipelines[key]; ok {
		return pl, nil
	}
	var blend *gputypes.BlendState
	if key.blend {
		bs := key.state.WebGPU()
		blend = &bs
	}
	cull := gputypes.CullModeNone
	if key.cull {
		cull = gputypes.CullModeBack
	}
	pl, err := p.dev.dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.label,
		Layout: p.layout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: p.vs,
			Buffers:    buffers,
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  key.topology,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  cull,
		},
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: p.fs,
			Targets: []gputypes.ColorTargetState{{
				Format:    key.format,
				Blend:     blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create pipeline %q: %w", p.label, err)
	}
	p.pipelines[key] = pl
	gfx.Logger().Debug("halgpu: pipeline created", "program", p.label, "topology", key.topology, "count", len(p.pipelines))
	return pl, nil
}

// Pipelines returns the number of cached render pipelines.
func (p *Program) Pipelines() int { return len(p.pipelines) }

// Label returns the shader label.
func (p *Program) Label() string { return p.label }

func (p *Program) Bind()   { p.bound = true }
func (p *Program) Unbind() { p.bound = false }

func (p *Program) Release() {
	gfx.Assert(!p.released, "halgpu.Program.Release", "double release of %q", p.label)
	p.released = true
	p.destroy()
}

func (p *Program) destroy() {
	dev := p.dev.dev
	for k, pl := range p.pipelines {
		dev.DestroyRenderPipeline(pl)
		delete(p.pipelines, k)
	}
	if p.layout != nil {
		dev.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.bindLayout != nil {
		dev.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.module != nil {
		dev.DestroyShaderModule(p.module)
		p.module = nil
	}
}

func (p *Program) Uniform(name string) (gpu.Uniform, bool) {
	u, ok := p.uniforms[name]
	if !ok {
		return nil, false
	}
	return u, true
}

func (p *Program) Attributes() []string { return p.refl.AttributeNames() }

// Uniform writes into its block's CPU copy. The block is uploaded with
// every draw.
type Uniform struct {
	program *Program
	name    string
	data    []byte
	value   any
}

func (u *Uniform) Name() string { return u.name }

func (u *Uniform) Set(v any) {
	b, err := gpu.EncodeUniform(v)
	if err != nil {
		gfx.Failf("halgpu.Uniform.Set", "%s.%s: %v", u.program.label, u.name, err)
	}
	if len(b) > len(u.data) {
		gfx.Failf("halgpu.Uniform.Set", "%s.%s: %d bytes for a %d byte uniform", u.program.label, u.name, len(b), len(u.data))
	}
	copy(u.data, b)
	u.value = v
}

func (u *Uniform) Value() any { return u.value }
