// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gfx/gpu/gputest"
	"github.com/gogpu/gfx/layout"
)

// triangle is three "2f 3f" vertices: position then RGB color.
var triangle = []float32{
	-0.5, -0.5, 1, 0, 0,
	0.5, -0.5, 0, 1, 0,
	0.0, 0.5, 0, 0, 1,
}

type fixture struct {
	r   *Renderer
	dev *gputest.Device
	ctx *gputest.Context
	sh  *gpu.Shader
	vb  *gpu.VertexBuffer
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	dev, ctx := gputest.New()
	dev.Define("flat", []string{"position", "color"}, UniformView, UniformProjection, UniformModel, "tint")
	dev.Define(TextShaderName, []string{"vertex"}, UniformView, UniformProjection, UniformModel, UniformColor)

	r := NewRenderer(ctx, dev, opts...)
	sh := r.NewShader(gpu.ShaderSource{Label: "flat"})
	if r.RegisterShader("flat", sh) == 0 {
		t.Fatal("RegisterShader(flat) = 0")
	}
	vb := r.NewVertexBuffer(len(triangle)*4, layout.MustParse("2f 3f"), false)
	if r.RegisterBuffer("triangle", vb) == 0 {
		t.Fatal("RegisterBuffer(triangle) = 0")
	}
	vb.Upload(gpu.Float32Bytes(triangle...))
	ctx.Log.Reset()
	return &fixture{r: r, dev: dev, ctx: ctx, sh: sh, vb: vb}
}

// newBuffer registers another triangle buffer under name.
func (f *fixture) newBuffer(t *testing.T, name string) *gpu.VertexBuffer {
	t.Helper()
	vb := f.r.NewVertexBuffer(len(triangle)*4, layout.MustParse("2f 3f"), false)
	if f.r.RegisterBuffer(name, vb) == 0 {
		t.Fatalf("RegisterBuffer(%s) = 0", name)
	}
	f.ctx.Log.Reset()
	return vb
}

// expectContract runs fn and fails unless it panics with a
// *gfx.ContractError.
func expectContract(t *testing.T, fn func()) *gfx.ContractError {
	t.Helper()
	var got *gfx.ContractError
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(error)
			if !ok || !errors.As(err, &got) {
				t.Fatalf("panic value = %#v, want *gfx.ContractError", r)
			}
		}()
		fn()
	}()
	if got == nil {
		t.Fatal("no panic, want *gfx.ContractError")
	}
	return got
}

func equalStrings(t *testing.T, what string, got, want []string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("%s =\n\t%v\nwant\n\t%v", what, got, want)
	}
}
