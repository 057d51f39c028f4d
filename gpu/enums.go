// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"strings"

	"github.com/gogpu/gputypes"
)

// DrawMode is the primitive topology of a draw call.
type DrawMode uint8

const (
	Triangles DrawMode = iota
	Points
	Lines
	LineStrip
	TriangleStrip
)

var drawModeNames = [...]string{
	Triangles:     "Triangles",
	Points:        "Points",
	Lines:         "Lines",
	LineStrip:     "LineStrip",
	TriangleStrip: "TriangleStrip",
}

func (m DrawMode) String() string {
	if int(m) < len(drawModeNames) {
		return drawModeNames[m]
	}
	return "Unknown"
}

// Topology returns the WebGPU primitive topology.
func (m DrawMode) Topology() gputypes.PrimitiveTopology {
	switch m {
	case Points:
		return gputypes.PrimitiveTopologyPointList
	case Lines:
		return gputypes.PrimitiveTopologyLineList
	case LineStrip:
		return gputypes.PrimitiveTopologyLineStrip
	case TriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

// State is a set of toggleable pipeline features.
type State uint16

const (
	Blend State = 1 << iota
	DepthTest
	CullFace
	StencilTest
	RasterizerDiscard
	ProgramPointSize
)

var stateNames = []struct {
	s    State
	name string
}{
	{Blend, "Blend"},
	{DepthTest, "DepthTest"},
	{CullFace, "CullFace"},
	{StencilTest, "StencilTest"},
	{RasterizerDiscard, "RasterizerDiscard"},
	{ProgramPointSize, "ProgramPointSize"},
}

// Has reports whether all bits of f are set in s.
func (s State) Has(f State) bool { return s&f == f }

func (s State) String() string {
	if s == 0 {
		return "None"
	}
	var parts []string
	for _, n := range stateNames {
		if s&n.s != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// BlendFactor is a source or destination blend weight.
type BlendFactor uint8

const (
	Zero BlendFactor = iota
	One
	SrcColor
	OneMinusSrcColor
	SrcAlpha
	OneMinusSrcAlpha
	DstColor
	OneMinusDstColor
	DstAlpha
	OneMinusDstAlpha
	SrcAlphaSaturated
	ConstantColor
	OneMinusConstantColor
)

var blendFactors = [...]gputypes.BlendFactor{
	Zero:                  gputypes.BlendFactorZero,
	One:                   gputypes.BlendFactorOne,
	SrcColor:              gputypes.BlendFactorSrc,
	OneMinusSrcColor:      gputypes.BlendFactorOneMinusSrc,
	SrcAlpha:              gputypes.BlendFactorSrcAlpha,
	OneMinusSrcAlpha:      gputypes.BlendFactorOneMinusSrcAlpha,
	DstColor:              gputypes.BlendFactorDst,
	OneMinusDstColor:      gputypes.BlendFactorOneMinusDst,
	DstAlpha:              gputypes.BlendFactorDstAlpha,
	OneMinusDstAlpha:      gputypes.BlendFactorOneMinusDstAlpha,
	SrcAlphaSaturated:     gputypes.BlendFactorSrcAlphaSaturated,
	ConstantColor:         gputypes.BlendFactorConstant,
	OneMinusConstantColor: gputypes.BlendFactorOneMinusConstant,
}

// WebGPU returns the WebGPU blend factor.
func (f BlendFactor) WebGPU() gputypes.BlendFactor {
	if int(f) < len(blendFactors) {
		return blendFactors[f]
	}
	return gputypes.BlendFactorOne
}

func (f BlendFactor) String() string { return f.WebGPU().String() }

// BlendEquation combines the weighted source and destination.
type BlendEquation uint8

const (
	FuncAdd BlendEquation = iota
	FuncSubtract
	FuncReverseSubtract
	Min
	Max
)

var blendOps = [...]gputypes.BlendOperation{
	FuncAdd:             gputypes.BlendOperationAdd,
	FuncSubtract:        gputypes.BlendOperationSubtract,
	FuncReverseSubtract: gputypes.BlendOperationReverseSubtract,
	Min:                 gputypes.BlendOperationMin,
	Max:                 gputypes.BlendOperationMax,
}

// WebGPU returns the WebGPU blend operation.
func (e BlendEquation) WebGPU() gputypes.BlendOperation {
	if int(e) < len(blendOps) {
		return blendOps[e]
	}
	return gputypes.BlendOperationAdd
}

func (e BlendEquation) String() string { return e.WebGPU().String() }

// BlendState is the blend configuration tracked by a Context.
type BlendState struct {
	SrcRGB, DstRGB     BlendFactor
	SrcAlpha, DstAlpha BlendFactor
	RGB, Alpha         BlendEquation
}

// DefaultBlendState is source-over replacement: One, Zero, Add.
func DefaultBlendState() BlendState {
	return BlendState{SrcRGB: One, DstRGB: Zero, SrcAlpha: One, DstAlpha: Zero}
}

// WebGPU returns the WebGPU blend state.
func (b BlendState) WebGPU() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: b.SrcRGB.WebGPU(),
			DstFactor: b.DstRGB.WebGPU(),
			Operation: b.RGB.WebGPU(),
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: b.SrcAlpha.WebGPU(),
			DstFactor: b.DstAlpha.WebGPU(),
			Operation: b.Alpha.WebGPU(),
		},
	}
}
