// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderstate

import (
	"github.com/gogpu/gputypes"
)

// FillMode selects how triangles are rasterized.
type FillMode uint8

const (
	// FillSolid fills triangle interiors.
	FillSolid FillMode = iota

	// FillWireframe draws triangle edges only.
	FillWireframe
)

func (f FillMode) String() string {
	if f == FillWireframe {
		return "wireframe"
	}
	return "solid"
}

// CullMode selects which faces are discarded. Meshes are expected to use
// clockwise winding, so the front face is not configurable.
type CullMode uint8

const (
	// CullBack discards back-facing triangles.
	CullBack CullMode = iota

	// CullFront discards front-facing triangles.
	CullFront

	// CullNone disables face culling.
	CullNone
)

func (c CullMode) String() string {
	switch c {
	case CullFront:
		return "front"
	case CullNone:
		return "none"
	default:
		return "back"
	}
}

// CompareFunc is a depth comparison function. The zero value is CompareLess.
type CompareFunc uint8

const (
	CompareLess CompareFunc = iota
	CompareNever
	CompareAlways
	CompareEqual
	CompareNotEqual
	CompareLessEqual
	CompareGreater
	CompareGreaterEqual
)

// BlendInput is a blend factor.
type BlendInput uint8

const (
	BlendZero BlendInput = iota
	BlendOne
	BlendSourceColor
	BlendInvSourceColor
	BlendSourceAlpha
	BlendInvSourceAlpha
	BlendDestColor
	BlendInvDestColor
	BlendDestAlpha
	BlendInvDestAlpha
	BlendSourceAlphaSat
	BlendConstant
	BlendInvConstant
)

// BlendOp combines the weighted source and destination.
type BlendOp uint8

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

// RastState is the script-facing rasterizer description.
// The zero value is the default state.
type RastState struct {
	FillMode             FillMode
	CullMode             CullMode
	DepthBias            int32
	SlopeScaledDepthBias float32
	DepthBiasClamp       float32

	// DisableDepthClip turns off clipping against the near and far planes.
	DisableDepthClip bool
}

// DepthStencilState is the script-facing depth description.
type DepthStencilState struct {
	DepthTest  bool
	DepthWrite bool
	DepthFunc  CompareFunc
}

// BlendState is the script-facing blend description, shared by all targets.
type BlendState struct {
	Enable      bool
	Source      BlendInput
	Dest        BlendInput
	SourceAlpha BlendInput
	DestAlpha   BlendInput
	ColourOp    BlendOp
	AlphaOp     BlendOp
}

// Common depth-stencil states.
var (
	EnableDepth       = DepthStencilState{DepthTest: true, DepthWrite: true, DepthFunc: CompareLess}
	DisableDepth      = DepthStencilState{}
	DisableDepthWrite = DepthStencilState{DepthTest: true, DepthFunc: CompareLess}
	EqualDepth        = DepthStencilState{DepthTest: true, DepthWrite: true, DepthFunc: CompareEqual}
)

// Common blend states.
var (
	NoBlending = BlendState{
		Source: BlendOne, Dest: BlendZero,
		SourceAlpha: BlendOne, DestAlpha: BlendZero,
	}
	AlphaBlending = BlendState{
		Enable: true,
		Source: BlendSourceAlpha, Dest: BlendInvSourceAlpha,
		SourceAlpha: BlendSourceAlpha, DestAlpha: BlendInvSourceAlpha,
	}
	AdditiveBlending = BlendState{
		Enable: true,
		Source: BlendOne, Dest: BlendOne,
		SourceAlpha: BlendOne, DestAlpha: BlendOne,
	}
)

// DefaultRast is the rasterizer state used when a draw call specifies none.
var DefaultRast = RastState{}

// Wireframe is the rasterizer state used for debug geometry.
var Wireframe = RastState{FillMode: FillWireframe, CullMode: CullNone}

// Spec is a partial render state description for one draw call.
// Nil fields take their defaults.
type Spec struct {
	Rast         *RastState
	DepthStencil *DepthStencilState
	Blend        *BlendState
}

// DepthState is the resolved depth configuration.
type DepthState struct {
	TestEnabled  bool
	WriteEnabled bool
	Compare      gputypes.CompareFunction
}

// State is the complete state for one draw call.
type State struct {
	Fill                 FillMode
	Primitive            gputypes.PrimitiveState
	DepthBias            int32
	SlopeScaledDepthBias float32
	DepthBiasClamp       float32
	DepthClip            bool
	Depth                DepthState

	// Blend is nil for opaque rendering.
	Blend *gputypes.BlendState

	// WriteMasks has one entry per render target slot.
	WriteMasks []gputypes.ColorWriteMask
}
