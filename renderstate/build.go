// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderstate

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framekit/gpucore"
)

var compareFuncs = [...]gputypes.CompareFunction{
	CompareLess:         gputypes.CompareFunctionLess,
	CompareNever:        gputypes.CompareFunctionNever,
	CompareAlways:       gputypes.CompareFunctionAlways,
	CompareEqual:        gputypes.CompareFunctionEqual,
	CompareNotEqual:     gputypes.CompareFunctionNotEqual,
	CompareLessEqual:    gputypes.CompareFunctionLessEqual,
	CompareGreater:      gputypes.CompareFunctionGreater,
	CompareGreaterEqual: gputypes.CompareFunctionGreaterEqual,
}

var blendFactors = [...]gputypes.BlendFactor{
	BlendZero:           gputypes.BlendFactorZero,
	BlendOne:            gputypes.BlendFactorOne,
	BlendSourceColor:    gputypes.BlendFactorSrc,
	BlendInvSourceColor: gputypes.BlendFactorOneMinusSrc,
	BlendSourceAlpha:    gputypes.BlendFactorSrcAlpha,
	BlendInvSourceAlpha: gputypes.BlendFactorOneMinusSrcAlpha,
	BlendDestColor:      gputypes.BlendFactorDst,
	BlendInvDestColor:   gputypes.BlendFactorOneMinusDst,
	BlendDestAlpha:      gputypes.BlendFactorDstAlpha,
	BlendInvDestAlpha:   gputypes.BlendFactorOneMinusDstAlpha,
	BlendSourceAlphaSat: gputypes.BlendFactorSrcAlphaSaturated,
	BlendConstant:       gputypes.BlendFactorConstant,
	BlendInvConstant:    gputypes.BlendFactorOneMinusConstant,
}

var blendOps = [...]gputypes.BlendOperation{
	BlendOpAdd:             gputypes.BlendOperationAdd,
	BlendOpSubtract:        gputypes.BlendOperationSubtract,
	BlendOpReverseSubtract: gputypes.BlendOperationReverseSubtract,
	BlendOpMin:             gputypes.BlendOperationMin,
	BlendOpMax:             gputypes.BlendOperationMax,
}

// Build merges spec with the defaults and validates it against the render
// target list. outputs is the number of colour outputs the pixel program
// declares; a negative value skips the target count check. An empty targets
// list means a single back buffer slot.
func Build(spec Spec, targets []gpucore.TargetRef, outputs int) (State, error) {
	rast := DefaultRast
	if spec.Rast != nil {
		rast = *spec.Rast
	}
	depth := EnableDepth
	if spec.DepthStencil != nil {
		depth = *spec.DepthStencil
	}

	var st State
	if err := buildRast(&st, rast); err != nil {
		return State{}, err
	}
	if err := buildDepth(&st, depth); err != nil {
		return State{}, err
	}
	if spec.Blend != nil && spec.Blend.Enable {
		b, err := buildBlend(*spec.Blend)
		if err != nil {
			return State{}, err
		}
		st.Blend = &b
	}

	slots := len(targets)
	if slots == 0 && outputs != 0 {
		slots = 1
		targets = []gpucore.TargetRef{gpucore.BackBuffer()}
	}
	if outputs >= 0 && slots != outputs {
		return State{}, &ValidationError{
			Reason:  "render target count does not match program outputs",
			Targets: slots,
			Outputs: outputs,
		}
	}
	st.WriteMasks = make([]gputypes.ColorWriteMask, len(targets))
	for i, t := range targets {
		if t.IsNone() {
			st.WriteMasks[i] = gputypes.ColorWriteMaskNone
		} else {
			st.WriteMasks[i] = gputypes.ColorWriteMaskAll
		}
	}
	return st, nil
}

func buildRast(st *State, r RastState) error {
	if r.FillMode > FillWireframe {
		return &ValidationError{Reason: fmt.Sprintf("unknown fill mode %d", r.FillMode)}
	}
	var cull gputypes.CullMode
	switch r.CullMode {
	case CullBack:
		cull = gputypes.CullModeBack
	case CullFront:
		cull = gputypes.CullModeFront
	case CullNone:
		cull = gputypes.CullModeNone
	default:
		return &ValidationError{Reason: fmt.Sprintf("unknown cull mode %d", r.CullMode)}
	}
	if r.DepthBiasClamp < 0 {
		return &ValidationError{Reason: "negative depth bias clamp"}
	}

	// Wireframe keeps triangle topology; the executor draws edges from Fill.
	st.Fill = r.FillMode
	st.Primitive = gputypes.PrimitiveState{
		Topology:  gputypes.PrimitiveTopologyTriangleList,
		FrontFace: gputypes.FrontFaceCW,
		CullMode:  cull,
	}
	st.DepthBias = r.DepthBias
	st.SlopeScaledDepthBias = r.SlopeScaledDepthBias
	st.DepthBiasClamp = r.DepthBiasClamp
	st.DepthClip = !r.DisableDepthClip
	return nil
}

func buildDepth(st *State, d DepthStencilState) error {
	if int(d.DepthFunc) >= len(compareFuncs) {
		return &ValidationError{Reason: fmt.Sprintf("unknown depth function %d", d.DepthFunc)}
	}
	if d.DepthWrite && !d.DepthTest {
		return &ValidationError{Reason: "depth write requires depth test"}
	}
	st.Depth = DepthState{
		TestEnabled:  d.DepthTest,
		WriteEnabled: d.DepthWrite,
		Compare:      gputypes.CompareFunctionAlways,
	}
	if d.DepthTest {
		st.Depth.Compare = compareFuncs[d.DepthFunc]
	}
	return nil
}

func buildBlend(b BlendState) (gputypes.BlendState, error) {
	for _, f := range [...]BlendInput{b.Source, b.Dest, b.SourceAlpha, b.DestAlpha} {
		if int(f) >= len(blendFactors) {
			return gputypes.BlendState{}, &ValidationError{Reason: fmt.Sprintf("unknown blend input %d", f)}
		}
	}
	for _, op := range [...]BlendOp{b.ColourOp, b.AlphaOp} {
		if int(op) >= len(blendOps) {
			return gputypes.BlendState{}, &ValidationError{Reason: fmt.Sprintf("unknown blend op %d", op)}
		}
	}
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: blendFactors[b.Source],
			DstFactor: blendFactors[b.Dest],
			Operation: blendOps[b.ColourOp],
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: blendFactors[b.SourceAlpha],
			DstFactor: blendFactors[b.DestAlpha],
			Operation: blendOps[b.AlphaOp],
		},
	}, nil
}
