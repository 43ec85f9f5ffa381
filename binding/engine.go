// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package binding

import (
	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/value"
)

// ViewInfo describes the camera of the frame being rendered.
type ViewInfo struct {
	EyePosition      [3]float32
	WorldToView      value.Mat4
	ViewToProjection value.Mat4

	// Depth is the depth buffer bound to the DepthBuffer source. DepthAuto
	// means the default depth buffer.
	Depth gpucore.DepthRef
}

// DefaultView returns a view with identity transforms at the origin.
func DefaultView() ViewInfo {
	return ViewInfo{WorldToView: value.Identity(), ViewToProjection: value.Identity()}
}

// ViewEngine is the EngineContext for one view.
type ViewEngine struct {
	View ViewInfo
}

// BindSource implements EngineContext. Drawable-relative sources report
// false when d is nil.
func (e ViewEngine) BindSource(src BindSource, d *Drawable) (value.Value, bool) {
	v := e.View
	switch src {
	case CameraPosition:
		return value.Float3(v.EyePosition[0], v.EyePosition[1], v.EyePosition[2]), true
	case WorldToProjectionMatrix:
		return value.Matrix(v.ViewToProjection.Mul(v.WorldToView)), true
	case ProjectionToWorldMatrix:
		return value.Matrix(v.ViewToProjection.Mul(v.WorldToView).Invert()), true
	case DepthBuffer:
		switch v.Depth {
		case gpucore.DepthNone:
			return value.Value{}, false
		case gpucore.DepthAuto:
			return value.DepthBuffer(gpucore.DepthDefault), true
		}
		return value.DepthBuffer(v.Depth), true
	}

	if d == nil {
		return value.Value{}, false
	}
	switch src {
	case LocalToWorldMatrix:
		return value.Matrix(d.LocalToWorld), true
	case WorldToLocalMatrix:
		return value.Matrix(d.LocalToWorld.Invert()), true
	case LocalToWorldInverseTransposeMatrix:
		return value.Matrix(d.LocalToWorld.Invert().Transpose()), true
	}
	return value.Value{}, false
}
