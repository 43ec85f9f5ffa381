// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package binding

import (
	"fmt"

	"github.com/gogpu/framekit/value"
)

// BindSource identifies a quantity supplied by the engine rather than the
// script.
type BindSource uint8

const (
	// CameraPosition is the eye position in world space (float3).
	CameraPosition BindSource = iota + 1

	// WorldToProjectionMatrix maps world space to clip space.
	WorldToProjectionMatrix

	// ProjectionToWorldMatrix is the inverse of WorldToProjectionMatrix.
	ProjectionToWorldMatrix

	// LocalToWorldMatrix is the drawable's transform.
	LocalToWorldMatrix

	// WorldToLocalMatrix is the inverse of the drawable's transform.
	WorldToLocalMatrix

	// LocalToWorldInverseTransposeMatrix transforms normals.
	LocalToWorldInverseTransposeMatrix

	// DepthBuffer is the view's depth buffer, bindable to a texture.
	DepthBuffer
)

var sourceNames = [...]string{
	CameraPosition:                     "CameraPosition",
	WorldToProjectionMatrix:            "WorldToProjectionMatrix",
	ProjectionToWorldMatrix:            "ProjectionToWorldMatrix",
	LocalToWorldMatrix:                 "LocalToWorldMatrix",
	WorldToLocalMatrix:                 "WorldToLocalMatrix",
	LocalToWorldInverseTransposeMatrix: "LocalToWorldInverseTransposeMatrix",
	DepthBuffer:                        "DepthBuffer",
}

func (s BindSource) String() string {
	if s > 0 && int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return fmt.Sprintf("BindSource(%d)", s)
}

// ParseBindSource returns the source with the given name. Matching is
// case-sensitive, so only variables spelled exactly like a source are
// auto-bound.
func ParseBindSource(name string) (BindSource, bool) {
	for i := 1; i < len(sourceNames); i++ {
		if sourceNames[i] == name {
			return BindSource(i), true
		}
	}
	return 0, false
}

// Shape returns the shape of the values the source produces.
func (s BindSource) Shape() value.Shape {
	switch s {
	case CameraPosition:
		return value.Shape{Kind: value.KindFloat, Components: 3}
	case DepthBuffer:
		return value.Shape{Kind: value.KindTexture}
	case 0:
		return value.Shape{}
	}
	return value.Shape{Kind: value.KindMatrix, Components: 16}
}

// Sources returns every bind source in declaration order.
func Sources() []BindSource {
	out := make([]BindSource, 0, len(sourceNames)-1)
	for i := 1; i < len(sourceNames); i++ {
		out = append(out, BindSource(i))
	}
	return out
}
