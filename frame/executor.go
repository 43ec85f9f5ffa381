// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"github.com/gogpu/framekit/binding"
	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/renderstate"
	"github.com/gogpu/framekit/shader"
	"github.com/gogpu/framekit/value"
)

// Geometry selects what a draw call rasterizes.
type Geometry uint8

const (
	// GeometryScene draws one drawable of the scene.
	GeometryScene Geometry = iota

	// GeometryFullscreenQuad draws a quad covering the render targets.
	GeometryFullscreenQuad

	// GeometrySphere draws a unit sphere.
	GeometrySphere

	// GeometryWireSphere draws a wireframe sphere with the executor's own
	// solid-colour shaders.
	GeometryWireSphere
)

func (g Geometry) String() string {
	switch g {
	case GeometryScene:
		return "scene"
	case GeometryFullscreenQuad:
		return "fullscreen-quad"
	case GeometrySphere:
		return "sphere"
	case GeometryWireSphere:
		return "wire-sphere"
	}
	return "unknown"
}

// Bound is a program with the values resolved for one call.
type Bound struct {
	Program *shader.Program
	Values  []binding.Resolved
}

// Value returns the resolved value of the named variable.
func (b Bound) Value(kind shader.Kind, name string) (value.Value, bool) {
	for _, r := range b.Values {
		if r.Variable.Kind == kind && r.Variable.Name == name {
			return r.Value, true
		}
	}
	return value.Value{}, false
}

// DrawCall is a fully resolved draw.
type DrawCall struct {
	Geometry Geometry

	// Vertex is always set except for GeometryWireSphere. Pixel may have a
	// nil Program for depth-only draws.
	Vertex Bound
	Pixel  Bound

	State   renderstate.State
	Targets []gpucore.TargetRef
	Depth   gpucore.DepthRef

	// Drawable is the scene object for GeometryScene.
	Drawable *binding.Drawable

	// Transform and Colour describe a GeometryWireSphere.
	Transform value.Mat4
	Colour    [4]float32
}

// DispatchCall is a fully resolved compute dispatch.
type DispatchCall struct {
	Compute Bound
	Groups  [3]uint32
}

// ClearCall clears render targets to a colour.
type ClearCall struct {
	Colour  [4]float32
	Targets []gpucore.TargetRef
}

// Executor is the GPU side of framekit. Implementations create resources
// and execute calls in the order they are submitted.
type Executor interface {
	CreateTexture2D(desc gpucore.TextureDesc, levels [][]byte) (gpucore.TextureID, error)
	CreateBuffer(desc gpucore.BufferDesc, data []byte) (gpucore.BufferID, error)
	CreateRenderTarget(desc gpucore.RenderTargetDesc) (gpucore.RenderTargetID, error)

	Clear(c ClearCall) error
	Draw(d DrawCall) error
	Dispatch(d DispatchCall) error
}

// Scene supplies the drawables for DrawScene.
type Scene interface {
	Drawables() []binding.Drawable
}

// StaticScene is a fixed list of drawables.
type StaticScene []binding.Drawable

// Drawables implements Scene.
func (s StaticScene) Drawables() []binding.Drawable { return s }
