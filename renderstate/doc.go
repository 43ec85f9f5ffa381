// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package renderstate turns the partial raster, depth-stencil and blend
// descriptions written by scripts into the complete pipeline state handed to
// the GPU executor.
//
// Every script-facing struct is optional. A nil field of [Spec] takes the
// documented default:
//
//   - raster: solid fill, back-face culling, clockwise front faces, no depth bias
//   - depth-stencil: depth test with [CompareLess], depth writes enabled
//   - blend: opaque (One, Zero, Add)
//
// [Build] also validates the render target list against the number of
// outputs the pixel program declares. A [gpucore.NoTarget] slot disables
// writes to that slot and still counts toward the list length.
package renderstate
