// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texture converts script pixel sources into the tightly packed
// level data an executor uploads.
//
// A pixel source is one of:
//
//	image.Image                   scaled to the texture size if needed
//	func(x, y int) [4]float32     called once per texel, row by row
//	func(x, y int) float32        single-channel callback
//	[][4]float32                  one colour per texel, row-major
//	[]float32                     raw components, row-major
//	[]byte                        already encoded texels
//
// Colour components are in [0, 1] for normalized formats and are clamped.
// Mip chains for 8-bit formats are scaled with golang.org/x/image/draw;
// float formats use a 2x2 box filter so values above 1 survive.
package texture
