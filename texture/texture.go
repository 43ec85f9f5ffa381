// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/bits"

	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

var (
	// ErrUnsupportedFormat is returned for formats that cannot be encoded.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")

	// ErrBadSource is returned for pixel sources of the wrong type or size.
	ErrBadSource = errors.New("texture: invalid pixel source")
)

// Components returns the number of channels of f, or 0 if f is not
// supported.
func Components(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm, gputypes.TextureFormatR32Float:
		return 1
	case gputypes.TextureFormatRG32Float:
		return 2
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatRGBA32Float:
		return 4
	}
	return 0
}

func isFloat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatR32Float, gputypes.TextureFormatRG32Float, gputypes.TextureFormatRGBA32Float:
		return true
	}
	return false
}

// MipCount returns the length of a full mip chain for the given size.
func MipCount(width, height int) int {
	n := max(width, height)
	if n <= 0 {
		return 0
	}
	return bits.Len(uint(n))
}

// Build encodes src and returns a texture description with its levels.
// With mips set, the full chain is generated from level 0.
func Build(label string, width, height int, format gputypes.TextureFormat, src any, mips bool) (gpucore.TextureDesc, [][]byte, error) {
	level0, err := Encode(width, height, format, src)
	if err != nil {
		return gpucore.TextureDesc{}, nil, fmt.Errorf("texture %q: %w", label, err)
	}
	levels := [][]byte{level0}
	if mips {
		if levels, err = Mips(width, height, format, level0); err != nil {
			return gpucore.TextureDesc{}, nil, fmt.Errorf("texture %q: %w", label, err)
		}
	}
	desc := gpucore.TextureDesc{
		Label:         label,
		Width:         uint32(width),
		Height:        uint32(height),
		Format:        format,
		MipLevelCount: uint32(len(levels)),
	}
	return desc, levels, nil
}

// Encode converts src into tightly packed texels of format.
func Encode(width, height int, format gputypes.TextureFormat, src any) ([]byte, error) {
	comps := Components(format)
	if comps == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrBadSource, width, height)
	}
	bpp := gpucore.BytesPerElement(format)
	n := width * height

	var texel func(i int) [4]float32
	switch s := src.(type) {
	case []byte:
		if len(s) != n*bpp {
			return nil, fmt.Errorf("%w: %d bytes, want %d", ErrBadSource, len(s), n*bpp)
		}
		return append([]byte(nil), s...), nil
	case image.Image:
		rgba := toRGBA(s, width, height)
		texel = func(i int) [4]float32 {
			p := rgba.Pix[i*4 : i*4+4]
			return [4]float32{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
		}
	case func(x, y int) [4]float32:
		texel = func(i int) [4]float32 { return s(i%width, i/width) }
	case func(x, y int) float32:
		texel = func(i int) [4]float32 { return [4]float32{s(i%width, i/width)} }
	case [][4]float32:
		if len(s) != n {
			return nil, fmt.Errorf("%w: %d texels, want %d", ErrBadSource, len(s), n)
		}
		texel = func(i int) [4]float32 { return s[i] }
	case []float32:
		if len(s) != n*comps {
			return nil, fmt.Errorf("%w: %d components, want %d", ErrBadSource, len(s), n*comps)
		}
		texel = func(i int) [4]float32 {
			var t [4]float32
			copy(t[:], s[i*comps:i*comps+comps])
			return t
		}
	case nil:
		return make([]byte, n*bpp), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrBadSource, src)
	}

	out := make([]byte, n*bpp)
	for i := range n {
		putTexel(out[i*bpp:], format, texel(i))
	}
	return out, nil
}

func putTexel(dst []byte, format gputypes.TextureFormat, t [4]float32) {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		dst[0] = unorm8(t[0])
	case gputypes.TextureFormatRGBA8Unorm:
		for c := range 4 {
			dst[c] = unorm8(t[c])
		}
	case gputypes.TextureFormatBGRA8Unorm:
		dst[0], dst[1], dst[2], dst[3] = unorm8(t[2]), unorm8(t[1]), unorm8(t[0]), unorm8(t[3])
	default:
		for c := range Components(format) {
			binary.LittleEndian.PutUint32(dst[c*4:], math.Float32bits(t[c]))
		}
	}
}

func unorm8(v float32) byte {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// toRGBA returns img as an RGBA image of the given size, scaling with
// Catmull-Rom when the bounds differ.
func toRGBA(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	return dst
}

// Mips returns the full mip chain of a level 0 image, level 0 included.
func Mips(width, height int, format gputypes.TextureFormat, level0 []byte) ([][]byte, error) {
	bpp := gpucore.BytesPerElement(format)
	if Components(format) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if len(level0) != width*height*bpp {
		return nil, fmt.Errorf("%w: level 0 is %d bytes, want %d", ErrBadSource, len(level0), width*height*bpp)
	}
	if isFloat(format) {
		return boxMips(width, height, Components(format), level0), nil
	}
	return scaledMips(width, height, format, level0), nil
}

// scaledMips halves each level with bilinear filtering. R8 levels are
// filtered as gray images; the four channel formats as RGBA, which is
// order-agnostic so BGRA needs no swizzle.
func scaledMips(width, height int, format gputypes.TextureFormat, level0 []byte) [][]byte {
	var prev draw.Image
	if format == gputypes.TextureFormatR8Unorm {
		prev = &image.Gray{Pix: level0, Stride: width, Rect: image.Rect(0, 0, width, height)}
	} else {
		prev = &image.RGBA{Pix: level0, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	}

	levels := [][]byte{level0}
	w, h := width, height
	for range MipCount(width, height) - 1 {
		w, h = max(1, w/2), max(1, h/2)
		r := image.Rect(0, 0, w, h)
		var next draw.Image
		var pix []byte
		if format == gputypes.TextureFormatR8Unorm {
			g := image.NewGray(r)
			next, pix = g, g.Pix
		} else {
			c := image.NewRGBA(r)
			next, pix = c, c.Pix
		}
		draw.BiLinear.Scale(next, r, prev, prev.Bounds(), draw.Src, nil)
		levels = append(levels, pix)
		prev = next
	}
	return levels
}

// boxMips averages 2x2 blocks of float texels. Odd edges clamp.
func boxMips(width, height, comps int, level0 []byte) [][]byte {
	prev := make([]float32, width*height*comps)
	for i := range prev {
		prev[i] = math.Float32frombits(binary.LittleEndian.Uint32(level0[i*4:]))
	}

	levels := [][]byte{level0}
	w, h := width, height
	for range MipCount(width, height) - 1 {
		nw, nh := max(1, w/2), max(1, h/2)
		next := make([]float32, nw*nh*comps)
		for y := range nh {
			y0, y1 := min(2*y, h-1), min(2*y+1, h-1)
			for x := range nw {
				x0, x1 := min(2*x, w-1), min(2*x+1, w-1)
				for c := range comps {
					sum := prev[(y0*w+x0)*comps+c] + prev[(y0*w+x1)*comps+c] +
						prev[(y1*w+x0)*comps+c] + prev[(y1*w+x1)*comps+c]
					next[(y*nw+x)*comps+c] = sum / 4
				}
			}
		}
		out := make([]byte, len(next)*4)
		for i, v := range next {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
		}
		levels = append(levels, out)
		prev, w, h = next, nw, nh
	}
	return levels
}

// Solid returns a pixel source that fills a texture with one colour.
func Solid(c color.Color) func(x, y int) [4]float32 {
	r, g, b, a := c.RGBA()
	t := [4]float32{float32(r) / 0xffff, float32(g) / 0xffff, float32(b) / 0xffff, float32(a) / 0xffff}
	return func(int, int) [4]float32 { return t }
}
