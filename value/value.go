// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/renderstate"
)

// Kind identifies the type held by a Value.
type Kind uint8

const (
	// KindNone means "use the program default".
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindMatrix
	KindTexture
	KindBuffer
	KindRenderTarget
	KindDepthBuffer
	KindSampler
	KindString
)

var kindNames = [...]string{
	KindNone:         "none",
	KindBool:         "bool",
	KindInt:          "int",
	KindFloat:        "float",
	KindMatrix:       "matrix",
	KindTexture:      "texture",
	KindBuffer:       "buffer",
	KindRenderTarget: "rendertarget",
	KindDepthBuffer:  "depthbuffer",
	KindSampler:      "sampler",
	KindString:       "string",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is an immutable, comparable tagged value resolved for one shader
// variable. The zero Value has KindNone.
type Value struct {
	kind  Kind
	n     uint8
	f     Mat4
	i     [4]int32
	b     bool
	id    uint64
	depth gpucore.DepthRef
	samp  renderstate.SamplerState
	s     string
}

// None returns the value that selects the program default.
func None() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, n: 1, b: b} }

// Int returns a scalar integer value.
func Int(v int32) Value { return Ints(v) }

// Ints returns an integer vector of 1-4 components.
// Extra components are dropped.
func Ints(v ...int32) Value {
	val := Value{kind: KindInt, n: uint8(min(len(v), 4))}
	copy(val.i[:], v)
	return val
}

// Float returns a scalar float value.
func Float(v float32) Value { return Floats(v) }

// Float2 returns a 2-component float vector.
func Float2(x, y float32) Value { return Floats(x, y) }

// Float3 returns a 3-component float vector.
func Float3(x, y, z float32) Value { return Floats(x, y, z) }

// Float4 returns a 4-component float vector.
func Float4(x, y, z, w float32) Value { return Floats(x, y, z, w) }

// Floats returns a float vector of 1-4 components.
// Extra components are dropped.
func Floats(v ...float32) Value {
	val := Value{kind: KindFloat, n: uint8(min(len(v), 4))}
	copy(val.f[:4], v)
	return val
}

// Matrix returns a 4x4 matrix value.
func Matrix(m Mat4) Value { return Value{kind: KindMatrix, n: 16, f: m} }

// Texture returns a texture handle value.
func Texture(id gpucore.TextureID) Value { return Value{kind: KindTexture, id: uint64(id)} }

// Buffer returns a buffer handle value.
func Buffer(id gpucore.BufferID) Value { return Value{kind: KindBuffer, id: uint64(id)} }

// RenderTarget returns a render target handle value.
func RenderTarget(id gpucore.RenderTargetID) Value {
	return Value{kind: KindRenderTarget, id: uint64(id)}
}

// DepthBuffer returns a depth buffer selection value.
func DepthBuffer(d gpucore.DepthRef) Value { return Value{kind: KindDepthBuffer, depth: d} }

// Sampler returns a sampler state value.
func Sampler(s renderstate.SamplerState) Value { return Value{kind: KindSampler, samp: s} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Kind returns the kind of value held.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v selects the program default.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Components returns the number of scalar components for numeric values
// and 0 for everything else.
func (v Value) Components() int { return int(v.n) }

// AsBool returns the boolean, or false for other kinds.
func (v Value) AsBool() bool { return v.kind == KindBool && v.b }

// AsFloat returns the first float component. Integers are converted.
func (v Value) AsFloat() float32 {
	switch v.kind {
	case KindFloat:
		return v.f[0]
	case KindInt:
		return float32(v.i[0])
	}
	return 0
}

// AsInt returns the first integer component. Floats are truncated.
func (v Value) AsInt() int32 {
	switch v.kind {
	case KindInt:
		return v.i[0]
	case KindFloat:
		return int32(v.f[0])
	case KindBool:
		if v.b {
			return 1
		}
	}
	return 0
}

// Vec4 returns up to four float components, zero-padded.
func (v Value) Vec4() [4]float32 {
	var r [4]float32
	switch v.kind {
	case KindFloat:
		copy(r[:], v.f[:v.n])
	case KindInt:
		for k := 0; k < int(v.n); k++ {
			r[k] = float32(v.i[k])
		}
	}
	return r
}

// Floats returns the float components, or nil for non-float kinds.
func (v Value) Floats() []float32 {
	if v.kind != KindFloat && v.kind != KindMatrix {
		return nil
	}
	out := make([]float32, v.n)
	copy(out, v.f[:v.n])
	return out
}

// Ints returns the integer components, or nil for non-integer kinds.
func (v Value) Ints() []int32 {
	if v.kind != KindInt {
		return nil
	}
	out := make([]int32, v.n)
	copy(out, v.i[:v.n])
	return out
}

// AsMatrix returns the matrix, or the identity for other kinds.
func (v Value) AsMatrix() Mat4 {
	if v.kind != KindMatrix {
		return Identity()
	}
	return v.f
}

// TextureID returns the texture handle, or InvalidID.
func (v Value) TextureID() gpucore.TextureID {
	if v.kind != KindTexture {
		return gpucore.InvalidID
	}
	return gpucore.TextureID(v.id)
}

// BufferID returns the buffer handle, or InvalidID.
func (v Value) BufferID() gpucore.BufferID {
	if v.kind != KindBuffer {
		return gpucore.InvalidID
	}
	return gpucore.BufferID(v.id)
}

// RenderTargetID returns the render target handle, or InvalidID.
func (v Value) RenderTargetID() gpucore.RenderTargetID {
	if v.kind != KindRenderTarget {
		return gpucore.InvalidID
	}
	return gpucore.RenderTargetID(v.id)
}

// Depth returns the depth buffer selection.
func (v Value) Depth() gpucore.DepthRef { return v.depth }

// SamplerState returns the sampler state.
func (v Value) SamplerState() renderstate.SamplerState { return v.samp }

// Str returns the string, or "" for other kinds.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Equal reports whether two values hold the same kind and contents.
func (v Value) Equal(o Value) bool { return v == o }

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return joinNumbers(int(v.n), func(k int) string { return strconv.Itoa(int(v.i[k])) })
	case KindFloat:
		return joinNumbers(int(v.n), func(k int) string {
			return strconv.FormatFloat(float64(v.f[k]), 'g', -1, 32)
		})
	case KindMatrix:
		return "mat4" + fmt.Sprint(v.f)
	case KindTexture:
		return fmt.Sprintf("texture#%d", v.id)
	case KindBuffer:
		return fmt.Sprintf("buffer#%d", v.id)
	case KindRenderTarget:
		return fmt.Sprintf("rt#%d", v.id)
	case KindDepthBuffer:
		return "depth(" + v.depth.String() + ")"
	case KindSampler:
		return "sampler(" + v.samp.String() + ")"
	case KindString:
		return strconv.Quote(v.s)
	}
	return v.kind.String()
}

func joinNumbers(n int, format func(int) string) string {
	if n == 1 {
		return format(0)
	}
	parts := make([]string, n)
	for k := range parts {
		parts[k] = format(k)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
