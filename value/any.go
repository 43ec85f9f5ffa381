// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package value

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/renderstate"
)

// ErrUnsupported is returned by FromAny for Go types that have no Value form.
var ErrUnsupported = errors.New("value: unsupported type")

// FromAny converts a script-friendly Go value into a Value.
func FromAny(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return None(), nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return fromInt64(int64(v))
	case int32:
		return Int(v), nil
	case int64:
		return fromInt64(v)
	case uint32:
		return fromInt64(int64(v))
	case float32:
		return Float(v), nil
	case float64:
		return Float(float32(v)), nil
	case string:
		return String(v), nil
	case []float32:
		if len(v) == 16 {
			var m Mat4
			copy(m[:], v)
			return Matrix(m), nil
		}
		if len(v) < 1 || len(v) > 4 {
			return Value{}, fmt.Errorf("%w: []float32 of length %d", ErrUnsupported, len(v))
		}
		return Floats(v...), nil
	case []int32:
		if len(v) < 1 || len(v) > 4 {
			return Value{}, fmt.Errorf("%w: []int32 of length %d", ErrUnsupported, len(v))
		}
		return Ints(v...), nil
	case [2]float32:
		return Floats(v[:]...), nil
	case [3]float32:
		return Floats(v[:]...), nil
	case [4]float32:
		return Floats(v[:]...), nil
	case Mat4:
		return Matrix(v), nil
	case gpucore.TextureID:
		return Texture(v), nil
	case gpucore.BufferID:
		return Buffer(v), nil
	case gpucore.RenderTargetID:
		return RenderTarget(v), nil
	case gpucore.DepthRef:
		return DepthBuffer(v), nil
	case renderstate.SamplerState:
		return Sampler(v), nil
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupported, x)
}

// fromInt64 converts an integer that must fit in an int32.
func fromInt64(v int64) (Value, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return Value{}, fmt.Errorf("%w: integer %d overflows int32", ErrUnsupported, v)
	}
	return Int(int32(v)), nil
}
