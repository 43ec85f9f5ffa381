// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/framekit/renderstate"
)

// Shape is the kind and component count a shader variable expects.
type Shape struct {
	Kind       Kind
	Components int
}

func (s Shape) String() string {
	if (s.Kind == KindFloat || s.Kind == KindInt) && s.Components > 1 {
		return fmt.Sprintf("%s%d", s.Kind, s.Components)
	}
	return s.Kind.String()
}

// ParseShape parses the form produced by Shape.String, such as "float3",
// "int", "matrix" or "texture". Scalars and matrices get their implicit
// component counts.
func ParseShape(s string) (Shape, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range []Kind{KindFloat, KindInt} {
		name := k.String()
		if !strings.HasPrefix(s, name) {
			continue
		}
		rest := s[len(name):]
		if rest == "" {
			return Shape{Kind: k, Components: 1}, nil
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > 4 {
			return Shape{}, fmt.Errorf("value: bad shape %q", s)
		}
		return Shape{Kind: k, Components: n}, nil
	}
	for k, name := range kindNames {
		if name != s {
			continue
		}
		switch Kind(k) {
		case KindBool:
			return Shape{Kind: KindBool, Components: 1}, nil
		case KindMatrix:
			return Shape{Kind: KindMatrix, Components: 16}, nil
		}
		return Shape{Kind: Kind(k)}, nil
	}
	return Shape{}, fmt.Errorf("value: bad shape %q", s)
}

// Zero returns the default value for the shape.
func (s Shape) Zero() Value {
	switch s.Kind {
	case KindBool:
		return Bool(false)
	case KindInt:
		return Ints(make([]int32, max(s.Components, 1))...)
	case KindFloat:
		return Floats(make([]float32, max(s.Components, 1))...)
	case KindMatrix:
		return Matrix(Mat4{})
	case KindTexture:
		return Texture(0)
	case KindBuffer:
		return Buffer(0)
	case KindSampler:
		return Sampler(renderstate.LinearWrap)
	}
	return None()
}

// Convert returns v adapted to shape s, and false when v cannot be used
// for a variable of that shape. None is accepted by every shape, and a
// KindNone shape accepts anything.
//
// Numeric values convert between int and float of the same component count.
// Texture variables accept textures, render targets and depth buffers.
func Convert(v Value, s Shape) (Value, bool) {
	if v.kind == KindNone || s.Kind == KindNone {
		return v, true
	}
	switch s.Kind {
	case KindFloat, KindInt:
		if v.kind != KindFloat && v.kind != KindInt {
			if v.kind == KindBool && s.Components <= 1 {
				return convertNumber(Int(v.AsInt()), s), true
			}
			return Value{}, false
		}
		if s.Components > 0 && v.Components() != s.Components {
			return Value{}, false
		}
		return convertNumber(v, s), true
	case KindBool:
		switch v.kind {
		case KindBool:
			return v, true
		case KindInt, KindFloat:
			if v.Components() == 1 {
				return Bool(v.AsInt() != 0), true
			}
		}
		return Value{}, false
	case KindTexture:
		switch v.kind {
		case KindTexture, KindRenderTarget, KindDepthBuffer:
			return v, true
		}
		return Value{}, false
	}
	return v, v.kind == s.Kind
}

func convertNumber(v Value, s Shape) Value {
	if v.kind == s.Kind {
		return v
	}
	n := v.Components()
	if s.Kind == KindFloat {
		out := make([]float32, n)
		for k := range out {
			out[k] = float32(v.i[k])
		}
		return Floats(out...)
	}
	out := make([]int32, n)
	for k := range out {
		out[k] = int32(v.f[k])
	}
	return Ints(out...)
}
