// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package binding

import (
	"errors"
	"fmt"

	"github.com/gogpu/framekit/material"
	"github.com/gogpu/framekit/shader"
	"github.com/gogpu/framekit/value"
)

// Overrides are per-call values keyed by variable name. Values are
// converted with value.FromAny. An override applies to every variable of
// that name in the drawn programs. A nil value counts as no override.
type Overrides map[string]any

// Drawable is one object of the scene: a transform and its material.
type Drawable struct {
	LocalToWorld value.Mat4
	Material     material.Material
}

// EngineContext supplies bind source values. d is nil for draw calls that
// have no drawable, such as fullscreen quads. Sources that cannot be
// produced report false and the variable falls back to its default.
type EngineContext interface {
	BindSource(src BindSource, d *Drawable) (value.Value, bool)
}

// Resolver resolves bindings for one draw call.
type Resolver struct {
	// Engine supplies bind sources. A nil Engine resolves every bind
	// source to the variable default.
	Engine EngineContext

	// Drawable is the object being drawn, or nil.
	Drawable *Drawable
}

// Resolved is one variable's value for a draw call.
type Resolved struct {
	Variable shader.VariableDesc
	Value    value.Value
	Mode     Mode
}

// Resolve returns the value of the variable behind h. A per-call override
// wins; otherwise the stored binding is evaluated. mat may be nil.
//
// Missing handles resolve to None without evaluating anything.
func (r Resolver) Resolve(h Handle, mat material.Material, ov Overrides) (value.Value, error) {
	if h.t == nil {
		return value.None(), nil
	}
	s := h.t.get(h.idx)
	return r.resolveSlot(h.t.prog, s, mat, ov)
}

func (r Resolver) resolveSlot(prog *shader.Program, s slot, mat material.Material, ov Overrides) (value.Value, error) {
	desc := s.desc

	if raw := ov[desc.Name]; raw != nil {
		v, err := value.FromAny(raw)
		if err != nil {
			return value.Value{}, fmt.Errorf("binding: override for %q: %w", desc.Name, err)
		}
		return checked(desc, v)
	}

	b := s.binding
	switch b.mode {
	case ModeLiteral:
		return checked(desc, b.literal)
	case ModeCallable:
		return checked(desc, b.fn())
	case ModeMaterial:
		if mat == nil && r.Drawable != nil {
			mat = r.Drawable.Material
		}
		if mat != nil {
			if v, ok := mat.Lookup(b.property); ok {
				if conv, fits := value.Convert(v, desc.Shape); fits {
					return conv, nil
				}
			}
		}
		if b.hasFallback {
			return b.fallback, nil
		}
	case ModeBindSource:
		if r.Engine != nil {
			if v, ok := r.Engine.BindSource(b.source, r.Drawable); ok {
				return checked(desc, v)
			}
		}
	case ModeScriptOverride:
		return value.Value{}, &UnresolvedOverrideError{Program: prog.String(), Variable: desc.Name}
	}
	return desc.Default, nil
}

func checked(desc shader.VariableDesc, v value.Value) (value.Value, error) {
	if v.IsNone() {
		return desc.Default, nil
	}
	conv, ok := value.Convert(v, desc.Shape)
	if !ok {
		return value.Value{}, &TypeMismatchError{Variable: desc.Name, Want: desc.Shape, Got: v}
	}
	return conv, nil
}

// ResolveAll resolves every variable of t in directory order. All failures
// are reported together; on error the returned slice is nil.
func (r Resolver) ResolveAll(t *Table, mat material.Material, ov Overrides) ([]Resolved, error) {
	if t == nil {
		return nil, nil
	}
	t.mu.RLock()
	slots := make([]slot, len(t.slots))
	copy(slots, t.slots)
	t.mu.RUnlock()

	out := make([]Resolved, len(slots))
	var errs []error
	for i, s := range slots {
		v, err := r.resolveSlot(t.prog, s, mat, ov)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[i] = Resolved{Variable: s.desc, Value: v, Mode: s.binding.mode}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
