// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package binding

import (
	"fmt"

	"github.com/gogpu/framekit/value"
)

// Mode is the kind of a Binding.
type Mode uint8

const (
	ModeUnbound Mode = iota
	ModeLiteral
	ModeCallable
	ModeMaterial
	ModeBindSource
	ModeScriptOverride
)

func (m Mode) String() string {
	switch m {
	case ModeUnbound:
		return "unbound"
	case ModeLiteral:
		return "literal"
	case ModeCallable:
		return "callable"
	case ModeMaterial:
		return "material"
	case ModeBindSource:
		return "bindsource"
	case ModeScriptOverride:
		return "scriptoverride"
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// Binding is the rule that produces a variable's value. Bindings are
// immutable and can only be made by the constructors in this package, so a
// Binding always holds exactly one mode.
type Binding struct {
	mode        Mode
	literal     value.Value
	fn          func() value.Value
	property    string
	fallback    value.Value
	hasFallback bool
	source      BindSource
}

// Unbound returns the binding that selects the program default.
func Unbound() Binding { return Binding{} }

// Literal returns a binding to a fixed value.
func Literal(v value.Value) Binding { return Binding{mode: ModeLiteral, literal: v} }

// Callable returns a binding that calls fn on every draw call. A nil fn
// is Unbound.
func Callable(fn func() value.Value) Binding {
	if fn == nil {
		return Unbound()
	}
	return Binding{mode: ModeCallable, fn: fn}
}

// MaterialRef returns a binding to the material property name. When the
// material lacks the property, fallback is used if non-nil and the program
// default otherwise.
func MaterialRef(name string, fallback *value.Value) Binding {
	b := Binding{mode: ModeMaterial, property: name}
	if fallback != nil {
		b.fallback, b.hasFallback = *fallback, true
	}
	return b
}

// BindSourceRef returns a binding to an engine quantity.
func BindSourceRef(src BindSource) Binding {
	return Binding{mode: ModeBindSource, source: src}
}

// ScriptOverride returns the binding that requires a per-call value.
func ScriptOverride() Binding { return Binding{mode: ModeScriptOverride} }

// Mode returns the binding's kind.
func (b Binding) Mode() Mode { return b.mode }

// Literal returns the value of a Literal binding.
func (b Binding) Literal() (value.Value, bool) {
	return b.literal, b.mode == ModeLiteral
}

// Property returns the material property name and fallback of a
// MaterialRef binding.
func (b Binding) Property() (name string, fallback value.Value, hasFallback bool) {
	return b.property, b.fallback, b.hasFallback
}

// Source returns the bind source of a BindSourceRef binding.
func (b Binding) Source() BindSource { return b.source }

func (b Binding) String() string {
	switch b.mode {
	case ModeLiteral:
		return "literal(" + b.literal.String() + ")"
	case ModeMaterial:
		if b.hasFallback {
			return fmt.Sprintf("material(%s, fallback %s)", b.property, b.fallback)
		}
		return "material(" + b.property + ")"
	case ModeBindSource:
		return "bindsource(" + b.source.String() + ")"
	}
	return b.mode.String()
}
