// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package material defines the per-drawable property bag consulted by
// variables bound with BindToMaterial.
//
// Materials belong to the scene collaborator. framekit only reads them at
// draw time and never caches a lookup across draw calls.
package material

import (
	"sort"

	"github.com/gogpu/framekit/value"
)

// Material is a read-only view over a drawable's named properties, such as
// "DiffuseTexture" or "DiffuseColour".
type Material interface {
	Lookup(name string) (value.Value, bool)
}

// Bag is a map-backed Material.
type Bag map[string]value.Value

// Lookup implements Material.
func (b Bag) Lookup(name string) (value.Value, bool) {
	v, ok := b[name]
	return v, ok
}

// Names returns the property names in sorted order.
func (b Bag) Names() []string {
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type empty struct{}

func (empty) Lookup(string) (value.Value, bool) { return value.Value{}, false }

// Empty is a material with no properties. It is used for draw calls that
// have no drawable, such as fullscreen quads.
var Empty Material = empty{}

// Func adapts a lookup function to Material.
type Func func(name string) (value.Value, bool)

// Lookup implements Material.
func (f Func) Lookup(name string) (value.Value, bool) { return f(name) }

// Chain looks a property up in each material in turn and returns the first
// hit. Nil entries are skipped.
func Chain(ms ...Material) Material {
	return Func(func(name string) (value.Value, bool) {
		for _, m := range ms {
			if m == nil {
				continue
			}
			if v, ok := m.Lookup(name); ok {
				return v, true
			}
		}
		return value.Value{}, false
	})
}
