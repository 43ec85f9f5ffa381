// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderstate

import "fmt"

// TextureFilter selects texel filtering.
type TextureFilter uint8

const (
	FilterLinear TextureFilter = iota
	FilterPoint
	FilterAnisotropic
)

// AddressMode selects how out-of-range coordinates are handled.
type AddressMode uint8

const (
	AddressWrap AddressMode = iota
	AddressClamp
	AddressMirror
)

// SamplerState describes a texture sampler. The zero value is LinearWrap.
type SamplerState struct {
	Filter  TextureFilter
	Address AddressMode
}

// Common samplers.
var (
	LinearWrap  = SamplerState{Filter: FilterLinear, Address: AddressWrap}
	LinearClamp = SamplerState{Filter: FilterLinear, Address: AddressClamp}
	PointWrap   = SamplerState{Filter: FilterPoint, Address: AddressWrap}
	PointClamp  = SamplerState{Filter: FilterPoint, Address: AddressClamp}
)

func (s SamplerState) String() string {
	filters := [...]string{"linear", "point", "anisotropic"}
	modes := [...]string{"wrap", "clamp", "mirror"}
	f, m := "?", "?"
	if int(s.Filter) < len(filters) {
		f = filters[s.Filter]
	}
	if int(s.Address) < len(modes) {
		m = modes[s.Address]
	}
	return fmt.Sprintf("%s/%s", f, m)
}
