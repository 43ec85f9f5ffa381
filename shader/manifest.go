// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/framekit/value"
)

// ManifestSuffix is appended to a SPIR-V path to find its manifest.
const ManifestSuffix = ".toml"

// Manifest is the reflection data stored next to a precompiled SPIR-V
// binary. Load uses it to rebuild the program's Directory.
type Manifest struct {
	EntryPoint string             `toml:"entry_point"`
	Profile    string             `toml:"profile"`
	Outputs    int                `toml:"outputs"`
	Defines    map[string]string  `toml:"defines,omitempty"`
	Variables  []ManifestVariable `toml:"variable"`
}

// ManifestVariable is one VariableDesc in manifest form.
type ManifestVariable struct {
	Name    string `toml:"name"`
	Kind    string `toml:"kind"`
	Group   uint32 `toml:"group"`
	Binding uint32 `toml:"binding"`
	Block   string `toml:"block,omitempty"`
	Offset  uint32 `toml:"offset,omitempty"`
	Type    string `toml:"type"`
}

// NewManifest describes p.
func NewManifest(p *Program) Manifest {
	id := p.Identity()
	m := Manifest{
		EntryPoint: id.EntryPoint,
		Profile:    id.Profile,
		Outputs:    p.Outputs(),
	}
	if len(id.Defines) > 0 {
		m.Defines = id.Defines.Clone()
	}
	for _, v := range p.Directory().Variables() {
		m.Variables = append(m.Variables, ManifestVariable{
			Name:    v.Name,
			Kind:    v.Kind.String(),
			Group:   v.Group,
			Binding: v.Binding,
			Block:   v.Block,
			Offset:  v.Offset,
			Type:    v.Shape.String(),
		})
	}
	return m
}

// Descs converts the manifest variables back to descriptors.
func (m Manifest) Descs() ([]VariableDesc, error) {
	descs := make([]VariableDesc, 0, len(m.Variables))
	for _, mv := range m.Variables {
		kind, err := parseKind(mv.Kind)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", mv.Name, err)
		}
		shape, err := value.ParseShape(mv.Type)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", mv.Name, err)
		}
		descs = append(descs, VariableDesc{
			Name:    mv.Name,
			Kind:    kind,
			Group:   mv.Group,
			Binding: mv.Binding,
			Block:   mv.Block,
			Offset:  mv.Offset,
			Shape:   shape,
		})
	}
	return descs, nil
}

func parseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "constant":
		return Constant, nil
	case "resource":
		return Resource, nil
	case "sampler":
		return Sampler, nil
	case "uav":
		return Uav, nil
	}
	return 0, fmt.Errorf("unknown variable kind %q", s)
}

// WriteManifest encodes m as TOML.
func WriteManifest(w io.Writer, m Manifest) error {
	return toml.NewEncoder(w).Encode(m)
}

// ReadManifest decodes a TOML manifest.
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := toml.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
