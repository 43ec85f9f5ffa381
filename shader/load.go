// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic uint32 = 0x07230203

// Load returns a program for a precompiled SPIR-V file. Reflection data
// comes from the manifest at path+ManifestSuffix; without one the program
// has an empty Directory and unknown output count.
//
// Load shares the cache and coalescing rules of Compile, keyed by
// (path, entry, profile).
func (c *Cache) Load(ctx context.Context, path, entry, profile string) (*Program, error) {
	id := Identity{File: path, EntryPoint: entry, Profile: profile, Precompiled: true}.Normalize()
	stage, err := ParseProfile(id.Profile)
	if err != nil {
		return nil, newCompileError(id, err, "profile")
	}
	return c.get(ctx, id, func(context.Context) (*Program, error) {
		return loadPrecompiled(id, stage, c.readSource)
	})
}

func loadPrecompiled(id Identity, stage Stage, read ReadFunc) (*Program, error) {
	data, err := read(id.File)
	if err != nil {
		return nil, newCompileError(id, err, "read")
	}
	if len(data) < 4 || len(data)%4 != 0 {
		return nil, newCompileError(id, ErrNotSPIRV, "size %d", len(data))
	}
	words := bytesToWords(data)
	if words[0] != SPIRVMagic {
		return nil, newCompileError(id, ErrNotSPIRV, "magic %#08x", words[0])
	}

	src := Source{
		Identity:     id,
		Stage:        stage,
		Dependencies: []Dependency{{Name: id.File, Path: id.File, Hash: hashBytes(data)}},
	}

	manifestPath := id.File + ManifestSuffix
	raw, err := read(manifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		slogger().Debug("shader: no manifest", "file", id.File)
		return NewProgram(src, words, nil, -1), nil
	}
	if err != nil {
		return nil, newCompileError(id, err, "read manifest")
	}
	src.Dependencies = append(src.Dependencies, Dependency{Name: manifestPath, Path: manifestPath, Hash: hashBytes(raw)})

	m, err := ReadManifest(bytes.NewReader(raw))
	if err != nil {
		return nil, newCompileError(id, err, "manifest")
	}
	if m.EntryPoint != "" && m.EntryPoint != id.EntryPoint {
		return nil, newCompileError(id, nil, "manifest is for entry point %q", m.EntryPoint)
	}
	if m.Profile != "" {
		if ms, err := ParseProfile(m.Profile); err == nil && ms != stage {
			return nil, newCompileError(id, nil, "manifest is for a %s shader", ms)
		}
	}
	vars, err := m.Descs()
	if err != nil {
		return nil, newCompileError(id, err, "manifest")
	}
	return NewProgram(src, words, vars, m.Outputs), nil
}
