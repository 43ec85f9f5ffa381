// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"context"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
)

// Source is a preprocessed shader variant ready for compilation.
type Source struct {
	Identity     Identity
	Stage        Stage
	Text         string
	Dependencies []Dependency
}

// Compiler turns preprocessed source into a Program. Implementations must be
// safe for concurrent use; the cache calls Compile from its worker pool.
type Compiler interface {
	Compile(ctx context.Context, src Source) (*Program, error)
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(ctx context.Context, src Source) (*Program, error)

// Compile calls f(ctx, src).
func (f CompilerFunc) Compile(ctx context.Context, src Source) (*Program, error) {
	return f(ctx, src)
}

// NagaCompiler compiles WGSL to SPIR-V with naga and reflects the bound
// variables the entry point uses.
type NagaCompiler struct{}

// Compile implements Compiler.
func (NagaCompiler) Compile(ctx context.Context, src Source) (*Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := src.Identity

	ast, err := naga.Parse(src.Text)
	if err != nil {
		return nil, newCompileError(id, err, "parse")
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return nil, newCompileError(id, err, "lower")
	}

	entry := -1
	for i, ep := range module.EntryPoints {
		if ep.Name != id.EntryPoint {
			continue
		}
		var got Stage
		switch ep.Stage {
		case ir.StageVertex:
			got = StageVertex
		case ir.StageFragment:
			got = StageFragment
		case ir.StageCompute:
			got = StageCompute
		}
		if got != src.Stage {
			return nil, newCompileError(id, nil, "entry point %q is a %s shader, profile wants %s",
				ep.Name, got, src.Stage)
		}
		entry = i
		break
	}
	if entry < 0 {
		return nil, newCompileError(id, nil, "entry point %q not found", id.EntryPoint)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	code, err := spirv.NewBackend(spirv.DefaultOptions()).Compile(module)
	if err != nil {
		return nil, newCompileError(id, err, "spirv")
	}

	outputs := -1
	if src.Stage == StageFragment {
		outputs = fragmentOutputs(module, entry)
	}
	return NewProgram(src, bytesToWords(code), reflectVariables(module, entry), outputs), nil
}

// bytesToWords converts a little-endian SPIR-V byte stream to words.
// Trailing bytes that do not form a full word are dropped.
func bytesToWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
