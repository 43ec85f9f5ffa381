// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"slices"

	"github.com/gogpu/framekit/value"
)

// Kind classifies a shader variable.
type Kind uint8

const (
	// Constant is a uniform value, such as a member of a uniform block.
	Constant Kind = iota

	// Resource is a read-only texture or storage buffer.
	Resource

	// Sampler is a texture sampler.
	Sampler

	// Uav is a read-write storage buffer or storage texture.
	Uav
)

func (k Kind) String() string {
	switch k {
	case Constant:
		return "constant"
	case Resource:
		return "resource"
	case Sampler:
		return "sampler"
	case Uav:
		return "uav"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// VariableDesc describes a variable that survived compilation.
type VariableDesc struct {
	Name    string
	Kind    Kind
	Group   uint32
	Binding uint32

	// Block is the uniform block holding a Constant, or "" for resources
	// and bare uniforms.
	Block string

	// Offset is the byte offset of a Constant inside its block.
	Offset uint32

	// Shape is the value shape the variable accepts.
	Shape value.Shape

	// Default is the value used when the variable is Unbound.
	Default value.Value
}

type dirKey struct {
	kind Kind
	name string
}

// Directory is the immutable set of variables of one program.
type Directory struct {
	vars  []VariableDesc
	index map[dirKey]int
}

// NewDirectory builds a directory. Duplicate (kind, name) pairs keep the
// first entry.
func NewDirectory(vars []VariableDesc) *Directory {
	d := &Directory{index: make(map[dirKey]int, len(vars))}
	for _, v := range vars {
		k := dirKey{v.Kind, v.Name}
		if _, dup := d.index[k]; dup {
			continue
		}
		if v.Default.IsNone() {
			v.Default = v.Shape.Zero()
		}
		d.index[k] = len(d.vars)
		d.vars = append(d.vars, v)
	}
	return d
}

// Find returns the variable of the given kind and name. Names that were
// never declared, or were compiled out, report false.
func (d *Directory) Find(kind Kind, name string) (VariableDesc, bool) {
	if d == nil {
		return VariableDesc{}, false
	}
	i, ok := d.index[dirKey{kind, name}]
	if !ok {
		return VariableDesc{}, false
	}
	return d.vars[i], true
}

// Index returns the position of a variable in Variables, or -1.
func (d *Directory) Index(kind Kind, name string) int {
	if d == nil {
		return -1
	}
	if i, ok := d.index[dirKey{kind, name}]; ok {
		return i
	}
	return -1
}

// Variables returns all variables in declaration order.
func (d *Directory) Variables() []VariableDesc {
	if d == nil {
		return nil
	}
	return slices.Clone(d.vars)
}

// Len returns the number of variables.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.vars)
}

// Dependency is a file a program was built from.
type Dependency struct {
	// Name is the path as written in the #include directive, or the
	// requested path for the main file.
	Name string

	// Path is the resolved path on disk.
	Path string

	// Hash is the FNV-1a hash of the file contents at compile time.
	Hash uint64

	// ViaLookup is set when Path came from the include lookup function
	// rather than the including file's directory.
	ViaLookup bool
}

// Program is a compiled shader variant. It is immutable and shared by every
// caller that requests the same identity.
type Program struct {
	id      Identity
	fp      Fingerprint
	stage   Stage
	words   []uint32
	dir     *Directory
	outputs int
	deps    []Dependency
}

// NewProgram assembles a program. Compiler implementations call it once
// they have a binary and a variable list. outputs is the number of colour
// outputs of a fragment program, or -1 when unknown.
func NewProgram(src Source, spirv []uint32, vars []VariableDesc, outputs int) *Program {
	return &Program{
		id:      src.Identity,
		fp:      src.Identity.Fingerprint(),
		stage:   src.Stage,
		words:   slices.Clone(spirv),
		dir:     NewDirectory(vars),
		outputs: outputs,
		deps:    slices.Clone(src.Dependencies),
	}
}

// Identity returns the variant identity.
func (p *Program) Identity() Identity { return p.id }

// Fingerprint returns the cache key.
func (p *Program) Fingerprint() Fingerprint { return p.fp }

// Stage returns the pipeline stage.
func (p *Program) Stage() Stage { return p.stage }

// SPIRV returns the compiled binary. Callers must not modify it.
func (p *Program) SPIRV() []uint32 { return p.words }

// Directory returns the variable directory.
func (p *Program) Directory() *Directory { return p.dir }

// Find looks up a variable by kind and name.
func (p *Program) Find(kind Kind, name string) (VariableDesc, bool) {
	return p.dir.Find(kind, name)
}

// Outputs returns the number of colour outputs, or -1 when unknown.
func (p *Program) Outputs() int { return p.outputs }

// Dependencies returns the files the program was built from, main file
// first.
func (p *Program) Dependencies() []Dependency { return slices.Clone(p.deps) }

func (p *Program) String() string { return p.id.String() }
