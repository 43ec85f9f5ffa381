// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package binding

import (
	"fmt"
	"sync"

	"github.com/gogpu/framekit/shader"
	"github.com/gogpu/framekit/value"
)

// Valuer is anything that can report a current value, such as a user
// variable. Handle.Set binds a Valuer as a Callable.
type Valuer interface {
	Get() value.Value
}

type slot struct {
	desc     shader.VariableDesc
	binding  Binding
	auto     bool
	explicit bool
}

// Table holds the bindings of one program's variables.
//
// Thread safety: Table is safe for concurrent use. Mutations made while a
// frame resolves are seen by the next draw call.
type Table struct {
	prog *shader.Program

	mu    sync.RWMutex
	slots []slot
}

// NewTable creates a table with every variable Unbound, except that a
// Constant whose name matches a bind source, or a Resource named
// DepthBuffer, is bound to that source. A script may rebind such a
// variable once.
func NewTable(prog *shader.Program) *Table {
	vars := prog.Directory().Variables()
	t := &Table{prog: prog, slots: make([]slot, len(vars))}
	for i, v := range vars {
		t.slots[i].desc = v
		src, ok := ParseBindSource(v.Name)
		if !ok {
			continue
		}
		if _, fits := value.Convert(src.Shape().Zero(), v.Shape); !fits {
			continue
		}
		if (v.Kind == shader.Constant && src != DepthBuffer) || (v.Kind == shader.Resource && src == DepthBuffer) {
			t.slots[i].binding = BindSourceRef(src)
			t.slots[i].auto = true
		}
	}
	return t
}

// Program returns the program whose variables the table binds.
func (t *Table) Program() *shader.Program { return t.prog }

// Len returns the number of variables.
func (t *Table) Len() int { return len(t.slots) }

// Variable returns the handle for the variable of the given kind and name,
// or a Missing handle when the program has no such variable.
func (t *Table) Variable(kind shader.Kind, name string) Handle {
	if t == nil {
		return Handle{}
	}
	i := t.prog.Directory().Index(kind, name)
	if i < 0 {
		return Handle{}
	}
	return Handle{t: t, idx: i}
}

// Handles returns a live handle for every variable in directory order.
func (t *Table) Handles() []Handle {
	hs := make([]Handle, len(t.slots))
	for i := range t.slots {
		hs[i] = Handle{t: t, idx: i}
	}
	return hs
}

// SetBinding replaces the binding of h without the script-level exclusivity
// check. It is a no-op for Missing handles.
func (t *Table) SetBinding(h Handle, b Binding) {
	if h.t != t || t == nil {
		return
	}
	t.mu.Lock()
	t.slots[h.idx].binding = b
	t.slots[h.idx].auto = false
	t.mu.Unlock()
}

func (t *Table) get(idx int) slot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slots[idx]
}

// assign applies a script-level bind. A variable accepts one explicit bind;
// an auto-bind may be replaced by it.
func (t *Table) assign(idx int, b Binding) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := &t.slots[idx]
	if s.explicit {
		return fmt.Errorf("%w: %s %q in %s (currently %s)", ErrAlreadyBound, s.desc.Kind, s.desc.Name, t.prog, s.binding)
	}
	s.binding = b
	s.auto = false
	s.explicit = true
	return nil
}

// Handle refers to one variable of a Table. The zero Handle is Missing:
// every operation on it does nothing and returns nil.
type Handle struct {
	t   *Table
	idx int
}

// IsMissing reports whether the handle refers to no variable.
func (h Handle) IsMissing() bool { return h.t == nil }

// Name returns the variable name, or "" when Missing.
func (h Handle) Name() string { return h.Desc().Name }

// Desc returns the variable description. A Missing handle returns the
// zero description.
func (h Handle) Desc() shader.VariableDesc {
	if h.t == nil {
		return shader.VariableDesc{}
	}
	return h.t.slots[h.idx].desc
}

// Binding returns the current binding. A Missing handle reports Unbound.
func (h Handle) Binding() Binding {
	if h.t == nil {
		return Unbound()
	}
	return h.t.get(h.idx).binding
}

// IsAutoBound reports whether the current binding was chosen from the
// variable's name rather than by the script.
func (h Handle) IsAutoBound() bool {
	if h.t == nil {
		return false
	}
	return h.t.get(h.idx).auto
}

// Set binds the variable to v. A func() value.Value or a Valuer becomes a
// Callable binding evaluated on every draw call; anything else is converted
// with value.FromAny and checked against the variable's shape.
func (h Handle) Set(v any) error {
	if h.t == nil {
		return nil
	}
	switch x := v.(type) {
	case func() value.Value:
		return h.SetFunc(x)
	case Valuer:
		return h.SetFunc(x.Get)
	}

	val, err := value.FromAny(v)
	if err != nil {
		return fmt.Errorf("binding: variable %q: %w", h.Name(), err)
	}
	desc := h.Desc()
	conv, ok := value.Convert(val, desc.Shape)
	if !ok {
		return &TypeMismatchError{Variable: desc.Name, Want: desc.Shape, Got: val}
	}
	return h.t.assign(h.idx, Literal(conv))
}

// SetFunc binds the variable to fn, which is called on every draw call
// that uses the variable.
func (h Handle) SetFunc(fn func() value.Value) error {
	if h.t == nil {
		return nil
	}
	if fn == nil {
		return fmt.Errorf("binding: variable %q: nil function", h.Name())
	}
	return h.t.assign(h.idx, Callable(fn))
}

// Bind binds the variable to an engine quantity.
func (h Handle) Bind(src BindSource) error {
	if h.t == nil {
		return nil
	}
	desc := h.Desc()
	if _, ok := value.Convert(src.Shape().Zero(), desc.Shape); !ok || src.Shape().Kind == value.KindNone {
		return &TypeMismatchError{Variable: desc.Name, Want: desc.Shape, Got: src.Shape().Zero()}
	}
	return h.t.assign(h.idx, BindSourceRef(src))
}

// BindToMaterial binds the variable to the material property name. An
// optional fallback is used when a material lacks the property.
func (h Handle) BindToMaterial(name string, fallback ...any) error {
	if h.t == nil {
		return nil
	}
	if len(fallback) > 1 {
		return fmt.Errorf("binding: variable %q: at most one fallback", h.Name())
	}
	var fb *value.Value
	if len(fallback) == 1 && fallback[0] != nil {
		val, err := value.FromAny(fallback[0])
		if err != nil {
			return fmt.Errorf("binding: variable %q fallback: %w", h.Name(), err)
		}
		desc := h.Desc()
		conv, ok := value.Convert(val, desc.Shape)
		if !ok {
			return &TypeMismatchError{Variable: desc.Name, Want: desc.Shape, Got: val}
		}
		fb = &conv
	}
	return h.t.assign(h.idx, MaterialRef(name, fb))
}

// MarkAsScriptOverride requires every draw call to supply the variable's
// value.
func (h Handle) MarkAsScriptOverride() error {
	if h.t == nil {
		return nil
	}
	return h.t.assign(h.idx, ScriptOverride())
}

func (h Handle) String() string {
	if h.t == nil {
		return "missing"
	}
	d := h.Desc()
	return fmt.Sprintf("%s %s = %s", d.Kind, d.Name, h.Binding())
}
