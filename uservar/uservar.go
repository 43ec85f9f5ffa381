// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package uservar implements the registry of named, typed parameters that a
// script exposes for live tuning.
//
// A script registers variables during setup and reads them anywhere, most
// often through [Var.Func] as a callable binding. Hosts enumerate them with
// [Registry.Vars] and mutate them with [Var.Set] between frames.
//
// Registering a name twice with the same type returns the existing variable
// and keeps its current value. Registering it with a different type fails
// with [ErrNameCollision].
package uservar

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/framekit/value"
)

var (
	// ErrNameCollision is returned when a name is re-registered with a
	// different type or choice set.
	ErrNameCollision = errors.New("uservar: name already registered with a different type")

	// ErrEmptyName is returned for blank names.
	ErrEmptyName = errors.New("uservar: empty name")

	// ErrBadValue is returned when a value does not fit the variable type.
	ErrBadValue = errors.New("uservar: value does not match variable type")

	// ErrInvalidChoice is returned when a choice variable is set to a label
	// outside its choice set.
	ErrInvalidChoice = errors.New("uservar: value is not one of the choices")
)

// Type is the type of a user variable.
type Type uint8

const (
	TypeBool Type = iota
	TypeInt
	TypeFloat
	TypeFloat2
	TypeFloat3
	TypeFloat4
	TypeChoice
	TypeString
)

var typeNames = [...]string{
	TypeBool:   "bool",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeFloat2: "float2",
	TypeFloat3: "float3",
	TypeFloat4: "float4",
	TypeChoice: "choice",
	TypeString: "string",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Shape returns the value shape stored by variables of type t.
func (t Type) Shape() value.Shape {
	switch t {
	case TypeBool:
		return value.Shape{Kind: value.KindBool, Components: 1}
	case TypeInt:
		return value.Shape{Kind: value.KindInt, Components: 1}
	case TypeFloat:
		return value.Shape{Kind: value.KindFloat, Components: 1}
	case TypeFloat2:
		return value.Shape{Kind: value.KindFloat, Components: 2}
	case TypeFloat3:
		return value.Shape{Kind: value.KindFloat, Components: 3}
	case TypeFloat4:
		return value.Shape{Kind: value.KindFloat, Components: 4}
	default:
		return value.Shape{Kind: value.KindString}
	}
}

// Registry holds the user variables of one script session.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	vars   []*Var
	byName map[string]*Var

	subMu  sync.Mutex
	subs   map[int]func(*Var)
	nextID int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Var),
		subs:   make(map[int]func(*Var)),
	}
}

// NormalizeName trims surrounding space and applies Unicode NFC
// normalization, so visually identical labels name the same variable.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Add registers a variable of type typ. def is converted with value.FromAny.
// Choice variables must be added with AddChoice.
func (r *Registry) Add(name string, typ Type, def any) (*Var, error) {
	if typ == TypeChoice {
		return nil, fmt.Errorf("uservar: %q: choice variables need a choice set", name)
	}
	dv, err := value.FromAny(def)
	if err != nil {
		return nil, fmt.Errorf("uservar: %q: %w", name, err)
	}
	return r.add(name, typ, dv, nil)
}

// AddBool registers a boolean variable.
func (r *Registry) AddBool(name string, def bool) (*Var, error) {
	return r.add(name, TypeBool, value.Bool(def), nil)
}

// AddInt registers an integer variable.
func (r *Registry) AddInt(name string, def int32) (*Var, error) {
	return r.add(name, TypeInt, value.Int(def), nil)
}

// AddFloat registers a scalar float variable.
func (r *Registry) AddFloat(name string, def float32) (*Var, error) {
	return r.add(name, TypeFloat, value.Float(def), nil)
}

// AddFloat2 registers a 2-component float variable.
func (r *Registry) AddFloat2(name string, def [2]float32) (*Var, error) {
	return r.add(name, TypeFloat2, value.Floats(def[:]...), nil)
}

// AddFloat3 registers a 3-component float variable.
func (r *Registry) AddFloat3(name string, def [3]float32) (*Var, error) {
	return r.add(name, TypeFloat3, value.Floats(def[:]...), nil)
}

// AddFloat4 registers a 4-component float variable.
func (r *Registry) AddFloat4(name string, def [4]float32) (*Var, error) {
	return r.add(name, TypeFloat4, value.Floats(def[:]...), nil)
}

// AddString registers a free-form string variable.
func (r *Registry) AddString(name, def string) (*Var, error) {
	return r.add(name, TypeString, value.String(def), nil)
}

// AddChoice registers a variable whose value is one of choices.
func (r *Registry) AddChoice(name string, choices []string, def string) (*Var, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("uservar: %q: empty choice set", name)
	}
	if !slices.Contains(choices, def) {
		return nil, fmt.Errorf("uservar: %q: default %q: %w", name, def, ErrInvalidChoice)
	}
	return r.add(name, TypeChoice, value.String(def), slices.Clone(choices))
}

func (r *Registry) add(name string, typ Type, def value.Value, choices []string) (*Var, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	def, ok := value.Convert(def, typ.Shape())
	if !ok || def.IsNone() {
		return nil, fmt.Errorf("uservar: %q: default for %s: %w", name, typ, ErrBadValue)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[name]; ok {
		if existing.typ != typ || !slices.Equal(existing.choices, choices) {
			return nil, fmt.Errorf("%w: %q is %s", ErrNameCollision, name, existing.typ)
		}
		return existing, nil
	}

	v := &Var{
		reg:     r,
		name:    name,
		typ:     typ,
		choices: choices,
		def:     def,
		cur:     def,
	}
	r.vars = append(r.vars, v)
	r.byName[name] = v
	return v, nil
}

// Lookup returns the variable registered under name.
func (r *Registry) Lookup(name string) (*Var, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byName[NormalizeName(name)]
	return v, ok
}

// Vars returns the variables in registration order.
func (r *Registry) Vars() []*Var {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.vars)
}

// Len returns the number of registered variables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vars)
}

// Snapshot returns the current value of every variable keyed by name.
func (r *Registry) Snapshot() map[string]value.Value {
	vars := r.Vars()
	out := make(map[string]value.Value, len(vars))
	for _, v := range vars {
		out[v.name] = v.Get()
	}
	return out
}

// Restore applies values from an earlier Snapshot to variables that still
// exist. Values that no longer fit (type changed, choice removed) are
// skipped. It returns the number of variables restored.
func (r *Registry) Restore(snap map[string]value.Value) int {
	n := 0
	for _, v := range r.Vars() {
		old, ok := snap[v.name]
		if !ok {
			continue
		}
		if err := v.Set(old); err == nil {
			n++
		}
	}
	return n
}

// OnChange registers fn to be called after any variable's value changes.
// The returned function removes the subscription.
func (r *Registry) OnChange(fn func(*Var)) (cancel func()) {
	r.subMu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.subMu.Unlock()

	return func() {
		r.subMu.Lock()
		delete(r.subs, id)
		r.subMu.Unlock()
	}
}

func (r *Registry) notify(v *Var) {
	r.subMu.Lock()
	fns := make([]func(*Var), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
