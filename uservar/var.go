// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package uservar

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/framekit/value"
)

// Var is a single user variable. Reads are safe from any goroutine.
type Var struct {
	reg     *Registry
	name    string
	typ     Type
	choices []string
	def     value.Value

	mu  sync.RWMutex
	cur value.Value
}

// Name returns the normalized variable name.
func (v *Var) Name() string { return v.name }

// Type returns the variable type.
func (v *Var) Type() Type { return v.typ }

// Default returns the registered default value.
func (v *Var) Default() value.Value { return v.def }

// Choices returns the choice labels for TypeChoice variables.
func (v *Var) Choices() []string { return slices.Clone(v.choices) }

// Get returns the live current value.
func (v *Var) Get() value.Value {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cur
}

// Func returns a zero-argument reader of the current value, suitable for a
// callable binding.
func (v *Var) Func() func() value.Value { return v.Get }

// Bool returns the current value as a bool.
func (v *Var) Bool() bool { return v.Get().AsBool() }

// Int returns the current value as an int32.
func (v *Var) Int() int32 { return v.Get().AsInt() }

// Float returns the first component of the current value.
func (v *Var) Float() float32 { return v.Get().AsFloat() }

// Float2 returns the current value as a 2-vector.
func (v *Var) Float2() [2]float32 {
	c := v.Get().Vec4()
	return [2]float32{c[0], c[1]}
}

// Float3 returns the current value as a 3-vector.
func (v *Var) Float3() [3]float32 {
	c := v.Get().Vec4()
	return [3]float32{c[0], c[1], c[2]}
}

// Float4 returns the current value as a 4-vector.
func (v *Var) Float4() [4]float32 { return v.Get().Vec4() }

// Choice returns the selected label of a choice variable.
func (v *Var) Choice() string { return v.Get().Str() }

// Text returns the value of a string variable.
func (v *Var) Text() string { return v.Get().Str() }

// Set changes the current value. x is converted with value.FromAny and must
// fit the variable type. Subscribers are notified when the value changes.
func (v *Var) Set(x any) error {
	nv, err := value.FromAny(x)
	if err != nil {
		return fmt.Errorf("uservar: %q: %w", v.name, err)
	}
	nv, ok := value.Convert(nv, v.typ.Shape())
	if !ok || nv.IsNone() {
		return fmt.Errorf("uservar: %q: %v for %s: %w", v.name, nv, v.typ, ErrBadValue)
	}
	if v.typ == TypeChoice && !slices.Contains(v.choices, nv.Str()) {
		return fmt.Errorf("uservar: %q: %q: %w", v.name, nv.Str(), ErrInvalidChoice)
	}
	v.store(nv)
	return nil
}

// Reset restores the default value.
func (v *Var) Reset() { v.store(v.def) }

func (v *Var) store(nv value.Value) {
	v.mu.Lock()
	changed := !v.cur.Equal(nv)
	v.cur = nv
	v.mu.Unlock()

	if changed && v.reg != nil {
		v.reg.notify(v)
	}
}

func (v *Var) String() string {
	return fmt.Sprintf("%s %s = %v", v.typ, v.name, v.Get())
}
