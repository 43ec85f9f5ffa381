// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package binding

import (
	"errors"
	"fmt"

	"github.com/gogpu/framekit/value"
)

var (
	// ErrAlreadyBound is returned when a script binds a variable a second
	// time. Auto-bound variables may be rebound once.
	ErrAlreadyBound = errors.New("binding: variable already bound")

	// ErrTypeMismatch is the sentinel of TypeMismatchError.
	ErrTypeMismatch = errors.New("binding: type mismatch")

	// ErrUnresolvedScriptOverride is the sentinel of UnresolvedOverrideError.
	ErrUnresolvedScriptOverride = errors.New("binding: script override not supplied")
)

// TypeMismatchError reports a value that does not fit a variable.
type TypeMismatchError struct {
	Variable string
	Want     value.Shape
	Got      value.Value
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("binding: variable %q wants %s, got %s %v", e.Variable, e.Want, e.Got.Kind(), e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// UnresolvedOverrideError reports a ScriptOverride variable drawn without
// a per-call value.
type UnresolvedOverrideError struct {
	Program  string
	Variable string
}

func (e *UnresolvedOverrideError) Error() string {
	return fmt.Sprintf("binding: %s: no override supplied for script override variable %q", e.Program, e.Variable)
}

func (e *UnresolvedOverrideError) Unwrap() error { return ErrUnresolvedScriptOverride }
