// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package binding decides where each shader variable gets its value.
//
// Every variable of a program holds exactly one [Binding]:
//
//   - Unbound: the program's compiled-in default
//   - Literal: a fixed value
//   - Callable: a function evaluated on every draw call
//   - MaterialRef: a property of the drawable's material, with an optional fallback
//   - BindSourceRef: an engine quantity such as the camera position
//   - ScriptOverride: a value that every draw call must supply
//
// A [Table] holds the bindings of one program. Looking up a name the
// program does not use returns a Missing [Handle] whose operations do
// nothing, so scripts can bind variables that a particular variant
// compiled out.
//
// A [Resolver] turns bindings into values for one draw call. A per-call
// override wins over every binding kind and is required for
// ScriptOverride variables.
package binding
