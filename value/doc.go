// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package value defines Value, the resolved form of a shader variable, and
// the Mat4 transform type used by engine bind sources.
package value
