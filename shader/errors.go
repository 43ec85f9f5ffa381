// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCompile is the sentinel wrapped by every CompileError.
	ErrCompile = errors.New("shader: compile failed")

	// ErrCacheClosed is returned by a Cache after Close.
	ErrCacheClosed = errors.New("shader: cache closed")

	// ErrNotSPIRV is returned by Load for files without the SPIR-V magic number.
	ErrNotSPIRV = errors.New("shader: not a SPIR-V binary")
)

// CompileError reports a failed compile or load together with the
// identity that was requested.
type CompileError struct {
	File       string
	EntryPoint string
	Profile    string
	Defines    Defines

	// Message is the diagnostic text from the preprocessor or compiler.
	Message string

	// Err is the underlying error, if any.
	Err error
}

func newCompileError(id Identity, err error, format string, args ...any) *CompileError {
	return &CompileError{
		File:       id.File,
		EntryPoint: id.EntryPoint,
		Profile:    id.Profile,
		Defines:    id.Defines.Clone(),
		Message:    fmt.Sprintf(format, args...),
		Err:        err,
	}
}

func (e *CompileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "shader: %s:%s (%s)", e.File, e.EntryPoint, e.Profile)
	if len(e.Defines) > 0 {
		b.WriteString(" ")
		b.WriteString(e.Defines.String())
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports ErrCompile as a match so callers can test with errors.Is.
func (e *CompileError) Is(target error) bool { return target == ErrCompile }

func (e *CompileError) Unwrap() error { return e.Err }
