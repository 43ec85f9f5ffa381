// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrNoVertexProgram is returned by draws issued without a vertex program.
	ErrNoVertexProgram = errors.New("frame: draw requires a vertex program")

	// ErrStageMismatch is returned when a program is used for the wrong stage.
	ErrStageMismatch = errors.New("frame: program stage mismatch")

	// ErrEmptyDispatch is returned by Dispatch with a zero group count.
	ErrEmptyDispatch = errors.New("frame: dispatch with zero thread groups")

	// ErrFrameEnded is returned by a Context used after its callback returned.
	ErrFrameEnded = errors.New("frame: context used after frame ended")

	// ErrCallbackPanicked is wrapped by FrameError when the callback panics.
	ErrCallbackPanicked = errors.New("frame: callback panicked")
)

// CallError reports a draw, clear or dispatch that was skipped.
// Call is the zero-based index of the call within its frame.
type CallError struct {
	Call int
	Op   string
	Err  error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("frame: call %d (%s): %v", e.Call, e.Op, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// FrameError reports a frame whose callback failed. Nothing the callback
// issued was executed.
type FrameError struct {
	Frame uint64
	Err   error

	// Panic holds the recovered value when the callback panicked.
	Panic any
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
