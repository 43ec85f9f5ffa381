// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderstate

import (
	"errors"
	"fmt"
)

// ErrInvalidRenderState is the sentinel wrapped by every ValidationError.
var ErrInvalidRenderState = errors.New("renderstate: invalid render state")

// ValidationError reports a render state that cannot be built.
type ValidationError struct {
	Reason string

	// Targets and Outputs are set for target count mismatches.
	Targets int
	Outputs int
}

func (e *ValidationError) Error() string {
	if e.Outputs > 0 || e.Targets > 0 {
		return fmt.Sprintf("renderstate: %s (targets=%d outputs=%d)", e.Reason, e.Targets, e.Outputs)
	}
	return "renderstate: " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRenderState }
