package framekit

import (
	"errors"
	"fmt"
)

var (
	// ErrScriptRuntime matches every *ScriptError.
	ErrScriptRuntime = errors.New("framekit: script runtime error")

	// ErrSessionClosed is returned by a Session after Close.
	ErrSessionClosed = errors.New("framekit: session closed")

	// ErrSetupRunning is returned when Run is called while setup is in
	// progress.
	ErrSetupRunning = errors.New("framekit: setup already running")

	// ErrSetupEnded is returned by Script methods called after setup
	// returned.
	ErrSetupEnded = errors.New("framekit: setup has ended")
)

// Phase is the part of a script that failed.
type Phase uint8

const (
	// PhaseSetup is the one-off setup function.
	PhaseSetup Phase = iota

	// PhaseFrame is the frame callback.
	PhaseFrame
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseFrame:
		return "frame"
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// ScriptError reports a failure in script code. Frame and Call are zero
// and -1 for setup failures; Call is -1 when the frame failed as a whole.
type ScriptError struct {
	Phase Phase
	Frame uint64
	Call  int
	Err   error

	// Panic holds the recovered value if the script panicked.
	Panic any
}

func (e *ScriptError) Error() string {
	switch {
	case e.Phase == PhaseSetup:
		return fmt.Sprintf("framekit: setup: %v", e.Err)
	case e.Call >= 0:
		return fmt.Sprintf("framekit: frame %d, call %d: %v", e.Frame, e.Call, e.Err)
	}
	return fmt.Sprintf("framekit: frame %d: %v", e.Frame, e.Err)
}

// Unwrap returns ErrScriptRuntime and the underlying error.
func (e *ScriptError) Unwrap() []error {
	return []error{ErrScriptRuntime, e.Err}
}
