// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/framekit/binding"
)

// State is the lifecycle state of a Scheduler.
type State uint8

const (
	// StateIdle means no callback has been registered.
	StateIdle State = iota

	// StateAwaitingCallback means a callback is registered and no frame
	// is in progress. A frame that completes returns here.
	StateAwaitingCallback

	// StateExecuting means a frame is in progress.
	StateExecuting

	// StateCompleted means the callback returned and its calls are being
	// submitted to the executor.
	StateCompleted

	// StateFailed means the last frame's callback failed. The next
	// RunFrame still invokes the callback.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCallback:
		return "awaiting-callback"
	case StateExecuting:
		return "executing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", s)
}

// Callback draws one frame. Returning an error discards the frame.
type Callback func(ctx context.Context, fc *Context) error

// Outcome summarises a frame.
type Outcome uint8

const (
	// OutcomeNoCallback means nothing ran because no callback is set.
	OutcomeNoCallback Outcome = iota

	// OutcomeCompleted means the callback succeeded and its calls were
	// executed. Individual calls may still have been skipped.
	OutcomeCompleted

	// OutcomeFailed means the callback failed and nothing was executed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoCallback:
		return "no-callback"
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// Report describes one RunFrame.
type Report struct {
	Frame   uint64
	Outcome Outcome

	// Counts of executed calls.
	Clears     int
	Draws      int
	Dispatches int

	// Skipped counts calls that were dropped; Errors explains them.
	Skipped int
	Errors  []error

	Elapsed time.Duration
}

// Scheduler runs the frame callback and submits what it draws to an
// Executor. Frames are serialized.
type Scheduler struct {
	exec  Executor
	scene Scene

	run sync.Mutex // held for the duration of a frame

	mu     sync.Mutex
	cb     Callback
	state  State
	frames uint64
	clear  *[4]float32
}

// NewScheduler returns an idle scheduler. scene may be nil, in which case
// DrawScene draws nothing.
func NewScheduler(exec Executor, scene Scene) *Scheduler {
	return &Scheduler{exec: exec, scene: scene}
}

// SetCallback registers the frame callback, replacing any previous one.
// A nil callback returns the scheduler to StateIdle.
func (s *Scheduler) SetCallback(cb Callback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cb = cb
	if cb == nil {
		s.state = StateIdle
		return
	}
	if s.state != StateExecuting {
		s.state = StateAwaitingCallback
	}
	slogger().Info("frame: callback registered")
}

// SetClearColour makes every frame that runs the callback start by
// clearing the back buffer to colour, even when the callback fails. nil
// turns the clear off.
func (s *Scheduler) SetClearColour(colour *[4]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if colour == nil {
		s.clear = nil
		return
	}
	c := *colour
	s.clear = &c
}

// HasCallback reports whether a callback is registered.
func (s *Scheduler) HasCallback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cb != nil
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Frames returns the number of frames that invoked the callback.
func (s *Scheduler) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// RunFrame invokes the callback once with view as the camera. If the
// callback fails, panics or ctx is cancelled before it returns, no call
// is executed and a *FrameError is returned. Skipped calls do not fail
// the frame; they are listed in the report.
func (s *Scheduler) RunFrame(ctx context.Context, view binding.ViewInfo) (Report, error) {
	s.run.Lock()
	defer s.run.Unlock()

	s.mu.Lock()
	cb := s.cb
	if cb == nil {
		n := s.frames
		s.mu.Unlock()
		return Report{Frame: n, Outcome: OutcomeNoCallback}, nil
	}
	s.frames++
	n := s.frames
	s.state = StateExecuting
	bg := s.clear
	s.mu.Unlock()

	start := time.Now()
	rep := Report{Frame: n}
	if bg != nil {
		if err := s.exec.Clear(ClearCall{Colour: *bg, Targets: slotList(nil)}); err != nil {
			rep.Errors = append(rep.Errors, &CallError{Call: -1, Op: "execute", Err: err})
			rep.Skipped++
		} else {
			rep.Clears++
		}
	}

	fc := newContext(ctx, n, view, s.scene)
	err := invoke(ctx, cb, fc)
	fc.end()
	if err == nil {
		err = ctx.Err()
	}

	if err != nil {
		s.setState(StateFailed)
		fe, ok := err.(*FrameError)
		if !ok {
			fe = &FrameError{Frame: n, Err: err}
		}
		fe.Frame = n
		rep.Outcome = OutcomeFailed
		rep.Skipped += len(fc.cmds) + len(fc.errs)
		rep.Errors = append(append(rep.Errors, fc.errs...), fe)
		rep.Elapsed = time.Since(start)
		slogger().Warn("frame: callback failed",
			slog.Uint64("frame", n),
			slog.Int("discarded", len(fc.cmds)),
			slog.String("error", fe.Err.Error()))
		return rep, fe
	}

	s.setState(StateCompleted)
	rep.Errors = append(rep.Errors, fc.errs...)
	rep.Skipped += len(fc.errs)
	for _, cmd := range fc.cmds {
		if xerr := s.execute(cmd); xerr != nil {
			ce := &CallError{Call: cmd.call, Op: "execute", Err: xerr}
			rep.Errors = append(rep.Errors, ce)
			rep.Skipped++
			slogger().Warn("frame: executor rejected call",
				slog.Uint64("frame", n),
				slog.Int("call", cmd.call),
				slog.String("error", xerr.Error()))
			continue
		}
		switch cmd.kind {
		case cmdClear:
			rep.Clears++
		case cmdDraw:
			rep.Draws++
		case cmdDispatch:
			rep.Dispatches++
		}
	}
	rep.Outcome = OutcomeCompleted
	rep.Elapsed = time.Since(start)
	s.awaitNext()
	slogger().Debug("frame: completed",
		slog.Uint64("frame", n),
		slog.Int("draws", rep.Draws),
		slog.Int("dispatches", rep.Dispatches),
		slog.Int("skipped", rep.Skipped),
		slog.Duration("elapsed", rep.Elapsed))
	return rep, nil
}

func (s *Scheduler) execute(cmd command) error {
	switch cmd.kind {
	case cmdClear:
		return s.exec.Clear(cmd.clear)
	case cmdDraw:
		return s.exec.Draw(cmd.draw)
	case cmdDispatch:
		return s.exec.Dispatch(cmd.dispatch)
	}
	return fmt.Errorf("frame: unknown command %d", cmd.kind)
}

// awaitNext ends a completed frame. The callback may have been cleared
// while the frame ran.
func (s *Scheduler) awaitNext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cb == nil {
		s.state = StateIdle
		return
	}
	s.state = StateAwaitingCallback
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// invoke runs cb and converts a panic into a *FrameError.
func invoke(ctx context.Context, cb Callback, fc *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FrameError{Frame: fc.frame, Err: fmt.Errorf("%w: %v", ErrCallbackPanicked, r), Panic: r}
		}
	}()
	return cb(ctx, fc)
}
