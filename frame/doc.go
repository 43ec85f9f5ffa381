// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame runs the per-frame callback of a script and turns its draw
// requests into calls on an [Executor].
//
// A [Scheduler] moves through these states:
//
//	Idle ──SetCallback──▶ AwaitingCallback ──RunFrame──▶ Executing
//	                            ▲                           │
//	                            │          ┌──── ok ────────┤
//	                            │          ▼                ▼
//	                            └──── Completed           Failed
//
// Completed lasts while the frame's calls are submitted; the scheduler
// then returns to AwaitingCallback. Failed persists until the next
// RunFrame.
//
// A failed frame does not stop later frames; the next RunFrame invokes the
// callback again. A scheduler without a callback renders nothing.
//
// Draw requests made through a [Context] are resolved and validated
// immediately but reach the executor only when the callback returns
// without error, so a failed or cancelled frame applies nothing. A draw
// that cannot be resolved is skipped and reported; later draws still run.
// The clear set with [Scheduler.SetClearColour] is the exception: it is
// executed before the callback runs.
package frame
