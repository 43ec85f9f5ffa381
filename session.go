package framekit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framekit/binding"
	"github.com/gogpu/framekit/frame"
	"github.com/gogpu/framekit/recording"
	"github.com/gogpu/framekit/render"
	"github.com/gogpu/framekit/shader"
	"github.com/gogpu/framekit/uservar"
)

// FrameReport describes one rendered frame.
type FrameReport = frame.Report

// SetupFunc prepares a script's resources and registers its frame
// callback.
type SetupFunc func(ctx context.Context, s *Script) error

// Session runs one script. It owns the shader cache (unless shared with
// WithCache), the binding tables of the script's shaders, the user-variable
// registry and the frame scheduler.
//
// Thread safety: Session is safe for concurrent use. Frames are
// serialized.
type Session struct {
	opts     options
	cache    *shader.Cache
	ownCache bool
	modules  *render.ModuleRegistry
	exec     frame.Executor
	sched    *frame.Scheduler
	vars     *uservar.Registry
	format   gputypes.TextureFormat

	mu      sync.Mutex
	view    binding.ViewInfo
	shaders []*Shader
	exposed []exposedVar
	running bool
	closed  bool
}

// New creates a session.
func New(opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}

	s := &Session{
		opts:   o,
		exec:   o.executor,
		vars:   uservar.NewRegistry(),
		view:   o.view,
		format: render.BackBufferFormat(o.device),
	}
	if s.exec == nil {
		s.exec = recording.NewRecorder(o.width, o.height)
	}
	s.sched = frame.NewScheduler(s.exec, o.scene)
	s.sched.SetClearColour(o.clear)

	s.cache = o.cache
	if s.cache == nil {
		lookup := o.lookup
		if lookup == nil {
			dirs := o.shaderPaths
			lookup = func(name string) string { return resolve(dirs, name) }
		}
		s.cache = shader.NewCache(shader.WithWorkers(o.workers), shader.WithIncludeLookup(lookup))
		s.ownCache = true
	}

	if o.device != nil {
		m, err := render.NewModuleRegistry(o.device)
		switch {
		case err == nil:
			s.modules = m
		case errors.Is(err, render.ErrNoHAL):
			Logger().Debug("framekit: device has no HAL access, shader modules not uploaded")
		default:
			s.Close()
			return nil, err
		}
	}

	return s, nil
}

// Close releases the session's shader modules and, unless shared, its
// shader cache. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.sched.SetCallback(nil)
	if s.modules != nil {
		s.modules.Close()
	}
	if s.ownCache {
		s.cache.Close()
	}
}

// Executor returns the executor receiving the session's calls.
func (s *Session) Executor() frame.Executor { return s.exec }

// Cache returns the session's shader cache.
func (s *Session) Cache() *shader.Cache { return s.cache }

// UserVars returns the user-variable registry. Hosts read and set
// variables through it between frames.
func (s *Session) UserVars() *uservar.Registry { return s.vars }

// BackBufferFormat is the format of the host's back buffer.
func (s *Session) BackBufferFormat() gputypes.TextureFormat { return s.format }

// State returns the scheduler state.
func (s *Session) State() frame.State { return s.sched.State() }

// SetView replaces the camera used by the following frames.
func (s *Session) SetView(v binding.ViewInfo) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

// Run executes setup on its own goroutine and waits for it. If setup
// succeeds, the frame callback it registered replaces the previous one.
// If it fails, panics or ctx ends first, the session is left without a
// callback and a *ScriptError is returned.
//
// User variables persist across runs, so re-running a script keeps their
// values. Cached shaders whose source files changed since they were
// compiled are evicted first, so setup recompiles them.
func (s *Session) Run(ctx context.Context, setup SetupFunc) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrSessionClosed
	case s.running:
		s.mu.Unlock()
		return ErrSetupRunning
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if evicted := s.cache.Revalidate(); len(evicted) > 0 {
		Logger().Info("framekit: shader sources changed", slog.Int("evicted", len(evicted)))
	}

	sc := &Script{sess: s, ctx: ctx}
	done := make(chan error, 1)
	go func() { done <- runSetup(ctx, setup, sc) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	cb, shaders := sc.end()

	if err != nil {
		s.sched.SetCallback(nil)
		se, ok := err.(*ScriptError)
		if !ok {
			se = &ScriptError{Phase: PhaseSetup, Call: -1, Err: err}
		}
		Logger().Warn("framekit: setup failed", slog.String("error", se.Err.Error()))
		return se
	}

	s.mu.Lock()
	s.shaders = shaders
	s.exposed = exposeConstants(shaders)
	s.mu.Unlock()

	s.sched.SetCallback(cb)
	Logger().Info("framekit: setup complete",
		slog.Int("shaders", len(shaders)),
		slog.Int("user_vars", s.vars.Len()),
		slog.Bool("callback", cb != nil))
	return nil
}

func runSetup(ctx context.Context, setup SetupFunc, sc *Script) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ScriptError{Phase: PhaseSetup, Call: -1, Err: fmt.Errorf("panic: %v", r), Panic: r}
		}
	}()
	return setup(ctx, sc)
}

// RenderFrame runs the frame callback once. A failed frame returns a
// *ScriptError and submits nothing; calls skipped inside a successful
// frame are listed in the report only.
func (s *Session) RenderFrame(ctx context.Context) (FrameReport, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return FrameReport{}, ErrSessionClosed
	}
	view := s.view
	s.mu.Unlock()

	rep, err := s.sched.RunFrame(ctx, view)
	if err == nil {
		return rep, nil
	}
	se := &ScriptError{Phase: PhaseFrame, Frame: rep.Frame, Call: -1, Err: err}
	var fe *frame.FrameError
	if errors.As(err, &fe) {
		if fe.Panic != nil {
			se.Panic = fe.Panic
		}
		var ce *frame.CallError
		if errors.As(fe.Err, &ce) {
			se.Call = ce.Call
		}
	}
	return rep, se
}
