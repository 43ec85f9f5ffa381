// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/framekit/binding"
	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/renderstate"
	"github.com/gogpu/framekit/shader"
	"github.com/gogpu/framekit/value"
)

// Program is a compiled shader with its script bindings.
type Program interface {
	Bindings() *binding.Table
}

// DrawOptions configures one draw call. The zero value draws to the back
// buffer with the default depth buffer and default states.
type DrawOptions struct {
	// Targets lists the render target slots. Empty means the back buffer.
	Targets []gpucore.TargetRef

	// Depth selects the depth buffer. DepthAuto takes the default of the
	// draw method.
	Depth gpucore.DepthRef

	// Nil states take the defaults of the draw method.
	Rast         *renderstate.RastState
	DepthStencil *renderstate.DepthStencilState
	Blend        *renderstate.BlendState

	// Overrides supply per-call values, including values for variables
	// marked as script overrides.
	Overrides binding.Overrides
}

type commandKind uint8

const (
	cmdClear commandKind = iota
	cmdDraw
	cmdDispatch
)

type command struct {
	kind     commandKind
	call     int
	clear    ClearCall
	draw     DrawCall
	dispatch DispatchCall
}

// Context is handed to the frame callback and records what the callback
// draws. Every method resolves its bindings immediately; the resulting
// calls are executed after the callback returns.
//
// A Context is valid only during its callback and is not safe for
// concurrent use.
type Context struct {
	ctx    context.Context
	frame  uint64
	view   binding.ViewInfo
	engine binding.EngineContext
	scene  Scene

	calls int
	cmds  []command
	errs  []error
	ended bool
}

func newContext(ctx context.Context, frame uint64, view binding.ViewInfo, scene Scene) *Context {
	return &Context{
		ctx:    ctx,
		frame:  frame,
		view:   view,
		engine: binding.ViewEngine{View: view},
		scene:  scene,
	}
}

// Frame returns the frame number, starting at 1.
func (c *Context) Frame() uint64 { return c.frame }

// View returns the camera of this frame.
func (c *Context) View() binding.ViewInfo { return c.view }

// Err returns the cancellation error of the frame's context, if any.
func (c *Context) Err() error { return c.ctx.Err() }

// Clear fills the targets with colour. No targets means the back buffer.
func (c *Context) Clear(colour [4]float32, targets ...gpucore.TargetRef) error {
	call, err := c.begin("clear")
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		targets = []gpucore.TargetRef{gpucore.BackBuffer()}
	}
	c.push(command{kind: cmdClear, call: call, clear: ClearCall{
		Colour:  colour,
		Targets: append([]gpucore.TargetRef(nil), targets...),
	}})
	return nil
}

// DrawScene draws every drawable of the scene with vs and ps. Bindings are
// resolved once per drawable. A drawable that fails to resolve is skipped;
// the returned error joins the failures.
func (c *Context) DrawScene(vs, ps Program, opts DrawOptions) error {
	if c.ended {
		return ErrFrameEnded
	}
	var drawables []binding.Drawable
	if c.scene != nil {
		drawables = c.scene.Drawables()
	}
	if len(drawables) == 0 {
		slogger().Debug("frame: DrawScene with empty scene", "frame", c.frame)
		return nil
	}
	spec := renderstate.Spec{Rast: opts.Rast, DepthStencil: opts.DepthStencil, Blend: opts.Blend}
	var errs []error
	for i := range drawables {
		d := drawables[i]
		if err := c.draw("draw-scene", GeometryScene, vs, ps, &d, spec, opts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DrawFullscreenQuad draws a quad covering the targets. Unset states
// default to no depth test and no blending. Unless opts names a depth
// buffer or a depth state, none is bound.
func (c *Context) DrawFullscreenQuad(vs, ps Program, opts DrawOptions) error {
	spec := renderstate.Spec{Rast: opts.Rast, DepthStencil: opts.DepthStencil, Blend: opts.Blend}
	if spec.DepthStencil == nil {
		spec.DepthStencil = &renderstate.DisableDepth
	}
	if spec.Blend == nil {
		spec.Blend = &renderstate.NoBlending
	}
	if opts.Depth == gpucore.DepthAuto && opts.DepthStencil == nil {
		opts.Depth = gpucore.DepthNone
	}
	return c.draw("draw-fullscreen-quad", GeometryFullscreenQuad, vs, ps, nil, spec, opts)
}

// DrawSphere draws a unit sphere at the origin. Transform it with a vertex
// shader variable.
func (c *Context) DrawSphere(vs, ps Program, opts DrawOptions) error {
	spec := renderstate.Spec{Rast: opts.Rast, DepthStencil: opts.DepthStencil, Blend: opts.Blend}
	return c.draw("draw-sphere", GeometrySphere, vs, ps, nil, spec, opts)
}

// DrawWireSphere draws a wireframe sphere for debugging. It depth tests
// against the scene without writing depth. No targets means the back
// buffer.
func (c *Context) DrawWireSphere(position [3]float32, radius float32, colour [3]float32, targets ...gpucore.TargetRef) error {
	call, err := c.begin("draw-wire-sphere")
	if err != nil {
		return err
	}
	st, err := renderstate.Build(renderstate.Spec{
		Rast:         &renderstate.Wireframe,
		DepthStencil: &renderstate.DisableDepthWrite,
		Blend:        &renderstate.NoBlending,
	}, targets, -1)
	if err != nil {
		return c.fail(call, "draw-wire-sphere", err)
	}
	c.push(command{kind: cmdDraw, call: call, draw: DrawCall{
		Geometry:  GeometryWireSphere,
		State:     st,
		Targets:   slotList(targets),
		Depth:     gpucore.DepthDefault,
		Transform: value.Translation(position[0], position[1], position[2]).Mul(value.Scaling(radius, radius, radius)),
		Colour:    [4]float32{colour[0], colour[1], colour[2], 1},
	}})
	return nil
}

// Dispatch runs a compute program over x*y*z thread groups.
func (c *Context) Dispatch(cs Program, x, y, z uint32, overrides binding.Overrides) error {
	call, err := c.begin("dispatch")
	if err != nil {
		return err
	}
	if x == 0 || y == 0 || z == 0 {
		return c.fail(call, "dispatch", ErrEmptyDispatch)
	}
	b, err := c.bind(cs, shader.StageCompute, nil, overrides)
	if err != nil {
		return c.fail(call, "dispatch", err)
	}
	if b.Program == nil {
		return c.fail(call, "dispatch", fmt.Errorf("%w: no compute program", ErrStageMismatch))
	}
	c.push(command{kind: cmdDispatch, call: call, dispatch: DispatchCall{
		Compute: b,
		Groups:  [3]uint32{x, y, z},
	}})
	return nil
}

func (c *Context) draw(op string, g Geometry, vs, ps Program, d *binding.Drawable, spec renderstate.Spec, opts DrawOptions) error {
	call, err := c.begin(op)
	if err != nil {
		return err
	}
	v, err := c.bind(vs, shader.StageVertex, d, opts.Overrides)
	if err != nil {
		return c.fail(call, op, err)
	}
	if v.Program == nil {
		return c.fail(call, op, ErrNoVertexProgram)
	}
	p, err := c.bind(ps, shader.StageFragment, d, opts.Overrides)
	if err != nil {
		return c.fail(call, op, err)
	}

	outputs := -1
	if p.Program != nil {
		outputs = p.Program.Outputs()
	}
	st, err := renderstate.Build(spec, opts.Targets, outputs)
	if err != nil {
		return c.fail(call, op, err)
	}

	depth := opts.Depth
	if depth == gpucore.DepthAuto {
		depth = gpucore.DepthDefault
	}
	dc := DrawCall{
		Geometry: g,
		Vertex:   v,
		Pixel:    p,
		State:    st,
		Targets:  slotList(opts.Targets),
		Depth:    depth,
	}
	if d != nil {
		dc.Drawable = d
		dc.Transform = d.LocalToWorld
	}
	c.push(command{kind: cmdDraw, call: call, draw: dc})
	return nil
}

// bind resolves the bindings of p. A nil program yields an empty Bound.
func (c *Context) bind(p Program, stage shader.Stage, d *binding.Drawable, ov binding.Overrides) (Bound, error) {
	if p == nil {
		return Bound{}, nil
	}
	t := p.Bindings()
	if t == nil || t.Program() == nil {
		return Bound{}, nil
	}
	prog := t.Program()
	if prog.Stage() != stage {
		return Bound{}, fmt.Errorf("%w: %s is a %s program, want %s", ErrStageMismatch, prog, prog.Stage(), stage)
	}
	vals, err := binding.Resolver{Engine: c.engine, Drawable: d}.ResolveAll(t, nil, ov)
	if err != nil {
		return Bound{}, err
	}
	return Bound{Program: prog, Values: vals}, nil
}

func (c *Context) begin(op string) (int, error) {
	if c.ended {
		return 0, ErrFrameEnded
	}
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	call := c.calls
	c.calls++
	return call, nil
}

func (c *Context) fail(call int, op string, err error) error {
	ce := &CallError{Call: call, Op: op, Err: err}
	c.errs = append(c.errs, ce)
	slogger().Warn("frame: call skipped",
		slog.Uint64("frame", c.frame),
		slog.Int("call", call),
		slog.String("op", op),
		slog.String("error", err.Error()))
	return ce
}

func (c *Context) push(cmd command) {
	c.cmds = append(c.cmds, cmd)
}

func (c *Context) end() { c.ended = true }

// slotList copies targets, substituting the back buffer for an empty list.
func slotList(targets []gpucore.TargetRef) []gpucore.TargetRef {
	if len(targets) == 0 {
		return []gpucore.TargetRef{gpucore.BackBuffer()}
	}
	return append([]gpucore.TargetRef(nil), targets...)
}
