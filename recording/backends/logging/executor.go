// Package logging provides an executor that logs every call with slog and
// forwards it to another executor.
//
// # Example
//
//	// Import to register the executor
//	import _ "github.com/gogpu/framekit/recording/backends/logging"
//
//	// Create via registry; the logger is slog.Default() and calls are
//	// forwarded to a recording.Recorder.
//	exec, _ := recording.NewExecutor("log", 1280, 720)
//
//	// Or wrap any executor directly
//	exec := logging.New(inner, logger)
package logging

import (
	"context"
	"log/slog"

	"github.com/gogpu/framekit/frame"
	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/recording"
)

func init() {
	recording.Register("log", func(width, height int) frame.Executor {
		return New(recording.NewRecorder(width, height), nil)
	})
}

// Executor logs each call at Debug level, and failures at Warn level,
// before returning the inner executor's result.
type Executor struct {
	inner frame.Executor
	log   *slog.Logger
}

var _ frame.Executor = (*Executor)(nil)

// New wraps inner. A nil logger uses slog.Default() at call time.
func New(inner frame.Executor, logger *slog.Logger) *Executor {
	return &Executor{inner: inner, log: logger}
}

// Inner returns the wrapped executor.
func (e *Executor) Inner() frame.Executor { return e.inner }

func (e *Executor) logger() *slog.Logger {
	if e.log != nil {
		return e.log
	}
	return slog.Default()
}

func (e *Executor) done(op string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		e.logger().LogAttrs(context.Background(), slog.LevelWarn, "executor: "+op+" failed", attrs...)
		return
	}
	e.logger().LogAttrs(context.Background(), slog.LevelDebug, "executor: "+op, attrs...)
}

// CreateTexture2D implements frame.Executor.
func (e *Executor) CreateTexture2D(desc gpucore.TextureDesc, levels [][]byte) (gpucore.TextureID, error) {
	id, err := e.inner.CreateTexture2D(desc, levels)
	e.done("create texture", err,
		slog.String("label", desc.Label),
		slog.Uint64("id", uint64(id)),
		slog.Any("size", [2]uint32{desc.Width, desc.Height}),
		slog.String("format", desc.Format.String()),
		slog.Int("levels", len(levels)))
	return id, err
}

// CreateBuffer implements frame.Executor.
func (e *Executor) CreateBuffer(desc gpucore.BufferDesc, data []byte) (gpucore.BufferID, error) {
	id, err := e.inner.CreateBuffer(desc, data)
	e.done("create buffer", err,
		slog.String("label", desc.Label),
		slog.Uint64("id", uint64(id)),
		slog.Uint64("elements", uint64(desc.ElementCount)),
		slog.Bool("uav", desc.UAV))
	return id, err
}

// CreateRenderTarget implements frame.Executor.
func (e *Executor) CreateRenderTarget(desc gpucore.RenderTargetDesc) (gpucore.RenderTargetID, error) {
	id, err := e.inner.CreateRenderTarget(desc)
	e.done("create render target", err,
		slog.String("label", desc.Label),
		slog.Uint64("id", uint64(id)),
		slog.Any("scale", [2]float32{desc.ScaleX, desc.ScaleY}))
	return id, err
}

// Clear implements frame.Executor.
func (e *Executor) Clear(c frame.ClearCall) error {
	err := e.inner.Clear(c)
	e.done("clear", err,
		slog.Any("colour", c.Colour),
		slog.Any("targets", c.Targets))
	return err
}

// Draw implements frame.Executor.
func (e *Executor) Draw(d frame.DrawCall) error {
	err := e.inner.Draw(d)
	attrs := []slog.Attr{
		slog.String("geometry", d.Geometry.String()),
		slog.Any("targets", d.Targets),
		slog.String("depth", d.Depth.String()),
	}
	if d.Vertex.Program != nil {
		attrs = append(attrs, slog.String("vs", d.Vertex.Program.String()))
	}
	if d.Pixel.Program != nil {
		attrs = append(attrs, slog.String("ps", d.Pixel.Program.String()))
	}
	attrs = append(attrs, slog.Int("values", len(d.Vertex.Values)+len(d.Pixel.Values)))
	e.done("draw", err, attrs...)
	return err
}

// Dispatch implements frame.Executor.
func (e *Executor) Dispatch(d frame.DispatchCall) error {
	err := e.inner.Dispatch(d)
	attrs := []slog.Attr{slog.Any("groups", d.Groups)}
	if d.Compute.Program != nil {
		attrs = append(attrs, slog.String("cs", d.Compute.Program.String()))
	}
	e.done("dispatch", err, attrs...)
	return err
}
