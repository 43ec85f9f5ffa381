package recording

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/framekit/binding"
	"github.com/gogpu/framekit/frame"
	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/render"
	"github.com/gogpu/framekit/value"
)

// ErrInvalidResource is returned for malformed resource descriptions and
// for calls that reference handles the recorder never allocated.
var ErrInvalidResource = errors.New("recording: invalid resource")

// Recorder captures executor calls as commands.
// It implements frame.Executor. Use FinishRecording to obtain an
// immutable Recording that can be inspected or replayed.
//
// Example:
//
//	rec := recording.NewRecorder(800, 600)
//	id, _ := rec.CreateTexture2D(desc, levels)
//	recording := rec.FinishRecording()
//
// The Recorder is safe for concurrent use.
type Recorder struct {
	mu            sync.Mutex
	width, height int
	commands      []Command
	resources     *ResourcePool
}

var _ frame.Executor = (*Recorder)(nil)

// NewRecorder creates a new Recorder for a viewport of the given
// dimensions. Render target sizes are derived from it.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:     width,
		height:    height,
		commands:  make([]Command, 0, 256),
		resources: NewResourcePool(),
	}
}

// FinishRecording returns an immutable Recording containing all recorded
// commands. After calling FinishRecording, the Recorder should not be used
// again.
func (r *Recorder) FinishRecording() *Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Recording{
		width:     r.width,
		height:    r.height,
		commands:  r.commands,
		resources: r.resources,
	}
}

// Commands returns a copy of the commands recorded so far.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

// Len returns the number of recorded commands.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commands)
}

// DropFrameCommands removes recorded Clear, Draw and Dispatch commands
// and returns them, keeping resource commands. Long-running hosts call it
// after each frame to bound memory.
func (r *Recorder) DropFrameCommands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	var dropped []Command
	kept := r.commands[:0]
	for _, c := range r.commands {
		if c.Type().IsResource() {
			kept = append(kept, c)
		} else {
			dropped = append(dropped, c)
		}
	}
	clear(r.commands[len(kept):])
	r.commands = kept
	return dropped
}

// Width returns the viewport width.
func (r *Recorder) Width() int { return r.width }

// Height returns the viewport height.
func (r *Recorder) Height() int { return r.height }

// Resources returns the resource pool. The pool must not be modified while
// the recorder is in use.
func (r *Recorder) Resources() *ResourcePool { return r.resources }

// CreateTexture2D implements frame.Executor. Levels must match the mip
// count and hold tightly packed texels of desc.Format.
func (r *Recorder) CreateTexture2D(desc gpucore.TextureDesc, levels [][]byte) (gpucore.TextureID, error) {
	if err := validateTexture(desc, levels); err != nil {
		return gpucore.InvalidID, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.resources.AddTexture(desc, levels)
	r.commands = append(r.commands, CreateTexture2DCommand{ID: id, Desc: desc})
	return id, nil
}

// CreateBuffer implements frame.Executor. data may be nil for a zeroed
// buffer; otherwise it must fill the buffer exactly.
func (r *Recorder) CreateBuffer(desc gpucore.BufferDesc, data []byte) (gpucore.BufferID, error) {
	size := gpucore.BytesPerElement(desc.Format)
	if size == 0 || desc.ElementCount == 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer %q: %d elements of %v", ErrInvalidResource, desc.Label, desc.ElementCount, desc.Format)
	}
	if data != nil && len(data) != size*int(desc.ElementCount) {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer %q: %d bytes of data, want %d",
			ErrInvalidResource, desc.Label, len(data), size*int(desc.ElementCount))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.resources.AddBuffer(desc, data)
	r.commands = append(r.commands, CreateBufferCommand{ID: id, Desc: desc})
	return id, nil
}

// CreateRenderTarget implements frame.Executor.
func (r *Recorder) CreateRenderTarget(desc gpucore.RenderTargetDesc) (gpucore.RenderTargetID, error) {
	if desc.ScaleX <= 0 || desc.ScaleY <= 0 || gpucore.BytesPerElement(desc.Format) == 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: render target %q: scale %gx%g format %v",
			ErrInvalidResource, desc.Label, desc.ScaleX, desc.ScaleY, desc.Format)
	}
	gd := render.DescribeRenderTarget(desc, r.width, r.height, nil)
	w, h := gd.Size.Width, gd.Size.Height
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.resources.AddRenderTarget(RenderTargetResource{Desc: desc, GPU: gd, Width: w, Height: h})
	r.commands = append(r.commands, CreateRenderTargetCommand{ID: id, Desc: desc, Width: w, Height: h})
	return id, nil
}

// Clear implements frame.Executor.
func (r *Recorder) Clear(c frame.ClearCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkTargets(c.Targets); err != nil {
		return err
	}
	r.commands = append(r.commands, ClearCommand{c})
	return nil
}

// Draw implements frame.Executor.
func (r *Recorder) Draw(d frame.DrawCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkTargets(d.Targets); err != nil {
		return err
	}
	if err := r.checkValues(d.Vertex.Values); err != nil {
		return err
	}
	if err := r.checkValues(d.Pixel.Values); err != nil {
		return err
	}
	r.commands = append(r.commands, DrawCommand{d})
	return nil
}

// Dispatch implements frame.Executor.
func (r *Recorder) Dispatch(d frame.DispatchCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkValues(d.Compute.Values); err != nil {
		return err
	}
	r.commands = append(r.commands, DispatchCommand{d})
	return nil
}

func (r *Recorder) checkTargets(targets []gpucore.TargetRef) error {
	for _, t := range targets {
		if id := t.ID(); id != gpucore.InvalidID {
			if _, ok := r.resources.RenderTarget(id); !ok {
				return fmt.Errorf("%w: unknown render target %v", ErrInvalidResource, t)
			}
		}
	}
	return nil
}

// checkValues rejects resolved values that name unknown resources. A zero
// handle means "nothing bound" and is accepted.
func (r *Recorder) checkValues(vals []binding.Resolved) error {
	for _, rv := range vals {
		v := rv.Value
		var ok = true
		switch v.Kind() {
		case value.KindTexture:
			if id := v.TextureID(); id != gpucore.InvalidID {
				_, ok = r.resources.Texture(id)
			}
		case value.KindBuffer:
			if id := v.BufferID(); id != gpucore.InvalidID {
				_, ok = r.resources.Buffer(id)
			}
		case value.KindRenderTarget:
			if id := v.RenderTargetID(); id != gpucore.InvalidID {
				_, ok = r.resources.RenderTarget(id)
			}
		}
		if !ok {
			return fmt.Errorf("%w: variable %q references unknown %v", ErrInvalidResource, rv.Variable.Name, v)
		}
	}
	return nil
}

func validateTexture(desc gpucore.TextureDesc, levels [][]byte) error {
	bpp := gpucore.BytesPerElement(desc.Format)
	if desc.Width == 0 || desc.Height == 0 || bpp == 0 {
		return fmt.Errorf("%w: texture %q: %dx%d %v", ErrInvalidResource, desc.Label, desc.Width, desc.Height, desc.Format)
	}
	mips := int(desc.MipLevelCount)
	if mips == 0 {
		mips = 1
	}
	if len(levels) != mips {
		return fmt.Errorf("%w: texture %q: %d levels supplied, want %d", ErrInvalidResource, desc.Label, len(levels), mips)
	}
	w, h := desc.Width, desc.Height
	for i, l := range levels {
		if want := int(w) * int(h) * bpp; len(l) != want {
			return fmt.Errorf("%w: texture %q level %d: %d bytes, want %d", ErrInvalidResource, desc.Label, i, len(l), want)
		}
		w, h = max(1, w/2), max(1, h/2)
	}
	return nil
}

// Recording is an immutable container for recorded commands.
type Recording struct {
	width, height int
	commands      []Command
	resources     *ResourcePool
}

// Width returns the viewport width of the recording.
func (r *Recording) Width() int {
	return r.width
}

// Height returns the viewport height of the recording.
func (r *Recording) Height() int {
	return r.height
}

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Resources returns the resource pool.
func (r *Recording) Resources() *ResourcePool {
	return r.resources
}

// Count returns the number of commands of type t.
func (r *Recording) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Playback replays the recording to exec. Resources are created first in
// their recorded order, then handles in later commands are rewritten to
// the ones exec returned. Playback stops at the first error.
func (r *Recording) Playback(exec frame.Executor) error {
	m := handleMap{
		textures: make(map[gpucore.TextureID]gpucore.TextureID),
		buffers:  make(map[gpucore.BufferID]gpucore.BufferID),
		targets:  make(map[gpucore.RenderTargetID]gpucore.RenderTargetID),
	}

	for i, cmd := range r.commands {
		var err error
		switch c := cmd.(type) {
		case CreateTexture2DCommand:
			tex, _ := r.resources.Texture(c.ID)
			var id gpucore.TextureID
			id, err = exec.CreateTexture2D(c.Desc, tex.Levels)
			m.textures[c.ID] = id
		case CreateBufferCommand:
			buf, _ := r.resources.Buffer(c.ID)
			var id gpucore.BufferID
			id, err = exec.CreateBuffer(c.Desc, buf.Data)
			m.buffers[c.ID] = id
		case CreateRenderTargetCommand:
			var id gpucore.RenderTargetID
			id, err = exec.CreateRenderTarget(c.Desc)
			m.targets[c.ID] = id
		case ClearCommand:
			call := c.ClearCall
			call.Targets = m.targetList(call.Targets)
			err = exec.Clear(call)
		case DrawCommand:
			call := c.DrawCall
			call.Targets = m.targetList(call.Targets)
			call.Vertex.Values = m.values(call.Vertex.Values)
			call.Pixel.Values = m.values(call.Pixel.Values)
			err = exec.Draw(call)
		case DispatchCommand:
			call := c.DispatchCall
			call.Compute.Values = m.values(call.Compute.Values)
			err = exec.Dispatch(call)
		}
		if err != nil {
			return fmt.Errorf("recording: playback command %d (%v): %w", i, cmd.Type(), err)
		}
	}
	return nil
}

// handleMap translates recorder handles to playback target handles.
type handleMap struct {
	textures map[gpucore.TextureID]gpucore.TextureID
	buffers  map[gpucore.BufferID]gpucore.BufferID
	targets  map[gpucore.RenderTargetID]gpucore.RenderTargetID
}

func (m handleMap) targetList(in []gpucore.TargetRef) []gpucore.TargetRef {
	out := make([]gpucore.TargetRef, len(in))
	for i, t := range in {
		if id := t.ID(); id != gpucore.InvalidID {
			out[i] = gpucore.RenderTarget(m.targets[id])
		} else {
			out[i] = t
		}
	}
	return out
}

func (m handleMap) values(in []binding.Resolved) []binding.Resolved {
	if in == nil {
		return nil
	}
	out := make([]binding.Resolved, len(in))
	for i, rv := range in {
		v := rv.Value
		switch v.Kind() {
		case value.KindTexture:
			if id := v.TextureID(); id != gpucore.InvalidID {
				rv.Value = value.Texture(m.textures[id])
			}
		case value.KindBuffer:
			if id := v.BufferID(); id != gpucore.InvalidID {
				rv.Value = value.Buffer(m.buffers[id])
			}
		case value.KindRenderTarget:
			if id := v.RenderTargetID(); id != gpucore.InvalidID {
				rv.Value = value.RenderTarget(m.targets[id])
			}
		}
		out[i] = rv
	}
	return out
}
