package framekit

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framekit/binding"
	"github.com/gogpu/framekit/frame"
	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/shader"
	"github.com/gogpu/framekit/texture"
	"github.com/gogpu/framekit/uservar"
)

// Script is the API available to a SetupFunc. It is valid until the
// SetupFunc returns; later calls return ErrSetupEnded.
type Script struct {
	sess *Session
	ctx  context.Context

	mu      sync.Mutex
	ended   bool
	cb      frame.Callback
	shaders []*Shader
}

func (sc *Script) check() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.ended {
		return ErrSetupEnded
	}
	return nil
}

// end invalidates the script and returns what it registered.
func (sc *Script) end() (frame.Callback, []*Shader) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.ended = true
	return sc.cb, sc.shaders
}

// CompileShader compiles the entry point of a WGSL file for a profile
// such as "vs_5_0" or "ps_5_0". Relative paths are searched in the
// session's shader paths. Compiling the same variant twice returns
// shaders sharing one program.
func (sc *Script) CompileShader(file, entry, profile string, defines map[string]string) (*Shader, error) {
	if err := sc.check(); err != nil {
		return nil, err
	}
	path := resolve(sc.sess.opts.shaderPaths, file)
	prog, err := sc.sess.cache.Compile(sc.ctx, path, entry, profile, shader.Defines(defines))
	if err != nil {
		return nil, err
	}
	return sc.addShader(prog)
}

// LoadShader loads a precompiled SPIR-V shader and its reflection
// manifest.
func (sc *Script) LoadShader(path, entry, profile string) (*Shader, error) {
	if err := sc.check(); err != nil {
		return nil, err
	}
	prog, err := sc.sess.cache.Load(sc.ctx, resolve(sc.sess.opts.shaderPaths, path), entry, profile)
	if err != nil {
		return nil, err
	}
	return sc.addShader(prog)
}

func (sc *Script) addShader(prog *shader.Program) (*Shader, error) {
	if m := sc.sess.modules; m != nil {
		if _, err := m.Module(prog); err != nil {
			return nil, err
		}
	}
	sh := &Shader{prog: prog, table: binding.NewTable(prog)}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.ended {
		return nil, ErrSetupEnded
	}
	sc.shaders = append(sc.shaders, sh)
	return sh, nil
}

// TextureOptions configures CreateTexture2D. The zero value generates a
// full mip chain.
type TextureOptions struct {
	Label  string
	NoMips bool
}

// CreateTexture2D creates a texture from a pixel source; see package
// texture for the accepted sources.
func (sc *Script) CreateTexture2D(width, height int, format gputypes.TextureFormat, src any, opts TextureOptions) (gpucore.TextureID, error) {
	if err := sc.check(); err != nil {
		return gpucore.InvalidID, err
	}
	desc, levels, err := texture.Build(opts.Label, width, height, format, src, !opts.NoMips)
	if err != nil {
		return gpucore.InvalidID, err
	}
	return sc.sess.exec.CreateTexture2D(desc, levels)
}

// CreateBuffer creates a structured buffer of elements of format. data
// may be nil, raw bytes, []float32 components, [][4]float32 or a
// func(i, _ int) [4]float32 per element.
func (sc *Script) CreateBuffer(desc gpucore.BufferDesc, data any) (gpucore.BufferID, error) {
	if err := sc.check(); err != nil {
		return gpucore.InvalidID, err
	}
	if desc.ElementCount == 0 {
		return gpucore.InvalidID, fmt.Errorf("framekit: buffer %q: no elements", desc.Label)
	}
	var raw []byte
	if data != nil {
		b, err := texture.Encode(int(desc.ElementCount), 1, desc.Format, data)
		if err != nil {
			return gpucore.InvalidID, fmt.Errorf("framekit: buffer %q: %w", desc.Label, err)
		}
		raw = b
	}
	return sc.sess.exec.CreateBuffer(desc, raw)
}

// CreateRenderTarget creates a render target sized relative to the back
// buffer. An undefined format uses the back buffer's.
func (sc *Script) CreateRenderTarget(desc gpucore.RenderTargetDesc) (gpucore.RenderTargetID, error) {
	if err := sc.check(); err != nil {
		return gpucore.InvalidID, err
	}
	if desc.Format == gputypes.TextureFormatUndefined {
		desc.Format = sc.sess.format
	}
	if desc.ScaleX == 0 && desc.ScaleY == 0 {
		desc.ScaleX, desc.ScaleY = 1, 1
	}
	return sc.sess.exec.CreateRenderTarget(desc)
}

// AddUserVar registers a user variable. Adding a name again with the same
// type returns the existing variable.
func (sc *Script) AddUserVar(name string, typ uservar.Type, def any) (*uservar.Var, error) {
	if err := sc.check(); err != nil {
		return nil, err
	}
	return sc.sess.vars.Add(name, typ, def)
}

// AddUserVarBool registers a Bool user variable.
func (sc *Script) AddUserVarBool(name string, def bool) (*uservar.Var, error) {
	if err := sc.check(); err != nil {
		return nil, err
	}
	return sc.sess.vars.AddBool(name, def)
}

// AddUserVarInt registers a Int user variable.
func (sc *Script) AddUserVarInt(name string, def int32) (*uservar.Var, error) {
	if err := sc.check(); err != nil {
		return nil, err
	}
	return sc.sess.vars.AddInt(name, def)
}

// AddUserVarFloat registers a Float user variable.
func (sc *Script) AddUserVarFloat(name string, def float32) (*uservar.Var, error) {
	if err := sc.check(); err != nil {
		return nil, err
	}
	return sc.sess.vars.AddFloat(name, def)
}

// AddUserVarFloat2 registers a Float2 user variable.
func (sc *Script) AddUserVarFloat2(name string, def [2]float32) (*uservar.Var, error) {
	if err := sc.check(); err != nil {
		return nil, err
	}
	return sc.sess.vars.AddFloat2(name, def)
}

// AddUserVarFloat3 registers a Float3 user variable.
func (sc *Script) AddUserVarFloat3(name string, def [3]float32) (*uservar.Var, error) {
	if err := sc.check(); err != nil {
		return nil, err
	}
	return sc.sess.vars.AddFloat3(name, def)
}

// AddUserVarFloat4 registers a Float4 user variable.
func (sc *Script) AddUserVarFloat4(name string, def [4]float32) (*uservar.Var, error) {
	if err := sc.check(); err != nil {
		return nil, err
	}
	return sc.sess.vars.AddFloat4(name, def)
}

// AddUserVarString registers a String user variable.
func (sc *Script) AddUserVarString(name string, def string) (*uservar.Var, error) {
	if err := sc.check(); err != nil {
		return nil, err
	}
	return sc.sess.vars.AddString(name, def)
}

// AddUserVarChoice registers a Choice user variable.
func (sc *Script) AddUserVarChoice(name string, choices []string, def string) (*uservar.Var, error) {
	if err := sc.check(); err != nil {
		return nil, err
	}
	return sc.sess.vars.AddChoice(name, choices, def)
}

// SetFrameCallback registers the frame callback. It takes effect when
// setup returns successfully.
func (sc *Script) SetFrameCallback(cb frame.Callback) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.ended {
		Logger().Warn("framekit: SetFrameCallback after setup ended")
		return
	}
	sc.cb = cb
}

// Shader is a compiled program with the script's bindings for it.
type Shader struct {
	prog  *shader.Program
	table *binding.Table
}

// Bindings returns the binding table. It makes *Shader a frame.Program.
func (s *Shader) Bindings() *binding.Table { return s.table }

// Program returns the compiled program.
func (s *Shader) Program() *shader.Program { return s.prog }

// FindConstantVariable returns the uniform named name, or a Missing
// handle if the shader has none (for example because it was compiled
// out).
func (s *Shader) FindConstantVariable(name string) binding.Handle {
	return s.table.Variable(shader.Constant, name)
}

// FindResourceVariable returns the texture or buffer named name.
func (s *Shader) FindResourceVariable(name string) binding.Handle {
	return s.table.Variable(shader.Resource, name)
}

// FindSamplerVariable returns the sampler named name.
func (s *Shader) FindSamplerVariable(name string) binding.Handle {
	return s.table.Variable(shader.Sampler, name)
}

// FindUavVariable returns the storage resource named name.
func (s *Shader) FindUavVariable(name string) binding.Handle {
	return s.table.Variable(shader.Uav, name)
}

func (s *Shader) String() string { return s.prog.String() }

var _ frame.Program = (*Shader)(nil)
