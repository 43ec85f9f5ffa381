package framekit

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/framekit/binding"
	"github.com/gogpu/framekit/frame"
	"github.com/gogpu/framekit/render"
	"github.com/gogpu/framekit/shader"
)

// Default viewport used when no executor is supplied.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Option configures a Session during creation.
//
// Example:
//
//	sess, err := framekit.New(
//		framekit.WithShaderPaths("shaders", "lib/shaders"),
//		framekit.WithCompileWorkers(4),
//	)
type Option func(*options)

type options struct {
	executor    frame.Executor
	device      render.DeviceHandle
	scene       frame.Scene
	view        binding.ViewInfo
	shaderPaths []string
	workers     int
	cache       *shader.Cache
	lookup      shader.IncludeLookup
	logger      *slog.Logger
	width       int
	height      int
	clear       *[4]float32
}

func defaultOptions() options {
	return options{
		view:   binding.DefaultView(),
		width:  DefaultWidth,
		height: DefaultHeight,
		clear:  &[4]float32{0, 0, 0, 1},
	}
}

// WithExecutor sets the executor that receives resources and draw calls.
// The default is a recording.Recorder of the viewport size.
func WithExecutor(e frame.Executor) Option {
	return func(o *options) {
		o.executor = e
	}
}

// WithDevice sets the host device. When the device exposes HAL access,
// compiled shaders are uploaded as shader modules.
func WithDevice(h render.DeviceHandle) Option {
	return func(o *options) {
		o.device = h
	}
}

// WithScene sets the scene drawn by DrawScene.
func WithScene(s frame.Scene) Option {
	return func(o *options) {
		o.scene = s
	}
}

// WithView sets the initial camera.
func WithView(v binding.ViewInfo) Option {
	return func(o *options) {
		o.view = v
	}
}

// WithViewport sets the size of the default executor's back buffer.
func WithViewport(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithShaderPaths sets the directories searched for relative shader and
// include paths, in order.
func WithShaderPaths(dirs ...string) Option {
	return func(o *options) {
		o.shaderPaths = append(o.shaderPaths, dirs...)
	}
}

// WithCompileWorkers sets the number of shader compile workers. Ignored
// with WithCache.
func WithCompileWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithCache shares a shader cache between sessions. The session does not
// close a shared cache.
func WithCache(c *shader.Cache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithIncludeLookup replaces the shader path search for #include names.
// Ignored with WithCache.
func WithIncludeLookup(l shader.IncludeLookup) Option {
	return func(o *options) {
		o.lookup = l
	}
}

// WithLogger calls SetLogger when the session is created.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClearColour sets the colour the back buffer is cleared to before
// every frame. nil disables the clear. The default is opaque black.
func WithClearColour(c *[4]float32) Option {
	return func(o *options) {
		o.clear = c
	}
}

// resolve returns the first existing candidate for name in dirs, or name
// itself.
func resolve(dirs []string, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	for _, d := range dirs {
		p := filepath.Join(d, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return name
}
