package framekit

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/framekit/recording"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
executor = "record"
width = 320
height = 200
frames = 5
shader_paths = ["shaders", "lib"]
compile_workers = 2
log_level = "debug"
clear_colour = [0.1, 0.2, 0.3, 1.0]
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 320 || cfg.Height != 200 || cfg.Frames != 5 || cfg.CompileWorkers != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.ShaderPaths) != 2 {
		t.Errorf("ShaderPaths = %v", cfg.ShaderPaths)
	}
	if l, err := cfg.Level(); err != nil || l != slog.LevelDebug {
		t.Errorf("Level = %v, %v", l, err)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	rec, ok := o.executor.(*recording.Recorder)
	if !ok || rec.Width() != 320 || rec.Height() != 200 {
		t.Errorf("executor = %#v", o.executor)
	}
	if o.clear == nil || *o.clear != [4]float32{0.1, 0.2, 0.3, 1} {
		t.Errorf("clear = %v", o.clear)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`frames = 2`))
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Executor != def.Executor || cfg.Width != def.Width || cfg.Frames != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `width = `},
		{"unknown key", `colour = "red"`},
		{"bad viewport", `width = 0`},
		{"negative frames", `frames = -1`},
		{"short colour", `clear_colour = [1.0, 0.0]`},
		{"bad level", `log_level = "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); err == nil {
				t.Error("ParseConfig succeeded, want error")
			}
		})
	}
}

func TestConfigOptionsUnknownExecutor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Executor = "vulkan"
	if _, err := cfg.Options(); err == nil {
		t.Error("Options succeeded for an unregistered executor")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framekit.toml")
	if err := os.WriteFile(path, []byte("no_clear = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.NoClear {
		t.Error("no_clear not read")
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadConfig succeeded for a missing file")
	}
}
