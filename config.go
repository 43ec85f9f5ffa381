package framekit

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/framekit/recording"
)

// Config is the file form of session options, used by the commands.
//
//	executor = "record"
//	width = 1280
//	height = 720
//	frames = 3
//	shader_paths = ["shaders"]
//	compile_workers = 4
//	log_level = "debug"
//	clear_colour = [0.0, 0.0, 0.0, 1.0]
type Config struct {
	Executor       string    `toml:"executor"`
	Width          int       `toml:"width"`
	Height         int       `toml:"height"`
	Frames         int       `toml:"frames"`
	ShaderPaths    []string  `toml:"shader_paths"`
	CompileWorkers int       `toml:"compile_workers"`
	LogLevel       string    `toml:"log_level"`
	ClearColour    []float32 `toml:"clear_colour"`
	NoClear        bool      `toml:"no_clear"`
}

// DefaultConfig returns the configuration used for missing keys.
func DefaultConfig() Config {
	return Config{
		Executor: "record",
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Frames:   1,
		LogLevel: "info",
	}
}

// LoadConfig reads a TOML configuration file. Keys absent from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML configuration data.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("framekit: config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("framekit: config: invalid viewport %dx%d", c.Width, c.Height)
	}
	if c.Frames < 0 {
		return fmt.Errorf("framekit: config: negative frame count %d", c.Frames)
	}
	if len(c.ClearColour) != 0 && len(c.ClearColour) != 4 {
		return fmt.Errorf("framekit: config: clear_colour needs 4 components, got %d", len(c.ClearColour))
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level is Info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("framekit: config: log_level: %w", err)
	}
	return l, nil
}

// Options converts the configuration to session options. The executor is
// created from the recording registry.
func (c Config) Options() ([]Option, error) {
	name := c.Executor
	if name == "" {
		name = "record"
	}
	exec, err := recording.NewExecutor(name, c.Width, c.Height)
	if err != nil {
		return nil, fmt.Errorf("framekit: config: %w", err)
	}
	opts := []Option{
		WithExecutor(exec),
		WithViewport(c.Width, c.Height),
		WithShaderPaths(c.ShaderPaths...),
		WithCompileWorkers(c.CompileWorkers),
	}
	switch {
	case c.NoClear:
		opts = append(opts, WithClearColour(nil))
	case len(c.ClearColour) == 4:
		opts = append(opts, WithClearColour(&[4]float32{c.ClearColour[0], c.ClearColour[1], c.ClearColour[2], c.ClearColour[3]}))
	}
	return opts, nil
}
