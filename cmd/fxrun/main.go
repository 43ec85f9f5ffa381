// Command fxrun runs a demo frame script against a registered executor
// and logs what it submits.
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framekit"
	"github.com/gogpu/framekit/frame"
	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/recording"
	_ "github.com/gogpu/framekit/recording/backends/logging"
	"github.com/gogpu/framekit/renderstate"
)

//go:embed demo.wgsl
var demoShader []byte

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		frames     = flag.Int("frames", 0, "frames to render (overrides config)")
		executor   = flag.String("executor", "", "executor name (overrides config)")
		shaderPath = flag.String("shader", "", "WGSL file with vs_main and fs_main (default: built-in demo)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg := framekit.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = framekit.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *frames > 0 {
		cfg.Frames = *frames
	}
	if *executor != "" {
		cfg.Executor = *executor
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	framekit.SetLogger(logger)

	file := *shaderPath
	if file == "" {
		dir, err := os.MkdirTemp("", "fxrun")
		if err != nil {
			log.Fatal(err)
		}
		defer os.RemoveAll(dir)
		file = filepath.Join(dir, "demo.wgsl")
		if err := os.WriteFile(file, demoShader, 0o644); err != nil {
			log.Fatal(err)
		}
	}

	opts, err := cfg.Options()
	if err != nil {
		log.Fatalf("Available executors: %v: %v", recording.Executors(), err)
	}
	sess, err := framekit.New(opts...)
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := sess.Run(ctx, demo(file)); err != nil {
		log.Fatalf("Setup failed: %v", err)
	}
	for _, p := range sess.Properties() {
		logger.Info("property", slog.String("name", p.Name), slog.String("shader", p.Shader), slog.String("value", p.Value.String()))
	}

	for i := 0; i < cfg.Frames; i++ {
		rep, err := sess.RenderFrame(ctx)
		if errors.Is(err, context.Canceled) {
			break
		}
		if err != nil {
			logger.Warn("frame failed", slog.Uint64("frame", rep.Frame), slog.String("error", err.Error()))
			continue
		}
		logger.Info("frame",
			slog.Uint64("frame", rep.Frame),
			slog.Int("clears", rep.Clears),
			slog.Int("draws", rep.Draws),
			slog.Int("skipped", rep.Skipped),
			slog.Duration("elapsed", rep.Elapsed))
	}
}

// demo draws a scrolling, tinted noise texture with a wire sphere on top.
func demo(file string) framekit.SetupFunc {
	return func(ctx context.Context, s *framekit.Script) error {
		vs, err := s.CompileShader(file, "vs_main", "vs_5_0", nil)
		if err != nil {
			return err
		}
		ps, err := s.CompileShader(file, "fs_main", "ps_5_0", nil)
		if err != nil {
			return err
		}

		noise, err := s.CreateTexture2D(128, 128, gputypes.TextureFormatR8Unorm, func(x, y int) float32 {
			h := uint32(x*374761393 + y*668265263)
			h = (h ^ h>>13) * 1274126177
			return float32(h&0xff) / 255
		}, framekit.TextureOptions{Label: "noise"})
		if err != nil {
			return err
		}
		half, err := s.CreateRenderTarget(gpucore.RenderTargetDesc{Label: "half", ScaleX: 0.5, ScaleY: 0.5})
		if err != nil {
			return err
		}

		tint, err := s.AddUserVarFloat4("Tint", [4]float32{1, 0.8, 0.6, 1})
		if err != nil {
			return err
		}
		speed, err := s.AddUserVarFloat("Scroll speed", 0.01)
		if err != nil {
			return err
		}
		showSphere, err := s.AddUserVarBool("Show sphere", true)
		if err != nil {
			return err
		}

		if err := ps.FindConstantVariable("Tint").Set(tint); err != nil {
			return err
		}
		if err := ps.FindResourceVariable("Noise").Set(noise); err != nil {
			return err
		}
		if err := ps.FindSamplerVariable("noiseSampler").Set(renderstate.LinearWrap); err != nil {
			return err
		}
		if err := ps.FindConstantVariable("Time").MarkAsScriptOverride(); err != nil {
			return err
		}

		s.SetFrameCallback(func(ctx context.Context, fc *frame.Context) error {
			t := float32(fc.Frame()) * speed.Float()
			if err := fc.Clear([4]float32{0, 0, 0, 0}, gpucore.RenderTarget(half)); err != nil {
				return err
			}
			if err := fc.DrawFullscreenQuad(vs, ps, frame.DrawOptions{
				Overrides: map[string]any{"Time": t},
			}); err != nil {
				return err
			}
			if showSphere.Bool() {
				return fc.DrawWireSphere([3]float32{0, 0, 5}, 1, [3]float32{0, 1, 0})
			}
			return nil
		})
		return nil
	}
}
