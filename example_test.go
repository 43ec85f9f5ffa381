package framekit_test

import (
	"context"
	"fmt"
	"log"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framekit"
	"github.com/gogpu/framekit/frame"
)

func ExampleSession() {
	sess, err := framekit.New(framekit.WithShaderPaths("shaders"))
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	ctx := context.Background()
	err = sess.Run(ctx, func(ctx context.Context, s *framekit.Script) error {
		vs, err := s.CompileShader("blit.wgsl", "vs_main", "vs_5_0", nil)
		if err != nil {
			return err
		}
		ps, err := s.CompileShader("blit.wgsl", "fs_main", "ps_5_0", nil)
		if err != nil {
			return err
		}
		noise, err := s.CreateTexture2D(64, 64, gputypes.TextureFormatR8Unorm,
			func(x, y int) float32 { return float32((x*7+y*13)%17) / 16 },
			framekit.TextureOptions{Label: "noise"})
		if err != nil {
			return err
		}
		if err := ps.FindResourceVariable("Source").Set(noise); err != nil {
			return err
		}
		s.SetFrameCallback(func(ctx context.Context, fc *frame.Context) error {
			return fc.DrawFullscreenQuad(vs, ps, frame.DrawOptions{})
		})
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	report, err := sess.RenderFrame(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Outcome)
}

func ExampleParseConfig() {
	cfg, err := framekit.ParseConfig([]byte(`
width = 640
height = 360
frames = 10
`))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(cfg.Width, cfg.Height, cfg.Frames, cfg.Executor)
	// Output: 640 360 10 record
}
