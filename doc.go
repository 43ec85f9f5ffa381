// Package framekit runs frame scripts: small Go programs that compile
// shader variants, bind their variables, and issue draw calls every frame.
//
// # Overview
//
// A Session owns everything one script needs: a shader variant cache, the
// binding tables of the script's shaders, a user-variable registry, and a
// frame scheduler that submits draws to an executor. A script has two
// parts. Setup runs once and prepares resources; the frame callback runs
// every frame and draws.
//
// # Quick Start
//
//	sess, err := framekit.New(framekit.WithShaderPaths("shaders"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sess.Close()
//
//	err = sess.Run(ctx, func(ctx context.Context, s *framekit.Script) error {
//		vs, err := s.CompileShader("blit.wgsl", "vs_main", "vs_5_0", nil)
//		if err != nil {
//			return err
//		}
//		ps, err := s.CompileShader("blit.wgsl", "fs_main", "ps_5_0", nil)
//		if err != nil {
//			return err
//		}
//		tint, _ := s.AddUserVarFloat4("Tint", [4]float32{1, 1, 1, 1})
//		ps.FindConstantVariable("Tint").Set(tint)
//
//		s.SetFrameCallback(func(ctx context.Context, fc *frame.Context) error {
//			return fc.DrawFullscreenQuad(vs, ps, frame.DrawOptions{})
//		})
//		return nil
//	})
//
//	report, err := sess.RenderFrame(ctx)
//
// # Architecture
//
// The library is organized into:
//   - value, gpucore: resolved values, resource handles and descriptors
//   - shader: preprocessing, WGSL compilation via naga, the variant cache
//   - binding, material, uservar: how variables get their values
//   - renderstate: partial state specs completed into full render state
//   - frame: the per-frame scheduler and draw context
//   - recording, render: executors and the host device bridge
//
// # Errors
//
// Failures in script code are reported as *ScriptError, which matches
// ErrScriptRuntime with errors.Is. A failed frame submits nothing; the next
// frame runs the callback again.
package framekit
