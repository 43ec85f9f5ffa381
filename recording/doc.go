// Package recording provides an Executor that records GPU work instead of
// performing it.
//
// A Recorder implements frame.Executor. It allocates resource handles,
// stores the data passed to CreateTexture2D and CreateBuffer, and appends a
// typed command for every call. Commands are plain structs so tests and
// tools can inspect exactly what a script asked the GPU to do.
//
// A finished Recording can be replayed to another executor. Playback maps
// the handles allocated by the recorder to the handles returned by the
// target, including handles referenced from resolved shader values and
// render target slots.
//
// # Architecture
//
// Commands fall into two groups:
//   - Resource commands (CreateTexture2D, CreateBuffer, CreateRenderTarget)
//   - Frame commands (Clear, Draw, Dispatch)
//
// Resource payloads live in a ResourcePool indexed by handle.
//
// Executors can be registered by name, following the database/sql driver
// pattern, so commands can select one from configuration. The recorder
// registers itself as "record".
//
// # Example
//
//	rec := recording.NewRecorder(1280, 720)
//	sched := frame.NewScheduler(rec, nil)
//	sched.SetCallback(draw)
//	sched.RunFrame(ctx, view)
//
//	r := rec.FinishRecording()
//	for _, cmd := range r.Commands() {
//		fmt.Println(cmd.Type())
//	}
package recording
