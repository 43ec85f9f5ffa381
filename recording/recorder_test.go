package recording

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/framekit/binding"
	"github.com/gogpu/framekit/frame"
	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/shader"
	"github.com/gogpu/framekit/value"
	"github.com/gogpu/gputypes"
)

type testShader struct{ table *binding.Table }

func (s testShader) Bindings() *binding.Table { return s.table }

func newShader(stage shader.Stage, profile string, vars ...shader.VariableDesc) testShader {
	src := shader.Source{
		Identity: shader.Identity{File: "/shaders/blit.wgsl", EntryPoint: "main", Profile: profile},
		Stage:    stage,
	}
	outputs := -1
	if stage == shader.StageFragment {
		outputs = 1
	}
	return testShader{binding.NewTable(shader.NewProgram(src, []uint32{shader.SPIRVMagic}, vars, outputs))}
}

func rgbaTexture(w, h uint32) (gpucore.TextureDesc, [][]byte) {
	desc := gpucore.TextureDesc{Label: "tex", Width: w, Height: h, Format: gputypes.TextureFormatRGBA8Unorm, MipLevelCount: 1}
	return desc, [][]byte{make([]byte, w*h*4)}
}

func TestNewRecorder(t *testing.T) {
	rec := NewRecorder(800, 600)

	if rec.Width() != 800 {
		t.Errorf("Width() = %d, want 800", rec.Width())
	}
	if rec.Height() != 600 {
		t.Errorf("Height() = %d, want 600", rec.Height())
	}
	if rec.Resources() == nil {
		t.Error("resources should not be nil")
	}
	if rec.Len() != 0 {
		t.Errorf("Len() = %d, want 0", rec.Len())
	}
}

func TestRecorderCreateTexture2D(t *testing.T) {
	rec := NewRecorder(64, 64)

	tests := []struct {
		name    string
		desc    gpucore.TextureDesc
		levels  [][]byte
		wantErr bool
	}{
		{"single level", gpucore.TextureDesc{Width: 2, Height: 2, Format: gputypes.TextureFormatRGBA8Unorm}, [][]byte{make([]byte, 16)}, false},
		{"mip chain", gpucore.TextureDesc{Width: 4, Height: 2, Format: gputypes.TextureFormatR8Unorm, MipLevelCount: 3},
			[][]byte{make([]byte, 8), make([]byte, 2), make([]byte, 1)}, false},
		{"float texels", gpucore.TextureDesc{Width: 1, Height: 1, Format: gputypes.TextureFormatRGBA32Float}, [][]byte{make([]byte, 16)}, false},
		{"zero size", gpucore.TextureDesc{Width: 0, Height: 2, Format: gputypes.TextureFormatR8Unorm}, [][]byte{{}}, true},
		{"unsupported format", gpucore.TextureDesc{Width: 1, Height: 1, Format: gputypes.TextureFormatDepth32Float}, [][]byte{make([]byte, 4)}, true},
		{"short level", gpucore.TextureDesc{Width: 2, Height: 2, Format: gputypes.TextureFormatR8Unorm}, [][]byte{make([]byte, 3)}, true},
		{"missing levels", gpucore.TextureDesc{Width: 2, Height: 2, Format: gputypes.TextureFormatR8Unorm, MipLevelCount: 2}, [][]byte{make([]byte, 4)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := rec.CreateTexture2D(tt.desc, tt.levels)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidResource) {
					t.Errorf("err = %v, want ErrInvalidResource", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateTexture2D: %v", err)
			}
			if id == gpucore.InvalidID {
				t.Error("got invalid handle")
			}
		})
	}
	if tex, ok := rec.Resources().Texture(2); !ok || tex.GPU.MipLevelCount != 3 || tex.GPU.Size != gputypes.NewExtent2D(4, 2) {
		t.Errorf("mip chain descriptor = %+v", tex.GPU)
	}
	if got := rec.FinishRecording().Count(CmdCreateTexture2D); got != 3 {
		t.Errorf("recorded %d textures, want 3", got)
	}
}

func TestRecorderCreateBufferAndRenderTarget(t *testing.T) {
	rec := NewRecorder(1280, 720)

	if _, err := rec.CreateBuffer(gpucore.BufferDesc{ElementCount: 4, Format: gputypes.TextureFormatR32Float}, nil); err != nil {
		t.Errorf("zeroed buffer: %v", err)
	}
	if _, err := rec.CreateBuffer(gpucore.BufferDesc{ElementCount: 4, Format: gputypes.TextureFormatR32Float}, make([]byte, 8)); !errors.Is(err, ErrInvalidResource) {
		t.Errorf("short buffer err = %v", err)
	}

	id, err := rec.CreateRenderTarget(gpucore.RenderTargetDesc{Format: gputypes.TextureFormatRGBA8Unorm, ScaleX: 0.5, ScaleY: 0.5})
	if err != nil {
		t.Fatalf("CreateRenderTarget: %v", err)
	}
	rt, ok := rec.Resources().RenderTarget(id)
	if !ok || rt.Width != 640 || rt.Height != 360 {
		t.Errorf("render target = %+v, want 640x360", rt)
	}
	if rt.GPU.Size != gputypes.NewExtent2D(640, 360) || !rt.GPU.Usage.Contains(gputypes.TextureUsageRenderAttachment) {
		t.Errorf("render target descriptor = %+v", rt.GPU)
	}
	if _, err := rec.CreateRenderTarget(gpucore.RenderTargetDesc{Format: gputypes.TextureFormatRGBA8Unorm}); !errors.Is(err, ErrInvalidResource) {
		t.Errorf("zero scale err = %v", err)
	}
}

func TestRecorderRejectsUnknownHandles(t *testing.T) {
	rec := NewRecorder(8, 8)

	err := rec.Clear(frame.ClearCall{Targets: []gpucore.TargetRef{gpucore.RenderTarget(7)}})
	if !errors.Is(err, ErrInvalidResource) {
		t.Errorf("Clear err = %v", err)
	}

	ps := newShader(shader.StageFragment, "ps_5_0")
	err = rec.Draw(frame.DrawCall{
		Pixel: frame.Bound{
			Program: ps.table.Program(),
			Values: []binding.Resolved{{
				Variable: shader.VariableDesc{Name: "Source"},
				Value:    value.Texture(42),
			}},
		},
	})
	if !errors.Is(err, ErrInvalidResource) {
		t.Errorf("Draw err = %v", err)
	}
	if rec.Len() != 0 {
		t.Errorf("rejected calls were recorded: %d", rec.Len())
	}
}

// TestRecordScheduledFrame drives a scheduler into the recorder: a texture
// created up front is bound to a fullscreen quad as a literal.
func TestRecordScheduledFrame(t *testing.T) {
	rec := NewRecorder(320, 240)
	tex, err := rec.CreateTexture2D(rgbaTexture(2, 2))
	if err != nil {
		t.Fatal(err)
	}

	vs := newShader(shader.StageVertex, "vs_5_0")
	ps := newShader(shader.StageFragment, "ps_5_0",
		shader.VariableDesc{Name: "Source", Kind: shader.Resource, Shape: value.Shape{Kind: value.KindTexture}})
	if err := ps.table.Variable(shader.Resource, "Source").Set(tex); err != nil {
		t.Fatal(err)
	}

	s := frame.NewScheduler(rec, nil)
	s.SetCallback(func(ctx context.Context, fc *frame.Context) error {
		if err := fc.Clear([4]float32{0, 0, 0, 1}); err != nil {
			return err
		}
		return fc.DrawFullscreenQuad(vs, ps, frame.DrawOptions{})
	})
	if _, err := s.RunFrame(context.Background(), binding.DefaultView()); err != nil {
		t.Fatal(err)
	}

	cmds := rec.Commands()
	want := []CommandType{CmdCreateTexture2D, CmdClear, CmdDraw}
	if len(cmds) != len(want) {
		t.Fatalf("recorded %d commands, want %d", len(cmds), len(want))
	}
	for i, c := range cmds {
		if c.Type() != want[i] {
			t.Errorf("command %d = %v, want %v", i, c.Type(), want[i])
		}
	}
	draw := cmds[2].(DrawCommand)
	v, ok := draw.Pixel.Value(shader.Resource, "Source")
	if !ok || v.TextureID() != tex {
		t.Errorf("Source = %v, want texture %d", v, tex)
	}
}

func TestRecorderDropFrameCommands(t *testing.T) {
	rec := NewRecorder(8, 8)
	if _, err := rec.CreateTexture2D(rgbaTexture(1, 1)); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if err := rec.Clear(frame.ClearCall{}); err != nil {
			t.Fatal(err)
		}
	}

	dropped := rec.DropFrameCommands()
	if len(dropped) != 3 {
		t.Errorf("dropped %d commands, want 3", len(dropped))
	}
	if rec.Len() != 1 || rec.Commands()[0].Type() != CmdCreateTexture2D {
		t.Errorf("kept %v", rec.Commands())
	}
}

func TestRecordingPlaybackRemapsHandles(t *testing.T) {
	src := NewRecorder(100, 100)
	rt, err := src.CreateRenderTarget(gpucore.RenderTargetDesc{Format: gputypes.TextureFormatRGBA8Unorm, ScaleX: 1, ScaleY: 1})
	if err != nil {
		t.Fatal(err)
	}
	tex, err := src.CreateTexture2D(rgbaTexture(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	ps := newShader(shader.StageFragment, "ps_5_0")
	if err := src.Draw(frame.DrawCall{
		Targets: []gpucore.TargetRef{gpucore.RenderTarget(rt)},
		Pixel: frame.Bound{Program: ps.table.Program(), Values: []binding.Resolved{
			{Variable: shader.VariableDesc{Name: "Source", Kind: shader.Resource}, Value: value.Texture(tex)},
		}},
	}); err != nil {
		t.Fatal(err)
	}

	dst := NewRecorder(100, 100)
	// Offset the destination's handle space.
	for range 2 {
		if _, err := dst.CreateTexture2D(rgbaTexture(1, 1)); err != nil {
			t.Fatal(err)
		}
	}
	if err := src.FinishRecording().Playback(dst); err != nil {
		t.Fatalf("Playback: %v", err)
	}

	got := dst.FinishRecording()
	if got.Count(CmdCreateTexture2D) != 3 || got.Count(CmdCreateRenderTarget) != 1 || got.Count(CmdDraw) != 1 {
		t.Fatalf("playback commands: %v", got.Commands())
	}
	draw := got.Commands()[len(got.Commands())-1].(DrawCommand)
	v, _ := draw.Pixel.Value(shader.Resource, "Source")
	if v.TextureID() != 3 {
		t.Errorf("remapped texture = %d, want 3", v.TextureID())
	}
	if draw.Targets[0].ID() != 1 {
		t.Errorf("remapped target = %v", draw.Targets[0])
	}
}

func TestRecordingPlaybackStopsOnError(t *testing.T) {
	src := NewRecorder(8, 8)
	if _, err := src.CreateTexture2D(rgbaTexture(1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := src.Clear(frame.ClearCall{}); err != nil {
		t.Fatal(err)
	}

	failing := &failingExecutor{Recorder: NewRecorder(8, 8)}
	err := src.FinishRecording().Playback(failing)
	if !errors.Is(err, errClearFailed) {
		t.Errorf("Playback err = %v, want errClearFailed", err)
	}
}

var errClearFailed = errors.New("clear failed")

type failingExecutor struct {
	*Recorder
}

func (f *failingExecutor) Clear(frame.ClearCall) error { return errClearFailed }
