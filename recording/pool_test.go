package recording

import (
	"testing"

	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/gputypes"
)

func TestNewResourcePool(t *testing.T) {
	pool := NewResourcePool()
	if pool == nil {
		t.Fatal("NewResourcePool returned nil")
	}
	if pool.TextureCount() != 0 {
		t.Errorf("TextureCount() = %d, want 0", pool.TextureCount())
	}
	if pool.BufferCount() != 0 {
		t.Errorf("BufferCount() = %d, want 0", pool.BufferCount())
	}
	if pool.RenderTargetCount() != 0 {
		t.Errorf("RenderTargetCount() = %d, want 0", pool.RenderTargetCount())
	}
}

func TestResourcePool_Handles(t *testing.T) {
	pool := NewResourcePool()
	desc := gpucore.TextureDesc{Width: 1, Height: 1, Format: gputypes.TextureFormatR8Unorm}

	a := pool.AddTexture(desc, [][]byte{{1}})
	b := pool.AddTexture(desc, [][]byte{{2}})
	if a == gpucore.InvalidID || a == b {
		t.Fatalf("handles %d, %d: want distinct non-zero", a, b)
	}

	got, ok := pool.Texture(b)
	if !ok || got.Levels[0][0] != 2 {
		t.Errorf("Texture(%d) = %v, %v", b, got, ok)
	}
	for _, id := range []gpucore.TextureID{gpucore.InvalidID, 99} {
		if _, ok := pool.Texture(id); ok {
			t.Errorf("Texture(%d) should be invalid", id)
		}
	}
}

func TestResourcePool_CopiesData(t *testing.T) {
	pool := NewResourcePool()
	data := []byte{1, 2, 3, 4}
	id := pool.AddBuffer(gpucore.BufferDesc{ElementCount: 1, Format: gputypes.TextureFormatR32Float}, data)
	data[0] = 9

	buf, ok := pool.Buffer(id)
	if !ok {
		t.Fatal("Buffer not found")
	}
	if buf.Data[0] != 1 {
		t.Error("pool shares the caller's slice")
	}

	level := []byte{7}
	tid := pool.AddTexture(gpucore.TextureDesc{Width: 1, Height: 1}, [][]byte{level})
	level[0] = 0
	if tex, _ := pool.Texture(tid); tex.Levels[0][0] != 7 {
		t.Error("pool shares the caller's level data")
	}
}

func TestResourcePool_Clear(t *testing.T) {
	pool := NewResourcePool()
	pool.AddTexture(gpucore.TextureDesc{}, nil)
	pool.AddBuffer(gpucore.BufferDesc{}, nil)
	pool.AddRenderTarget(RenderTargetResource{})
	pool.Clear()
	if pool.TextureCount()+pool.BufferCount()+pool.RenderTargetCount() != 0 {
		t.Error("Clear left resources behind")
	}
}
