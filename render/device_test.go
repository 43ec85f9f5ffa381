// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// surfaceHandle is a headless handle with a fixed surface format.
type surfaceHandle struct {
	NullDeviceHandle
	format gputypes.TextureFormat
}

func (h surfaceHandle) SurfaceFormat() gputypes.TextureFormat { return h.format }

func TestNullDeviceHandle(t *testing.T) {
	var handle DeviceHandle = NullDeviceHandle{}

	if handle.Device() != nil {
		t.Error("NullDeviceHandle.Device() should return nil")
	}
	if handle.Queue() != nil {
		t.Error("NullDeviceHandle.Queue() should return nil")
	}
	if handle.Adapter() != nil {
		t.Error("NullDeviceHandle.Adapter() should return nil")
	}
	if handle.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Error("NullDeviceHandle.SurfaceFormat() should return Undefined")
	}
	if handle.AdapterInfo().Type != gpucontext.AdapterTypeUnknown {
		t.Error("NullDeviceHandle.AdapterInfo() should report an unknown adapter")
	}
}

func TestBackBufferFormat(t *testing.T) {
	tests := []struct {
		name   string
		handle DeviceHandle
		want   gputypes.TextureFormat
	}{
		{"nil handle", nil, DefaultBackBufferFormat},
		{"headless", NullDeviceHandle{}, DefaultBackBufferFormat},
		{"surface", surfaceHandle{format: gputypes.TextureFormatBGRA8Unorm}, gputypes.TextureFormatBGRA8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BackBufferFormat(tt.handle); got != tt.want {
				t.Errorf("BackBufferFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescribeTexture(t *testing.T) {
	desc := DescribeTexture(gpucore.TextureDesc{
		Label: "albedo", Width: 64, Height: 32,
		Format: gputypes.TextureFormatRGBA8Unorm, MipLevelCount: 7,
	})
	if desc.Label != "albedo" || desc.Size.Width != 64 || desc.Size.Height != 32 || desc.MipLevelCount != 7 {
		t.Errorf("desc = %+v", desc)
	}
	if desc.Size.DepthOrArrayLayers != 1 || desc.SampleCount != 1 || desc.Dimension != gputypes.TextureDimension2D {
		t.Errorf("desc = %+v, want a single-sample 2D texture", desc)
	}
	if desc.Usage.Contains(gputypes.TextureUsageRenderAttachment) {
		t.Error("script textures should not be render attachments")
	}
	if !desc.Usage.Contains(gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding) {
		t.Errorf("Usage = %v, want CopyDst|TextureBinding", desc.Usage)
	}

	if got := DescribeTexture(gpucore.TextureDesc{Width: 1, Height: 1}).MipLevelCount; got != 1 {
		t.Errorf("zero mip count described as %d levels", got)
	}
}

func TestDescribeRenderTarget(t *testing.T) {
	handle := surfaceHandle{format: gputypes.TextureFormatBGRA8Unorm}

	half := DescribeRenderTarget(gpucore.RenderTargetDesc{ScaleX: 0.5, ScaleY: 0.5}, 1920, 1080, handle)
	if half.Size.Width != 960 || half.Size.Height != 540 {
		t.Errorf("size = %dx%d, want 960x540", half.Size.Width, half.Size.Height)
	}
	if half.Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format = %v, want back buffer format", half.Format)
	}
	if !half.Usage.Contains(gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageStorageBinding) {
		t.Errorf("Usage = %v", half.Usage)
	}
	if half.MipLevelCount != 1 {
		t.Errorf("MipLevelCount = %d, want 1", half.MipLevelCount)
	}

	hdr := DescribeRenderTarget(gpucore.RenderTargetDesc{Format: gputypes.TextureFormatRGBA32Float, ScaleX: 1, ScaleY: 1}, 8, 8, handle)
	if hdr.Format != gputypes.TextureFormatRGBA32Float {
		t.Errorf("explicit format replaced with %v", hdr.Format)
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		n     int
		scale float32
		want  uint32
	}{
		{1280, 1, 1280},
		{1280, 0.25, 320},
		{3, 0.5, 2},
		{10, 0.01, 1},
	}
	for _, tt := range tests {
		if got := ScaledSize(tt.n, tt.scale); got != tt.want {
			t.Errorf("ScaledSize(%d, %g) = %d, want %d", tt.n, tt.scale, got, tt.want)
		}
	}
}

func TestDeviceHandleAlias(t *testing.T) {
	handle := NullDeviceHandle{}

	var dh DeviceHandle = handle
	if dh.Device() != nil {
		t.Error("NullDeviceHandle.Device() should return nil")
	}

	// Compile-time check that DeviceHandle is gpucontext.DeviceProvider.
	acceptProvider := func(_ gpucontext.DeviceProvider) {}
	acceptProvider(handle)
}
