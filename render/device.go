// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"

	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// Key principle: framekit RECEIVES the device from the host, it does NOT
// create one. This enables:
//   - Shared GPU resources between framekit and the host application
//   - Zero device creation overhead in framekit
//   - Consistent resource management across the stack
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// framekit-specific name for the interface while maintaining full
// compatibility with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// DefaultBackBufferFormat is used when the host has no surface attached.
const DefaultBackBufferFormat = gputypes.TextureFormatRGBA8Unorm

// BackBufferFormat returns the surface format of h, or
// DefaultBackBufferFormat for a nil handle or a headless device.
func BackBufferFormat(h DeviceHandle) gputypes.TextureFormat {
	if h == nil {
		return DefaultBackBufferFormat
	}
	if f := h.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		return f
	}
	return DefaultBackBufferFormat
}

// DescribeTexture returns the GPU descriptor for a script texture. Script
// textures are sampled and uploaded once.
func DescribeTexture(desc gpucore.TextureDesc) gputypes.TextureDescriptor {
	return describe2D(desc.Label, desc.Width, desc.Height, desc.Format, max(1, desc.MipLevelCount),
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
}

// DescribeRenderTarget returns the GPU descriptor for a render target on a
// viewport of the given size. Targets without a format use the back
// buffer format of h.
func DescribeRenderTarget(desc gpucore.RenderTargetDesc, width, height int, h DeviceHandle) gputypes.TextureDescriptor {
	format := desc.Format
	if format == gputypes.TextureFormatUndefined {
		format = BackBufferFormat(h)
	}
	return describe2D(desc.Label, ScaledSize(width, desc.ScaleX), ScaledSize(height, desc.ScaleY), format, 1,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageStorageBinding)
}

func describe2D(label string, w, h uint32, format gputypes.TextureFormat, mips uint32, usage gputypes.TextureUsage) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label:         label,
		Size:          gputypes.NewExtent2D(w, h),
		MipLevelCount: mips,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	}
}

// ScaledSize multiplies a viewport dimension by scale, rounding to the
// nearest pixel. The result is at least 1.
func ScaledSize(n int, scale float32) uint32 {
	return uint32(max(1, math.Round(float64(n)*float64(scale))))
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for headless runs where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo reports an unknown adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "null", Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
