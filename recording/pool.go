package recording

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/render"
)

// TextureResource is a recorded texture and its level data. GPU is the
// descriptor a device would create it with.
type TextureResource struct {
	Desc   gpucore.TextureDesc
	GPU    gputypes.TextureDescriptor
	Levels [][]byte
}

// BufferResource is a recorded buffer and its initial contents.
type BufferResource struct {
	Desc gpucore.BufferDesc
	Data []byte
}

// RenderTargetResource is a recorded render target sized for the
// recorder's viewport.
type RenderTargetResource struct {
	Desc          gpucore.RenderTargetDesc
	GPU           gputypes.TextureDescriptor
	Width, Height uint32
}

// ResourcePool stores resources referenced by recorded commands.
// Handles are one-based indexes, so the zero handle is never valid.
// Each Add operation copies the supplied data to keep the recording
// immutable.
//
// ResourcePool is not safe for concurrent use. If concurrent access is needed,
// external synchronization must be provided.
type ResourcePool struct {
	textures []TextureResource
	buffers  []BufferResource
	targets  []RenderTargetResource
}

// NewResourcePool creates an empty resource pool with pre-allocated capacity.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		textures: make([]TextureResource, 0, 16),
		buffers:  make([]BufferResource, 0, 8),
		targets:  make([]RenderTargetResource, 0, 8),
	}
}

// AddTexture adds a texture to the pool and returns its handle.
func (p *ResourcePool) AddTexture(desc gpucore.TextureDesc, levels [][]byte) gpucore.TextureID {
	cloned := make([][]byte, len(levels))
	for i, l := range levels {
		cloned[i] = append([]byte(nil), l...)
	}
	p.textures = append(p.textures, TextureResource{Desc: desc, GPU: render.DescribeTexture(desc), Levels: cloned})
	// #nosec G115 -- pool size is bounded by available memory
	return gpucore.TextureID(len(p.textures))
}

// Texture returns the texture for the given handle.
// The second result is false if the handle is invalid.
func (p *ResourcePool) Texture(id gpucore.TextureID) (TextureResource, bool) {
	if id == gpucore.InvalidID || int(id) > len(p.textures) {
		return TextureResource{}, false
	}
	return p.textures[id-1], true
}

// TextureCount returns the number of textures in the pool.
func (p *ResourcePool) TextureCount() int {
	return len(p.textures)
}

// AddBuffer adds a buffer to the pool and returns its handle.
func (p *ResourcePool) AddBuffer(desc gpucore.BufferDesc, data []byte) gpucore.BufferID {
	p.buffers = append(p.buffers, BufferResource{Desc: desc, Data: append([]byte(nil), data...)})
	// #nosec G115 -- pool size is bounded by available memory
	return gpucore.BufferID(len(p.buffers))
}

// Buffer returns the buffer for the given handle.
func (p *ResourcePool) Buffer(id gpucore.BufferID) (BufferResource, bool) {
	if id == gpucore.InvalidID || int(id) > len(p.buffers) {
		return BufferResource{}, false
	}
	return p.buffers[id-1], true
}

// BufferCount returns the number of buffers in the pool.
func (p *ResourcePool) BufferCount() int {
	return len(p.buffers)
}

// AddRenderTarget adds a render target to the pool and returns its handle.
func (p *ResourcePool) AddRenderTarget(rt RenderTargetResource) gpucore.RenderTargetID {
	p.targets = append(p.targets, rt)
	// #nosec G115 -- pool size is bounded by available memory
	return gpucore.RenderTargetID(len(p.targets))
}

// RenderTarget returns the render target for the given handle.
func (p *ResourcePool) RenderTarget(id gpucore.RenderTargetID) (RenderTargetResource, bool) {
	if id == gpucore.InvalidID || int(id) > len(p.targets) {
		return RenderTargetResource{}, false
	}
	return p.targets[id-1], true
}

// RenderTargetCount returns the number of render targets in the pool.
func (p *ResourcePool) RenderTargetCount() int {
	return len(p.targets)
}

// Clear removes all resources from the pool.
func (p *ResourcePool) Clear() {
	p.textures = p.textures[:0]
	p.buffers = p.buffers[:0]
	p.targets = p.targets[:0]
}
