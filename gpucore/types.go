package gpucore

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Resource IDs
//
// These opaque IDs represent GPU resources. Each executor implementation
// maintains a mapping between IDs and actual backend resources.
// IDs are uint64 to accommodate various backend handle sizes.

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// RenderTargetID is an opaque handle to a viewport-sized render target.
type RenderTargetID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// targetKind discriminates TargetRef.
type targetKind uint8

const (
	targetBackBuffer targetKind = iota
	targetRenderTarget
	targetNone
)

// TargetRef selects what a single render-target slot writes to.
// The zero value selects the back buffer.
type TargetRef struct {
	kind targetKind
	id   RenderTargetID
}

// BackBuffer returns a slot reference to the swap-chain back buffer.
func BackBuffer() TargetRef { return TargetRef{kind: targetBackBuffer} }

// RenderTarget returns a slot reference to a script-created render target.
func RenderTarget(id RenderTargetID) TargetRef {
	return TargetRef{kind: targetRenderTarget, id: id}
}

// NoTarget returns a slot reference that disables writes to the slot.
func NoTarget() TargetRef { return TargetRef{kind: targetNone} }

// IsBackBuffer reports whether the slot writes to the back buffer.
func (t TargetRef) IsBackBuffer() bool { return t.kind == targetBackBuffer }

// IsNone reports whether writes to the slot are disabled.
func (t TargetRef) IsNone() bool { return t.kind == targetNone }

// ID returns the render target ID, or InvalidID for the back buffer and
// disabled slots.
func (t TargetRef) ID() RenderTargetID {
	if t.kind != targetRenderTarget {
		return InvalidID
	}
	return t.id
}

func (t TargetRef) String() string {
	switch t.kind {
	case targetBackBuffer:
		return "backbuffer"
	case targetNone:
		return "none"
	default:
		return fmt.Sprintf("rt#%d", t.id)
	}
}

// DepthRef selects the depth buffer bound for a draw call.
type DepthRef uint8

const (
	// DepthAuto leaves the choice to the draw method or view.
	DepthAuto DepthRef = iota

	// DepthDefault binds the viewport's default depth buffer.
	DepthDefault

	// DepthNone draws without a depth buffer.
	DepthNone
)

func (d DepthRef) String() string {
	switch d {
	case DepthAuto:
		return "auto"
	case DepthNone:
		return "none"
	}
	return "default"
}

// TextureDesc describes a 2D texture to create.
type TextureDesc struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the level 0 dimensions in pixels.
	Width, Height uint32

	// Format is the texel format of every level.
	Format gputypes.TextureFormat

	// MipLevelCount is the number of levels supplied with the texture data.
	MipLevelCount uint32
}

// BufferDesc describes a typed GPU buffer.
type BufferDesc struct {
	// Label is an optional debug label.
	Label string

	// ElementCount is the number of elements of Format in the buffer.
	ElementCount uint32

	// Format is the element format.
	Format gputypes.TextureFormat

	// UAV requests unordered-access (read/write storage) usage.
	UAV bool
}

// RenderTargetDesc describes a render target sized relative to the viewport.
type RenderTargetDesc struct {
	// Label is an optional debug label.
	Label string

	// Format is the colour format of the target.
	Format gputypes.TextureFormat

	// ScaleX and ScaleY multiply the viewport dimensions.
	// A value of 1 makes the target viewport-sized.
	ScaleX, ScaleY float32
}

// BytesPerElement returns the size of one texel or buffer element of f,
// or 0 for formats the core does not encode.
func BytesPerElement(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatR32Float:
		return 4
	case gputypes.TextureFormatRG32Float:
		return 8
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		return 0
	}
}
