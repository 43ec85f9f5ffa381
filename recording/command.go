package recording

import (
	"github.com/gogpu/framekit/frame"
	"github.com/gogpu/framekit/gpucore"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// Resource commands
	CmdCreateTexture2D    CommandType = iota // Create a 2D texture
	CmdCreateBuffer                          // Create a typed buffer
	CmdCreateRenderTarget                    // Create a render target

	// Frame commands
	CmdClear    // Clear render targets
	CmdDraw     // Draw geometry
	CmdDispatch // Dispatch compute work
)

var commandTypeNames = [...]string{
	CmdCreateTexture2D:    "CreateTexture2D",
	CmdCreateBuffer:       "CreateBuffer",
	CmdCreateRenderTarget: "CreateRenderTarget",
	CmdClear:              "Clear",
	CmdDraw:               "Draw",
	CmdDispatch:           "Dispatch",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// IsResource reports whether the command creates a resource.
func (c CommandType) IsResource() bool {
	return c <= CmdCreateRenderTarget
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// CreateTexture2DCommand records a texture creation. The texel data is
// kept in the resource pool under ID.
type CreateTexture2DCommand struct {
	ID   gpucore.TextureID
	Desc gpucore.TextureDesc
}

// Type implements Command.
func (CreateTexture2DCommand) Type() CommandType { return CmdCreateTexture2D }

// CreateBufferCommand records a buffer creation.
type CreateBufferCommand struct {
	ID   gpucore.BufferID
	Desc gpucore.BufferDesc
}

// Type implements Command.
func (CreateBufferCommand) Type() CommandType { return CmdCreateBuffer }

// CreateRenderTargetCommand records a render target creation.
type CreateRenderTargetCommand struct {
	ID   gpucore.RenderTargetID
	Desc gpucore.RenderTargetDesc

	// Width and Height are the pixel size for the recorder's viewport.
	Width, Height uint32
}

// Type implements Command.
func (CreateRenderTargetCommand) Type() CommandType { return CmdCreateRenderTarget }

// ClearCommand records a clear.
type ClearCommand struct {
	frame.ClearCall
}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }

// DrawCommand records a draw.
type DrawCommand struct {
	frame.DrawCall
}

// Type implements Command.
func (DrawCommand) Type() CommandType { return CmdDraw }

// DispatchCommand records a compute dispatch.
type DispatchCommand struct {
	frame.DispatchCall
}

// Type implements Command.
func (DispatchCommand) Type() CommandType { return CmdDispatch }
