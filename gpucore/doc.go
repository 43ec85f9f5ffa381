// Package gpucore defines the opaque resource handles and resource descriptors
// shared between framekit and the GPU layer that actually executes work.
//
// framekit never owns GPU objects. Textures, buffers and render targets are
// created by the host's executor and referenced through the small integer
// handles declared here ([TextureID], [BufferID], [RenderTargetID]). Each
// executor implementation maintains the mapping between IDs and the real
// backend resources.
//
// Render target slots and depth buffer selection are described with
// [TargetRef] and [DepthRef]:
//
//	targets := []gpucore.TargetRef{
//	    gpucore.RenderTarget(gbuffer),
//	    gpucore.NoTarget(),    // slot 1 is not written
//	    gpucore.BackBuffer(),
//	}
//
// The zero TargetRef is the back buffer, so an omitted target list means
// "draw to the screen", matching the behaviour scripts expect.
package gpucore
