// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the integration layer between framekit and the
// host's GPU device.
//
// # Key Principle
//
// framekit RECEIVES a GPU device from the host application, it does NOT
// create its own. The host passes a DeviceHandle (a
// gpucontext.DeviceProvider) and an executor that owns the real GPU
// objects; this package translates framekit descriptions into the forms
// those collaborators need.
//
// # Contents
//
//   - DeviceHandle: GPU device access from the host application
//   - BackBufferFormat: the colour format scripts get for the back buffer
//   - DescribeTexture, DescribeRenderTarget: gputypes texture descriptors
//     derived from framekit texture and render target descriptors
//   - ModuleRegistry: uploads compiled shader programs as HAL shader
//     modules, once per program
//
// # Usage
//
//	handle := app.DeviceProvider()
//	modules, err := render.NewModuleRegistry(handle)
//	if err != nil {
//	    // host does not expose HAL access
//	}
//	defer modules.Close()
//
//	mod, err := modules.Module(program)
package render
