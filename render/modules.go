// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/framekit/shader"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoHAL is returned when a device handle does not expose HAL access.
var ErrNoHAL = errors.New("render: device does not expose a HAL device")

// ErrRegistryClosed is returned by a ModuleRegistry after Close.
var ErrRegistryClosed = errors.New("render: module registry closed")

// halProvider is implemented by hosts that give direct HAL access, such
// as gogpu.
type halProvider interface {
	HalDevice() any
}

// ModuleRegistry uploads compiled programs as HAL shader modules. Each
// program is uploaded once; programs are keyed by identity of the
// *shader.Program, which the shader cache shares between all callers of
// the same variant.
//
// ModuleRegistry is safe for concurrent use.
type ModuleRegistry struct {
	device hal.Device

	mu      sync.Mutex
	modules map[*shader.Program]hal.ShaderModule
	closed  bool
}

// NewModuleRegistry returns a registry for the HAL device behind h. The
// handle must implement HalDevice() any returning a hal.Device.
func NewModuleRegistry(h DeviceHandle) (*ModuleRegistry, error) {
	hp, ok := h.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHAL, hp.HalDevice())
	}
	return NewModuleRegistryForDevice(device), nil
}

// NewModuleRegistryForDevice returns a registry that uploads to device.
func NewModuleRegistryForDevice(device hal.Device) *ModuleRegistry {
	return &ModuleRegistry{
		device:  device,
		modules: make(map[*shader.Program]hal.ShaderModule),
	}
}

// Module returns the shader module for p, uploading it on first use.
func (r *ModuleRegistry) Module(p *shader.Program) (hal.ShaderModule, error) {
	if p == nil {
		return nil, errors.New("render: nil program")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}
	if m, ok := r.modules[p]; ok {
		return m, nil
	}
	words := p.SPIRV()
	if len(words) == 0 {
		return nil, fmt.Errorf("render: %s: empty SPIR-V bytecode", p)
	}
	m, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.String(),
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("render: create shader module %s: %w", p, err)
	}
	r.modules[p] = m
	return m, nil
}

// Release destroys the module of p, if any. Hosts call it for programs
// the shader cache evicted.
func (r *ModuleRegistry) Release(p *shader.Program) {
	r.mu.Lock()
	m, ok := r.modules[p]
	if ok {
		delete(r.modules, p)
	}
	r.mu.Unlock()

	if ok {
		r.device.DestroyShaderModule(m)
	}
}

// Len returns the number of uploaded modules.
func (r *ModuleRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.modules)
}

// Close destroys every module. Close is idempotent.
func (r *ModuleRegistry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	mods := r.modules
	r.modules = nil
	r.mu.Unlock()

	for _, m := range mods {
		r.device.DestroyShaderModule(m)
	}
}
