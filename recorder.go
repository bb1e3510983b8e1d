// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/upload/staging"
	"github.com/gogpu/upload/texture"
)

// RecorderOptions configures a Recorder. Zero fields get defaults.
type RecorderOptions struct {
	// Caps are the device capabilities. Nil means WebGPU defaults.
	Caps Caps

	// Device is the HAL device backing staging memory and textures.
	// Nil means derive it from Handle; CPU-only recording when neither
	// yields a device.
	Device hal.Device

	// Handle is the gpucontext device handle shared with the host
	// application. Nil means NullDeviceHandle.
	Handle DeviceHandle

	// Provider creates backing textures at preparation time. Nil means
	// a HAL provider over Device.
	Provider texture.Provider
}

// Recorder owns the per-recording upload state: capability queries,
// staging memory, and the list of uploads pending a snap.
//
// A Recorder is confined to a single goroutine.
type Recorder struct {
	caps     Caps
	device   hal.Device
	handle   DeviceHandle
	staging  *staging.Manager
	provider texture.Provider

	pending List
}

// NewRecorder returns a recorder with the given options.
func NewRecorder(opts RecorderOptions) *Recorder {
	caps := opts.Caps
	if caps == nil {
		caps = NewWGPUCaps()
	}
	handle := opts.Handle
	if handle == nil {
		handle = NullDeviceHandle{}
	}
	device := opts.Device
	if device == nil {
		device = halDeviceFrom(handle)
	}
	provider := opts.Provider
	if provider == nil {
		provider = texture.NewHALProvider(device)
	}
	return &Recorder{
		caps:     caps,
		device:   device,
		handle:   handle,
		staging:  staging.NewManager(device, caps.RequiredTransferBufferAlignment(1)),
		provider: provider,
	}
}

// Caps returns the device capabilities.
func (r *Recorder) Caps() Caps { return r.caps }

// DeviceHandle returns the shared gpucontext device handle.
func (r *Recorder) DeviceHandle() DeviceHandle { return r.handle }

// SurfaceTargetInfo describes a texture matching the host's surface
// format, for upload targets that will be composited onto the surface.
// A handle without a surface (headless or null) falls back to RGBA8.
func (r *Recorder) SurfaceTargetInfo(width, height int) texture.Info {
	format := r.handle.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	return texture.Info{
		Width:  width,
		Height: height,
		Format: format,
	}
}

// TextureProvider returns the provider used to instantiate proxies.
func (r *Recorder) TextureProvider() texture.Provider { return r.provider }

// Staging returns the staging buffer manager.
func (r *Recorder) Staging() *staging.Manager { return r.staging }

// PendingUploads returns the list collecting uploads until the next snap.
func (r *Recorder) PendingUploads() *List { return &r.pending }

// SnapUploadTask takes the pending uploads and wraps them in a task.
// It returns nil when nothing is pending.
func (r *Recorder) SnapUploadTask() *UploadTask {
	return NewTask(&r.pending)
}

// TransferStaging unmaps all filled staging buffers and hands their
// ownership to cb. Call once per snap, after the task's commands are
// known to reference the buffers.
func (r *Recorder) TransferStaging(cb CommandBuffer) error {
	return r.staging.TransferToCommandBuffer(cb)
}

// Abandon destroys all pending staging memory without transferring it.
func (r *Recorder) Abandon() {
	r.pending.instances = nil
	r.staging.Reset()
}
