// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle is the upload layer's name for gpucontext.DeviceProvider.
// Hosts that share one GPU device across the gogpu stack hand the same
// provider to the upload layer; the recorder derives its HAL device and
// surface format from it instead of creating anything of its own.
type DeviceHandle = gpucontext.DeviceProvider

// halDeviceFrom extracts the wgpu/hal device behind a handle. Providers
// that can share HAL types expose them through HalDevice() any by gogpu
// convention; anything else yields nil and the recorder runs CPU-only.
func halDeviceFrom(handle DeviceHandle) hal.Device {
	type halProvider interface {
		HalDevice() any
	}
	hp, ok := handle.(halProvider)
	if !ok {
		return nil
	}
	device, _ := hp.HalDevice().(hal.Device)
	return device
}

// NullDeviceHandle is the handle for recording without a GPU: every
// accessor reports the absence of a device. Uploads recorded against it
// stage into CPU-only buffers.
type NullDeviceHandle struct{}

// Device returns nil; there is no device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil; there is no queue.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil; there is no adapter.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns the zero value; there is no adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{}
}

// SurfaceFormat returns the undefined format; there is no surface.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ DeviceHandle = NullDeviceHandle{}
