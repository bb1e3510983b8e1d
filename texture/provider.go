// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	types "github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNilDevice is returned when a provider has no HAL device.
var ErrNilDevice = errors.New("texture: nil HAL device")

// Provider creates backing textures for proxies.
type Provider interface {
	// CreateTexture allocates a texture matching info.
	CreateTexture(info Info) (hal.Texture, error)
}

// HALProvider is a Provider backed by a wgpu HAL device.
type HALProvider struct {
	device hal.Device
}

// NewHALProvider returns a provider allocating through device.
func NewHALProvider(device hal.Device) *HALProvider {
	return &HALProvider{device: device}
}

// CreateTexture allocates a 2D texture matching info.
func (p *HALProvider) CreateTexture(info Info) (hal.Texture, error) {
	if p.device == nil {
		return nil, ErrNilDevice
	}
	if !info.IsValid() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidInfo, info.Width, info.Height)
	}

	desc := &hal.TextureDescriptor{
		Label: info.Label,
		Size: hal.Extent3D{
			Width:              uint32(info.Width),
			Height:             uint32(info.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: uint32(info.MipLevelCount()),
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        halTextureFormat(info.Format),
		Usage:         halTextureUsage(info.UsageOrDefault()),
	}

	tex, err := p.device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("texture: failed to create texture: %w", err)
	}
	return tex, nil
}

// DestroyTexture releases a texture created by this provider.
func (p *HALProvider) DestroyTexture(tex hal.Texture) {
	if p.device == nil || tex == nil {
		return
	}
	p.device.DestroyTexture(tex)
}

// halTextureFormat converts gputypes.TextureFormat to types.TextureFormat.
func halTextureFormat(format gputypes.TextureFormat) types.TextureFormat {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		return types.TextureFormatRGBA8Unorm
	case gputypes.TextureFormatBGRA8Unorm:
		return types.TextureFormatBGRA8Unorm
	case gputypes.TextureFormatR8Unorm:
		return types.TextureFormatR8Unorm
	default:
		return types.TextureFormatRGBA8Unorm
	}
}

// halTextureUsage converts gputypes.TextureUsage to types.TextureUsage.
func halTextureUsage(usage gputypes.TextureUsage) types.TextureUsage {
	var out types.TextureUsage
	if usage&gputypes.TextureUsageCopySrc != 0 {
		out |= types.TextureUsageCopySrc
	}
	if usage&gputypes.TextureUsageCopyDst != 0 {
		out |= types.TextureUsageCopyDst
	}
	if usage&gputypes.TextureUsageTextureBinding != 0 {
		out |= types.TextureUsageTextureBinding
	}
	if usage&gputypes.TextureUsageRenderAttachment != 0 {
		out |= types.TextureUsageRenderAttachment
	}
	return out
}
