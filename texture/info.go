// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package texture provides texture descriptions and deferred texture
// proxies. A proxy stands in for a GPU texture that may not exist yet; it
// is resolved ("instantiated") through a Provider before any command
// referencing it is submitted.
package texture

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/upload/compress"
)

// DefaultUsage is the usage for textures created without explicit flags.
const DefaultUsage = gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding

// Info describes a texture.
type Info struct {
	// Width and Height are the base (level 0) dimensions in texels.
	Width  int
	Height int

	// Format is the texture pixel format. It is ignored for
	// block-compressed textures, which are described by Compression.
	Format gputypes.TextureFormat

	// Mipmapped indicates a full mip chain down to 1x1.
	Mipmapped bool

	// Compression is the block-compression scheme, or compress.KindNone.
	Compression compress.Kind

	// Usage specifies how the texture will be used.
	// Zero means DefaultUsage.
	Usage gputypes.TextureUsage

	// Label is an optional debug label.
	Label string
}

// IsValid reports whether the description is usable.
func (i Info) IsValid() bool {
	return i.Width > 0 && i.Height > 0 && i.Compression.IsValid()
}

// Bounds returns the full texture bounds in texel coordinates.
func (i Info) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.Width, i.Height)
}

// MipLevelCount returns the number of mip levels: the full chain length
// when Mipmapped, else 1.
func (i Info) MipLevelCount() int {
	if !i.Mipmapped {
		return 1
	}
	return compress.MipLevelCount(i.Width, i.Height)
}

// UsageOrDefault returns Usage, substituting DefaultUsage for zero.
func (i Info) UsageOrDefault() gputypes.TextureUsage {
	if i.Usage == 0 {
		return DefaultUsage
	}
	return i.Usage
}
