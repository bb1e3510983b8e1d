// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/upload/pixel"
	"github.com/gogpu/upload/texture"
)

// Caps exposes the device capabilities that shape upload layout and
// pixel-type negotiation.
type Caps interface {
	// RequiredTransferBufferAlignment returns the buffer offset alignment
	// for a transfer whose texel blocks are bytesPerBlock wide. The result
	// is at least bytesPerBlock.
	RequiredTransferBufferAlignment(bytesPerBlock int) uint64

	// AlignedTextureDataRowBytes rounds rowBytes up to the device's
	// required bytes-per-row alignment for buffer-to-texture copies.
	AlignedTextureDataRowBytes(rowBytes uint64) uint64

	// IsTexturable reports whether a texture matching info can be created
	// and sampled on this device.
	IsTexturable(info texture.Info) bool

	// SupportedWritePixelsType negotiates the on-the-wire pixel type for
	// writing src-typed data into a texture whose contents are dst-typed.
	// It returns pixel.Unknown when no supported write path exists.
	SupportedWritePixelsType(dst texture.Info, dstType, srcType pixel.Type) pixel.Type

	// FullCompressedUploadSizeMustAlignToBlockDims reports whether
	// compressed copy regions must be recorded with block-aligned
	// dimensions rather than the texture's texel dimensions.
	FullCompressedUploadSizeMustAlignToBlockDims() bool
}

// WGPUCaps implements Caps with WebGPU's transfer rules.
//
// The zero value is not usable; call NewWGPUCaps for defaults.
type WGPUCaps struct {
	// TransferBufferAlignment is the minimum buffer offset alignment for
	// copy operations.
	TransferBufferAlignment uint64

	// RowBytesAlignment is the required bytes-per-row alignment for
	// buffer-to-texture copies.
	RowBytesAlignment uint64

	// MaxTextureSize is the largest supported texture dimension.
	MaxTextureSize int

	// PackedRGBTextures indicates the device stores RGB textures as
	// three bytes per texel. Uploads to such textures drop the CPU-side
	// padding byte while staging.
	PackedRGBTextures bool

	// CompressedUploadAlignsToBlocks forces compressed copy regions to
	// block-aligned dimensions.
	CompressedUploadAlignsToBlocks bool
}

// NewWGPUCaps returns caps with WebGPU default limits: 4-byte transfer
// offsets, 256-byte row pitch, 8192 max texture dimension.
func NewWGPUCaps() *WGPUCaps {
	return &WGPUCaps{
		TransferBufferAlignment: 4,
		RowBytesAlignment:       256,
		MaxTextureSize:          8192,
	}
}

// RequiredTransferBufferAlignment returns the buffer offset alignment for
// bytesPerBlock-wide texel blocks.
func (c *WGPUCaps) RequiredTransferBufferAlignment(bytesPerBlock int) uint64 {
	return max(uint64(bytesPerBlock), c.TransferBufferAlignment)
}

// AlignedTextureDataRowBytes rounds rowBytes up to the copy row pitch.
func (c *WGPUCaps) AlignedTextureDataRowBytes(rowBytes uint64) uint64 {
	return alignTo(rowBytes, c.RowBytesAlignment)
}

// IsTexturable reports whether a texture matching info is supported.
func (c *WGPUCaps) IsTexturable(info texture.Info) bool {
	if !info.IsValid() {
		return false
	}
	if info.Width > c.MaxTextureSize || info.Height > c.MaxTextureSize {
		return false
	}
	if info.Compression.IsValid() && info.Compression.BlockBytes() > 0 {
		return true
	}
	switch info.Format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatR8Unorm:
		return true
	default:
		return false
	}
}

// SupportedWritePixelsType negotiates the wire pixel type for a write.
func (c *WGPUCaps) SupportedWritePixelsType(dst texture.Info, dstType, srcType pixel.Type) pixel.Type {
	if !c.IsTexturable(dst) || !dstType.IsValid() || !srcType.IsValid() {
		return pixel.Unknown
	}
	if dst.Compression.BlockBytes() > 0 {
		// Compressed textures take pre-encoded payloads, not pixels.
		return pixel.Unknown
	}

	switch dstType {
	case pixel.RGB888x:
		if c.PackedRGBTextures {
			return pixel.RGB888x
		}
		// Four-byte RGBx; the padding byte rides along.
		return pixel.RGBA8
	case pixel.Alpha8, pixel.Gray8:
		if srcType.BytesPerPixel() != 1 {
			return pixel.Unknown
		}
		return dstType
	default:
		return dstType
	}
}

// FullCompressedUploadSizeMustAlignToBlockDims reports whether compressed
// copy regions use block-aligned dimensions.
func (c *WGPUCaps) FullCompressedUploadSizeMustAlignToBlockDims() bool {
	return c.CompressedUploadAlignsToBlocks
}

var _ Caps = (*WGPUCaps)(nil)

// alignTo rounds v up to the next multiple of align. align need not be a
// power of two.
func alignTo(v, align uint64) uint64 {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}
