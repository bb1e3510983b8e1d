// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"errors"
	"fmt"
	"image"
	"sync"

	types "github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/upload/staging"
	"github.com/gogpu/upload/texture"
)

// Command buffer errors.
var (
	// ErrTextureNotInstantiated is returned when a copy targets a proxy
	// with no backing texture.
	ErrTextureNotInstantiated = errors.New("upload: destination texture not instantiated")

	// ErrNilStagingBuffer is returned when a copy has no source buffer.
	ErrNilStagingBuffer = errors.New("upload: nil staging buffer")

	// ErrNoCopyRegions is returned when a copy carries no regions.
	ErrNoCopyRegions = errors.New("upload: no copy regions")
)

// BufferTextureCopy describes one buffer-to-texture copy region.
type BufferTextureCopy struct {
	// BufferOffset is the byte offset of the region's first row in the
	// staging buffer.
	BufferOffset uint64

	// BufferRowBytes is the stride between rows in the staging buffer
	// (block-rows for compressed data).
	BufferRowBytes uint64

	// Rect is the destination region in level-0 texel coordinates of
	// the target mip level's space.
	Rect image.Rectangle

	// MipLevel is the destination mip level.
	MipLevel int
}

// CommandBuffer receives upload work at snap time. It owns the staging
// buffers handed to it until the GPU has consumed them.
type CommandBuffer interface {
	staging.BufferHolder

	// CopyBufferToTexture records one copy from src into dst covering
	// every region in copies.
	CopyBufferToTexture(src *staging.Buffer, dst *texture.Proxy, copies []BufferTextureCopy) error
}

// BufferTextureCopyOp is one recorded copy region in HAL terms, ready for
// a backend queue or encoder to execute.
type BufferTextureCopyOp struct {
	// Buffer is the source buffer handle. Nil when recording without a
	// device.
	Buffer hal.Buffer

	// Layout describes the source rows within Buffer.
	Layout hal.ImageDataLayout

	// Destination identifies the target texture region.
	Destination hal.ImageCopyTexture

	// Size is the copy extent in texels.
	Size hal.Extent3D
}

// HALCommandBuffer is a CommandBuffer that lowers upload copies into
// HAL-level operations and keeps their staging memory alive. A backend
// drains Ops into its queue and calls ReleaseUploadBuffers once the GPU
// work has completed.
//
// HALCommandBuffer is safe for concurrent use.
type HALCommandBuffer struct {
	mu      sync.Mutex
	ops     []BufferTextureCopyOp
	buffers []*staging.Buffer
}

// NewHALCommandBuffer returns an empty command buffer.
func NewHALCommandBuffer() *HALCommandBuffer {
	return &HALCommandBuffer{}
}

// TrackUploadBuffer takes ownership of a filled staging buffer.
func (cb *HALCommandBuffer) TrackUploadBuffer(b *staging.Buffer) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.buffers = append(cb.buffers, b)
}

// CopyBufferToTexture records one copy from src into dst covering every
// region in copies.
func (cb *HALCommandBuffer) CopyBufferToTexture(src *staging.Buffer, dst *texture.Proxy, copies []BufferTextureCopy) error {
	if src == nil || src.IsDestroyed() {
		return ErrNilStagingBuffer
	}
	if len(copies) == 0 {
		return ErrNoCopyRegions
	}
	if !dst.IsInstantiated() {
		return fmt.Errorf("%w: %q", ErrTextureNotInstantiated, dst.Info().Label)
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()
	for _, c := range copies {
		cb.ops = append(cb.ops, BufferTextureCopyOp{
			Buffer: src.Raw(),
			Layout: hal.ImageDataLayout{
				Offset:       c.BufferOffset,
				BytesPerRow:  uint32(c.BufferRowBytes),
				RowsPerImage: uint32(c.Rect.Dy()),
			},
			Destination: hal.ImageCopyTexture{
				Texture:  dst.Texture(),
				MipLevel: uint32(c.MipLevel),
				Origin:   hal.Origin3D{X: uint32(c.Rect.Min.X), Y: uint32(c.Rect.Min.Y), Z: 0},
				Aspect:   types.TextureAspectAll,
			},
			Size: hal.Extent3D{
				Width:              uint32(c.Rect.Dx()),
				Height:             uint32(c.Rect.Dy()),
				DepthOrArrayLayers: 1,
			},
		})
	}
	return nil
}

// Ops returns the recorded copy operations in submission order.
func (cb *HALCommandBuffer) Ops() []BufferTextureCopyOp {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.ops
}

// TrackedBuffers returns the staging buffers this command buffer owns.
func (cb *HALCommandBuffer) TrackedBuffers() []*staging.Buffer {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.buffers
}

// ReleaseUploadBuffers destroys all tracked staging buffers. Call after
// the GPU has consumed the recorded copies.
func (cb *HALCommandBuffer) ReleaseUploadBuffers() {
	cb.mu.Lock()
	buffers := cb.buffers
	cb.buffers = nil
	cb.mu.Unlock()

	for _, b := range buffers {
		b.Destroy()
	}
}

var _ CommandBuffer = (*HALCommandBuffer)(nil)
