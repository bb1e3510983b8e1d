// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package staging manages CPU-visible transfer buffers for texture
// uploads. Pixel data is written into mapped staging memory at recording
// time; at snap time ownership of the filled buffers moves to the command
// buffer that consumes them, keeping the memory alive until the GPU work
// completes.
package staging

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Staging buffer errors.
var (
	// ErrBufferDestroyed is returned when operating on a destroyed buffer.
	ErrBufferDestroyed = errors.New("staging: buffer has been destroyed")

	// ErrBufferNotMapped is returned when accessing an unmapped buffer.
	ErrBufferNotMapped = errors.New("staging: buffer is not mapped")

	// ErrInvalidRange is returned when a range is out of bounds.
	ErrInvalidRange = errors.New("staging: range out of bounds")

	// ErrInvalidSize is returned when a buffer size is zero.
	ErrInvalidSize = errors.New("staging: invalid buffer size")
)

// Buffer is a mapped, CPU-visible transfer buffer.
//
// A staging buffer is created mapped for writing and stays mapped while
// upload writers fill it. Unmap flushes the written data for GPU reads;
// Destroy releases the GPU allocation.
//
// Buffer is safe for concurrent access.
type Buffer struct {
	// mu protects mutable state.
	mu sync.RWMutex

	// halBuffer is the underlying buffer handle. Nil when running
	// without a device.
	halBuffer hal.Buffer

	// device is the parent device. Nil when running without a device.
	device hal.Device

	label string
	size  uint64

	// mapped holds the writable mapping. Nil once unmapped.
	//
	// TODO: read the mapped pointer from the HAL once buffer mapping
	// lands there; until then this is a CPU shadow of the allocation.
	mapped []byte

	destroyed bool
}

// newBuffer allocates a transfer buffer of the given size, mapped at
// creation. A nil device yields a CPU-only buffer, which keeps recording
// usable without a GPU.
func newBuffer(device hal.Device, size uint64, label string) (*Buffer, error) {
	if size == 0 {
		return nil, ErrInvalidSize
	}

	var halBuffer hal.Buffer
	if device != nil {
		desc := &hal.BufferDescriptor{
			Label:            label,
			Size:             size,
			Usage:            gputypes.BufferUsageMapWrite | gputypes.BufferUsageCopySrc,
			MappedAtCreation: true,
		}
		var err error
		halBuffer, err = device.CreateBuffer(desc)
		if err != nil {
			return nil, fmt.Errorf("staging: buffer creation failed: %w", err)
		}
	}

	return &Buffer{
		halBuffer: halBuffer,
		device:    device,
		label:     label,
		size:      size,
		mapped:    make([]byte, size),
	}, nil
}

// Label returns the buffer's debug label.
func (b *Buffer) Label() string { return b.label }

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// IsDestroyed reports whether the buffer has been destroyed.
func (b *Buffer) IsDestroyed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.destroyed
}

// IsMapped reports whether the buffer is currently mapped for writing.
func (b *Buffer) IsMapped() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mapped != nil
}

// Raw returns the underlying buffer handle.
//
// Returns nil if the buffer has been destroyed or has no device.
func (b *Buffer) Raw() hal.Buffer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.destroyed {
		return nil
	}
	return b.halBuffer
}

// MappedRange returns the writable byte slice for [offset, offset+size).
//
// The slice is only valid while the buffer is mapped.
func (b *Buffer) MappedRange(offset, size uint64) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return nil, ErrBufferDestroyed
	}
	if b.mapped == nil {
		return nil, ErrBufferNotMapped
	}
	if offset > b.size || offset+size > b.size {
		return nil, fmt.Errorf("%w: offset %d + size %d > buffer size %d",
			ErrInvalidRange, offset, size, b.size)
	}
	return b.mapped[offset : offset+size], nil
}

// Unmap flushes written data and invalidates slices returned by
// MappedRange. Unmapping an already-unmapped buffer is a no-op.
func (b *Buffer) Unmap() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return ErrBufferDestroyed
	}
	b.mapped = nil
	return nil
}

// Destroy releases the buffer. It is idempotent.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.destroyed = true
	device := b.device
	halBuf := b.halBuffer
	b.halBuffer = nil
	b.mapped = nil
	b.mu.Unlock()

	if device != nil && halBuf != nil {
		device.DestroyBuffer(halBuf)
	}
}
