// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package staging

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// DefaultBlockSize is the allocation granularity for pooled staging
// buffers. Requests larger than a block get a dedicated buffer.
const DefaultBlockSize = 64 << 10

// BufferInfo locates a suballocation within a staging buffer.
type BufferInfo struct {
	// Buffer is the owning staging buffer, or nil when acquisition
	// failed.
	Buffer *Buffer

	// Offset is the byte offset of the suballocation.
	Offset uint64
}

// IsValid reports whether the info refers to a live suballocation.
func (i BufferInfo) IsValid() bool { return i.Buffer != nil }

// BufferHolder receives ownership of filled staging buffers. A command
// buffer implements this to keep upload memory alive until the GPU work
// that reads it has completed.
type BufferHolder interface {
	// TrackUploadBuffer takes ownership of a filled, unmapped buffer.
	TrackUploadBuffer(*Buffer)
}

// Manager suballocates upload writers out of pooled staging buffers.
//
// A manager belongs to a single recorder and is not safe for concurrent
// use. Filled buffers accumulate until TransferToCommandBuffer hands them
// off at snap time.
type Manager struct {
	device    hal.Device
	blockSize uint64

	// minAlignment is the device's required transfer buffer alignment.
	minAlignment uint64

	// current is the partially-filled buffer new writers pack into.
	current *Buffer
	used    uint64

	// full holds filled buffers awaiting transfer.
	full []*Buffer
}

// NewManager returns a manager allocating through device. minAlignment is
// the device's required transfer buffer offset alignment; zero means
// byte-aligned. A nil device yields CPU-only staging memory.
func NewManager(device hal.Device, minAlignment uint64) *Manager {
	if minAlignment == 0 {
		minAlignment = 1
	}
	return &Manager{
		device:       device,
		blockSize:    DefaultBlockSize,
		minAlignment: minAlignment,
	}
}

// AcquireTextureWriter reserves size bytes of mapped staging memory whose
// buffer offset is aligned to alignment, and returns a writer over it.
// The writer stays valid until TransferToCommandBuffer or Reset.
func (m *Manager) AcquireTextureWriter(size, alignment uint64) (Writer, BufferInfo, error) {
	if size == 0 {
		return Writer{}, BufferInfo{}, ErrInvalidSize
	}
	alignment = max(alignment, m.minAlignment)

	offset := alignUp(m.used, alignment)
	if m.current == nil || offset+size > m.current.Size() {
		if err := m.grow(size); err != nil {
			return Writer{}, BufferInfo{}, err
		}
		offset = 0
	}

	data, err := m.current.MappedRange(offset, size)
	if err != nil {
		return Writer{}, BufferInfo{}, err
	}
	m.used = offset + size

	return Writer{data: data}, BufferInfo{Buffer: m.current, Offset: offset}, nil
}

// grow retires the current buffer and allocates a fresh one large enough
// for a size-byte reservation.
func (m *Manager) grow(size uint64) error {
	if m.current != nil {
		m.full = append(m.full, m.current)
		m.current = nil
		m.used = 0
	}

	alloc := max(size, m.blockSize)
	buf, err := newBuffer(m.device, alloc, fmt.Sprintf("staging-%d", len(m.full)))
	if err != nil {
		return err
	}
	m.current = buf
	m.used = 0
	return nil
}

// TransferToCommandBuffer unmaps every filled buffer and hands ownership
// to holder. The manager is left empty and ready for the next recording.
func (m *Manager) TransferToCommandBuffer(holder BufferHolder) error {
	if m.current != nil {
		m.full = append(m.full, m.current)
		m.current = nil
		m.used = 0
	}
	for _, buf := range m.full {
		if err := buf.Unmap(); err != nil {
			return err
		}
		holder.TrackUploadBuffer(buf)
	}
	m.full = nil
	return nil
}

// Reset destroys all pending buffers without transferring them. Used when
// a recording is abandoned.
func (m *Manager) Reset() {
	if m.current != nil {
		m.full = append(m.full, m.current)
		m.current = nil
		m.used = 0
	}
	for _, buf := range m.full {
		buf.Destroy()
	}
	m.full = nil
}

// alignUp rounds v up to the next multiple of align. align need not be a
// power of two.
func alignUp(v, align uint64) uint64 {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}
