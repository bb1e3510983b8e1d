// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"image"

	"github.com/gogpu/upload/compress"
	"github.com/gogpu/upload/internal/debug"
)

// mipLevelLayout locates one mip level's rows inside a combined staging
// reservation.
type mipLevelLayout struct {
	// offset is the level's byte offset from the reservation start.
	offset uint64

	// rowBytes is the aligned stride between rows (block-rows for
	// compressed data).
	rowBytes uint64
}

// computeCombinedBufferSize plans the staging layout for mipLevelCount
// levels of a baseDims upload. bytesPerBlock is the byte width of one
// texel for uncompressed data, or one block for compressed data.
//
// Every level offset is aligned to the returned alignment, which is the
// larger of bytesPerBlock and the device's transfer alignment. Row sizes
// are padded to the device row pitch. Level dimensions halve per level,
// clamped at one texel, and are converted to block-grid dimensions before
// sizing when kind is a compressed format.
//
// Returns zero size and nil levels for a degenerate request.
func computeCombinedBufferSize(caps Caps, mipLevelCount, bytesPerBlock int, baseDims image.Point, kind compress.Kind) (size, alignment uint64, levels []mipLevelLayout) {
	debug.Assert(mipLevelCount >= 1, "mip level count %d", mipLevelCount)
	debug.Assert(bytesPerBlock > 0, "bytes per block %d", bytesPerBlock)

	if mipLevelCount < 1 || bytesPerBlock <= 0 || baseDims.X <= 0 || baseDims.Y <= 0 {
		return 0, 0, nil
	}

	alignment = caps.RequiredTransferBufferAlignment(bytesPerBlock)
	levels = make([]mipLevelLayout, 0, mipLevelCount)

	w, h := baseDims.X, baseDims.Y
	for level := 0; level < mipLevelCount; level++ {
		bw, bh := kind.DimensionsInBlocks(w, h)
		rowBytes := caps.AlignedTextureDataRowBytes(uint64(bw * bytesPerBlock))

		levels = append(levels, mipLevelLayout{offset: size, rowBytes: rowBytes})
		size += alignTo(rowBytes*uint64(bh), alignment)

		w = max(1, w/2)
		h = max(1, h/2)
	}
	return size, alignment, levels
}
