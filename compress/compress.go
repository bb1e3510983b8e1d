// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compress describes block-compressed texture formats.
//
// Block-compressed formats encode fixed-size rectangular texel groups
// (blocks) into fixed-size byte payloads. All sizing arithmetic for
// compressed uploads runs in block units: a 13x7 texel image in a 4x4
// block format occupies a 4x2 block grid.
package compress

import (
	"fmt"
	"math/bits"
)

// Kind identifies a texture compression scheme.
type Kind uint8

const (
	// KindNone means the texture is uncompressed. For layout purposes it
	// behaves as a 1x1 block format.
	KindNone Kind = iota

	// KindETC2RGB8 is ETC2 RGB, 4x4 texel blocks of 8 bytes.
	KindETC2RGB8

	// KindBC1RGB8 is BC1 (DXT1) RGB, 4x4 texel blocks of 8 bytes.
	KindBC1RGB8

	// KindBC1RGBA8 is BC1 (DXT1) RGBA with 1-bit alpha, 4x4 texel blocks
	// of 8 bytes.
	KindBC1RGBA8

	kindCount
)

// String returns a human-readable name for the compression kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindETC2RGB8:
		return "ETC2_RGB8"
	case KindBC1RGB8:
		return "BC1_RGB8"
	case KindBC1RGBA8:
		return "BC1_RGBA8"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// IsValid reports whether k is a known compression kind.
func (k Kind) IsValid() bool {
	return k < kindCount
}

// BlockBytes returns the encoded size of one block in bytes.
// It returns 0 for KindNone, whose per-texel size is format-dependent.
func (k Kind) BlockBytes() int {
	switch k {
	case KindETC2RGB8, KindBC1RGB8, KindBC1RGBA8:
		return 8
	default:
		return 0
	}
}

// BlockDims returns the texel width and height of one block.
// KindNone reports 1x1.
func (k Kind) BlockDims() (w, h int) {
	if k == KindNone || !k.IsValid() {
		return 1, 1
	}
	return 4, 4
}

// DimensionsInBlocks returns the block-grid dimensions covering a width x
// height texel region, rounding partial blocks up.
func (k Kind) DimensionsInBlocks(width, height int) (w, h int) {
	bw, bh := k.BlockDims()
	return (width + bw - 1) / bw, (height + bh - 1) / bh
}

// RowBytes returns the tightly-packed byte size of one block-row spanning
// width texels. It returns 0 for KindNone.
func (k Kind) RowBytes(width int) int {
	if k == KindNone {
		return 0
	}
	bw, _ := k.DimensionsInBlocks(width, 1)
	return bw * k.BlockBytes()
}

// MipLevelCount returns the number of levels in a full mip chain over a
// width x height base image: 1 + floor(log2(max dimension)). Dimensions
// below 1 are treated as 1.
func MipLevelCount(width, height int) int {
	d := max(width, height, 1)
	return bits.Len(uint(d))
}

// DataSize returns the total byte size of a tightly-packed compressed
// payload for a width x height texture, plus the byte offset of each mip
// level within it. A non-mipmapped payload holds a single level. KindNone
// yields 0 and no offsets.
func DataSize(k Kind, width, height int, mipmapped bool) (int, []int) {
	if k == KindNone || !k.IsValid() {
		return 0, nil
	}

	levels := 1
	if mipmapped {
		levels = MipLevelCount(width, height)
	}

	offsets := make([]int, 0, levels)
	total := 0
	w, h := width, height
	for level := 0; level < levels; level++ {
		bw, bh := k.DimensionsInBlocks(w, h)
		offsets = append(offsets, total)
		total += bw * bh * k.BlockBytes()
		w = max(1, w/2)
		h = max(1, h/2)
	}
	return total, offsets
}
