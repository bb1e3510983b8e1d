// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package staging

import (
	"honnef.co/go/safeish"

	"github.com/gogpu/upload/internal/debug"
	"github.com/gogpu/upload/pixel"
)

// Writer writes pixel rows into a reserved range of mapped staging
// memory. Offsets are relative to the reservation, not the buffer.
//
// The zero Writer is invalid; writers come from
// Manager.AcquireTextureWriter.
type Writer struct {
	data []byte
}

// IsValid reports whether the writer has backing memory.
func (w Writer) IsValid() bool { return w.data != nil }

// Size returns the reservation size in bytes.
func (w Writer) Size() int { return len(w.data) }

// Write copies rowCount rows of trimRowBytes bytes each from src into the
// reservation at offset. srcRowBytes and dstRowBytes are the source and
// destination row strides; rows narrower than dstRowBytes leave the
// trailing padding untouched.
func (w Writer) Write(offset uint64, src []byte, srcRowBytes, dstRowBytes, trimRowBytes, rowCount int) {
	debug.Assert(trimRowBytes <= srcRowBytes || rowCount <= 1,
		"trim %d exceeds source stride %d", trimRowBytes, srcRowBytes)
	debug.Assert(trimRowBytes <= dstRowBytes,
		"trim %d exceeds destination stride %d", trimRowBytes, dstRowBytes)
	debug.Assert(int(offset)+(rowCount-1)*dstRowBytes+trimRowBytes <= len(w.data),
		"write of %d rows at offset %d overflows reservation of %d bytes",
		rowCount, offset, len(w.data))

	dst := w.data[offset:]
	if srcRowBytes == dstRowBytes && srcRowBytes == trimRowBytes {
		copy(dst, src[:rowCount*trimRowBytes])
		return
	}
	for r := range rowCount {
		copy(dst[r*dstRowBytes:][:trimRowBytes], src[r*srcRowBytes:][:trimRowBytes])
	}
}

// ConvertAndWrite color-converts a width x height region from src into
// the reservation at offset, re-encoding from srcInfo to dstInfo.
func (w Writer) ConvertAndWrite(offset uint64, dstInfo pixel.Info, dstRowBytes int, srcInfo pixel.Info, src []byte, srcRowBytes, width, height int) error {
	debug.Assert(int(offset)+(height-1)*dstRowBytes+dstInfo.Type.RowBytes(width) <= len(w.data),
		"conversion of %dx%d at offset %d overflows reservation of %d bytes",
		width, height, offset, len(w.data))

	return pixel.Convert(dstInfo, w.data[offset:], dstRowBytes, srcInfo, src, srcRowBytes, width, height)
}

// WriteRGBFromRGBx packs rowCount rows of rowPixels four-byte RGBx pixels
// from src into three-byte RGB at offset, dropping the padding byte.
// dstRowBytes is the destination row stride in bytes.
func (w Writer) WriteRGBFromRGBx(offset uint64, src []byte, srcRowBytes, dstRowBytes, rowPixels, rowCount int) {
	debug.Assert(rowPixels*4 <= srcRowBytes || rowCount <= 1,
		"row of %d pixels exceeds source stride %d", rowPixels, srcRowBytes)
	debug.Assert(int(offset)+(rowCount-1)*dstRowBytes+rowPixels*3 <= len(w.data),
		"packed write of %d rows at offset %d overflows reservation of %d bytes",
		rowCount, offset, len(w.data))

	dst := w.data[offset:]
	for r := range rowCount {
		row := safeish.SliceCast[[]uint32](src[r*srcRowBytes:][: rowPixels*4 : rowPixels*4])
		out := dst[r*dstRowBytes:]
		for x, px := range row {
			out[x*3+0] = byte(px)
			out[x*3+1] = byte(px >> 8)
			out[x*3+2] = byte(px >> 16)
		}
	}
}
