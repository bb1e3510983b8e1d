// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/upload/compress"
	"github.com/gogpu/upload/internal/debug"
	"github.com/gogpu/upload/pixel"
	"github.com/gogpu/upload/staging"
	"github.com/gogpu/upload/texture"
)

// Upload construction errors.
var (
	// ErrNilTarget is returned when an upload has no destination proxy.
	ErrNilTarget = errors.New("upload: nil target proxy")

	// ErrEmptyUploadRect is returned for a zero-area destination rect.
	ErrEmptyUploadRect = errors.New("upload: empty destination rect")

	// ErrMissingMipLevels is returned when no level data is supplied, or
	// more levels than the target carries.
	ErrMissingMipLevels = errors.New("upload: invalid mip level count")

	// ErrMissingPixelData is returned when a mip level has nil pixels.
	ErrMissingPixelData = errors.New("upload: missing pixel data")

	// ErrRectOutsideTarget is returned when the destination rect is not
	// contained in the target's bounds.
	ErrRectOutsideTarget = errors.New("upload: rect outside target bounds")

	// ErrPartialMipmappedUpload is returned when a mipmapped upload does
	// not cover the full texture.
	ErrPartialMipmappedUpload = errors.New("upload: mipmapped uploads must cover the full texture")

	// ErrUnsupportedWrite is returned when capability negotiation finds
	// no write path for the pixel types involved.
	ErrUnsupportedWrite = errors.New("upload: no supported write path")

	// ErrNotCompressed is returned when a compressed upload targets an
	// uncompressed texture.
	ErrNotCompressed = errors.New("upload: target is not block-compressed")

	// ErrInvalidPayload is returned when a compressed payload is smaller
	// than the target requires.
	ErrInvalidPayload = errors.New("upload: compressed payload size mismatch")
)

// MipLevel supplies pixel data for one mip level of an upload.
type MipLevel struct {
	// Pixels is the level's pixel data, rows top to bottom.
	Pixels []byte

	// RowBytes is the stride between rows in Pixels. Zero means tightly
	// packed.
	RowBytes int
}

// Instance is one staged upload: pixel data already written into staging
// memory, plus the copy regions that will move it into the target texture
// at command time.
//
// Instances are created at recording time via MakeUpload or
// MakeCompressedUpload and consumed by an UploadTask.
type Instance struct {
	buffer *staging.Buffer

	// bytesPerBlock is the wire size of one texel (or one compressed
	// block). Replay redirection uses it to re-derive buffer offsets.
	bytesPerBlock int

	copies    []BufferTextureCopy
	target    *texture.Proxy
	condition Condition

	// compressed disables replay redirection, which operates in texel
	// coordinates.
	compressed bool
}

// IsValid reports whether the instance holds staged data.
func (in *Instance) IsValid() bool {
	return in != nil && in.buffer != nil && in.target != nil && len(in.copies) > 0
}

// Target returns the destination proxy.
func (in *Instance) Target() *texture.Proxy { return in.target }

// Copies returns the staged copy regions.
func (in *Instance) Copies() []BufferTextureCopy { return in.copies }

// MakeUpload stages an uncompressed write of levels into dstRect of
// target. The data is copied (converting from srcInfo to the negotiated
// write type if needed) into staging memory owned by rec; the returned
// instance only references that memory.
//
// A multi-level upload must cover the target's full bounds. cond may be
// nil for unconditional uploads.
func MakeUpload(rec *Recorder, target *texture.Proxy, dstInfo, srcInfo pixel.Info, levels []MipLevel, dstRect image.Rectangle, cond Condition) (*Instance, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if dstRect.Empty() {
		return nil, ErrEmptyUploadRect
	}
	mipLevelCount := len(levels)
	if mipLevelCount == 0 || mipLevelCount > target.Info().MipLevelCount() {
		return nil, fmt.Errorf("%w: %d levels for a %d-level texture",
			ErrMissingMipLevels, mipLevelCount, target.Info().MipLevelCount())
	}
	// Callers supply either the base level or the complete chain; anything
	// in between would leave the lower levels stale.
	debug.Assert(mipLevelCount == 1 || mipLevelCount == target.Info().MipLevelCount(),
		"%d levels for a %d-level texture", mipLevelCount, target.Info().MipLevelCount())
	if !dstRect.In(target.Bounds()) {
		return nil, fmt.Errorf("%w: %v in %v", ErrRectOutsideTarget, dstRect, target.Bounds())
	}
	if mipLevelCount > 1 && dstRect != target.Bounds() {
		return nil, ErrPartialMipmappedUpload
	}
	for i := range levels {
		if levels[i].Pixels == nil {
			return nil, fmt.Errorf("%w: level %d", ErrMissingPixelData, i)
		}
	}

	writeType := rec.caps.SupportedWritePixelsType(target.Info(), dstInfo.Type, srcInfo.Type)
	if writeType == pixel.Unknown {
		return nil, fmt.Errorf("%w: %s -> %s", ErrUnsupportedWrite, srcInfo, dstInfo)
	}
	writeInfo := pixel.Info{Type: writeType, SRGB: dstInfo.SRGB}

	// Packed-RGB textures take three wire bytes per texel even though
	// the CPU-side layout stays four bytes wide.
	rgbPacked := writeType == pixel.RGB888x
	bpp := writeType.BytesPerPixel()
	if rgbPacked {
		bpp = 3
	}

	size, alignment, layouts := computeCombinedBufferSize(
		rec.caps, mipLevelCount, bpp, dstRect.Size(), compress.KindNone)
	if size == 0 {
		return nil, fmt.Errorf("upload: no staging layout for %v", dstRect)
	}

	writer, bufInfo, err := rec.Staging().AcquireTextureWriter(size, alignment)
	if err != nil {
		Logger().Warn("upload: could not get staging buffer",
			"size", size, "error", err)
		return nil, err
	}

	var scratch []byte
	w, h := dstRect.Dx(), dstRect.Dy()
	copies := make([]BufferTextureCopy, 0, mipLevelCount)
	for i, level := range levels {
		srcRowBytes := level.RowBytes
		if srcRowBytes == 0 {
			srcRowBytes = srcInfo.Type.RowBytes(w)
		}
		dstRowBytes := layouts[i].rowBytes

		switch {
		case rgbPacked:
			src, rowBytes := level.Pixels, srcRowBytes
			if srcInfo != writeInfo {
				// Convert into a four-byte RGBx scratch first, then
				// drop the padding while packing into the buffer.
				tight := pixel.RGB888x.RowBytes(w)
				if len(scratch) < tight*h {
					scratch = make([]byte, tight*h)
				}
				if err := pixel.Convert(writeInfo, scratch, tight, srcInfo, src, rowBytes, w, h); err != nil {
					return nil, fmt.Errorf("upload: level %d: %w", i, err)
				}
				src, rowBytes = scratch, tight
			}
			writer.WriteRGBFromRGBx(layouts[i].offset, src, rowBytes, int(dstRowBytes), w, h)
		case srcInfo != writeInfo:
			if err := writer.ConvertAndWrite(layouts[i].offset, writeInfo, int(dstRowBytes), srcInfo, level.Pixels, srcRowBytes, w, h); err != nil {
				return nil, fmt.Errorf("upload: level %d: %w", i, err)
			}
		default:
			writer.Write(layouts[i].offset, level.Pixels, srcRowBytes, int(dstRowBytes), w*bpp, h)
		}

		copies = append(copies, BufferTextureCopy{
			BufferOffset:   bufInfo.Offset + layouts[i].offset,
			BufferRowBytes: dstRowBytes,
			Rect:           image.Rect(dstRect.Min.X, dstRect.Min.Y, dstRect.Min.X+w, dstRect.Min.Y+h),
			MipLevel:       i,
		})
		w = max(1, w/2)
		h = max(1, h/2)
	}

	return &Instance{
		buffer:        bufInfo.Buffer,
		bytesPerBlock: bpp,
		copies:        copies,
		target:        target,
		condition:     cond,
	}, nil
}

// MakeCompressedUpload stages a full-texture write of a block-compressed
// payload into target. data holds tightly-packed block rows for every
// level; mipmapped selects a full-chain payload.
func MakeCompressedUpload(rec *Recorder, target *texture.Proxy, data []byte, mipmapped bool) (*Instance, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	info := target.Info()
	kind := info.Compression
	if kind.BlockBytes() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotCompressed, info.Label)
	}

	computed, levelOffsets := compress.DataSize(kind, info.Width, info.Height, mipmapped)
	debug.Assert(len(data) == computed,
		"compressed payload is %d bytes, texture needs %d", len(data), computed)
	if len(data) < computed {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrInvalidPayload, len(data), computed)
	}

	mipLevelCount := len(levelOffsets)
	bytesPerBlock := kind.BlockBytes()
	size, alignment, layouts := computeCombinedBufferSize(
		rec.caps, mipLevelCount, bytesPerBlock, image.Pt(info.Width, info.Height), kind)
	if size == 0 {
		return nil, fmt.Errorf("upload: no staging layout for %q", info.Label)
	}

	writer, bufInfo, err := rec.Staging().AcquireTextureWriter(size, alignment)
	if err != nil {
		Logger().Warn("upload: could not get staging buffer",
			"size", size, "error", err)
		return nil, err
	}

	blockW, blockH := kind.BlockDims()
	w, h := info.Width, info.Height
	copies := make([]BufferTextureCopy, 0, mipLevelCount)
	for i := range layouts {
		bw, bh := kind.DimensionsInBlocks(w, h)
		srcRowBytes := bw * bytesPerBlock
		writer.Write(layouts[i].offset, data[levelOffsets[i]:], srcRowBytes, int(layouts[i].rowBytes), srcRowBytes, bh)

		rw, rh := w, h
		if rec.caps.FullCompressedUploadSizeMustAlignToBlockDims() {
			rw, rh = bw*blockW, bh*blockH
		}
		copies = append(copies, BufferTextureCopy{
			BufferOffset:   bufInfo.Offset + layouts[i].offset,
			BufferRowBytes: layouts[i].rowBytes,
			Rect:           image.Rect(0, 0, rw, rh),
			MipLevel:       i,
		})
		w = max(1, w/2)
		h = max(1, h/2)
	}

	return &Instance{
		buffer:        bufInfo.Buffer,
		bytesPerBlock: bytesPerBlock,
		copies:        copies,
		target:        target,
		compressed:    true,
	}, nil
}

// prepareResources backs the target proxy with a real texture unless the
// proxy is lazy, in which case its owner resolves it.
func (in *Instance) prepareResources(provider texture.Provider) error {
	if err := texture.InstantiateIfNotLazy(provider, in.target); err != nil {
		Logger().Warn("upload: could not instantiate texture",
			"label", in.target.Info().Label, "error", err)
		return err
	}
	return nil
}

// addCommand records the staged copies into cb. A non-nil replay whose
// target matches this upload's target redirects the copy: the destination
// rect is translated and clipped against the target bounds, and the
// buffer offset advances past the clipped-off rows and columns.
func (in *Instance) addCommand(ctx context.Context, cb CommandBuffer, replay *ReplayTarget) error {
	if in.condition != nil && !in.condition.NeedsUpload(ctx) {
		return nil
	}
	if !in.target.IsInstantiated() {
		return fmt.Errorf("%w: %q", ErrTextureNotInstantiated, in.target.Info().Label)
	}

	if replay == nil || replay.Target != in.target {
		if err := cb.CopyBufferToTexture(in.buffer, in.target, in.copies); err != nil {
			return err
		}
	} else {
		debug.Assert(!in.compressed, "compressed upload cannot be redirected")
		debug.Assert(len(in.copies) == 1,
			"redirected upload has %d copy regions", len(in.copies))
		if in.compressed || len(in.copies) != 1 {
			return fmt.Errorf("upload: replay redirection requires a single uncompressed region, got %d", len(in.copies))
		}

		c := in.copies[0]
		translated := c.Rect.Add(replay.Translation)
		clipped := translated.Intersect(in.target.Bounds())
		if clipped.Empty() {
			// Nothing of this upload lands on the replay target. The data
			// is still not resident, so the condition stays unsubmitted and
			// a later replay that does intersect uploads it.
			return nil
		}
		skip := clipped.Min.Sub(translated.Min)
		c.BufferOffset += uint64(skip.Y)*c.BufferRowBytes + uint64(skip.X*in.bytesPerBlock)
		c.Rect = clipped
		if err := cb.CopyBufferToTexture(in.buffer, in.target, []BufferTextureCopy{c}); err != nil {
			return err
		}
	}

	if in.condition != nil {
		in.condition.UploadSubmitted()
	}
	return nil
}
