// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pixel

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Conversion errors.
var (
	// ErrInvalidConversion is returned when either color description has
	// an unresolvable pixel type.
	ErrInvalidConversion = errors.New("pixel: invalid color description")

	// ErrUnsupportedConversion is returned for conversions that would
	// discard color information (four-channel to single-channel).
	ErrUnsupportedConversion = errors.New("pixel: unsupported conversion")

	// ErrInvalidStride is returned when a row stride is smaller than the
	// tightly-packed row size.
	ErrInvalidStride = errors.New("pixel: stride too small for width")

	// ErrBufferTooSmall is returned when a pixel buffer cannot hold the
	// requested region.
	ErrBufferTooSmall = errors.New("pixel: buffer too small")
)

// sRGB transfer-function lookup tables, 8-bit in both directions.
var (
	srgbToLinear [256]uint8
	linearToSRGB [256]uint8
)

func init() {
	for i := range 256 {
		c := float64(i) / 255
		var lin float64
		if c <= 0.04045 {
			lin = c / 12.92
		} else {
			lin = math.Pow((c+0.055)/1.055, 2.4)
		}
		srgbToLinear[i] = uint8(math.Round(lin * 255))

		var enc float64
		if c <= 0.0031308 {
			enc = c * 12.92
		} else {
			enc = 1.055*math.Pow(c, 1/2.4) - 0.055
		}
		linearToSRGB[i] = uint8(math.Round(enc * 255))
	}
}

// Convert rewrites the width x height pixel region at src, described by
// srcInfo, into dst using dstInfo's layout and transfer function. Strides
// are in bytes and may exceed the tightly-packed row size; trailing padding
// bytes in dst are left untouched.
//
// Channel-order swizzles, alpha pre/unmultiplication, and sRGB <-> linear
// re-encoding are supported. Conversions that would collapse four channels
// into one are not.
func Convert(dstInfo Info, dst []byte, dstRowBytes int, srcInfo Info, src []byte, srcRowBytes int, width, height int) error {
	if !srcInfo.IsValid() || !dstInfo.IsValid() {
		return ErrInvalidConversion
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d region", ErrInvalidConversion, width, height)
	}
	srcRow := srcInfo.Type.RowBytes(width)
	dstRow := dstInfo.Type.RowBytes(width)
	if srcRowBytes < srcRow || dstRowBytes < dstRow {
		return ErrInvalidStride
	}
	if len(src) < (height-1)*srcRowBytes+srcRow || len(dst) < (height-1)*dstRowBytes+dstRow {
		return ErrBufferTooSmall
	}

	if srcInfo == dstInfo {
		for y := range height {
			copy(dst[y*dstRowBytes:][:dstRow], src[y*srcRowBytes:][:srcRow])
		}
		return nil
	}

	sbpp := srcInfo.Type.BytesPerPixel()
	dbpp := dstInfo.Type.BytesPerPixel()
	switch {
	case sbpp == 1 && dbpp == 1:
		// Alpha8 <-> Gray8: a single channel reinterpreted, bytes carry over.
		for y := range height {
			copy(dst[y*dstRowBytes:][:dstRow], src[y*srcRowBytes:][:srcRow])
		}
		return nil
	case sbpp == 1 && dbpp == 4:
		expandSingleChannel(dstInfo, dst, dstRowBytes, srcInfo, src, srcRowBytes, width, height)
		return nil
	case sbpp == 4 && dbpp == 1:
		return fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, srcInfo, dstInfo)
	}

	// Pure alpha-representation changes map directly onto the stdlib image
	// types, where RGBA is premultiplied and NRGBA is straight.
	if srcInfo.SRGB == dstInfo.SRGB && !srcInfo.Type.isBGRA() && !dstInfo.Type.isBGRA() &&
		srcInfo.Type != RGB888x && dstInfo.Type != RGB888x {
		convertAlphaRepr(dstInfo, dst, dstRowBytes, srcInfo, src, srcRowBytes, width, height)
		return nil
	}

	convertGeneral(dstInfo, dst, dstRowBytes, srcInfo, src, srcRowBytes, width, height)
	return nil
}

// convertAlphaRepr converts between straight and premultiplied RGBA using
// x/image/draw, which implements the WebGPU-compatible rounding.
func convertAlphaRepr(dstInfo Info, dst []byte, dstRowBytes int, srcInfo Info, src []byte, srcRowBytes int, width, height int) {
	bounds := image.Rect(0, 0, width, height)
	var srcImg image.Image
	if srcInfo.Type.IsPremul() {
		srcImg = &image.RGBA{Pix: src, Stride: srcRowBytes, Rect: bounds}
	} else {
		srcImg = &image.NRGBA{Pix: src, Stride: srcRowBytes, Rect: bounds}
	}
	var dstImg draw.Image
	if dstInfo.Type.IsPremul() {
		dstImg = &image.RGBA{Pix: dst, Stride: dstRowBytes, Rect: bounds}
	} else {
		dstImg = &image.NRGBA{Pix: dst, Stride: dstRowBytes, Rect: bounds}
	}
	draw.Copy(dstImg, image.Point{}, srcImg, bounds, draw.Src, nil)
}

// expandSingleChannel widens Alpha8/Gray8 sources into a four-byte layout.
func expandSingleChannel(dstInfo Info, dst []byte, dstRowBytes int, srcInfo Info, src []byte, srcRowBytes int, width, height int) {
	for y := range height {
		s := src[y*srcRowBytes:]
		d := dst[y*dstRowBytes:]
		for x := range width {
			v := s[x]
			var r, g, b, a uint8
			if srcInfo.Type == Gray8 {
				r, g, b, a = v, v, v, 0xff
			} else {
				a = v
			}
			if srcInfo.SRGB != dstInfo.SRGB {
				r, g, b = transfer(srcInfo.SRGB, r, g, b)
			}
			storePixel(dstInfo.Type, d[x*4:], r, g, b, a)
		}
	}
}

// convertGeneral handles swizzles, transfer-function changes, and padded-RGB
// layouts one pixel at a time.
func convertGeneral(dstInfo Info, dst []byte, dstRowBytes int, srcInfo Info, src []byte, srcRowBytes int, width, height int) {
	for y := range height {
		s := src[y*srcRowBytes:]
		d := dst[y*dstRowBytes:]
		for x := range width {
			r, g, b, a := loadPixel(srcInfo.Type, s[x*4:])
			if srcInfo.Type.IsPremul() {
				r, g, b = unpremul(r, g, b, a)
			}
			if srcInfo.SRGB != dstInfo.SRGB {
				r, g, b = transfer(srcInfo.SRGB, r, g, b)
			}
			if dstInfo.Type.IsPremul() {
				r, g, b = premul(r, g, b, a)
			}
			storePixel(dstInfo.Type, d[x*4:], r, g, b, a)
		}
	}
}

// loadPixel reads one pixel into straight-ordered RGBA channels.
func loadPixel(t Type, p []byte) (r, g, b, a uint8) {
	if t.isBGRA() {
		return p[2], p[1], p[0], p[3]
	}
	if t == RGB888x {
		return p[0], p[1], p[2], 0xff
	}
	return p[0], p[1], p[2], p[3]
}

// storePixel writes straight-ordered RGBA channels in t's layout.
func storePixel(t Type, p []byte, r, g, b, a uint8) {
	switch {
	case t.isBGRA():
		p[0], p[1], p[2], p[3] = b, g, r, a
	case t == RGB888x:
		p[0], p[1], p[2], p[3] = r, g, b, 0xff
	default:
		p[0], p[1], p[2], p[3] = r, g, b, a
	}
}

func premul(r, g, b, a uint8) (uint8, uint8, uint8) {
	m := func(c uint8) uint8 {
		return uint8((uint32(c)*uint32(a) + 127) / 255)
	}
	return m(r), m(g), m(b)
}

func unpremul(r, g, b, a uint8) (uint8, uint8, uint8) {
	if a == 0 {
		return 0, 0, 0
	}
	m := func(c uint8) uint8 {
		return uint8(min(255, (uint32(c)*255+uint32(a)/2)/uint32(a)))
	}
	return m(r), m(g), m(b)
}

// transfer re-encodes color channels between sRGB and linear.
// srcIsSRGB selects the direction.
func transfer(srcIsSRGB bool, r, g, b uint8) (uint8, uint8, uint8) {
	tab := &linearToSRGB
	if srcIsSRGB {
		tab = &srgbToLinear
	}
	return tab[r], tab[g], tab[b]
}
