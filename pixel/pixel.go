// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pixel defines CPU-side pixel layouts and the color conversion
// used when staged pixel data does not match the destination texture.
package pixel

import "fmt"

// Type represents the memory layout of one CPU-side pixel.
type Type uint8

const (
	// Unknown is an unresolvable pixel type. Capability negotiation
	// returns Unknown when no supported write layout exists.
	Unknown Type = iota

	// Alpha8 is a single 8-bit alpha channel.
	Alpha8

	// Gray8 is a single 8-bit luminance channel.
	Gray8

	// RGBA8 is 8-bit RGBA with straight (non-premultiplied) alpha.
	RGBA8

	// RGBA8Premul is 8-bit RGBA with premultiplied alpha.
	RGBA8Premul

	// BGRA8 is 8-bit BGRA with straight alpha.
	BGRA8

	// BGRA8Premul is 8-bit BGRA with premultiplied alpha.
	BGRA8Premul

	// RGB888x is 8-bit RGB stored in four bytes with one padding byte.
	// The CPU-side layout is four bytes wide; only packed-RGB texture
	// writes collapse it to three bytes per pixel.
	RGB888x

	typeCount
)

// String returns a human-readable name for the type.
func (t Type) String() string {
	switch t {
	case Unknown:
		return "Unknown"
	case Alpha8:
		return "Alpha8"
	case Gray8:
		return "Gray8"
	case RGBA8:
		return "RGBA8"
	case RGBA8Premul:
		return "RGBA8Premul"
	case BGRA8:
		return "BGRA8"
	case BGRA8Premul:
		return "BGRA8Premul"
	case RGB888x:
		return "RGB888x"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// IsValid reports whether t is a known, resolvable pixel type.
func (t Type) IsValid() bool {
	return t > Unknown && t < typeCount
}

// BytesPerPixel returns the CPU-side byte width of one pixel.
// Unknown reports 0.
func (t Type) BytesPerPixel() int {
	switch t {
	case Alpha8, Gray8:
		return 1
	case RGBA8, RGBA8Premul, BGRA8, BGRA8Premul, RGB888x:
		return 4
	default:
		return 0
	}
}

// RowBytes returns the tightly-packed byte size of one row of width pixels.
func (t Type) RowBytes(width int) int {
	return t.BytesPerPixel() * width
}

// IsPremul reports whether the type stores premultiplied alpha.
func (t Type) IsPremul() bool {
	return t == RGBA8Premul || t == BGRA8Premul
}

// isBGRA reports whether the channel order is BGRA.
func (t Type) isBGRA() bool {
	return t == BGRA8 || t == BGRA8Premul
}

// Info is a color description: a pixel layout plus its transfer function.
// Two Infos that differ in any field require conversion when writing.
type Info struct {
	// Type is the pixel memory layout.
	Type Type

	// SRGB indicates sRGB-encoded color channels; false means linear.
	SRGB bool
}

// IsValid reports whether the info has a resolvable pixel type.
func (i Info) IsValid() bool {
	return i.Type.IsValid()
}

// String returns a human-readable description.
func (i Info) String() string {
	tf := "linear"
	if i.SRGB {
		tf = "sRGB"
	}
	return fmt.Sprintf("%s/%s", i.Type, tf)
}
