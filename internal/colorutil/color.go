// Package colorutil implements the RGB/ARGB colour tuple used for province
// definitions, modifiers' UI icons, and raster import (spec.md §3).
package colorutil

// Color is an ARGB byte tuple. The all-zero value (including Alpha) is the
// sentinel "null colour".
type Color struct {
	R, G, B, A uint8
}

// Null is the sentinel null colour: all channels zero, including alpha.
var Null = Color{}

// IsNull reports whether c is the null-colour sentinel.
func (c Color) IsNull() bool {
	return c == Null
}

// RGB constructs an opaque colour (Alpha=0xFF).
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xFF}
}

// Pack encodes the colour as a 0xAARRGGBB uint32.
func (c Color) Pack() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Unpack decodes a 0xAARRGGBB uint32 back into a Color. Pack and Unpack are
// exact inverses.
func Unpack(v uint32) Color {
	return Color{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// PackRGB encodes only the RGB channels as a 0xRRGGBB uint32, as used by
// province-colour bitmaps and CSV tables (spec.md §6) where no alpha
// channel is present.
func PackRGB(c Color) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// UnpackRGB decodes a 0xRRGGBB uint32 into an opaque Color (Alpha=0xFF),
// or the Null sentinel if v is zero — province bitmaps use pure black as
// "no colour assigned" and spec.md requires provinces to have a non-null
// colour, so zero must map to Null rather than opaque black.
func UnpackRGB(v uint32) Color {
	if v == 0 {
		return Null
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}
