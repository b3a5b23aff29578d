// Package glyph maps RGB colors onto the reserved 512-glyph color range
// used by text panels to draw a single colored square per character.
package glyph

import (
	"math"

	"github.com/scoutpb/scout/pkg/core"
)

const (
	// Base is the first code point of the color glyph range.
	Base rune = 0xE100
	// Last is the final code point (all three channels at level 7).
	Last rune = Base + 0x1FF

	levels     = 7
	bitSpacing = 255.0 / levels
)

// quantize rescales a channel onto 0..7. Rounding is half-to-even; for byte
// inputs the quotient never lands exactly on .5, so half-away-from-zero
// would give the same result.
func quantize(v uint8) rune {
	return rune(math.RoundToEven(float64(v) / bitSpacing))
}

// Encode returns the glyph for the given channels.
func Encode(r, g, b uint8) rune {
	return Base + (quantize(r)<<6 | quantize(g)<<3 | quantize(b))
}

// EncodeColor is Encode for a core.Color.
func EncodeColor(c core.Color) rune {
	return Encode(c.R, c.G, c.B)
}

// Decode returns a representative color for a glyph. ok is false when the
// rune lies outside the color range.
func Decode(code rune) (c core.Color, ok bool) {
	if code < Base || code > Last {
		return core.Color{}, false
	}
	packed := code - Base
	return core.Color{
		R: level((packed >> 6) & 0x7),
		G: level((packed >> 3) & 0x7),
		B: level(packed & 0x7),
	}, true
}

func level(l rune) uint8 {
	return uint8(math.RoundToEven(float64(l) * bitSpacing))
}
