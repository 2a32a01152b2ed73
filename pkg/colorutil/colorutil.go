// Package colorutil provides the overlay palette shared by the canvas and the
// annotation list.
package colorutil

import (
	"image/color"
)

// Common overlay colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Orange  = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// Annotation overlay roles.
var (
	Pin       = Magenta
	Selection = Cyan
	Active    = Orange
	Draft     = Yellow
	Handle    = White
)

// WithAlpha returns c with its alpha replaced. RGBA is premultiplied, so
// the color channels are scaled along with it.
func WithAlpha(c color.RGBA, alpha uint8) color.RGBA {
	if c.A == 0 {
		return color.RGBA{}
	}
	scale := func(v uint8) uint8 {
		return uint8(uint16(v) * uint16(alpha) / uint16(c.A))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: alpha}
}

// Outline returns the stroke color for an annotation overlay.
func Outline(isPin, active bool) color.RGBA {
	switch {
	case active:
		return Active
	case isPin:
		return Pin
	default:
		return Selection
	}
}

// Fill returns the translucent fill drawn inside a selection.
func Fill(active bool) color.RGBA {
	if active {
		return WithAlpha(Active, 0x40)
	}
	return WithAlpha(Selection, 0x20)
}
