package canvas

import (
	"image"
	"image/color"
	"strconv"

	"image-annotator/pkg/colorutil"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// canvasRect is a normalized rectangle in canvas pixels.
type canvasRect struct {
	x1, y1, x2, y2 int
}

func setPixel(output *image.RGBA, x, y int, col color.RGBA) {
	if (image.Point{X: x, Y: y}).In(output.Bounds()) {
		output.SetRGBA(x, y, col)
	}
}

// blendPixel composites a premultiplied color over the existing pixel.
func blendPixel(output *image.RGBA, x, y int, col color.RGBA) {
	if !(image.Point{X: x, Y: y}).In(output.Bounds()) {
		return
	}
	dst := output.RGBAAt(x, y)
	inv := 255 - uint16(col.A)
	mix := func(s, d uint8) uint8 {
		return uint8(uint16(s) + uint16(d)*inv/255)
	}
	output.SetRGBA(x, y, color.RGBA{
		R: mix(col.R, dst.R),
		G: mix(col.G, dst.G),
		B: mix(col.B, dst.B),
		A: mix(col.A, dst.A),
	})
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				setPixel(output, x1+s, y1+t, col)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawRectOutline strokes r with a solid line.
func drawRectOutline(output *image.RGBA, r canvasRect, col color.RGBA, thickness int) {
	drawLine(output, r.x1, r.y1, r.x2, r.y1, col, thickness)
	drawLine(output, r.x2, r.y1, r.x2, r.y2, col, thickness)
	drawLine(output, r.x2, r.y2, r.x1, r.y2, col, thickness)
	drawLine(output, r.x1, r.y2, r.x1, r.y1, col, thickness)
}

// drawDashedRect draws a rectangle outline with alternating pixels, used
// for the pending draft.
func drawDashedRect(output *image.RGBA, r canvasRect, col color.RGBA) {
	for x := r.x1; x <= r.x2; x++ {
		if (x+r.y1)%6 < 3 {
			setPixel(output, x, r.y1, col)
		}
		if (x+r.y2)%6 < 3 {
			setPixel(output, x, r.y2, col)
		}
	}
	for y := r.y1; y <= r.y2; y++ {
		if (r.x1+y)%6 < 3 {
			setPixel(output, r.x1, y, col)
		}
		if (r.x2+y)%6 < 3 {
			setPixel(output, r.x2, y, col)
		}
	}
}

// fillRect blends a translucent fill over r.
func fillRect(output *image.RGBA, r canvasRect, col color.RGBA) {
	for y := r.y1; y <= r.y2; y++ {
		for x := r.x1; x <= r.x2; x++ {
			blendPixel(output, x, y, col)
		}
	}
}

// drawDisc draws a filled circle with a contrasting ring.
func drawDisc(output *image.RGBA, cx, cy, radius int, fill, ring color.RGBA) {
	r2 := radius * radius
	inner := (radius - 2) * (radius - 2)
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			d2 := dx*dx + dy*dy
			switch {
			case d2 <= inner:
				setPixel(output, x, y, fill)
			case d2 <= r2:
				setPixel(output, x, y, ring)
			}
		}
	}
}

// drawHandle draws a square resize handle centered on (cx, cy).
func drawHandle(output *image.RGBA, cx, cy, half int) {
	r := canvasRect{cx - half, cy - half, cx + half, cy + half}
	for y := r.y1; y <= r.y2; y++ {
		for x := r.x1; x <= r.x2; x++ {
			setPixel(output, x, y, colorutil.Handle)
		}
	}
	drawRectOutline(output, r, colorutil.Black, 1)
}

// drawNumber draws n with the 3x5 digit font, top-left at (x, y).
func drawNumber(output *image.RGBA, n int, x, y, scale int, col color.RGBA) {
	if scale < 1 {
		scale = 1
	}
	for i, ch := range strconv.Itoa(n) {
		pattern := digitPatterns[ch-'0']
		charX := x + i*4*scale
		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if pattern[row]&(1<<(2-c)) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						setPixel(output, charX+c*scale+dx, y+row*scale+dy, col)
					}
				}
			}
		}
	}
}
