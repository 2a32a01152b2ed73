// Package geometry provides the coordinate types and pure rectangle math used by
// the annotation engine and the canvas.
package geometry

import (
	"math"
)

// Point2D represents a 2D point in image pixel coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Rect is an anchored rectangle. Width and Height are signed: while a
// rectangle is being dragged out or resized the anchor may sit on any corner,
// so negative extents are legal until Normalize is applied.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Normalize returns the same region with a top-left anchor and non-negative
// extent. Normalize(Normalize(r)) == Normalize(r).
func (r Rect) Normalize() Rect {
	return Rect{
		X:      math.Min(r.X, r.X+r.Width),
		Y:      math.Min(r.Y, r.Y+r.Height),
		Width:  math.Abs(r.Width),
		Height: math.Abs(r.Height),
	}
}

// IsNormalized reports whether the rectangle has a non-negative extent.
func (r Rect) IsNormalized() bool {
	return r.Width >= 0 && r.Height >= 0
}

// Contains returns true if the point is inside the region covered by the
// rectangle, whatever the sign of its extent.
func (r Rect) Contains(p Point2D) bool {
	n := r.Normalize()
	return p.X >= n.X && p.X <= n.X+n.Width &&
		p.Y >= n.Y && p.Y <= n.Y+n.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// TopLeft returns the anchor corner.
func (r Rect) TopLeft() Point2D {
	return Point2D{X: r.X, Y: r.Y}
}

// BottomRight returns the corner opposite the anchor.
func (r Rect) BottomRight() Point2D {
	return Point2D{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Area returns the covered area.
func (r Rect) Area() float64 {
	return math.Abs(r.Width * r.Height)
}

// Scale returns the rectangle scaled about the origin, as used for zoom.
func (r Rect) Scale(factor float64) Rect {
	return Rect{X: r.X * factor, Y: r.Y * factor, Width: r.Width * factor, Height: r.Height * factor}
}

// ToInt converts the normalized rectangle to integer pixel bounds.
func (r Rect) ToInt() RectInt {
	n := r.Normalize()
	return RectInt{
		X:      int(math.Floor(n.X)),
		Y:      int(math.Floor(n.Y)),
		Width:  int(math.Round(n.Width)),
		Height: int(math.Round(n.Height)),
	}
}

// RectInt represents a rectangle with integer pixel coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ToFloat converts to Rect.
func (r RectInt) ToFloat() Rect {
	return Rect{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height)}
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// Clamp returns p limited to [0,width]x[0,height]. A zero size leaves p unchanged.
func (s Size) Clamp(p Point2D) Point2D {
	if s.Width <= 0 || s.Height <= 0 {
		return p
	}
	return Point2D{
		X: math.Max(0, math.Min(p.X, s.Width)),
		Y: math.Max(0, math.Min(p.Y, s.Height)),
	}
}
