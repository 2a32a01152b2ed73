package geometry

// HandlePoint returns the position of a single handle on r. Handles follow
// the anchor, not the normalized box, so a handle keeps tracking the pointer
// while the rectangle is inverted.
func HandlePoint(r Rect, dir Direction) Point2D {
	midX := r.X + r.Width/2
	midY := r.Y + r.Height/2
	right := r.X + r.Width
	bottom := r.Y + r.Height

	switch dir {
	case TopLeft:
		return Point2D{X: r.X, Y: r.Y}
	case Top:
		return Point2D{X: midX, Y: r.Y}
	case TopRight:
		return Point2D{X: right, Y: r.Y}
	case Right:
		return Point2D{X: right, Y: midY}
	case BottomRight:
		return Point2D{X: right, Y: bottom}
	case Bottom:
		return Point2D{X: midX, Y: bottom}
	case BottomLeft:
		return Point2D{X: r.X, Y: bottom}
	case Left:
		return Point2D{X: r.X, Y: midY}
	}
	return r.Center()
}

// HandlePoints returns all eight handle positions in Directions order.
func HandlePoints(r Rect) [8]Point2D {
	var pts [8]Point2D
	for i, d := range Directions {
		pts[i] = HandlePoint(r, d)
	}
	return pts
}

// HitTestHandle returns the handle whose square hit area of half-size radius
// contains p. Corners win over edges when the rectangle is small enough for
// hit areas to overlap.
func HitTestHandle(r Rect, p Point2D, radius float64) (Direction, bool) {
	order := [8]Direction{TopLeft, TopRight, BottomRight, BottomLeft, Top, Right, Bottom, Left}
	for _, d := range order {
		h := HandlePoint(r, d)
		if p.X >= h.X-radius && p.X <= h.X+radius &&
			p.Y >= h.Y-radius && p.Y <= h.Y+radius {
			return d, true
		}
	}
	return DirectionNone, false
}
