package geometry

import (
	"fmt"
	"strings"
)

// Direction identifies one of the eight resize handles of a rectangle.
type Direction int

const (
	DirectionNone Direction = iota
	TopLeft
	Top
	TopRight
	Right
	BottomRight
	Bottom
	BottomLeft
	Left
)

// Directions lists the valid handle directions, clockwise from top-left.
var Directions = [8]Direction{TopLeft, Top, TopRight, Right, BottomRight, Bottom, BottomLeft, Left}

var directionNames = map[Direction]string{
	TopLeft:     "top-left",
	Top:         "top",
	TopRight:    "top-right",
	Right:       "right",
	BottomRight: "bottom-right",
	Bottom:      "bottom",
	BottomLeft:  "bottom-left",
	Left:        "left",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	if d == DirectionNone {
		return "none"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Valid reports whether d names one of the eight handles.
func (d Direction) Valid() bool {
	return d >= TopLeft && d <= Left
}

// ParseDirection parses names such as "top-left" or "bottom".
func ParseDirection(s string) (Direction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for d, name := range directionNames {
		if name == key {
			return d, nil
		}
	}
	return DirectionNone, fmt.Errorf("unknown resize direction %q", s)
}

// ApplyResize moves the edge or corner named by dir to (cx, cy), keeping the
// opposite edge or corner fixed. The result is not normalized: dragging a
// handle past its opposite edge yields a negative extent so the handle stays
// under the pointer. An invalid direction returns r unchanged.
func ApplyResize(r Rect, dir Direction, cx, cy float64) Rect {
	right := r.X + r.Width
	bottom := r.Y + r.Height

	switch dir {
	case TopLeft:
		return Rect{X: cx, Y: cy, Width: right - cx, Height: bottom - cy}
	case TopRight:
		return Rect{X: r.X, Y: cy, Width: cx - r.X, Height: bottom - cy}
	case BottomLeft:
		return Rect{X: cx, Y: r.Y, Width: right - cx, Height: cy - r.Y}
	case BottomRight:
		return Rect{X: r.X, Y: r.Y, Width: cx - r.X, Height: cy - r.Y}
	case Left:
		return Rect{X: cx, Y: r.Y, Width: right - cx, Height: r.Height}
	case Right:
		return Rect{X: r.X, Y: r.Y, Width: cx - r.X, Height: r.Height}
	case Top:
		return Rect{X: r.X, Y: cy, Width: r.Width, Height: bottom - cy}
	case Bottom:
		return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: cy - r.Y}
	}
	return r
}
