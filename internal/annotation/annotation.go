// Package annotation defines pins, selections, drafts and the ordered store
// of committed annotations.
package annotation

import (
	"image-annotator/pkg/geometry"

	"github.com/google/uuid"
)

// Kind distinguishes the two annotation shapes.
type Kind int

const (
	KindPin Kind = iota
	KindSelection
)

func (k Kind) String() string {
	switch k {
	case KindPin:
		return "pin"
	case KindSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// Shape is the geometry of an annotation: either a Pin or a Selection.
type Shape interface {
	Kind() Kind
	// Anchor is the pin point or the selection's anchor corner.
	Anchor() geometry.Point2D
	// Hit reports whether p falls on the shape. radius is the pick
	// tolerance for point-like shapes.
	Hit(p geometry.Point2D, radius float64) bool
	isShape()
}

// Pin marks a single point.
type Pin struct {
	geometry.Point2D
}

// NewPin creates a pin at (x, y).
func NewPin(x, y float64) Pin {
	return Pin{Point2D: geometry.NewPoint2D(x, y)}
}

func (Pin) Kind() Kind                  { return KindPin }
func (p Pin) Anchor() geometry.Point2D { return p.Point2D }
func (p Pin) Hit(q geometry.Point2D, radius float64) bool {
	return p.Distance(q) <= radius
}
func (Pin) isShape() {}

// Selection marks a rectangular region.
type Selection struct {
	geometry.Rect
}

// NewSelection creates a selection anchored at (x, y).
func NewSelection(x, y, width, height float64) Selection {
	return Selection{Rect: geometry.NewRect(x, y, width, height)}
}

func (Selection) Kind() Kind                 { return KindSelection }
func (s Selection) Anchor() geometry.Point2D { return s.TopLeft() }
func (s Selection) Hit(q geometry.Point2D, _ float64) bool {
	return s.Contains(q)
}
func (Selection) isShape() {}

// Annotation is a committed pin or selection with its commentary.
type Annotation struct {
	ID    uuid.UUID
	Shape Shape
	Text  string
}

// Kind returns the kind of the annotation's shape.
func (a Annotation) Kind() Kind {
	return a.Shape.Kind()
}

// Selection returns the selection rectangle, if the annotation is one.
func (a Annotation) Selection() (Selection, bool) {
	s, ok := a.Shape.(Selection)
	return s, ok
}

// Draft is an annotation under construction. A selection draft may have a
// negative extent while it is being dragged out.
type Draft struct {
	Shape Shape
	Text  string
}

// Selection returns the draft's rectangle, if it is a selection draft.
func (d Draft) Selection() (Selection, bool) {
	s, ok := d.Shape.(Selection)
	return s, ok
}
