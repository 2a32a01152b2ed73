package annotation

import (
	"strings"

	"image-annotator/pkg/geometry"

	"github.com/google/uuid"
)

// Store holds committed annotations in insertion order. It knows nothing
// about interaction state; callers clear their own references on Delete.
type Store struct {
	items []Annotation
	newID func() uuid.UUID
}

// NewStore creates an empty store issuing time-ordered ids.
func NewStore() *Store {
	return &Store{newID: newTimeOrderedID}
}

func newTimeOrderedID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Commit appends a new annotation built from shape and text. Whitespace-only
// text is rejected without error. Selections are normalized here and only here.
func (s *Store) Commit(shape Shape, text string) (Annotation, bool) {
	if shape == nil || strings.TrimSpace(text) == "" {
		return Annotation{}, false
	}
	if sel, ok := shape.(Selection); ok {
		shape = Selection{Rect: sel.Normalize()}
	}
	a := Annotation{ID: s.newID(), Shape: shape, Text: text}
	s.items = append(s.items, a)
	return a, true
}

// Restore replaces the contents of the store with previously exported
// annotations, keeping their ids and order. Selections are normalized and
// duplicate ids after the first are dropped. It returns the number kept.
func (s *Store) Restore(list []Annotation) int {
	seen := make(map[uuid.UUID]bool, len(list))
	items := make([]Annotation, 0, len(list))
	for _, a := range list {
		if a.Shape == nil || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		if sel, ok := a.Shape.(Selection); ok {
			a.Shape = Selection{Rect: sel.Normalize()}
		}
		items = append(items, a)
	}
	s.items = items
	return len(items)
}

// Delete removes the annotation with the given id. Deleting an unknown id is
// a no-op and reports false.
func (s *Store) Delete(id uuid.UUID) bool {
	kept := s.items[:0]
	removed := false
	for _, a := range s.items {
		if a.ID == id {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	s.items = kept
	return removed
}

// UpdateText replaces an annotation's text. Empty text is accepted.
func (s *Store) UpdateText(id uuid.UUID, text string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items[i].Text = text
	return true
}

// Resize replaces the rectangle of a selection. Pins cannot be resized.
// The rectangle is stored as given so a live resize can pass through
// inverted states; callers normalize when the gesture ends.
func (s *Store) Resize(id uuid.UUID, rect geometry.Rect) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	if _, ok := s.items[i].Shape.(Selection); !ok {
		return false
	}
	s.items[i].Shape = Selection{Rect: rect}
	return true
}

// Get returns the annotation with the given id.
func (s *Store) Get(id uuid.UUID) (Annotation, bool) {
	i := s.index(id)
	if i < 0 {
		return Annotation{}, false
	}
	return s.items[i], true
}

// List returns a copy of the annotations in display order.
func (s *Store) List() []Annotation {
	out := make([]Annotation, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of committed annotations.
func (s *Store) Len() int {
	return len(s.items)
}

// HitTest returns the most recently added annotation under p.
func (s *Store) HitTest(p geometry.Point2D, radius float64) (Annotation, bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].Shape.Hit(p, radius) {
			return s.items[i], true
		}
	}
	return Annotation{}, false
}

func (s *Store) index(id uuid.UUID) int {
	for i, a := range s.items {
		if a.ID == id {
			return i
		}
	}
	return -1
}
