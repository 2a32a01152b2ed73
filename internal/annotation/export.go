package annotation

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Record is the flat, serializable form of an annotation. Width and Height
// are omitted for pins.
type Record struct {
	ID     uuid.UUID `json:"id"`
	Kind   string    `json:"kind"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  *float64  `json:"width,omitempty"`
	Height *float64  `json:"height,omitempty"`
	Text   string    `json:"text"`
}

// ToRecord flattens an annotation.
func ToRecord(a Annotation) Record {
	rec := Record{ID: a.ID, Text: a.Text}
	switch s := a.Shape.(type) {
	case Pin:
		rec.Kind = KindPin.String()
		rec.X, rec.Y = s.X, s.Y
	case Selection:
		rec.Kind = KindSelection.String()
		rec.X, rec.Y = s.X, s.Y
		w, h := s.Width, s.Height
		rec.Width, rec.Height = &w, &h
	}
	return rec
}

// Annotation rebuilds the annotation a record describes. A record without an
// id, as in a hand-written file, is given a fresh one.
func (r Record) Annotation() (Annotation, error) {
	a := Annotation{ID: r.ID, Text: r.Text}
	if a.ID == uuid.Nil {
		a.ID = newTimeOrderedID()
	}
	switch r.Kind {
	case KindPin.String():
		a.Shape = NewPin(r.X, r.Y)
	case KindSelection.String():
		if r.Width == nil || r.Height == nil {
			return Annotation{}, fmt.Errorf("selection %s has no extent", r.ID)
		}
		a.Shape = NewSelection(r.X, r.Y, *r.Width, *r.Height)
	default:
		return Annotation{}, fmt.Errorf("unknown annotation kind %q", r.Kind)
	}
	return a, nil
}

// WriteJSON writes the annotations as an indented JSON array.
func WriteJSON(w io.Writer, list []Annotation) error {
	records := make([]Record, 0, len(list))
	for _, a := range list {
		records = append(records, ToRecord(a))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode annotations: %w", err)
	}
	return nil
}

// ReadJSON parses an array written by WriteJSON.
func ReadJSON(r io.Reader) ([]Annotation, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode annotations: %w", err)
	}
	list := make([]Annotation, 0, len(records))
	for _, rec := range records {
		a, err := rec.Annotation()
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, nil
}
