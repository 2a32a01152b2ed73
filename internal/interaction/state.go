// Package interaction turns a stream of pointer events into annotation
// editing operations: drawing selections, placing pins, resizing selections
// through their handles, and committing drafts into the store.
package interaction

import (
	"errors"

	"image-annotator/internal/annotation"
	"image-annotator/pkg/geometry"

	"github.com/google/uuid"
)

// ErrInvalidDirection is returned when a handle grab names no valid handle.
// It signals a caller bug, not user input.
var ErrInvalidDirection = errors.New("invalid resize direction")

const (
	// DefaultJitterThreshold is the per-axis displacement in pixels a
	// selection gesture must exceed before it counts as a drag.
	DefaultJitterThreshold = 5.0

	// DefaultPickRadius is the distance within which a pin is hit.
	DefaultPickRadius = 8.0
)

// Mode is the gesture currently in progress.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSelecting
	ModeResizing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSelecting:
		return "selecting"
	case ModeResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// State is a snapshot of the interaction state.
type State struct {
	Draft     *annotation.Draft
	ActiveID  *uuid.UUID
	Selecting bool
	Dragging  bool
	Resizing  bool
	Direction geometry.Direction
}

// Mode derives the gesture mode from the flags.
func (s State) Mode() Mode {
	switch {
	case s.Resizing:
		return ModeResizing
	case s.Selecting:
		return ModeSelecting
	default:
		return ModeIdle
	}
}

// Change is a bit set describing what an operation modified.
type Change uint8

const (
	ChangeDraft Change = 1 << iota
	ChangeAnnotations
	ChangeActive
	ChangeMode
)

// Has reports whether all bits of other are set in c.
func (c Change) Has(other Change) bool {
	return c&other == other
}

// ChangeListener is called synchronously after an operation modifies state.
type ChangeListener func(Change)

// Options tunes gesture classification.
type Options struct {
	JitterThreshold float64
	PickRadius      float64
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		JitterThreshold: DefaultJitterThreshold,
		PickRadius:      DefaultPickRadius,
	}
}
