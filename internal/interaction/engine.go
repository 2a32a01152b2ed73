package interaction

import (
	"fmt"
	"math"

	"image-annotator/internal/annotation"
	"image-annotator/pkg/geometry"

	"github.com/google/uuid"
)

// Engine owns the interaction state and the annotation store of one widget.
// All coordinates are image pixels relative to the image's top-left corner;
// the host converts from screen space before calling in. Engine is not safe
// for concurrent use: the host delivers events from its single UI goroutine.
type Engine struct {
	store *annotation.Store
	opts  Options

	draft    *annotation.Draft
	activeID *uuid.UUID

	selecting bool
	dragging  bool
	resizing  bool
	direction geometry.Direction

	// resizeID is the committed selection being resized, nil when the
	// draft is the target. Captured at grab time so deactivating mid-gesture
	// does not retarget the drag.
	resizeID *uuid.UUID

	// suppressClick is armed when a gesture ends as a drag or resize and is
	// consumed by the next click. A new press disarms it.
	suppressClick bool

	listeners []ChangeListener
}

// NewEngine creates an engine over store. A nil store gets a fresh one.
func NewEngine(store *annotation.Store, opts Options) *Engine {
	if store == nil {
		store = annotation.NewStore()
	}
	if opts.JitterThreshold <= 0 {
		opts.JitterThreshold = DefaultJitterThreshold
	}
	if opts.PickRadius <= 0 {
		opts.PickRadius = DefaultPickRadius
	}
	return &Engine{store: store, opts: opts}
}

// OnChange registers a listener for state changes.
func (e *Engine) OnChange(l ChangeListener) {
	e.listeners = append(e.listeners, l)
}

func (e *Engine) notify(c Change) {
	if c == 0 {
		return
	}
	for _, l := range e.listeners {
		l(c)
	}
}

// Options returns the thresholds in effect.
func (e *Engine) Options() Options {
	return e.opts
}

// SetJitterThreshold changes the click/drag threshold for later gestures.
func (e *Engine) SetJitterThreshold(px float64) {
	if px > 0 {
		e.opts.JitterThreshold = px
	}
}

// PointerDown starts a new selection at (x, y). The previous draft is
// replaced and the active annotation is released. Ignored mid-resize.
func (e *Engine) PointerDown(x, y float64) {
	if e.resizing {
		return
	}
	change := ChangeDraft | ChangeMode
	if e.activeID != nil {
		change |= ChangeActive
	}
	e.draft = &annotation.Draft{Shape: annotation.NewSelection(x, y, 0, 0)}
	e.activeID = nil
	e.selecting = true
	e.dragging = false
	e.suppressClick = false
	e.notify(change)
}

// PointerMove grows the selection draft or applies the active resize.
func (e *Engine) PointerMove(x, y float64) {
	switch {
	case e.selecting:
		e.moveSelecting(x, y)
	case e.resizing:
		e.moveResizing(x, y)
	}
}

func (e *Engine) moveSelecting(x, y float64) {
	if e.draft == nil {
		return
	}
	sel, ok := e.draft.Selection()
	if !ok {
		return
	}
	w := x - sel.X
	h := y - sel.Y
	e.draft.Shape = annotation.NewSelection(sel.X, sel.Y, w, h)

	change := ChangeDraft
	if !e.dragging && (math.Abs(w) > e.opts.JitterThreshold || math.Abs(h) > e.opts.JitterThreshold) {
		e.dragging = true
		change |= ChangeMode
	}
	e.notify(change)
}

func (e *Engine) moveResizing(x, y float64) {
	if e.resizeID != nil {
		a, ok := e.store.Get(*e.resizeID)
		if !ok {
			return
		}
		sel, ok := a.Selection()
		if !ok {
			return
		}
		e.store.Resize(a.ID, geometry.ApplyResize(sel.Rect, e.direction, x, y))
		e.notify(ChangeAnnotations)
		return
	}
	if e.draft == nil {
		return
	}
	sel, ok := e.draft.Selection()
	if !ok {
		return
	}
	e.draft.Shape = annotation.Selection{Rect: geometry.ApplyResize(sel.Rect, e.direction, x, y)}
	e.notify(ChangeDraft)
}

// PointerUp ends the current gesture. A selection that became a drag stays
// pending as a draft and the click that follows is swallowed; a selection
// that stayed within the jitter threshold is left for ImageAreaClick to turn
// into a pin. A resized committed selection is normalized here.
func (e *Engine) PointerUp() {
	switch {
	case e.selecting:
		e.selecting = false
		if e.dragging {
			e.suppressClick = true
		}
		e.notify(ChangeMode)
	case e.resizing:
		change := e.finishResize()
		e.suppressClick = true
		e.notify(change)
	}
}

// finishResize leaves the resizing state. A committed target is normalized
// so stored selections never keep a negative extent at rest.
func (e *Engine) finishResize() Change {
	change := ChangeMode
	if e.resizeID != nil {
		if a, ok := e.store.Get(*e.resizeID); ok {
			if sel, ok := a.Selection(); ok && !sel.IsNormalized() {
				e.store.Resize(a.ID, sel.Normalize())
				change |= ChangeAnnotations
			}
		}
	}
	e.resizing = false
	e.direction = geometry.DirectionNone
	e.resizeID = nil
	return change
}

// ImageAreaClick places a pin draft at (x, y) unless the click closes a
// drag or resize gesture, or a gesture is still in progress.
func (e *Engine) ImageAreaClick(x, y float64) {
	if e.suppressClick {
		e.suppressClick = false
		return
	}
	if e.selecting || e.resizing || e.dragging {
		return
	}
	e.draft = &annotation.Draft{Shape: annotation.NewPin(x, y)}
	e.notify(ChangeDraft)
}

// GrabHandle starts resizing. With a nil id the selection draft is the
// target; otherwise the committed selection with that id, which also becomes
// active. Targets that are missing or are pins are ignored.
func (e *Engine) GrabHandle(dir geometry.Direction, id *uuid.UUID) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidDirection, dir)
	}

	change := ChangeMode
	if id != nil {
		a, ok := e.store.Get(*id)
		if !ok || a.Kind() != annotation.KindSelection {
			return nil
		}
		if e.resizing {
			change |= e.finishResize()
		}
		target := a.ID
		e.resizeID = &target
		if e.activeID == nil || *e.activeID != target {
			active := target
			e.activeID = &active
			change |= ChangeActive
		}
	} else {
		if e.draft == nil {
			return nil
		}
		if _, ok := e.draft.Selection(); !ok {
			return nil
		}
		if e.resizing {
			change |= e.finishResize()
		}
		e.resizeID = nil
		if e.activeID != nil {
			e.activeID = nil
			change |= ChangeActive
		}
	}

	e.selecting = false
	e.dragging = false
	e.resizing = true
	e.direction = dir
	e.suppressClick = false
	e.notify(change)
	return nil
}

// HandleAt finds the resize handle under p. Handles of the active committed
// selection are checked before those of the selection draft. A draft left
// by a press without movement has no extent and exposes no handles. The
// returned id is nil when the handle belongs to the draft.
func (e *Engine) HandleAt(p geometry.Point2D, radius float64) (geometry.Direction, *uuid.UUID, bool) {
	if e.activeID != nil {
		if a, ok := e.store.Get(*e.activeID); ok {
			if sel, ok := a.Selection(); ok {
				if d, hit := geometry.HitTestHandle(sel.Rect, p, radius); hit {
					id := a.ID
					return d, &id, true
				}
			}
		}
	}
	if e.draft != nil {
		if sel, ok := e.draft.Selection(); ok && (sel.Width != 0 || sel.Height != 0) {
			if d, hit := geometry.HitTestHandle(sel.Rect, p, radius); hit {
				return d, nil, true
			}
		}
	}
	return geometry.DirectionNone, nil, false
}

// ActivateAt makes the newest annotation under p active. The click that
// follows the press is swallowed so it does not also drop a pin.
func (e *Engine) ActivateAt(p geometry.Point2D) (annotation.Annotation, bool) {
	if e.selecting || e.resizing {
		return annotation.Annotation{}, false
	}
	a, ok := e.store.HitTest(p, e.opts.PickRadius)
	if !ok {
		return annotation.Annotation{}, false
	}
	e.suppressClick = true
	e.setActive(&a.ID)
	return a, true
}

// Escape releases the active annotation. It does not cancel a gesture.
func (e *Engine) Escape() {
	e.setActive(nil)
}

// SetActive targets an annotation for editing, or releases it with nil.
// Unknown ids are ignored.
func (e *Engine) SetActive(id *uuid.UUID) bool {
	if id != nil {
		if _, ok := e.store.Get(*id); !ok {
			return false
		}
	}
	e.setActive(id)
	return true
}

func (e *Engine) setActive(id *uuid.UUID) {
	if id == nil {
		if e.activeID == nil {
			return
		}
		e.activeID = nil
		e.notify(ChangeActive)
		return
	}
	if e.activeID != nil && *e.activeID == *id {
		return
	}
	v := *id
	e.activeID = &v
	e.notify(ChangeActive)
}

// SetDraftText replaces the pending draft's text.
func (e *Engine) SetDraftText(text string) {
	if e.draft == nil || e.draft.Text == text {
		return
	}
	e.draft.Text = text
	e.notify(ChangeDraft)
}

// CommitDraft stores the pending draft. Without a draft, or with blank
// text, nothing happens and the draft stays pending.
func (e *Engine) CommitDraft() (annotation.Annotation, bool) {
	if e.draft == nil {
		return annotation.Annotation{}, false
	}
	a, ok := e.store.Commit(e.draft.Shape, e.draft.Text)
	if !ok {
		return annotation.Annotation{}, false
	}
	change := ChangeDraft | ChangeAnnotations
	e.draft = nil
	if e.selecting || (e.resizing && e.resizeID == nil) {
		e.selecting = false
		e.resizing = false
		e.direction = geometry.DirectionNone
		change |= ChangeMode
	}
	e.notify(change)
	return a, true
}

// DiscardDraft drops the pending draft.
func (e *Engine) DiscardDraft() {
	if e.draft == nil {
		return
	}
	e.draft = nil
	change := ChangeDraft
	if e.selecting || (e.resizing && e.resizeID == nil) {
		e.selecting = false
		e.resizing = false
		e.direction = geometry.DirectionNone
		change |= ChangeMode
	}
	e.notify(change)
}

// DeleteAnnotation removes an annotation and drops every reference the
// interaction state holds to it.
func (e *Engine) DeleteAnnotation(id uuid.UUID) bool {
	if !e.store.Delete(id) {
		return false
	}
	change := ChangeAnnotations
	if e.activeID != nil && *e.activeID == id {
		e.activeID = nil
		change |= ChangeActive
	}
	if e.resizeID != nil && *e.resizeID == id {
		e.resizeID = nil
		e.resizing = false
		e.direction = geometry.DirectionNone
		change |= ChangeMode
	}
	e.notify(change)
	return true
}

// Restore replaces the committed annotations and resets the interaction
// state to Idle with no draft and nothing active.
func (e *Engine) Restore(list []annotation.Annotation) int {
	n := e.store.Restore(list)
	e.draft = nil
	e.activeID = nil
	e.selecting = false
	e.dragging = false
	e.resizing = false
	e.direction = geometry.DirectionNone
	e.resizeID = nil
	e.suppressClick = false
	e.notify(ChangeAnnotations | ChangeDraft | ChangeActive | ChangeMode)
	return n
}

// SetAnnotationText edits a committed annotation's text. Empty text is allowed.
func (e *Engine) SetAnnotationText(id uuid.UUID, text string) bool {
	if !e.store.UpdateText(id, text) {
		return false
	}
	e.notify(ChangeAnnotations)
	return true
}

// Annotations returns the committed annotations in display order.
func (e *Engine) Annotations() []annotation.Annotation {
	return e.store.List()
}

// Annotation looks up a committed annotation.
func (e *Engine) Annotation(id uuid.UUID) (annotation.Annotation, bool) {
	return e.store.Get(id)
}

// Draft returns a copy of the pending draft, or nil.
func (e *Engine) Draft() *annotation.Draft {
	if e.draft == nil {
		return nil
	}
	d := *e.draft
	return &d
}

// ActiveID returns the active annotation id, or nil.
func (e *Engine) ActiveID() *uuid.UUID {
	if e.activeID == nil {
		return nil
	}
	id := *e.activeID
	return &id
}

// Mode returns the gesture in progress.
func (e *Engine) Mode() Mode {
	return e.State().Mode()
}

// State returns a snapshot of the interaction state.
func (e *Engine) State() State {
	return State{
		Draft:     e.Draft(),
		ActiveID:  e.ActiveID(),
		Selecting: e.selecting,
		Dragging:  e.dragging,
		Resizing:  e.resizing,
		Direction: e.direction,
	}
}
