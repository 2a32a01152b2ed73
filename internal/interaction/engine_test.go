package interaction

import (
	"math/rand"
	"testing"

	"image-annotator/internal/annotation"
	"image-annotator/pkg/geometry"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(nil, DefaultOptions())
}

// commitSelection drags out and commits a selection, returning its id.
func commitSelection(t *testing.T, e *Engine, x1, y1, x2, y2 float64, text string) uuid.UUID {
	t.Helper()
	e.PointerDown(x1, y1)
	e.PointerMove(x2, y2)
	e.PointerUp()
	e.ImageAreaClick(x2, y2)
	e.SetDraftText(text)
	a, ok := e.CommitDraft()
	require.True(t, ok)
	return a.ID
}

func selectionRect(t *testing.T, e *Engine, id uuid.UUID) geometry.Rect {
	t.Helper()
	a, ok := e.Annotation(id)
	require.True(t, ok)
	sel, ok := a.Selection()
	require.True(t, ok)
	return sel.Rect
}

func TestScenarioPin(t *testing.T) {
	e := newTestEngine()

	e.PointerDown(50, 50)
	e.PointerUp()
	e.ImageAreaClick(50, 50)

	d := e.Draft()
	require.NotNil(t, d)
	require.Equal(t, annotation.NewPin(50, 50), d.Shape)
	require.Equal(t, "", d.Text)

	e.SetDraftText("hello")
	a, ok := e.CommitDraft()
	require.True(t, ok)
	require.NotEqual(t, uuid.Nil, a.ID)
	require.Equal(t, annotation.KindPin, a.Kind())
	require.Equal(t, geometry.NewPoint2D(50, 50), a.Shape.Anchor())
	require.Equal(t, "hello", a.Text)
	require.Nil(t, e.Draft())
	require.Len(t, e.Annotations(), 1)
}

func TestScenarioSelectionCommit(t *testing.T) {
	e := newTestEngine()

	e.PointerDown(10, 10)
	e.PointerMove(100, 80)
	require.True(t, e.State().Dragging)
	e.PointerUp()
	e.ImageAreaClick(100, 80)

	d := e.Draft()
	require.NotNil(t, d)
	require.Equal(t, annotation.NewSelection(10, 10, 90, 70), d.Shape)
	require.Equal(t, ModeIdle, e.Mode())

	e.SetDraftText("region")
	a, ok := e.CommitDraft()
	require.True(t, ok)
	sel, ok := a.Selection()
	require.True(t, ok)
	require.Equal(t, geometry.NewRect(10, 10, 90, 70), sel.Rect)
	require.Equal(t, "region", a.Text)
}

func TestScenarioInvertedDragNormalizes(t *testing.T) {
	e := newTestEngine()

	e.PointerDown(100, 80)
	e.PointerMove(10, 10)
	e.PointerUp()
	e.ImageAreaClick(10, 10)

	require.Equal(t, annotation.NewSelection(100, 80, -90, -70), e.Draft().Shape)

	e.SetDraftText("region")
	a, ok := e.CommitDraft()
	require.True(t, ok)
	sel, _ := a.Selection()
	require.Equal(t, geometry.NewRect(10, 10, 90, 70), sel.Rect)
}

func TestScenarioResizeCommitted(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "region")

	require.NoError(t, e.GrabHandle(geometry.TopLeft, &id))
	require.Equal(t, ModeResizing, e.Mode())
	require.Equal(t, id, *e.ActiveID())

	e.PointerMove(30, 30)
	require.Equal(t, geometry.NewRect(30, 30, 70, 50), selectionRect(t, e, id))

	e.PointerUp()
	require.Equal(t, ModeIdle, e.Mode())
	require.Equal(t, geometry.DirectionNone, e.State().Direction)
	require.Equal(t, geometry.NewRect(30, 30, 70, 50), selectionRect(t, e, id))
}

func TestResizeRoundTripHasNoDrift(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "region")

	require.NoError(t, e.GrabHandle(geometry.BottomRight, &id))
	e.PointerMove(110, 90)
	require.Equal(t, geometry.NewRect(10, 10, 100, 80), selectionRect(t, e, id))
	e.PointerMove(100, 80)
	e.PointerUp()

	require.Equal(t, geometry.NewRect(10, 10, 90, 70), selectionRect(t, e, id))
}

func TestResizePastOppositeEdgeIsNormalizedOnRelease(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "region")

	require.NoError(t, e.GrabHandle(geometry.TopLeft, &id))
	e.PointerMove(150, 120)
	require.Equal(t, geometry.NewRect(150, 120, -50, -40), selectionRect(t, e, id))

	e.PointerUp()
	require.Equal(t, geometry.NewRect(100, 80, 50, 40), selectionRect(t, e, id))
}

func TestResizeDraftStaysUnnormalizedUntilCommit(t *testing.T) {
	e := newTestEngine()
	e.PointerDown(10, 10)
	e.PointerMove(100, 80)
	e.PointerUp()
	e.ImageAreaClick(100, 80)

	require.NoError(t, e.GrabHandle(geometry.Right, nil))
	require.Nil(t, e.ActiveID())
	e.PointerMove(0, 999)
	e.PointerUp()
	require.Equal(t, annotation.NewSelection(10, 10, -10, 70), e.Draft().Shape)

	e.SetDraftText("flipped")
	a, ok := e.CommitDraft()
	require.True(t, ok)
	sel, _ := a.Selection()
	require.Equal(t, geometry.NewRect(0, 10, 10, 70), sel.Rect)
}

func TestJitterThresholdKeepsClick(t *testing.T) {
	e := newTestEngine()

	e.PointerDown(50, 50)
	e.PointerMove(55, 45)
	require.False(t, e.State().Dragging)
	e.PointerUp()
	require.False(t, e.State().Dragging)

	e.ImageAreaClick(55, 45)
	require.Equal(t, annotation.NewPin(55, 45), e.Draft().Shape)
}

func TestDragSuppressesFollowingClickOnce(t *testing.T) {
	e := newTestEngine()

	e.PointerDown(10, 10)
	e.PointerMove(16, 10)
	require.True(t, e.State().Dragging)
	e.PointerUp()

	e.ImageAreaClick(16, 10)
	_, isSelection := e.Draft().Selection()
	require.True(t, isSelection)

	// The next press starts a fresh gesture; a plain click then pins.
	e.PointerDown(70, 70)
	e.PointerUp()
	e.ImageAreaClick(70, 70)
	require.Equal(t, annotation.NewPin(70, 70), e.Draft().Shape)
}

func TestResizeSuppressesFollowingClick(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "region")

	require.NoError(t, e.GrabHandle(geometry.Bottom, &id))
	e.PointerUp()
	e.ImageAreaClick(55, 80)
	require.Nil(t, e.Draft())
}

func TestClickIgnoredWhileSelecting(t *testing.T) {
	e := newTestEngine()
	e.PointerDown(10, 10)
	e.ImageAreaClick(10, 10)

	_, isSelection := e.Draft().Selection()
	require.True(t, isSelection)
	require.Equal(t, ModeSelecting, e.Mode())
}

func TestPointerDownReleasesActive(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "region")
	require.True(t, e.SetActive(&id))

	e.PointerDown(200, 200)
	require.Nil(t, e.ActiveID())
}

func TestEscapeReleasesActiveOnly(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "region")

	require.NoError(t, e.GrabHandle(geometry.BottomRight, &id))
	e.Escape()
	require.Nil(t, e.ActiveID())
	require.Equal(t, ModeResizing, e.Mode())

	// The gesture keeps its original target.
	e.PointerMove(120, 90)
	e.PointerUp()
	require.Equal(t, geometry.NewRect(10, 10, 110, 80), selectionRect(t, e, id))
}

func TestGrabHandleRejectsInvalidDirection(t *testing.T) {
	e := newTestEngine()
	err := e.GrabHandle(geometry.DirectionNone, nil)
	require.ErrorIs(t, err, ErrInvalidDirection)
	err = e.GrabHandle(geometry.Direction(99), nil)
	require.ErrorIs(t, err, ErrInvalidDirection)
	require.Equal(t, ModeIdle, e.Mode())
}

func TestGrabHandleIgnoresMissingTargets(t *testing.T) {
	e := newTestEngine()

	require.NoError(t, e.GrabHandle(geometry.Top, nil))
	require.Equal(t, ModeIdle, e.Mode())

	missing := uuid.New()
	require.NoError(t, e.GrabHandle(geometry.Top, &missing))
	require.Equal(t, ModeIdle, e.Mode())

	e.PointerDown(5, 5)
	e.PointerUp()
	e.ImageAreaClick(5, 5)
	e.SetDraftText("pin")
	pin, ok := e.CommitDraft()
	require.True(t, ok)
	require.NoError(t, e.GrabHandle(geometry.Top, &pin.ID))
	require.Equal(t, ModeIdle, e.Mode())

	// A pin draft has no handles either.
	e.PointerDown(6, 6)
	e.PointerUp()
	e.ImageAreaClick(6, 6)
	require.NoError(t, e.GrabHandle(geometry.Top, nil))
	require.Equal(t, ModeIdle, e.Mode())
}

func TestGrabHandleEndsSelecting(t *testing.T) {
	e := newTestEngine()
	e.PointerDown(10, 10)
	e.PointerMove(50, 50)

	require.NoError(t, e.GrabHandle(geometry.BottomRight, nil))
	s := e.State()
	require.False(t, s.Selecting)
	require.True(t, s.Resizing)
}

func TestMovesWithoutGestureAreNoOps(t *testing.T) {
	e := newTestEngine()
	e.PointerMove(40, 40)
	e.PointerUp()
	require.Nil(t, e.Draft())
	require.Equal(t, ModeIdle, e.Mode())
}

func TestCommitWithoutDraftOrText(t *testing.T) {
	e := newTestEngine()
	_, ok := e.CommitDraft()
	require.False(t, ok)

	e.ImageAreaClick(1, 1)
	e.SetDraftText("   ")
	_, ok = e.CommitDraft()
	require.False(t, ok)
	require.NotNil(t, e.Draft(), "draft stays pending")
	require.Empty(t, e.Annotations())
}

func TestDeleteClearsActiveAndIsIdempotent(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "region")
	require.True(t, e.SetActive(&id))

	require.True(t, e.DeleteAnnotation(id))
	require.Nil(t, e.ActiveID())
	require.False(t, e.DeleteAnnotation(id))
	require.Empty(t, e.Annotations())
}

func TestDeleteDuringResizeEndsGesture(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "region")
	require.NoError(t, e.GrabHandle(geometry.Left, &id))

	require.True(t, e.DeleteAnnotation(id))
	require.Equal(t, ModeIdle, e.Mode())
	e.PointerMove(0, 0)
	require.Empty(t, e.Annotations())
}

func TestSetAnnotationTextAllowsEmpty(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "region")

	require.True(t, e.SetAnnotationText(id, ""))
	a, _ := e.Annotation(id)
	require.Equal(t, "", a.Text)
	require.False(t, e.SetAnnotationText(uuid.New(), "x"))
}

func TestSetActiveUnknownID(t *testing.T) {
	e := newTestEngine()
	missing := uuid.New()
	require.False(t, e.SetActive(&missing))
	require.Nil(t, e.ActiveID())
	require.True(t, e.SetActive(nil))
}

func TestActivateAtSwallowsClick(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "region")

	a, ok := e.ActivateAt(geometry.NewPoint2D(50, 50))
	require.True(t, ok)
	require.Equal(t, id, a.ID)
	require.Equal(t, id, *e.ActiveID())

	e.ImageAreaClick(50, 50)
	require.Nil(t, e.Draft())

	_, ok = e.ActivateAt(geometry.NewPoint2D(300, 300))
	require.False(t, ok)
}

func TestHandleAt(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "region")

	_, _, ok := e.HandleAt(geometry.NewPoint2D(10, 10), 4)
	require.False(t, ok, "inactive selections expose no handles")

	require.True(t, e.SetActive(&id))
	d, got, ok := e.HandleAt(geometry.NewPoint2D(99, 81), 4)
	require.True(t, ok)
	require.Equal(t, geometry.BottomRight, d)
	require.Equal(t, id, *got)

	e.PointerDown(200, 200)
	e.PointerMove(300, 260)
	e.PointerUp()
	d, got, ok = e.HandleAt(geometry.NewPoint2D(250, 200), 4)
	require.True(t, ok)
	require.Equal(t, geometry.Top, d)
	require.Nil(t, got)

	// A press with no movement and no click leaves an empty draft behind.
	e.PointerDown(400, 400)
	e.PointerUp()
	require.NotNil(t, e.Draft())
	_, _, ok = e.HandleAt(geometry.NewPoint2D(401, 400), 4)
	require.False(t, ok, "an empty draft has no handles")
}

func TestChangeNotifications(t *testing.T) {
	e := newTestEngine()
	var got []Change
	e.OnChange(func(c Change) { got = append(got, c) })

	e.PointerDown(0, 0)
	e.PointerMove(20, 20)
	e.PointerUp()
	e.SetDraftText("x")
	e.CommitDraft()

	require.Len(t, got, 5)
	require.True(t, got[0].Has(ChangeDraft|ChangeMode))
	require.True(t, got[1].Has(ChangeDraft|ChangeMode), "crossing the jitter threshold changes mode")
	require.True(t, got[2].Has(ChangeMode))
	require.True(t, got[3].Has(ChangeDraft))
	require.True(t, got[4].Has(ChangeDraft|ChangeAnnotations))
}

func TestSnapshotsAreCopies(t *testing.T) {
	e := newTestEngine()
	e.ImageAreaClick(1, 1)
	d := e.Draft()
	d.Text = "mutated"
	require.Equal(t, "", e.Draft().Text)
}

func TestNeverSelectingAndResizing(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := newTestEngine()
	dirs := geometry.Directions

	for step := 0; step < 5000; step++ {
		x, y := rng.Float64()*400, rng.Float64()*300
		switch rng.Intn(11) {
		case 0, 1:
			e.PointerDown(x, y)
		case 2, 3, 4:
			e.PointerMove(x, y)
		case 5:
			e.PointerUp()
		case 6:
			e.ImageAreaClick(x, y)
		case 7:
			var id *uuid.UUID
			if list := e.Annotations(); len(list) > 0 && rng.Intn(2) == 0 {
				id = &list[rng.Intn(len(list))].ID
			}
			require.NoError(t, e.GrabHandle(dirs[rng.Intn(len(dirs))], id))
		case 8:
			e.SetDraftText("note")
			e.CommitDraft()
		case 9:
			e.Escape()
		case 10:
			if list := e.Annotations(); len(list) > 0 {
				e.DeleteAnnotation(list[rng.Intn(len(list))].ID)
			}
		}

		s := e.State()
		require.False(t, s.Selecting && s.Resizing, "step %d", step)
		if s.ActiveID != nil {
			_, ok := e.Annotation(*s.ActiveID)
			require.True(t, ok, "active id must reference a stored annotation")
		}
		if !s.Resizing {
			for _, a := range e.Annotations() {
				if sel, ok := a.Selection(); ok {
					require.True(t, sel.IsNormalized(), "committed selections are normalized at rest")
				}
			}
		}
	}
}

func TestRestoreResetsInteraction(t *testing.T) {
	e := newTestEngine()
	id := commitSelection(t, e, 10, 10, 100, 80, "old")
	require.True(t, e.SetActive(&id))
	e.PointerDown(5, 5)
	e.PointerMove(40, 40)

	loaded := []annotation.Annotation{{ID: uuid.New(), Shape: annotation.NewPin(3, 4), Text: "loaded"}}
	require.Equal(t, 1, e.Restore(loaded))

	st := e.State()
	require.Nil(t, st.Draft)
	require.Nil(t, st.ActiveID)
	require.Equal(t, ModeIdle, st.Mode())
	require.Equal(t, loaded, e.Annotations())

	// No stale suppression: the next click drops a pin.
	e.ImageAreaClick(7, 7)
	require.NotNil(t, e.Draft())
}
