package annotation

import (
	"testing"

	"image-annotator/pkg/geometry"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCommitRejectsBlankText(t *testing.T) {
	s := NewStore()

	for _, text := range []string{"", "   ", "\n\t"} {
		_, ok := s.Commit(NewPin(1, 2), text)
		require.False(t, ok, "text %q", text)
	}
	_, ok := s.Commit(nil, "hello")
	require.False(t, ok)
	require.Equal(t, 0, s.Len())
}

func TestCommitPin(t *testing.T) {
	s := NewStore()

	a, ok := s.Commit(NewPin(50, 50), "hello")
	require.True(t, ok)
	require.NotEqual(t, uuid.Nil, a.ID)
	require.Equal(t, KindPin, a.Kind())
	require.Equal(t, geometry.NewPoint2D(50, 50), a.Shape.Anchor())
	require.Equal(t, "hello", a.Text)
}

func TestCommitNormalizesSelection(t *testing.T) {
	s := NewStore()

	a, ok := s.Commit(NewSelection(100, 80, -90, -70), "region")
	require.True(t, ok)
	sel, ok := a.Selection()
	require.True(t, ok)
	require.Equal(t, geometry.NewRect(10, 10, 90, 70), sel.Rect)
}

func TestCommitKeepsInsertionOrderAndUniqueIDs(t *testing.T) {
	s := NewStore()
	seen := map[uuid.UUID]bool{}
	for i := 0; i < 20; i++ {
		a, ok := s.Commit(NewPin(float64(i), 0), "p")
		require.True(t, ok)
		require.False(t, seen[a.ID])
		seen[a.ID] = true
	}
	list := s.List()
	require.Len(t, list, 20)
	for i, a := range list {
		require.Equal(t, float64(i), a.Shape.Anchor().X)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := NewStore()
	a, _ := s.Commit(NewPin(1, 1), "a")
	b, _ := s.Commit(NewPin(2, 2), "b")

	require.True(t, s.Delete(a.ID))
	after := s.List()
	require.False(t, s.Delete(a.ID))
	require.Equal(t, after, s.List())
	require.Equal(t, []Annotation{b}, after)

	require.False(t, s.Delete(uuid.New()))
}

func TestUpdateTextAllowsEmpty(t *testing.T) {
	s := NewStore()
	a, _ := s.Commit(NewPin(1, 1), "a")

	require.True(t, s.UpdateText(a.ID, ""))
	got, ok := s.Get(a.ID)
	require.True(t, ok)
	require.Equal(t, "", got.Text)

	require.False(t, s.UpdateText(uuid.New(), "x"))
}

func TestResizeOnlySelections(t *testing.T) {
	s := NewStore()
	pin, _ := s.Commit(NewPin(1, 1), "pin")
	sel, _ := s.Commit(NewSelection(10, 10, 90, 70), "sel")

	require.False(t, s.Resize(pin.ID, geometry.NewRect(0, 0, 5, 5)))
	require.True(t, s.Resize(sel.ID, geometry.NewRect(30, 30, 70, 50)))

	got, _ := s.Get(sel.ID)
	r, _ := got.Selection()
	require.Equal(t, geometry.NewRect(30, 30, 70, 50), r.Rect)
}

func TestListIsACopy(t *testing.T) {
	s := NewStore()
	s.Commit(NewPin(1, 1), "a")
	list := s.List()
	list[0].Text = "mutated"

	got := s.List()
	require.Equal(t, "a", got[0].Text)
}

func TestHitTestPrefersNewest(t *testing.T) {
	s := NewStore()
	s.Commit(NewSelection(0, 0, 100, 100), "outer")
	inner, _ := s.Commit(NewSelection(40, 40, 20, 20), "inner")
	pin, _ := s.Commit(NewPin(90, 90), "pin")

	a, ok := s.HitTest(geometry.NewPoint2D(50, 50), 6)
	require.True(t, ok)
	require.Equal(t, inner.ID, a.ID)

	a, ok = s.HitTest(geometry.NewPoint2D(93, 88), 6)
	require.True(t, ok)
	require.Equal(t, pin.ID, a.ID)

	_, ok = s.HitTest(geometry.NewPoint2D(150, 150), 6)
	require.False(t, ok)
}
