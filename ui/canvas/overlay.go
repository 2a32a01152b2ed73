package canvas

import (
	"image"
	"math"

	"image-annotator/internal/annotation"
	"image-annotator/internal/interaction"
	"image-annotator/pkg/colorutil"
	"image-annotator/pkg/geometry"
)

// Overlay is everything drawn on top of the image for one frame.
type Overlay struct {
	Annotations []annotation.Annotation
	State       interaction.State
	Zoom        float64
	HandleHalf  int // canvas pixels
	PinRadius   int // canvas pixels
}

// NewOverlay snapshots the engine for drawing.
func NewOverlay(e *interaction.Engine, zoom float64) Overlay {
	return Overlay{
		Annotations: e.Annotations(),
		State:       e.State(),
		Zoom:        zoom,
		HandleHalf:  4,
		PinRadius:   7,
	}
}

func (o Overlay) toCanvas(p geometry.Point2D) (int, int) {
	return int(math.Round(p.X * o.Zoom)), int(math.Round(p.Y * o.Zoom))
}

func (o Overlay) rectToCanvas(r geometry.Rect) canvasRect {
	n := r.Normalize()
	x1, y1 := o.toCanvas(n.TopLeft())
	x2, y2 := o.toCanvas(n.BottomRight())
	return canvasRect{x1, y1, x2, y2}
}

func (o Overlay) isActive(a annotation.Annotation) bool {
	return o.State.ActiveID != nil && *o.State.ActiveID == a.ID
}

// Draw renders the overlay onto output. Committed annotations are drawn in
// list order and numbered like the list; the active one and the draft get
// resize handles.
func (o Overlay) Draw(output *image.RGBA) {
	labelScale := max(1, int(o.Zoom*2))

	for i, a := range o.Annotations {
		active := o.isActive(a)
		switch s := a.Shape.(type) {
		case annotation.Pin:
			cx, cy := o.toCanvas(s.Point2D)
			drawDisc(output, cx, cy, o.PinRadius, colorutil.Outline(true, active), colorutil.Black)
			drawNumber(output, i+1, cx+o.PinRadius+2, cy-o.PinRadius, labelScale, colorutil.Outline(true, active))
		case annotation.Selection:
			r := o.rectToCanvas(s.Rect)
			fillRect(output, r, colorutil.Fill(active))
			drawRectOutline(output, r, colorutil.Outline(false, active), 2)
			drawNumber(output, i+1, r.x1+3, r.y1+3, labelScale, colorutil.Outline(false, active))
			if active {
				o.drawHandles(output, s.Rect)
			}
		}
	}

	if o.State.Draft == nil {
		return
	}
	switch s := o.State.Draft.Shape.(type) {
	case annotation.Pin:
		cx, cy := o.toCanvas(s.Point2D)
		drawDisc(output, cx, cy, o.PinRadius, colorutil.Draft, colorutil.Black)
	case annotation.Selection:
		r := o.rectToCanvas(s.Rect)
		drawDashedRect(output, r, colorutil.Draft)
		if !o.State.Selecting {
			o.drawHandles(output, s.Rect)
		}
	}
}

func (o Overlay) drawHandles(output *image.RGBA, r geometry.Rect) {
	for _, p := range geometry.HandlePoints(r) {
		x, y := o.toCanvas(p)
		drawHandle(output, x, y, o.HandleHalf)
	}
}
