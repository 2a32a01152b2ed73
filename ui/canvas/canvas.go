// Package canvas provides the annotation canvas: the image with its pins,
// selections and draft drawn on top, turning mouse input into engine calls.
package canvas

import (
	"image"
	"image/color"

	annimage "image-annotator/internal/image"
	"image-annotator/internal/interaction"
	"image-annotator/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	// DefaultHandleRadius is the half-size of a handle hit area in screen pixels.
	DefaultHandleRadius = 6.0
)

// AnnotationCanvas displays an image and forwards pointer input to an
// interaction engine in image coordinates.
type AnnotationCanvas struct {
	widget.BaseWidget

	engine *interaction.Engine
	layer  *annimage.Layer

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	handleRadius float64 // screen pixels

	// pressed is true between a primary MouseDown and its MouseUp.
	pressed bool

	// Container
	scroll  *zoomScroll
	content *interactiveContent
	imgSize fyne.Size

	// Callbacks
	onZoomChange  func(zoom float64)
	onPointerMove func(x, y float64) // image coordinates
}

// NewAnnotationCanvas creates a canvas driving engine.
func NewAnnotationCanvas(engine *interaction.Engine) *AnnotationCanvas {
	ac := &AnnotationCanvas{
		engine:       engine,
		zoom:         1.0,
		handleRadius: DefaultHandleRadius,
		imgSize:      fyne.NewSize(400, 300),
	}

	ac.raster = fynecanvas.NewRaster(ac.draw)
	ac.raster.ScaleMode = fynecanvas.ImageScalePixels
	ac.raster.SetMinSize(ac.imgSize)

	ac.content = newInteractiveContent(ac, ac.raster)
	ac.scroll = newZoomScroll(ac.content, ac)

	ac.ExtendBaseWidget(ac)
	return ac
}

// SetImage sets the image to annotate.
func (ac *AnnotationCanvas) SetImage(layer *annimage.Layer) {
	ac.layer = layer
	ac.updateContentSize()
}

// SetHandleRadius sets the handle hit half-size in screen pixels.
func (ac *AnnotationCanvas) SetHandleRadius(px float64) {
	if px > 0 {
		ac.handleRadius = px
	}
}

// SetZoom sets the zoom level.
func (ac *AnnotationCanvas) SetZoom(zoom float64) {
	zoom = max(minZoom, min(maxZoom, zoom))
	ac.zoom = zoom
	ac.updateContentSize()

	if ac.onZoomChange != nil {
		ac.onZoomChange(zoom)
	}
}

// GetZoom returns the current zoom level.
func (ac *AnnotationCanvas) GetZoom() float64 {
	return ac.zoom
}

// ZoomIn increases the zoom level.
func (ac *AnnotationCanvas) ZoomIn() {
	ac.SetZoom(ac.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ac *AnnotationCanvas) ZoomOut() {
	ac.SetZoom(ac.zoom / zoomStep)
}

// FitToWindow adjusts zoom to fit the image in the visible area.
func (ac *AnnotationCanvas) FitToWindow() {
	if ac.layer.Width() == 0 || ac.layer.Height() == 0 {
		return
	}
	viewSize := ac.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}
	zoomX := float64(viewSize.Width) / float64(ac.layer.Width())
	zoomY := float64(viewSize.Height) / float64(ac.layer.Height())
	ac.SetZoom(min(zoomX, zoomY) * 0.95) // Leave a small margin
}

// OnZoomChange sets a callback for zoom changes.
func (ac *AnnotationCanvas) OnZoomChange(callback func(zoom float64)) {
	ac.onZoomChange = callback
}

// OnPointerMove sets a callback for pointer motion over the image.
// Coordinates are in image space (not zoomed).
func (ac *AnnotationCanvas) OnPointerMove(callback func(x, y float64)) {
	ac.onPointerMove = callback
}

// Refresh redraws the image and overlay.
func (ac *AnnotationCanvas) Refresh() {
	ac.raster.Refresh()
}

// ImageToCanvas converts image coordinates to canvas coordinates.
func (ac *AnnotationCanvas) ImageToCanvas(imgX, imgY float64) (canvasX, canvasY float64) {
	return imgX * ac.zoom, imgY * ac.zoom
}

// CanvasToImage converts canvas coordinates to image coordinates, clamped
// to the image so a drag that leaves the picture pins to its edge.
func (ac *AnnotationCanvas) CanvasToImage(canvasX, canvasY float64) geometry.Point2D {
	p := geometry.NewPoint2D(canvasX/ac.zoom, canvasY/ac.zoom)
	return ac.layer.Size().Clamp(p)
}

// pointerDown routes a primary press: a handle under the pointer starts a
// resize, a committed annotation under it becomes active, and anything
// else starts a new selection.
func (ac *AnnotationCanvas) pointerDown(p geometry.Point2D) {
	ac.pressed = true
	if dir, id, ok := ac.engine.HandleAt(p, ac.handleRadius/ac.zoom); ok {
		if err := ac.engine.GrabHandle(dir, id); err == nil {
			return
		}
	}
	if _, ok := ac.engine.ActivateAt(p); ok {
		return
	}
	ac.engine.PointerDown(p.X, p.Y)
}

func (ac *AnnotationCanvas) pointerMove(p geometry.Point2D) {
	if ac.pressed {
		ac.engine.PointerMove(p.X, p.Y)
	}
	if ac.onPointerMove != nil {
		ac.onPointerMove(p.X, p.Y)
	}
}

func (ac *AnnotationCanvas) pointerUp() {
	if !ac.pressed {
		return
	}
	ac.pressed = false
	ac.engine.PointerUp()
}

func (ac *AnnotationCanvas) click(p geometry.Point2D) {
	ac.engine.ImageAreaClick(p.X, p.Y)
}

// updateContentSize updates the content size based on image and zoom.
func (ac *AnnotationCanvas) updateContentSize() {
	if ac.layer.Width() == 0 || ac.layer.Height() == 0 {
		ac.imgSize = fyne.NewSize(400, 300)
	} else {
		ac.imgSize = fyne.NewSize(
			float32(float64(ac.layer.Width())*ac.zoom),
			float32(float64(ac.layer.Height())*ac.zoom),
		)
	}

	ac.raster.SetMinSize(ac.imgSize)
	ac.raster.Resize(ac.imgSize)
	if ac.content != nil {
		ac.content.Resize(ac.imgSize)
		ac.content.Refresh()
	}
	ac.raster.Refresh()
	if ac.scroll != nil {
		ac.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (ac *AnnotationCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(output, output.Bounds(), image.NewUniform(color.Black), image.Point{}, xdraw.Src)

	if ac.layer != nil && ac.layer.Image != nil && ac.layer.Visible {
		src := ac.layer.Image
		dst := image.Rect(0, 0,
			int(float64(src.Bounds().Dx())*ac.zoom),
			int(float64(src.Bounds().Dy())*ac.zoom))
		var scaler xdraw.Scaler = xdraw.NearestNeighbor
		if ac.zoom < 1 {
			scaler = xdraw.ApproxBiLinear
		}
		scaler.Scale(output, dst, src, src.Bounds(), xdraw.Over, nil)
	}

	if ac.engine != nil {
		NewOverlay(ac.engine, ac.zoom).Draw(output)
	}
	return output
}

// CreateRenderer implements fyne.Widget.
func (ac *AnnotationCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ac.scroll)
}

// zoomScroll is a widget that wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *AnnotationCanvas
}

func newZoomScroll(content fyne.CanvasObject, ac *AnnotationCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: ac}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	// Use wheel for zoom, not scroll
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// interactiveContent wraps the raster to receive mouse events.
type interactiveContent struct {
	widget.BaseWidget
	canvas *AnnotationCanvas
	raster *fynecanvas.Raster
}

var (
	_ desktop.Mouseable = (*interactiveContent)(nil)
	_ desktop.Hoverable = (*interactiveContent)(nil)
	_ fyne.Draggable    = (*interactiveContent)(nil)
	_ fyne.Tappable     = (*interactiveContent)(nil)
)

func newInteractiveContent(ac *AnnotationCanvas, raster *fynecanvas.Raster) *interactiveContent {
	ic := &interactiveContent{canvas: ac, raster: raster}
	ic.ExtendBaseWidget(ic)
	return ic
}

func (ic *interactiveContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ic.raster)
}

func (ic *interactiveContent) MinSize() fyne.Size {
	return ic.raster.MinSize()
}

// toImage converts a widget-relative position to image coordinates.
func (ic *interactiveContent) toImage(pos fyne.Position) geometry.Point2D {
	return ic.canvas.CanvasToImage(float64(pos.X), float64(pos.Y))
}

func (ic *interactiveContent) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ic.canvas.pointerDown(ic.toImage(ev.Position))
}

func (ic *interactiveContent) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ic.canvas.pointerUp()
}

func (ic *interactiveContent) MouseIn(ev *desktop.MouseEvent) {}

func (ic *interactiveContent) MouseMoved(ev *desktop.MouseEvent) {
	ic.canvas.pointerMove(ic.toImage(ev.Position))
}

func (ic *interactiveContent) MouseOut() {}

// Dragged delivers motion while the button is held; fyne routes it here
// instead of MouseMoved once a drag has begun.
func (ic *interactiveContent) Dragged(ev *fyne.DragEvent) {
	ic.canvas.pointerMove(ic.toImage(ev.Position))
}

// DragEnd is a fallback for a release that happens outside the widget,
// where MouseUp is not delivered.
func (ic *interactiveContent) DragEnd() {
	ic.canvas.pointerUp()
}

func (ic *interactiveContent) Tapped(ev *fyne.PointEvent) {
	// Workaround for Fyne bug: reject clicks outside widget bounds
	size := ic.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	ic.canvas.click(ic.toImage(ev.Position))
}

func (ic *interactiveContent) Scrolled(ev *fyne.ScrollEvent) {
	// Use mouse wheel for zooming
	if ev.Scrolled.DY > 0 {
		ic.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		ic.canvas.ZoomOut()
	}
}
