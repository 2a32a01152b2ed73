// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"image-annotator/internal/app"
	annimage "image-annotator/internal/image"
	"image-annotator/internal/version"
	"image-annotator/pkg/geometry"
	"image-annotator/ui/canvas"
	"image-annotator/ui/panels"
	"image-annotator/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Image Annotator"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app          fyne.App
	state        *app.State
	prefs        *prefs.Prefs
	canvas       *canvas.AnnotationCanvas
	commentPanel *panels.CommentPanel
	statusBar    *widget.Label
	zoomLabel    *widget.Label

	recognizer app.TextRecognizer
	watcher    *app.FileWatcher

	pointer geometry.Point2D // last pointer position in image coordinates
}

// New creates a new main window. recognizer may be nil when OCR is disabled.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, recognizer app.TextRecognizer) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:     win,
		app:        fyneApp,
		state:      state,
		prefs:      p,
		recognizer: recognizer,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeys()
	mw.setupEventHandlers()
	mw.restoreLastImage()

	mw.Resize(fyne.NewSize(1200, 800))
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewAnnotationCanvas(mw.state.Engine())
	mw.canvas.SetHandleRadius(mw.prefs.PositiveFloat(prefs.KeyHandleRadius, canvas.DefaultHandleRadius))
	mw.canvas.OnPointerMove(func(x, y float64) {
		mw.pointer = geometry.NewPoint2D(x, y)
		mw.updateStatus()
	})
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.zoomLabel.SetText(fmt.Sprintf("%.0f%%", zoom*100))
	})

	mw.commentPanel = panels.NewCommentPanel(mw.state, mw.recognizer)
	mw.commentPanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Open an image to start annotating")
	mw.zoomLabel = widget.NewLabel("100%")

	canvasArea := container.NewBorder(
		mw.createToolbar(), // top
		nil,                // bottom
		nil,                // left
		nil,                // right
		mw.canvas,          // center
	)

	// canvas area | comment panel
	split := container.NewHSplit(canvasArea, mw.commentPanel.Container())
	split.SetOffset(0.72)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("Open...", mw.onOpenImage),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.canvas.ZoomOut),
		widget.NewButton("+", mw.canvas.ZoomIn),
		widget.NewButton("Fit", mw.canvas.FitToWindow),
		widget.NewButton("1:1", mw.onActualSize),
		mw.zoomLabel,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Annotations...", mw.onOpenAnnotations),
		fyne.NewMenuItem("Save Annotations", mw.onSaveAnnotations),
		fyne.NewMenuItem("Save Annotations As...", mw.onSaveAnnotationsAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Save Draft", func() { mw.state.Engine().CommitDraft() }),
		fyne.NewMenuItem("Discard Draft", func() { mw.state.Engine().DiscardDraft() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Deselect", func() { mw.state.Engine().Escape() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.canvas.FitToWindow),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupKeys routes window-level keys. Escape releases the active
// annotation; it never cancels a drag in progress.
func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			mw.state.Engine().Escape()
		case fyne.KeyDelete:
			if id := mw.state.Engine().ActiveID(); id != nil {
				mw.state.Engine().DeleteAnnotation(*id)
			}
		}
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	redraw := func(interface{}) { mw.canvas.Refresh() }
	mw.state.On(app.EventAnnotationsChanged, redraw)
	mw.state.On(app.EventDraftChanged, redraw)
	mw.state.On(app.EventActiveChanged, redraw)

	mw.state.On(app.EventModeChanged, func(interface{}) {
		mw.canvas.Refresh()
		mw.updateStatus()
	})

	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if layer, ok := data.(*annimage.Layer); ok {
			mw.canvas.SetImage(layer)
			mw.canvas.FitToWindow()
			mw.updateTitle()
		}
	})

	mw.state.On(app.EventAnnotationsLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.watch(path)
		}
		mw.canvas.Refresh()
		mw.updateTitle()
	})

	mw.state.On(app.EventAnnotationsSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.watch(path)
		}
		mw.updateTitle()
	})

	mw.state.On(app.EventModified, func(interface{}) {
		mw.updateTitle()
	})
}

// updateStatus shows the interaction mode and pointer position.
func (mw *MainWindow) updateStatus() {
	if mw.state.Image() == nil {
		return
	}
	e := mw.state.Engine()
	text := fmt.Sprintf("%s  |  %.0f, %.0f  |  %d annotations",
		e.Mode(), mw.pointer.X, mw.pointer.Y, len(e.Annotations()))
	if st := e.State(); st.Resizing {
		text += "  |  resizing " + st.Direction.String()
	}
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateTitle() {
	title := appTitle
	if layer := mw.state.Image(); layer != nil {
		title += " - " + filepath.Base(layer.Path)
	}
	if mw.state.Modified {
		title += " *"
	}
	mw.SetTitle(title)
}

// watch offers to reload the annotations file when another program
// rewrites it.
func (mw *MainWindow) watch(path string) {
	if mw.watcher != nil {
		mw.watcher.Stop()
	}
	mw.watcher = app.NewFileWatcher(path, 2*time.Second)
	if mw.watcher == nil {
		return
	}
	mw.watcher.OnChange(func(changed string) {
		log.Printf("Annotations file changed on disk: %s", changed)
		dialog.ShowConfirm("Annotations changed",
			"The annotations file was modified outside the editor.\nReload it?",
			func(reload bool) {
				if reload {
					if err := mw.state.LoadAnnotations(changed); err != nil {
						dialog.ShowError(err, mw.Window)
					}
					return
				}
				mw.watcher.ResetBaseline()
				mw.watcher.Start()
			}, mw.Window)
	})
	mw.watcher.Start()
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDirectory, filepath.Dir(filePath))
	mw.savePrefs()
}

func (mw *MainWindow) savePrefs() {
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// restoreLastImage reopens the image from the previous session.
func (mw *MainWindow) restoreLastImage() {
	path := mw.prefs.String(prefs.KeyLastImage)
	if path == "" {
		return
	}
	if err := mw.state.LoadImage(path); err != nil {
		log.Printf("Failed to restore last image %s: %v", path, err)
	}
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.OpenImage(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(annimage.SupportedExtensions))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// OpenImage loads path, asking first when unsaved annotations would be lost.
func (mw *MainWindow) OpenImage(path string) {
	load := func() {
		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastImage, path)
		mw.savePrefs()
	}
	if !mw.state.Modified || len(mw.state.Engine().Annotations()) == 0 {
		load()
		return
	}
	dialog.ShowConfirm("Unsaved annotations",
		"Opening another image discards the current annotations. Continue?",
		func(ok bool) {
			if ok {
				load()
			}
		}, mw.Window)
}

func (mw *MainWindow) onOpenAnnotations() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadAnnotations(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveAnnotations() {
	if mw.state.AnnotationsPath == "" {
		mw.onSaveAnnotationsAs()
		return
	}
	mw.saveAnnotations(mw.state.AnnotationsPath)
}

func (mw *MainWindow) onSaveAnnotationsAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}
		mw.saveLastDir(path)
		mw.saveAnnotations(path)
	}, mw.Window)
	name := "annotations.json"
	if layer := mw.state.Image(); layer != nil {
		base := filepath.Base(layer.Path)
		name = base[:len(base)-len(filepath.Ext(base))] + ".annotations.json"
	}
	fd.SetFileName(name)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) saveAnnotations(path string) {
	// Our own write must not trigger the reload prompt.
	if mw.watcher != nil {
		mw.watcher.Stop()
	}
	if err := mw.state.SaveAnnotations(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onActualSize() {
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) onAbout() {
	opts := mw.state.Engine().Options()
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Pin and region commentary for images.\n"+
			"Click to drop a pin, drag to select a region,\n"+
			"drag a handle to resize. Esc deselects.\n\n"+
			"Drag threshold: %.0f px\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, opts.JitterThreshold, version.BuildTime, version.GitCommit),
		mw.Window)
}
