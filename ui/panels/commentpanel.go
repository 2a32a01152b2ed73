// Package panels provides UI panels for the application.
package panels

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"image-annotator/internal/annotation"
	"image-annotator/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"
)

// CommentPanel lists the committed annotations and hosts the forms for the
// pending draft and the active annotation.
type CommentPanel struct {
	state      *app.State
	recognizer app.TextRecognizer // nil when OCR is unavailable
	container  fyne.CanvasObject
	window     fyne.Window

	items []annotation.Annotation
	list  *widget.List

	draftCard   *widget.Card
	draftEntry  *widget.Entry
	saveBtn     *widget.Button
	discardBtn  *widget.Button
	suggestBtn  *widget.Button
	syncingText bool // set while the entry is updated from engine state

	editCard  *widget.Card
	editEntry *widget.Entry
	applyBtn  *widget.Button
	deleteBtn *widget.Button
	editingID uuid.UUID // annotation whose text is loaded into editEntry
}

// NewCommentPanel creates the annotation panel. recognizer may be nil.
func NewCommentPanel(state *app.State, recognizer app.TextRecognizer) *CommentPanel {
	cp := &CommentPanel{
		state:      state,
		recognizer: recognizer,
	}

	cp.list = widget.NewList(
		func() int {
			return len(cp.items)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("00. [selection] comment")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(cp.items) {
				obj.(*widget.Label).SetText(ListLabel(id, cp.items[id]))
			}
		},
	)
	cp.list.OnSelected = func(id widget.ListItemID) {
		if id < len(cp.items) {
			annID := cp.items[id].ID
			cp.state.Engine().SetActive(&annID)
		}
	}

	cp.buildDraftForm()
	cp.buildEditForm()

	listScroll := container.NewVScroll(cp.list)
	listScroll.SetMinSize(fyne.NewSize(0, 200))

	cp.container = container.NewBorder(
		cp.draftCard,
		cp.editCard,
		nil, nil,
		listScroll,
	)

	cp.state.On(app.EventAnnotationsChanged, func(interface{}) { cp.refreshList() })
	cp.state.On(app.EventDraftChanged, func(interface{}) { cp.refreshDraft() })
	cp.state.On(app.EventActiveChanged, func(interface{}) { cp.refreshActive() })

	cp.refreshList()
	cp.refreshDraft()
	cp.refreshActive()
	return cp
}

func (cp *CommentPanel) buildDraftForm() {
	cp.draftEntry = widget.NewMultiLineEntry()
	cp.draftEntry.SetPlaceHolder("Comment for the new annotation")
	cp.draftEntry.SetMinRowsVisible(3)
	cp.draftEntry.OnChanged = func(text string) {
		if cp.syncingText {
			return
		}
		cp.state.Engine().SetDraftText(text)
	}

	cp.saveBtn = widget.NewButton("Save", cp.onSave)
	cp.saveBtn.Importance = widget.HighImportance
	cp.discardBtn = widget.NewButton("Discard", func() {
		cp.state.Engine().DiscardDraft()
	})
	cp.suggestBtn = widget.NewButton("Suggest text", cp.onSuggest)

	cp.draftCard = widget.NewCard("New annotation", "",
		container.NewVBox(
			cp.draftEntry,
			container.NewHBox(cp.saveBtn, cp.discardBtn, cp.suggestBtn),
		),
	)
}

func (cp *CommentPanel) buildEditForm() {
	cp.editEntry = widget.NewMultiLineEntry()
	cp.editEntry.SetMinRowsVisible(3)

	cp.applyBtn = widget.NewButton("Apply", func() {
		if id := cp.state.Engine().ActiveID(); id != nil {
			cp.state.Engine().SetAnnotationText(*id, cp.editEntry.Text)
		}
	})
	cp.deleteBtn = widget.NewButton("Delete", cp.onDelete)
	cp.deleteBtn.Importance = widget.DangerImportance

	cp.editCard = widget.NewCard("Selected annotation", "",
		container.NewVBox(
			cp.editEntry,
			container.NewHBox(cp.applyBtn, cp.deleteBtn),
		),
	)
}

// Container returns the panel container.
func (cp *CommentPanel) Container() fyne.CanvasObject {
	return cp.container
}

// SetWindow sets the parent window for dialogs.
func (cp *CommentPanel) SetWindow(w fyne.Window) {
	cp.window = w
}

func (cp *CommentPanel) onSave() {
	if _, ok := cp.state.Engine().CommitDraft(); !ok {
		if cp.window != nil {
			dialog.ShowInformation("Comment Required", "Enter a comment before saving", cp.window)
		}
	}
}

func (cp *CommentPanel) onSuggest() {
	if cp.recognizer == nil {
		return
	}
	text, err := cp.state.SuggestDraftText(cp.recognizer)
	switch {
	case errors.Is(err, app.ErrNoSelectionDraft):
		return
	case err != nil:
		log.Printf("Text suggestion failed: %v", err)
		if cp.window != nil {
			dialog.ShowError(err, cp.window)
		}
	case text == "" && cp.window != nil:
		dialog.ShowInformation("Suggest text", "No text found in the selection", cp.window)
	}
}

func (cp *CommentPanel) onDelete() {
	id := cp.state.Engine().ActiveID()
	if id == nil {
		return
	}
	target := *id
	remove := func() { cp.state.Engine().DeleteAnnotation(target) }
	if cp.window == nil {
		remove()
		return
	}
	dialog.ShowConfirm("Delete annotation", "Delete the selected annotation?", func(ok bool) {
		if ok {
			remove()
		}
	}, cp.window)
}

func (cp *CommentPanel) refreshList() {
	cp.items = cp.state.Engine().Annotations()
	cp.list.Refresh()
	cp.refreshActive()
}

func (cp *CommentPanel) refreshDraft() {
	draft := cp.state.Engine().Draft()
	if draft == nil {
		cp.setDraftText("")
		cp.draftCard.SetSubTitle("Click to drop a pin, drag to select a region")
		cp.draftEntry.Disable()
		cp.saveBtn.Disable()
		cp.discardBtn.Disable()
		cp.suggestBtn.Disable()
		return
	}

	cp.setDraftText(draft.Text)
	cp.draftCard.SetSubTitle(DraftSubtitle(*draft))
	cp.draftEntry.Enable()
	cp.discardBtn.Enable()
	if strings.TrimSpace(draft.Text) == "" {
		cp.saveBtn.Disable()
	} else {
		cp.saveBtn.Enable()
	}
	if _, isSel := draft.Selection(); isSel && cp.recognizer != nil {
		cp.suggestBtn.Enable()
	} else {
		cp.suggestBtn.Disable()
	}
}

func (cp *CommentPanel) setDraftText(text string) {
	if cp.draftEntry.Text == text {
		return
	}
	cp.syncingText = true
	cp.draftEntry.SetText(text)
	cp.syncingText = false
}

func (cp *CommentPanel) refreshActive() {
	id := cp.state.Engine().ActiveID()
	idx := indexOf(cp.items, id)
	if idx < 0 {
		cp.list.UnselectAll()
		cp.editingID = uuid.Nil
		cp.editEntry.SetText("")
		cp.editCard.SetSubTitle("None")
		cp.editEntry.Disable()
		cp.applyBtn.Disable()
		cp.deleteBtn.Disable()
		return
	}

	cp.list.Select(idx)
	a := cp.items[idx]
	// Keep unsaved edits while the same annotation is being resized.
	if cp.editingID != a.ID {
		cp.editingID = a.ID
		cp.editEntry.SetText(a.Text)
	}
	cp.editCard.SetSubTitle(fmt.Sprintf("#%d %s", idx+1, a.Kind()))
	cp.editEntry.Enable()
	cp.applyBtn.Enable()
	cp.deleteBtn.Enable()
}

func indexOf(items []annotation.Annotation, id *uuid.UUID) int {
	if id == nil {
		return -1
	}
	for i, a := range items {
		if a.ID == *id {
			return i
		}
	}
	return -1
}

// ListLabel formats one row of the annotation list. Only the first line of
// the comment is shown.
func ListLabel(index int, a annotation.Annotation) string {
	text, _, _ := strings.Cut(a.Text, "\n")
	return fmt.Sprintf("%d. [%s] %s", index+1, a.Kind(), text)
}

// DraftSubtitle describes the draft's geometry in image pixels.
func DraftSubtitle(d annotation.Draft) string {
	switch s := d.Shape.(type) {
	case annotation.Pin:
		return fmt.Sprintf("Pin at %.0f, %.0f", s.X, s.Y)
	case annotation.Selection:
		r := s.Normalize()
		return fmt.Sprintf("Selection %.0fx%.0f at %.0f, %.0f", r.Width, r.Height, r.X, r.Y)
	default:
		return ""
	}
}
