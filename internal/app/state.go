// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"bytes"
	"errors"
	"fmt"
	goimage "image"
	"log"
	"os"
	"sync"

	"image-annotator/internal/annotation"
	"image-annotator/internal/image"
	"image-annotator/internal/interaction"
)

// ErrNoSelectionDraft is returned when a region operation needs a
// selection draft and there is none.
var ErrNoSelectionDraft = errors.New("no selection draft")

// State holds the application state: the loaded image, the interaction
// engine with its annotations, and the file they were last saved to.
type State struct {
	mu sync.RWMutex

	image  *image.Layer
	engine *interaction.Engine

	AnnotationsPath string
	Modified        bool

	lastMode interaction.Mode

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventAnnotationsLoaded
	EventAnnotationsSaved
	EventAnnotationsChanged
	EventDraftChanged
	EventActiveChanged
	EventModeChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// TextRecognizer reads text from an image region.
type TextRecognizer interface {
	RecognizeImage(img goimage.Image) (string, error)
}

// NewState creates a new application state around a fresh engine.
func NewState(opts interaction.Options) *State {
	s := &State{
		engine:    interaction.NewEngine(annotation.NewStore(), opts),
		listeners: make(map[EventType][]EventListener),
	}
	s.engine.OnChange(s.forward)
	return s
}

// Engine returns the interaction engine.
func (s *State) Engine() *interaction.Engine {
	return s.engine
}

// Image returns the loaded image, or nil.
func (s *State) Image() *image.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.image
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// forward fans engine changes out as application events.
func (s *State) forward(c interaction.Change) {
	if c.Has(interaction.ChangeMode) {
		mode := s.engine.Mode()
		s.mu.Lock()
		prev := s.lastMode
		s.lastMode = mode
		s.mu.Unlock()
		if prev != mode {
			log.Printf("Interaction: %s -> %s", prev, mode)
		}
		s.Emit(EventModeChanged, mode)
	}
	if c.Has(interaction.ChangeDraft) {
		s.Emit(EventDraftChanged, s.engine.Draft())
	}
	if c.Has(interaction.ChangeActive) {
		s.Emit(EventActiveChanged, s.engine.ActiveID())
	}
	if c.Has(interaction.ChangeAnnotations) {
		s.SetModified(true)
		s.Emit(EventAnnotationsChanged, s.engine.Annotations())
	}
}

// SetModified marks the annotations as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadImage loads the image to annotate. Annotations belong to an image,
// so any existing ones are cleared.
func (s *State) LoadImage(path string) error {
	layer, err := image.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.image = layer
	s.AnnotationsPath = ""
	s.mu.Unlock()

	s.engine.Restore(nil)
	s.SetModified(false)

	log.Printf("Loaded image %s (%dx%d %s)", path, layer.Width(), layer.Height(), layer.Format)
	s.Emit(EventImageLoaded, layer)
	return nil
}

// SaveAnnotations writes the committed annotations to path as JSON.
func (s *State) SaveAnnotations(path string) error {
	var buf bytes.Buffer
	if err := annotation.WriteJSON(&buf, s.engine.Annotations()); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write annotations: %w", err)
	}

	s.mu.Lock()
	s.AnnotationsPath = path
	s.mu.Unlock()
	s.SetModified(false)

	log.Printf("Saved %d annotations to %s", len(s.engine.Annotations()), path)
	s.Emit(EventAnnotationsSaved, path)
	return nil
}

// LoadAnnotations replaces the committed annotations with those in path.
func (s *State) LoadAnnotations(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open annotations: %w", err)
	}
	defer f.Close()

	list, err := annotation.ReadJSON(f)
	if err != nil {
		return err
	}

	n := s.engine.Restore(list)
	s.mu.Lock()
	s.AnnotationsPath = path
	s.mu.Unlock()
	s.SetModified(false)

	if dropped := len(list) - n; dropped > 0 {
		log.Printf("Skipped %d duplicate annotations in %s", dropped, path)
	}
	log.Printf("Loaded %d annotations from %s", n, path)
	s.Emit(EventAnnotationsLoaded, path)
	return nil
}

// DraftRegion crops the image under the current selection draft.
func (s *State) DraftRegion() (*goimage.RGBA, error) {
	draft := s.engine.Draft()
	if draft == nil {
		return nil, ErrNoSelectionDraft
	}
	sel, ok := draft.Selection()
	if !ok {
		return nil, ErrNoSelectionDraft
	}
	return s.Image().Crop(sel.Rect)
}

// SuggestDraftText runs rec over the selection draft's region and stores
// the result as the draft text. Existing text is replaced only when
// recognition produced something.
func (s *State) SuggestDraftText(rec TextRecognizer) (string, error) {
	region, err := s.DraftRegion()
	if err != nil {
		return "", err
	}
	text, err := rec.RecognizeImage(region)
	if err != nil {
		return "", fmt.Errorf("failed to recognize text: %w", err)
	}
	if text != "" {
		s.engine.SetDraftText(text)
	}
	log.Printf("Suggested text for %dx%d region: %q", region.Bounds().Dx(), region.Bounds().Dy(), text)
	return text, nil
}
