package app

import (
	"os"
	"sync"
	"time"
)

// FileWatcher polls a file and calls back once when its modification time
// moves past the baseline, e.g. when another tool rewrites the annotations
// file that is open in the editor.
type FileWatcher struct {
	mu       sync.Mutex
	path     string
	baseline time.Time
	interval time.Duration
	stopCh   chan struct{}
	onChange func(path string) // called from the polling goroutine
}

// NewFileWatcher creates a watcher for path with the current modification
// time as baseline. Returns nil if the file cannot be stat'ed.
func NewFileWatcher(path string, interval time.Duration) *FileWatcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &FileWatcher{
		path:     path,
		baseline: info.ModTime(),
		interval: interval,
	}
}

// OnChange sets the callback. Use fyne.Do or equivalent before touching UI.
func (w *FileWatcher) OnChange(callback func(path string)) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Start begins polling in a background goroutine.
func (w *FileWatcher) Start() {
	w.mu.Lock()
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()
	go w.loop(stop)
}

// Stop ends polling. Safe to call more than once.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

// ResetBaseline accepts the file's current state, e.g. after the editor
// saved it itself or the user declined to reload.
func (w *FileWatcher) ResetBaseline() {
	if info, err := os.Stat(w.path); err == nil {
		w.mu.Lock()
		w.baseline = info.ModTime()
		w.mu.Unlock()
	}
}

func (w *FileWatcher) loop(stop chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !w.Changed() {
				continue
			}
			w.mu.Lock()
			cb := w.onChange
			w.mu.Unlock()
			if cb != nil {
				cb(w.path)
			}
			// Only trigger once; ResetBaseline and Start again to resume.
			return
		}
	}
}

// Changed reports whether the file was modified after the baseline.
func (w *FileWatcher) Changed() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return info.ModTime().After(w.baseline)
}
