package persist

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultSettleDelay is how long a write must be quiet before the change
// callback fires. External writers may rewrite the file in several chunks.
const defaultSettleDelay = 250 * time.Millisecond

// Watcher monitors the library file for external changes and invokes a
// callback once writes have settled. It lets a session pick up edits made
// by another process without restarting.
type Watcher struct {
	path     string
	logger   *slog.Logger
	onChange func()
	settle   time.Duration

	watcher *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher creates a watcher for the given library file.
// onChange runs on the watcher goroutine after each settled change.
func NewWatcher(path string, logger *slog.Logger, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     filepath.Clean(path),
		logger:   logger,
		onChange: onChange,
		settle:   defaultSettleDelay,
		watcher:  fw,
		done:     make(chan struct{}),
	}, nil
}

// SetSettle overrides the quiet period before the change callback fires.
// Must be called before Start. Non-positive values are ignored.
func (w *Watcher) SetSettle(d time.Duration) {
	if d > 0 {
		w.settle = d
	}
}

// Start begins watching. The library file is watched through its parent
// directory so atomic rename-into-place writes are seen.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.wg.Add(1)
	go w.processEvents(ctx)

	w.logger.Debug("watching library file", "path", w.path)
	return nil
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Restart the settle timer on every event.
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settle, func() {
		w.logger.Info("library file changed externally", "path", w.path)
		w.onChange()
	})
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() error {
	close(w.done)

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
