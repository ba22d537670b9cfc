package manifest

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher re-runs a callback whenever one of the watched manifest files
// changes on disk. Editors save in bursts, so events for the same file are
// debounced before the callback fires.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	paths    map[string]bool // watched files, absolute
	lastSeen map[string]time.Time
	debounce time.Duration
	onChange func(path string)
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher delivering change events to onChange.
func NewWatcher(logger *zap.Logger, onChange func(path string)) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		logger:   logger,
		paths:    make(map[string]bool),
		lastSeen: make(map[string]time.Time),
		debounce: 500 * time.Millisecond,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Add registers a manifest file. The containing directory is watched, not
// the file itself, so saves that replace the file keep working.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.paths[abs] = true
	w.mu.Unlock()
	return w.watcher.Add(filepath.Dir(abs))
}

// Start begins delivering events until the context is cancelled or Stop is
// called. Non-blocking.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
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
			w.logger.Warn("manifest watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	watched := w.paths[abs]
	now := time.Now()
	recent := now.Sub(w.lastSeen[abs]) < w.debounce
	if watched && !recent {
		w.lastSeen[abs] = now
	}
	w.mu.Unlock()

	if !watched || recent {
		return
	}
	w.logger.Debug("manifest changed", zap.String("path", abs), zap.String("op", event.Op.String()))
	w.onChange(abs)
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	err := w.watcher.Close()
	<-w.doneCh
	return err
}
