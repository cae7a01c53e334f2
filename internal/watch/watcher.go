// Package watch keeps per-document caches honest while a vault changes on disk:
// a filesystem watcher drops entries for edited notes and a periodic sweeper
// evicts whatever the watcher missed.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/logfields"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

// InvalidateFunc drops cached state for one document.
type InvalidateFunc func(key vault.DocumentKey)

// Watcher monitors a vault directory tree and invalidates changed documents
// after a quiet period.
type Watcher struct {
	vault     *vault.FSVault
	watcher   *fsnotify.Watcher
	targets   []InvalidateFunc
	debounce  time.Duration
	logger    *slog.Logger
	sessionID string

	mu       sync.Mutex
	pending  map[vault.DocumentKey]struct{}
	timer    *time.Timer
	stopChan chan struct{}
	stopped  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before invalidations are flushed. Zero
// flushes on every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// OnInvalidate adds a callback run for every changed document.
func OnInvalidate(fn InvalidateFunc) Option {
	return func(w *Watcher) { w.targets = append(w.targets, fn) }
}

// NewWatcher creates a watcher for v. Nothing is watched until Start.
func NewWatcher(v *vault.FSVault, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.FileSystemError("failed to create file watcher").WithCause(err).Build()
	}

	w := &Watcher{
		vault:     v,
		watcher:   fw,
		debounce:  250 * time.Millisecond,
		logger:    slog.Default(),
		sessionID: uuid.NewString(),
		pending:   make(map[vault.DocumentKey]struct{}),
		stopChan:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(logfields.SessionID(w.sessionID))
	return w, nil
}

// SessionID identifies this watch session in logs.
func (w *Watcher) SessionID() string { return w.sessionID }

// Start watches every non-hidden directory of the vault and processes events
// until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	err := filepath.WalkDir(w.vault.Root(), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.vault.Root() && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
	if err != nil {
		return errors.FileSystemError("failed to watch vault").WithCause(err).
			WithContext("root", w.vault.Root()).
			Build()
	}

	w.logger.Info("Starting vault watcher", logfields.Path(w.vault.Root()))
	go w.watchLoop(ctx)
	return nil
}

// Stop ends event processing and flushes pending invalidations.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopChan)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.flush()
	w.logger.Info("Stopping vault watcher")
	return w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
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
			w.logger.Error("Vault watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	rel, ok := w.vault.Rel(event.Name)
	if !ok {
		return
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(event.Name), ".") {
				if err := w.watcher.Add(event.Name); err != nil {
					w.logger.Warn("Failed to watch new directory", logfields.Path(rel), logfields.Error(err))
				}
			}
			return
		}
	}
	if !vault.IsDocument(event.Name) {
		return
	}

	w.logger.Debug("Document changed", logfields.Path(rel), slog.String("op", event.Op.String()))
	w.enqueue(vault.Key(rel))
}

func (w *Watcher) enqueue(key vault.DocumentKey) {
	w.mu.Lock()
	w.pending[key] = struct{}{}
	if w.debounce <= 0 {
		w.mu.Unlock()
		w.flush()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	keys := w.pending
	w.pending = make(map[vault.DocumentKey]struct{})
	w.mu.Unlock()

	for key := range keys {
		for _, fn := range w.targets {
			fn(key)
		}
	}
	if len(keys) > 0 {
		w.logger.Info("Invalidated changed documents", logfields.Count(len(keys)))
	}
}
