package definitions

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/logger"
	"github.com/teranos/unitx/units"
)

// ReloadCallback is called with the new registry after a successful reload
type ReloadCallback func(*units.Registry) error

// Watcher reloads a Catalog when one of its definitions files changes.
// Rapid writes are debounced and reloads are rate limited, so an editor saving in a
// loop cannot keep the process rebuilding.
type Watcher struct {
	catalog *Catalog
	watcher *fsnotify.Watcher
	files   map[string]bool
	log     *zap.SugaredLogger

	mu             sync.RWMutex
	callbacks      []ReloadCallback
	onError        []func(error)
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	limiter        *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for writes to settle. Default 500ms.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debouncePeriod = d }
}

// WithReloadRate limits reloads to limit per second with the given burst. Default one
// reload per second.
func WithReloadRate(limit rate.Limit, burst int) WatcherOption {
	return func(w *Watcher) { w.limiter = rate.NewLimiter(limit, burst) }
}

// WithWatcherLogger sets the logger
func WithWatcherLogger(log *zap.SugaredLogger) WatcherOption {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWatcher watches every definitions file of catalog. The containing directories are
// watched rather than the files, so replace-on-save editors are noticed too.
func NewWatcher(catalog *Catalog, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		catalog:        catalog,
		watcher:        fw,
		files:          make(map[string]bool),
		log:            zap.NewNop().Sugar(),
		debouncePeriod: 500 * time.Millisecond,
		limiter:        rate.NewLimiter(rate.Limit(1), 1),
		ctx:            ctx,
		cancel:         cancel,
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]bool)
	for _, path := range catalog.Paths() {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		w.files[filepath.Clean(abs)] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			cancel()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return w, nil
}

// OnReload registers a callback for successful reloads
func (w *Watcher) OnReload(callback ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// OnError registers a callback for rejected reloads
func (w *Watcher) OnError(callback func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = append(w.onError, callback)
}

// Start begins watching in a background goroutine
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.watchLoop()
}

// Stop stops watching and waits for the loop to exit. A pending reload is dropped.
func (w *Watcher) Stop() error {
	w.cancel()
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debugw("Definitions file changed",
				logger.FieldPath, event.Name,
				"op", event.Op.String(),
			)
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("Definitions watcher error", logger.FieldError, err)
		}
	}
}

// scheduleReload debounces rapid file changes
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.reload)
}

func (w *Watcher) reload() {
	if err := w.limiter.Wait(w.ctx); err != nil {
		// stopped while waiting
		return
	}

	start := time.Now()
	if err := w.catalog.Reload(); err != nil {
		w.log.Errorw("Definitions reload failed", logger.FieldError, err)
		w.mu.RLock()
		handlers := append([]func(error){}, w.onError...)
		w.mu.RUnlock()
		for _, h := range handlers {
			h(err)
		}
		return
	}

	reg := w.catalog.Registry()
	w.log.Infow("Definitions reloaded",
		logger.FieldUnits, reg.Len(),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)

	w.mu.RLock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(reg); err != nil {
			// keep calling the rest
			w.log.Warnw("Reload callback error", logger.FieldError, err)
		}
	}
}
