// Package watch reports settled changes to a catalog definition file.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

// DefaultDebounce is the quiet period a file must observe before a change is
// reported.
const DefaultDebounce = 250 * time.Millisecond

// Stats counts watcher activity.
type Stats struct {
	Events        int
	Notifications int
	Errors        int
	LastEvent     time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l logr.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// Watcher calls onChange once a watched file has stopped changing for the
// debounce period. The parent directory is watched so editors that save by
// rename are still seen. onChange runs on the watcher goroutine and must not
// touch the catalog directly; hand the change to the owner instead.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	path     string
	onChange func()
	log      logr.Logger
	debounce time.Duration
	pending  time.Time // zero when nothing is pending
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	closed   sync.Once
	stats    Stats
}

// New creates a Watcher for path. Call Start to begin watching.
func New(path string, onChange func(), opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:       fs,
		path:     filepath.Clean(abs),
		onChange: onChange,
		log:      logr.Discard(),
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Start begins watching. It is non-blocking; the event loop runs until ctx is
// cancelled or Stop is called. A Watcher whose Start failed is closed and
// cannot be started again.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fs.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.closeFS()
		return err
	}
	w.log.V(1).Info("watching catalog file", "path", w.path)

	go w.run(ctx)
	return nil
}

// Stop ends the event loop, waits for it, and releases the fsnotify watcher.
// It is safe to call more than once, and after the context was cancelled.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
	w.mu.Unlock()

	if wasRunning {
		<-w.doneCh
	}
	w.closeFS()
}

// closeFS releases the fsnotify watcher once. A failed Start closes it too,
// so a Watcher that could not start holds no descriptors.
func (w *Watcher) closeFS() {
	w.closed.Do(func() {
		if err := w.fs.Close(); err != nil {
			w.log.Error(err, "closing watcher")
		}
	})
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.V(1).Info("watcher context cancelled")
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Error(err, "watcher error")
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case now := <-ticker.C:
			w.flush(now)
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
	w.stats.Events++
	w.stats.LastEvent = time.Now()
	w.pending = w.stats.LastEvent
	w.mu.Unlock()
	w.log.V(2).Info("catalog file event", "op", event.Op.String())
}

func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	if w.pending.IsZero() || now.Sub(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.stats.Notifications++
	w.mu.Unlock()

	w.log.V(1).Info("catalog file changed", "path", w.path)
	if w.onChange != nil {
		w.onChange()
	}
}
