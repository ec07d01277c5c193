package config

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/retrace/internal/debounce"
	"github.com/dshills/retrace/internal/logging"
)

// DefaultReloadDelay coalesces the burst of events an editor save produces.
const DefaultReloadDelay = 100 * time.Millisecond

// ReloadFunc receives the configuration after each change to the watched
// file. err is non-nil if the new file failed to load; cfg is then the zero
// Config and the previous configuration should stay in effect.
type ReloadFunc func(cfg Config, err error)

// Watcher reloads a configuration file when it changes on disk.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	reload  *debounce.Debouncer
	onLoad  ReloadFunc
	logger  *slog.Logger
	closeCh chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// WatchOption configures a Watcher.
type WatchOption func(*watchConfig)

type watchConfig struct {
	delay  time.Duration
	logger *slog.Logger
	opts   []debounce.Option
}

// WithReloadDelay sets how long the file must be quiet before reloading.
func WithReloadDelay(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithWatchLogger sets the logger for watch errors.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithReloadOptions passes options to the reload debouncer.
func WithReloadOptions(opts ...debounce.Option) WatchOption {
	return func(c *watchConfig) {
		c.opts = append(c.opts, opts...)
	}
}

// Watch starts watching path and calls fn with the reloaded configuration
// after each change. The parent directory is watched so that atomic saves
// (write to temp file, rename over the original) are seen.
func Watch(path string, fn ReloadFunc, opts ...WatchOption) (*Watcher, error) {
	cfg := watchConfig{
		delay:  DefaultReloadDelay,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    absPath,
		fsw:     fsw,
		onLoad:  fn,
		logger:  cfg.logger.With("component", "config-watcher", "path", absPath),
		closeCh: make(chan struct{}),
	}
	w.reload = debounce.NewDebouncer(cfg.delay, w.load, cfg.opts...)

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
		w.wg.Wait()
		w.reload.Cancel()
	})
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload.Call()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch error", "error", err)
				continue
			}
			// Events were lost; reload to be safe.
			w.reload.Call()
		}
	}
}

func (w *Watcher) load() {
	select {
	case <-w.closeCh:
		return
	default:
	}

	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", "error", err)
		w.onLoad(Config{}, err)
		return
	}
	w.logger.Debug("config reloaded")
	w.onLoad(cfg, nil)
}
