package profile

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phanxgames/motion"
	"go.uber.org/zap"
)

// Watcher reloads a profile file whenever it changes on disk. Editors often
// save by rename, so the parent directory is watched and events are
// filtered by name.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	path     string
	logger   *zap.Logger
	onLoad   func(*Profile)
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
	reloads  int
}

// NewWatcher creates a watcher for path. onLoad runs on the watcher's
// goroutine with every successfully reloaded profile.
func NewWatcher(path string, logger *zap.Logger, onLoad func(*Profile)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch profile: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch profile: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		fsw:      fsw,
		path:     filepath.Clean(abs),
		logger:   logger,
		onLoad:   onLoad,
		debounce: 100 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if w.stopped {
		return fmt.Errorf("watch profile: watcher stopped")
	}
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch profile: %w", err)
	}
	w.running = true
	go w.run(ctx)
	w.logger.Debug("watching profile", zap.String("path", w.path))
	return nil
}

// Stop ends the watch and waits for the event loop to exit. Safe to call
// more than once, and without Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	wasRunning := w.running
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	if wasRunning {
		<-w.doneCh
	}
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("close profile watcher", zap.Error(err))
	}
}

// Reloads returns how many reloads have been delivered.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("profile watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	p, err := Load(w.path)
	if err != nil {
		w.logger.Warn("profile reload failed, keeping previous", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("profile reloaded", zap.String("path", w.path))
	if w.onLoad != nil {
		w.onLoad(p)
	}
	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
}

// WatchBindings hot-reloads the binding curves of scene from path. The
// watcher is stopped when the scene unmounts.
func WatchBindings(ctx context.Context, scene *motion.Scene, path string) (*Watcher, error) {
	w, err := NewWatcher(path, scene.Logger(), func(p *Profile) {
		bs, err := p.ResolveBindings()
		if err != nil {
			scene.Logger().Warn("reloaded bindings rejected", zap.Error(err))
			return
		}
		scene.ReplaceBindings(bs)
	})
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	scene.Defer(w.Stop)
	return w, nil
}
