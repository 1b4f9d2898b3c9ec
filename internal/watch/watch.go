// Package watch re-analyzes a resolution file every time it is saved.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/straja-ai/resocheck/internal/analyzer"
)

// Update is delivered after every (debounced) change to the watched file.
type Update struct {
	Path   string
	Text   string
	Result analyzer.Result
}

// Watcher follows a single file.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
	fsw      *fsnotify.Watcher
}

// New creates a Watcher for path. The parent directory is watched so that
// editors that replace the file on save are still followed.
func New(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, debounce: debounce, logger: logger, fsw: fsw}, nil
}

// Run analyzes the file once, then again after each change, until ctx is
// cancelled. The underlying watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, fn func(Update)) error {
	defer w.fsw.Close()

	w.emit(fn)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.String("path", w.path), zap.Error(err))
		case <-timer.C:
			w.emit(fn)
		}
	}
}

func (w *Watcher) emit(fn func(Update)) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Debug("watch: file not readable", zap.String("path", w.path), zap.Error(err))
		return
	}
	text := string(data)
	fn(Update{Path: w.path, Text: text, Result: analyzer.Analyze(text)})
}
