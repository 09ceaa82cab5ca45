package devserver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitekiln/internal/logfields"
)

const debounceDelay = 300 * time.Millisecond

// watcher reports source changes after a quiet period.
type watcher struct {
	fs     *fsnotify.Watcher
	logger *slog.Logger
	notify func()
	done   chan struct{}
	wg     sync.WaitGroup
}

// watch observes every directory below roots. Missing roots are skipped.
func watch(roots []string, delay time.Duration, logger *slog.Logger, onChange func()) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &watcher{
		fs:     fw,
		logger: logger,
		notify: debounce(delay, onChange),
		done:   make(chan struct{}),
	}
	for _, root := range roots {
		if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
			continue
		}
		if err := addDirsRecursive(fw, root, logger); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(w.fs, ev.Name, w.logger)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.notify()
}

// Close stops the watcher and waits for the event loop to exit.
func (w *watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

// debounce returns a trigger that runs fn once no trigger arrived for delay.
func debounce(delay time.Duration, fn func()) func() {
	var mu sync.Mutex
	var timer *time.Timer
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, fn)
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldIgnoreEvent(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent reports hidden files, editor swap files and OS metadata.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db", base == "4913":
		return true
	}
	return false
}
