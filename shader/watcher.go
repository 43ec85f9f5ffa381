// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a Watcher waits after the last file event
// before revalidating. Editors often write a file in several steps.
const DefaultSettle = 50 * time.Millisecond

// Change reports files that changed on disk and the programs that were
// evicted because of them.
type Change struct {
	Files   []string
	Evicted []Identity
}

// Watcher watches the source files of a Cache's programs and revalidates
// the cache when they change.
type Watcher struct {
	cache  *Cache
	fw     *fsnotify.Watcher
	settle time.Duration

	mu    sync.Mutex
	dirs  map[string]bool
	files map[string]bool

	changes chan Change
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewWatcher creates a watcher for c and starts it. Call Sync after
// compiling to watch the files of the new programs.
func NewWatcher(c *Cache) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		cache:   c,
		fw:      fw,
		settle:  DefaultSettle,
		dirs:    make(map[string]bool),
		files:   make(map[string]bool),
		changes: make(chan Change, 16),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Sync starts watching every file the cache's programs depend on.
// Directories are watched rather than files so that editors which replace
// files by rename are still seen.
func (w *Watcher) Sync() error {
	files := w.cache.Files()

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range files {
		w.files[f] = true
		dir := filepath.Dir(f)
		if w.dirs[dir] {
			continue
		}
		if err := w.fw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	return nil
}

// Changes delivers one Change per settled burst of file events.
func (w *Watcher) Changes() <-chan Change { return w.changes }

// Close stops the watcher and closes the Changes channel.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fw.Close()
		w.wg.Wait()
		close(w.changes)
	})
	return err
}

func (w *Watcher) watched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[filepath.Clean(path)]
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.settle)
	timer.Stop()

	for {
		select {
		case <-w.done:
			timer.Stop()
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !w.watched(ev.Name) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(w.settle)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			slogger().Warn("shader: watcher error", "err", err)
		case <-timer.C:
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			clear(pending)
			slices.Sort(files)

			change := Change{Files: files, Evicted: w.cache.Revalidate()}
			slogger().Info("shader: files changed", "files", len(files), "evicted", len(change.Evicted))
			select {
			case w.changes <- change:
			case <-w.done:
				return
			}
		}
	}
}
