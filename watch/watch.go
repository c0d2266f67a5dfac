// Package watch reports changes below a site root, debounced.
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
	"github.com/pkg/errors"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

type Options struct {
	Debounce time.Duration
	// SkipDirs are directory names never watched, such as the build output.
	SkipDirs []string
	Logger   *slog.Logger
}

// Run watches root recursively and calls onChange once a burst of changes
// settles. Calls to onChange never overlap. Run blocks until ctx is done.
func Run(ctx context.Context, root string, opts Options, onChange func()) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	skip := map[string]bool{"node_modules": true}
	for _, d := range opts.SkipDirs {
		skip[d] = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "fsnotify")
	}
	defer watcher.Close()
	if err := addDirsRecursive(watcher, root, skip, opts.Logger); err != nil {
		return err
	}

	var mu sync.Mutex
	var timer *time.Timer
	changed := make(chan struct{}, 1)
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(opts.Debounce, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	opts.Logger.Info("Watching for changes", "root", root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ShouldIgnore(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !skip[fi.Name()] {
					_ = addDirsRecursive(watcher, ev.Name, skip, opts.Logger)
				}
			}
			opts.Logger.Debug("File change detected", "path", ev.Name, "op", ev.Op.String())
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("Watcher error", "error", err)
		case <-changed:
			onChange()
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string, skip map[string]bool, logger *slog.Logger) error {
	if _, err := os.Stat(root); err != nil {
		return errors.WithStack(err)
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != root && (skip[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			logger.Warn("Watch add failed", "dir", p, "error", err)
		}
		return nil
	})
}

// ShouldIgnore reports whether a change to path is noise: hidden files,
// editor swap and backup files, and OS metadata.
func ShouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db", base == "4913":
		return true
	}
	return false
}
