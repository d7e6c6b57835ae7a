package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"sigtype/internal/trace"
)

// DefaultDebounce is how long Watch waits for a burst of file events to
// settle before it rescans.
const DefaultDebounce = 200 * time.Millisecond

// WatchFunc receives every scan made by Watch, the initial one included.
type WatchFunc func(res *ScanResult, err error)

// Watch scans paths, then rescans whenever a matching file under them is
// created, written, removed or renamed. It returns nil once ctx is done.
func Watch(ctx context.Context, paths []string, opts Options, debounce time.Duration, onScan WatchFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	named := make(map[string]struct{})
	for _, p := range paths {
		info, err := os.Stat(p)
		switch {
		case err != nil:
			// путь может появиться позже, следим за родителем
			named[filepath.Clean(p)] = struct{}{}
			err = w.Add(filepath.Dir(p))
		case info.IsDir():
			err = watchTree(w, p, opts.Exclude)
		default:
			named[filepath.Clean(p)] = struct{}{}
			err = w.Add(filepath.Dir(p))
		}
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}

	rescan := func(reason string) {
		trace.Point(opts.tracer(), trace.ScopeDriver, "watch", reason, opts.Parser.TraceParent)
		onScan(ScanPaths(ctx, paths, opts))
	}
	rescan("initial scan")

	timer := time.NewTimer(debounce)
	timer.Stop()
	var pending string
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watchTree(w, ev.Name, opts.Exclude)
					continue
				}
			}
			_, isNamed := named[filepath.Clean(ev.Name)]
			if !isNamed && !hasExtension(ev.Name, opts.Extensions) {
				continue
			}
			pending = ev.String()
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-timer.C:
			if ctx.Err() != nil {
				return nil
			}
			rescan(pending)
		}
	}
}

// watchTree adds root and every directory below it that is not excluded.
func watchTree(w *fsnotify.Watcher, root string, exclude []string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if path != root {
			if rel, relErr := filepath.Rel(root, path); relErr == nil && excluded(filepath.ToSlash(rel), exclude) {
				return filepath.SkipDir
			}
		}
		return w.Add(path)
	})
}
