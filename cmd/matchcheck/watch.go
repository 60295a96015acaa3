package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"digital.vasic.matchers/pkg/logging"
)

// watchDebounce collapses the burst of events editors emit for
// one save.
const watchDebounce = 200 * time.Millisecond

// watchSuites calls rerun after every change to a suite file
// under paths until ctx is done. rerun runs on the calling
// goroutine.
func watchSuites(
	ctx context.Context,
	paths []string,
	out io.Writer,
	logger logging.Logger,
	rerun func(),
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool)
	watch := func(dir string) {
		if watched[dir] {
			return
		}
		watched[dir] = true
		if err := watcher.Add(dir); err != nil {
			logger.Warn("failed to watch directory",
				logging.StringField("dir", dir), logging.ErrorField(err))
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			watch(filepath.Dir(p))
			continue
		}
		_ = filepath.WalkDir(p, func(sub string, d fs.DirEntry, err error) error {
			if err == nil && d.IsDir() {
				watch(sub)
			}
			return nil
		})
	}

	fmt.Fprintln(out, "\nWatching for changes... (press Ctrl+C to stop)")

	changed := make(chan string, 1)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSuiteFile(event.Name) || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			name := event.Name
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case changed <- name:
				default:
				}
			})
		case name := <-changed:
			fmt.Fprintf(out, "\nFile changed: %s\nRe-running suites...\n\n", name)
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", logging.ErrorField(err))
		}
	}
}
