package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a burst of file events must settle before a
// rebuild. Editors often write a file in several steps.
const watchDebounce = 200 * time.Millisecond

// watchFile calls rebuild after each settled change to path until ctx is
// done. The parent directory is watched rather than the file itself so that
// editors which save by renaming a temp file over the original keep
// triggering rebuilds. Rebuild errors are printed and watching continues.
func watchFile(ctx context.Context, path string, debounce time.Duration, rebuild func(context.Context) error) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	printInfo("Watching %s for changes (Ctrl+C to stop)", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !triggersRebuild(event, target) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning("watch error: %v", err)

		case <-timer.C:
			if err := rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				printError("%v", err)
			}
		}
	}
}

// triggersRebuild reports whether event changes the watched file's content.
func triggersRebuild(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
