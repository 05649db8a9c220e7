package handlers

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"staticd/content"
)

// WatchMimeTable invalidates the cached classifier whenever the rule table
// changes on disk. The watch is placed on the table's parent directory, not
// the file itself, so the common editor/package-manager pattern of writing a
// temp file and renaming it over the table is still caught.
//
// It returns immediately; event processing runs in a background goroutine.
// The returned stop function closes the watcher and ends the goroutine. A
// startup failure is not fatal: the cache's own per-call stat check still
// detects rewrites, just without the rename coverage.
func WatchMimeTable(tablePath string, cc *content.CachedClassifier) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	table := filepath.Clean(tablePath)
	if err := w.Add(filepath.Dir(table)); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		defer w.Close()
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != table {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					log.Printf("watcher: mime table changed (%s), dropping cached rules", event.Op)
					cc.Invalidate()
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("watcher: %v", err)
			}
		}
	}()

	return func() { _ = w.Close() }, nil
}
