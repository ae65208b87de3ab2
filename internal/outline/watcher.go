package outline

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"emberlog/internal/event"
)

// Watcher republishes the parsed tree whenever the outline file changes on
// disk, so external edits (the file is hand-editable) reach connected
// clients. It watches the containing directory because editors commonly
// replace the file rather than write it in place.
type Watcher struct {
	store  *Store
	bus    *event.Bus
	logger *log.Logger
}

func NewWatcher(store *Store, bus *event.Bus, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{store: store, bus: bus, logger: logger}
}

// Run blocks until the context is cancelled. A watcher setup failure is
// logged and Run returns; the service keeps working without change
// notifications.
func (w *Watcher) Run(ctx context.Context) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Printf(`{"level":"warn","msg":"outline_watch_unavailable","error":%q}`, err.Error())
		return
	}
	defer fw.Close()

	dir := filepath.Dir(w.store.Path())
	if err := fw.Add(dir); err != nil {
		w.logger.Printf(`{"level":"warn","msg":"outline_watch_unavailable","error":%q}`, err.Error())
		return
	}

	base := filepath.Base(w.store.Path())
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			sections, err := w.store.Load()
			if err != nil {
				w.logger.Printf(`{"level":"warn","msg":"outline_reload_failed","error":%q}`, err.Error())
				continue
			}
			if w.bus != nil {
				w.bus.Publish(event.TypeFileChanged, sections)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Printf(`{"level":"warn","msg":"outline_watch_error","error":%q}`, err.Error())
		}
	}
}
