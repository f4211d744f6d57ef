package library

import (
	"context"
	"sort"

	"github.com/fsnotify/fsnotify"

	"promptforge/internal/artifact"
	"promptforge/internal/config"
)

// Watcher keeps the artifact store in sync with the library directory.
// Deleted files are left alone: removing an artifact is a deliberate store
// operation, not a side effect of moving a file.
type Watcher struct {
	cfg       config.WatcherConfig
	store     artifact.Store
	dir       string
	fsWatcher *fsnotify.Watcher
	debounce  *debouncer
	cancel    context.CancelFunc
}

func NewWatcher(cfg config.WatcherConfig, store artifact.Store, dir string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:       cfg,
		store:     store,
		dir:       dir,
		fsWatcher: fsWatcher,
	}
	w.debounce = newDebouncer(cfg.DebounceWindow, cfg.MaxBatchSize, w.onFlush)
	return w, nil
}

func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return err
	}

	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx)

	log.Info("watching library", "dir", w.dir)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !isArtifactFile(event.Name) || ignored(event.Name, w.cfg.IgnorePatterns) {
				continue
			}
			w.debounce.Add(event.Name)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) onFlush(paths []string) {
	sort.Strings(paths)
	for _, path := range paths {
		if err := SyncFile(context.Background(), w.store, path); err != nil {
			log.Error("reload failed", "path", path, "error", err)
			continue
		}
		log.Info("artifact reloaded", "path", path)
	}
}

func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	w.debounce.Stop()
	return w.fsWatcher.Close()
}
