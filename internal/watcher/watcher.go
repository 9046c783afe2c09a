// Package watcher keeps the asset catalog in sync with the filesystem. It
// watches every registered asset folder and debounces change bursts into a
// single folder rescan.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cutroom/cutroom-agent/internal/catalog"
	"github.com/cutroom/cutroom-agent/internal/logging"
)

const (
	defaultDebounce = 2 * time.Second
	refreshInterval = 30 * time.Second
)

type Watcher struct {
	assets   catalog.Service
	logger   *slog.Logger
	debounce time.Duration

	fsw *fsnotify.Watcher

	// folder root path -> folder id, for mapping events back to a folder
	roots map[string]string

	// folder id -> time of last observed event, cleared after rescan
	dirty map[string]time.Time
}

func New(assets catalog.Service, logger *slog.Logger) *Watcher {
	return &Watcher{
		assets:   assets,
		logger:   logger,
		debounce: defaultDebounce,
		roots:    make(map[string]string),
		dirty:    make(map[string]time.Time),
	}
}

// Run watches registered asset folders until ctx is cancelled. The watch set
// is refreshed periodically so folders added over the API get picked up
// without a restart.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()
	w.fsw = fsw

	if err := w.refresh(ctx); err != nil {
		w.logger.Warn("initial watch setup failed", "error", err)
	}

	refresh := time.NewTicker(refreshInterval)
	defer refresh.Stop()

	flush := time.NewTicker(w.debounce / 2)
	defer flush.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-flush.C:
			w.flushDirty(ctx)

		case <-refresh.C:
			if err := w.refresh(ctx); err != nil {
				w.logger.Warn("watch refresh failed", "error", err)
			}
		}
	}
}

// refresh syncs the watch set with the folders registered in the catalog.
func (w *Watcher) refresh(ctx context.Context) error {
	folders, err := w.assets.GetFolders(ctx)
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(folders))
	for _, f := range folders {
		known[f.Path] = true
		if _, ok := w.roots[f.Path]; ok {
			continue
		}
		w.roots[f.Path] = f.ID
		if err := w.watchTree(f.Path); err != nil {
			w.logger.Warn("failed to watch folder", "path", f.Path, "error", err)
			continue
		}
		w.logger.Info("watching asset folder", "folder_id", f.ID, "path", logging.SanitizePath(f.Path))
	}

	for path := range w.roots {
		if !known[path] {
			delete(w.roots, path)
		}
	}
	return nil
}

// watchTree adds a watch for every directory under root. fsnotify watches are
// not recursive.
func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != root {
				return filepath.SkipDir
			}
			return w.fsw.Add(p)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}

	folderID := w.folderFor(event.Name)
	if folderID == "" {
		return
	}

	relevant := event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) ||
		catalog.IsVideoFile(filepath.Base(event.Name))

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watchTree(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			relevant = true
		}
	}

	if relevant {
		w.dirty[folderID] = time.Now()
	}
}

// folderFor maps an event path to the registered folder containing it.
func (w *Watcher) folderFor(path string) string {
	for root, id := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return id
		}
	}
	return ""
}

// flushDirty rescans every folder whose last event is older than the debounce
// window.
func (w *Watcher) flushDirty(ctx context.Context) {
	now := time.Now()
	for folderID, last := range w.dirty {
		if now.Sub(last) < w.debounce {
			continue
		}
		delete(w.dirty, folderID)

		imported, err := w.assets.ScanFolder(ctx, folderID)
		if err != nil {
			w.logger.Warn("rescan failed", "folder_id", folderID, "error", err)
			continue
		}
		w.logger.Info("folder rescanned", "folder_id", folderID, "imported", imported)
	}
}
